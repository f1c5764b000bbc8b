//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var flightNumberPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{3,4}$`)

// FlightStatus is the lifecycle state of a flight.
type FlightStatus string

const (
	FlightScheduled FlightStatus = "SCHEDULED"
	FlightBoarding  FlightStatus = "BOARDING"
	FlightDeparted  FlightStatus = "DEPARTED"
	FlightArrived   FlightStatus = "ARRIVED"
	FlightCancelled FlightStatus = "CANCELLED"
	FlightDelayed   FlightStatus = "DELAYED"
)

// FlightStatuses lists every status in display order.
var FlightStatuses = []FlightStatus{
	FlightScheduled, FlightBoarding, FlightDeparted, FlightArrived, FlightCancelled, FlightDelayed,
}

// Valid reports whether the status is known.
func (s FlightStatus) Valid() bool {
	switch s {
	case FlightScheduled, FlightBoarding, FlightDeparted, FlightArrived, FlightCancelled, FlightDelayed:
		return true
	default:
		return false
	}
}

// ParseFlightStatus normalizes value and reports whether it is a known status.
func ParseFlightStatus(value string) (FlightStatus, bool) {
	s := FlightStatus(strings.ToUpper(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Flight is a scheduled trip between two airports with denormalized airport labels.
type Flight struct {
	ID                     int64        `json:"id"`
	FlightNumber           string       `json:"flightNumber"`
	SourceAirportID        int64        `json:"sourceAirportId"`
	SourceAirportCode      string       `json:"sourceAirportCode"`
	SourceAirportName      string       `json:"sourceAirportName"`
	DestinationAirportID   int64        `json:"destinationAirportId"`
	DestinationAirportCode string       `json:"destinationAirportCode"`
	DestinationAirportName string       `json:"destinationAirportName"`
	DepartureTime          LocalTime    `json:"departureTime"`
	ArrivalTime            LocalTime    `json:"arrivalTime"`
	SeatsAvailable         int          `json:"seatsAvailable"`
	Price                  float64      `json:"price"`
	Status                 FlightStatus `json:"status"`
	CreatedAt              LocalTime    `json:"createdAt"`
	UpdatedAt              LocalTime    `json:"updatedAt"`
}

// IsBookable reports whether seats can currently be booked on f.
func (f Flight) IsBookable() bool {
	return f.Status == FlightScheduled && f.SeatsAvailable > 0
}

// FlightInput carries the editable fields of a flight form.
// ID is zero for creation; Status is only sent on update.
type FlightInput struct {
	ID                   int64
	FlightNumber         string
	SourceAirportID      int64
	DestinationAirportID int64
	DepartureTime        string
	ArrivalTime          string
	SeatsAvailable       int
	Price                float64
	Status               FlightStatus
}

// Validate checks required fields and value ranges.
func (in *FlightInput) Validate() error {
	in.FlightNumber = strings.ToUpper(strings.TrimSpace(in.FlightNumber))
	if !flightNumberPattern.MatchString(in.FlightNumber) {
		return errors.New("flight number must be 2 letters followed by 3 or 4 digits")
	}
	if in.SourceAirportID <= 0 || in.DestinationAirportID <= 0 {
		return errors.New("source and destination airports are required")
	}
	if in.SourceAirportID == in.DestinationAirportID {
		return errors.New("source and destination airports must differ")
	}
	dep, err := ParseLocalTime(in.DepartureTime)
	if err != nil {
		return errors.New("departure time is invalid")
	}
	arr, err := ParseLocalTime(in.ArrivalTime)
	if err != nil {
		return errors.New("arrival time is invalid")
	}
	if !arr.After(dep.Time) {
		return errors.New("arrival time must be after departure time")
	}
	if in.SeatsAvailable <= 0 {
		return errors.New("seats available must be greater than 0")
	}
	if in.Price <= 0 {
		return errors.New("price must be greater than 0")
	}
	if in.Status != "" && !in.Status.Valid() {
		return errors.New("invalid flight status")
	}
	return nil
}

// FlightCriteria filters a flight search. Empty fields are not sent.
type FlightCriteria struct {
	From string
	To   string
	Date string
}

// Normalize trims the criteria and upper-cases airport codes.
func (c FlightCriteria) Normalize() FlightCriteria {
	return FlightCriteria{
		From: strings.ToUpper(strings.TrimSpace(c.From)),
		To:   strings.ToUpper(strings.TrimSpace(c.To)),
		Date: strings.TrimSpace(c.Date),
	}
}

// IsEmpty reports whether no criterion is set.
func (c FlightCriteria) IsEmpty() bool {
	n := c.Normalize()
	return n.From == "" && n.To == "" && n.Date == ""
}

// Query encodes the normalized criteria as from/to/date, omitting blank ones.
func (c FlightCriteria) Query() url.Values {
	c = c.Normalize()
	q := url.Values{}
	if c.From != "" {
		q.Set("from", c.From)
	}
	if c.To != "" {
		q.Set("to", c.To)
	}
	if c.Date != "" {
		q.Set("date", c.Date)
	}
	return q
}
