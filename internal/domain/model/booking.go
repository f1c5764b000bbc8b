//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// Booking is a reservation of seats on a flight.
type Booking struct {
	ID                     int64         `json:"id"`
	UserID                 int64         `json:"userId"`
	FlightID               int64         `json:"flightId"`
	SeatsBooked            int           `json:"seatsBooked"`
	TotalPrice             float64       `json:"totalPrice"`
	Status                 BookingStatus `json:"status"`
	BookingDate            LocalTime     `json:"bookingDate"`
	Username               string        `json:"username"`
	FlightNumber           string        `json:"flightNumber"`
	SourceAirportCode      string        `json:"sourceAirportCode"`
	DestinationAirportCode string        `json:"destinationAirportCode"`
	DepartureTime          LocalTime     `json:"departureTime"`
}

// Cancellable reports whether the booking can still be cancelled.
func (b Booking) Cancellable() bool {
	return b.Status == BookingConfirmed
}

// BookingDraft is an in-progress booking for a single flight.
type BookingDraft struct {
	FlightID    int64
	SeatsBooked int
	UnitPrice   float64
}

// NewBookingDraft builds a draft from raw seat input. Unparsable or negative
// input counts as zero seats.
func NewBookingDraft(flightID int64, seats string, unitPrice float64) BookingDraft {
	return BookingDraft{FlightID: flightID, SeatsBooked: ParseSeats(seats), UnitPrice: unitPrice}
}

// Total is the display price for the draft.
func (d BookingDraft) Total() float64 {
	if d.SeatsBooked <= 0 {
		return 0
	}
	return float64(d.SeatsBooked) * d.UnitPrice
}

// ParseSeats parses a seat count leniently: leading digits are honoured and
// anything unparsable yields 0.
func ParseSeats(raw string) int {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0
	}
	return n
}

// FormatCurrency renders an amount as dollars with two decimals.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
