//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"regexp"
	"strings"
)

var airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Airport is a location flights depart from and arrive at.
type Airport struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	CreatedAt LocalTime `json:"createdAt"`
	UpdatedAt LocalTime `json:"updatedAt"`
}

// AirportInput carries the editable fields of an airport form.
// ID is zero for creation.
type AirportInput struct {
	ID      int64
	Code    string
	Name    string
	City    string
	Country string
}

// Normalize trims every field and upper-cases the code.
func (in *AirportInput) Normalize() {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
}

// Validate checks required fields and the IATA code format.
func (in *AirportInput) Validate() error {
	in.Normalize()
	if in.Name == "" || in.Code == "" || in.City == "" || in.Country == "" {
		return errors.New("all fields are required")
	}
	if !airportCodePattern.MatchString(in.Code) {
		return errors.New("airport code must be exactly 3 uppercase letters")
	}
	return nil
}

// ValidAirportCode reports whether code is a 3-letter IATA code.
func ValidAirportCode(code string) bool {
	return airportCodePattern.MatchString(code)
}
