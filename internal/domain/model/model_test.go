package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocalTime(t *testing.T) {
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	for _, in := range []string{"2024-01-15T10:30:00", "2024-01-15T10:30", "2024-01-15 10:30:00", "2024-01-15T10:30:00Z"} {
		got, err := ParseLocalTime(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got.Time), in)
	}

	_, err := ParseLocalTime("15/01/2024")
	assert.Error(t, err)
}

func TestLocalTime_JSON(t *testing.T) {
	var f Flight
	err := json.Unmarshal([]byte(`{"id":4,"departureTime":"2024-01-15T10:30:00","arrivalTime":null,"price":199.5}`), &f)
	require.NoError(t, err)
	assert.Equal(t, int64(4), f.ID)
	assert.Equal(t, "2024-01-15T10:30", f.DepartureTime.InputValue())
	assert.True(t, f.ArrivalTime.IsZero())
	assert.Equal(t, "", f.ArrivalTime.InputValue())

	b, err := json.Marshal(f.DepartureTime)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-01-15T10:30:00"`, string(b))
}

func TestFlight_IsBookable(t *testing.T) {
	tests := []struct {
		name   string
		flight Flight
		want   bool
	}{
		{name: "scheduled with seats", flight: Flight{Status: FlightScheduled, SeatsAvailable: 3}, want: true},
		{name: "scheduled full", flight: Flight{Status: FlightScheduled, SeatsAvailable: 0}, want: false},
		{name: "cancelled with seats", flight: Flight{Status: FlightCancelled, SeatsAvailable: 3}, want: false},
		{name: "delayed with seats", flight: Flight{Status: FlightDelayed, SeatsAvailable: 3}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flight.IsBookable())
		})
	}
}

func TestParseFlightStatus(t *testing.T) {
	s, ok := ParseFlightStatus(" delayed ")
	assert.True(t, ok)
	assert.Equal(t, FlightDelayed, s)

	_, ok = ParseFlightStatus("LOST")
	assert.False(t, ok)
}

func TestAirportInput_Validate(t *testing.T) {
	in := AirportInput{Code: " jfk ", Name: "John F. Kennedy", City: "New York", Country: "USA"}
	require.NoError(t, in.Validate())
	assert.Equal(t, "JFK", in.Code)

	bad := AirportInput{Code: "JF", Name: "x", City: "y", Country: "z"}
	assert.ErrorContains(t, bad.Validate(), "3 uppercase letters")

	missing := AirportInput{Code: "JFK"}
	assert.ErrorContains(t, missing.Validate(), "required")
}

func TestFlightInput_Validate(t *testing.T) {
	valid := func() FlightInput {
		return FlightInput{
			FlightNumber:         "aa123",
			SourceAirportID:      1,
			DestinationAirportID: 2,
			DepartureTime:        "2024-01-15T10:30",
			ArrivalTime:          "2024-01-15T14:00",
			SeatsAvailable:       100,
			Price:                250,
		}
	}

	in := valid()
	require.NoError(t, in.Validate())
	assert.Equal(t, "AA123", in.FlightNumber)

	tests := []struct {
		name   string
		mutate func(*FlightInput)
		errSub string
	}{
		{name: "bad number", mutate: func(f *FlightInput) { f.FlightNumber = "A1" }, errSub: "flight number"},
		{name: "same airports", mutate: func(f *FlightInput) { f.DestinationAirportID = 1 }, errSub: "must differ"},
		{name: "missing airport", mutate: func(f *FlightInput) { f.SourceAirportID = 0 }, errSub: "required"},
		{name: "bad departure", mutate: func(f *FlightInput) { f.DepartureTime = "soon" }, errSub: "departure"},
		{name: "arrival before departure", mutate: func(f *FlightInput) { f.ArrivalTime = "2024-01-15T09:00" }, errSub: "after departure"},
		{name: "no seats", mutate: func(f *FlightInput) { f.SeatsAvailable = 0 }, errSub: "seats"},
		{name: "free", mutate: func(f *FlightInput) { f.Price = 0 }, errSub: "price"},
		{name: "bad status", mutate: func(f *FlightInput) { f.Status = "LOST" }, errSub: "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			assert.ErrorContains(t, in.Validate(), tt.errSub)
		})
	}
}

func TestFlightCriteria(t *testing.T) {
	assert.True(t, FlightCriteria{}.IsEmpty())
	assert.True(t, FlightCriteria{From: "  ", Date: " "}.IsEmpty())

	c := FlightCriteria{From: " jfk", To: "", Date: "2024-01-15"}
	assert.False(t, c.IsEmpty())
	assert.Equal(t, FlightCriteria{From: "JFK", Date: "2024-01-15"}, c.Normalize())
	assert.Equal(t, "date=2024-01-15&from=JFK", c.Query().Encode())
	assert.Empty(t, FlightCriteria{To: " "}.Query())
}

func TestBookingDraft_Total(t *testing.T) {
	tests := []struct {
		seats string
		price float64
		want  string
	}{
		{seats: "2", price: 150, want: "$300.00"},
		{seats: "1", price: 99.5, want: "$99.50"},
		{seats: "", price: 150, want: "$0.00"},
		{seats: "abc", price: 150, want: "$0.00"},
		{seats: "3abc", price: 10, want: "$30.00"},
		{seats: "-2", price: 10, want: "$0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.seats, func(t *testing.T) {
			d := NewBookingDraft(1, tt.seats, tt.price)
			assert.Equal(t, tt.want, FormatCurrency(d.Total()))
		})
	}
}

func TestBooking_Cancellable(t *testing.T) {
	assert.True(t, Booking{Status: BookingConfirmed}.Cancellable())
	assert.False(t, Booking{Status: BookingCancelled}.Cancellable())
	assert.False(t, Booking{Status: BookingCompleted}.Cancellable())
}
