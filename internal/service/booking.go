package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/airportmgmt/airport-web/internal/domain/model"
	apperrors "github.com/airportmgmt/airport-web/internal/errors"
	"github.com/airportmgmt/airport-web/internal/ports"
)

// BookingServiceOptions groups dependencies for BookingService.
type BookingServiceOptions struct {
	Backend ports.Backend
}

// BookingService creates and manages seat reservations through the backend.
type BookingService struct {
	backend ports.Backend
}

// NewBookingService constructs a new BookingService.
func NewBookingService(opts BookingServiceOptions) *BookingService {
	return &BookingService{backend: opts.Backend}
}

// Create books d.SeatsBooked seats on d.FlightID for the caller in ctx.
func (s *BookingService) Create(ctx context.Context, d model.BookingDraft) (string, error) {
	if d.FlightID <= 0 {
		return "", apperrors.ValidationField("flightId", "Flight is required")
	}
	if d.SeatsBooked <= 0 {
		return "", apperrors.ValidationField("seatsBooked", "Seats booked must be a positive number.")
	}
	form := url.Values{
		"flightId":    {strconv.FormatInt(d.FlightID, 10)},
		"seatsBooked": {strconv.Itoa(d.SeatsBooked)},
	}
	return mutate(ctx, s.backend, ports.BackendRequest{Method: http.MethodPost, Path: "/booking/create", Form: form},
		"Booking created successfully")
}

// ListMine returns the caller's bookings.
func (s *BookingService) ListMine(ctx context.Context) ([]model.Booking, error) {
	bookings, _, err := fetch[[]model.Booking](ctx, s.backend, get("/booking/my-bookings", nil))
	return bookings, err
}

// ListAll returns every booking; the backend restricts it to admins and staff.
func (s *BookingService) ListAll(ctx context.Context) ([]model.Booking, error) {
	bookings, _, err := fetch[[]model.Booking](ctx, s.backend, get("/booking/list", nil))
	return bookings, err
}

// Cancel cancels a booking and releases its seats.
func (s *BookingService) Cancel(ctx context.Context, id int64) (string, error) {
	return mutate(ctx, s.backend, ports.BackendRequest{Method: http.MethodPut, Path: idPath("/booking/cancel/", id)},
		"Booking cancelled successfully")
}
