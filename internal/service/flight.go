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

// FlightServiceOptions groups dependencies for FlightService.
type FlightServiceOptions struct {
	Backend ports.Backend
}

// FlightService reads and edits flights through the backend.
type FlightService struct {
	backend ports.Backend
}

// NewFlightService constructs a new FlightService.
func NewFlightService(opts FlightServiceOptions) *FlightService {
	return &FlightService{backend: opts.Backend}
}

// List returns every flight.
func (s *FlightService) List(ctx context.Context) ([]model.Flight, error) {
	flights, _, err := fetch[[]model.Flight](ctx, s.backend, get("/flight/list", nil))
	return flights, err
}

// Search forwards only the non-empty criteria. Empty criteria list everything.
func (s *FlightService) Search(ctx context.Context, c model.FlightCriteria) ([]model.Flight, error) {
	if c.IsEmpty() {
		return s.List(ctx)
	}
	flights, _, err := fetch[[]model.Flight](ctx, s.backend, get("/flight/search", c.Query()))
	return flights, err
}

// GetByID retrieves one flight.
func (s *FlightService) GetByID(ctx context.Context, id int64) (*model.Flight, error) {
	f, _, err := fetch[*model.Flight](ctx, s.backend, get(idPath("/flight/", id), nil))
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperrors.NotFound("Flight not found")
	}
	return f, nil
}

// Save schedules the flight when in.ID is zero and updates it otherwise.
func (s *FlightService) Save(ctx context.Context, in model.FlightInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", apperrors.Validation(err.Error())
	}

	form := url.Values{
		"flightNumber":         {in.FlightNumber},
		"sourceAirportId":      {strconv.FormatInt(in.SourceAirportID, 10)},
		"destinationAirportId": {strconv.FormatInt(in.DestinationAirportID, 10)},
		"departureTime":        {in.DepartureTime},
		"arrivalTime":          {in.ArrivalTime},
		"seatsAvailable":       {strconv.Itoa(in.SeatsAvailable)},
		"price":                {formatFloat(in.Price)},
	}
	if in.ID == 0 {
		return mutate(ctx, s.backend, ports.BackendRequest{Method: http.MethodPost, Path: "/flight/create", Form: form},
			"Flight scheduled successfully")
	}
	form.Set("id", strconv.FormatInt(in.ID, 10))
	if in.Status != "" {
		form.Set("status", string(in.Status))
	}
	return mutate(ctx, s.backend, ports.BackendRequest{Method: http.MethodPut, Path: "/flight/update", Form: form},
		"Flight updated successfully")
}

// Cancel marks a flight cancelled.
func (s *FlightService) Cancel(ctx context.Context, id int64) (string, error) {
	return mutate(ctx, s.backend, ports.BackendRequest{Method: http.MethodPut, Path: idPath("/flight/cancel/", id)},
		"Flight cancelled successfully")
}

// Delete removes a flight.
func (s *FlightService) Delete(ctx context.Context, id int64) (string, error) {
	return mutate(ctx, s.backend, ports.BackendRequest{Method: http.MethodDelete, Path: idPath("/flight/", id)},
		"Flight deleted successfully")
}
