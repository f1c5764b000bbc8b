package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/airportmgmt/airport-web/internal/domain/model"
	apperrors "github.com/airportmgmt/airport-web/internal/errors"
	"github.com/airportmgmt/airport-web/internal/ports"
)

// AirportServiceOptions groups dependencies for AirportService.
type AirportServiceOptions struct {
	Backend ports.Backend
}

// AirportService reads and edits airports through the backend.
type AirportService struct {
	backend ports.Backend
}

// NewAirportService constructs a new AirportService.
func NewAirportService(opts AirportServiceOptions) *AirportService {
	return &AirportService{backend: opts.Backend}
}

// List returns every airport.
func (s *AirportService) List(ctx context.Context) ([]model.Airport, error) {
	airports, _, err := fetch[[]model.Airport](ctx, s.backend, get("/airport/list", nil))
	return airports, err
}

// Search returns airports matching q. A blank query lists everything.
func (s *AirportService) Search(ctx context.Context, q string) ([]model.Airport, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.List(ctx)
	}
	airports, _, err := fetch[[]model.Airport](ctx, s.backend, get("/airport/search", url.Values{"q": {q}}))
	return airports, err
}

// GetByID retrieves one airport.
func (s *AirportService) GetByID(ctx context.Context, id int64) (*model.Airport, error) {
	a, _, err := fetch[*model.Airport](ctx, s.backend, get(idPath("/airport/", id), nil))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperrors.NotFound("Airport not found")
	}
	return a, nil
}

// Save creates the airport when in.ID is zero and updates it otherwise.
// It returns the backend confirmation message.
func (s *AirportService) Save(ctx context.Context, in model.AirportInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", apperrors.Validation(err.Error())
	}

	form := url.Values{
		"code":    {in.Code},
		"name":    {in.Name},
		"city":    {in.City},
		"country": {in.Country},
	}
	if in.ID == 0 {
		return mutate(ctx, s.backend, ports.BackendRequest{Method: http.MethodPost, Path: "/airport/create", Form: form},
			"Airport created successfully")
	}
	form.Set("id", strconv.FormatInt(in.ID, 10))
	return mutate(ctx, s.backend, ports.BackendRequest{Method: http.MethodPut, Path: "/airport/update", Form: form},
		"Airport updated successfully")
}

// Delete removes an airport.
func (s *AirportService) Delete(ctx context.Context, id int64) (string, error) {
	return mutate(ctx, s.backend, ports.BackendRequest{Method: http.MethodDelete, Path: idPath("/airport/", id)},
		"Airport deleted successfully")
}
