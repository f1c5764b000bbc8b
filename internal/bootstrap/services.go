package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/airportmgmt/airport-web/config"
	"github.com/airportmgmt/airport-web/internal/adapters/backend"
	"github.com/airportmgmt/airport-web/internal/observability/metrics"
	"github.com/airportmgmt/airport-web/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Airports *service.AirportService
	Flights  *service.FlightService
	Bookings *service.BookingService
	Auth     *service.AuthService
	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Registry
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	// HTTPClient overrides the backend transport, mainly for tests.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewServices builds the backend client and every service on top of it.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var reg *metrics.Registry
	if cfg.Observability.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	client, err := backend.NewClient(backend.Config{
		BaseURL:    cfg.Backend.URL,
		Timeout:    cfg.Backend.Timeout,
		HTTPClient: deps.HTTPClient,
		Metrics:    reg,
		Logger:     logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("backend client: %w", err)
	}

	auth, err := BuildAuthService(ctx, AuthConfig{
		Auth:        cfg.Auth,
		Backend:     cfg.Backend,
		Client:      client,
		RedisClient: deps.RedisClient,
		RedisPrefix: cfg.Redis.KeyPrefix,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("auth service: %w", err)
	}

	return ServiceContainer{
		Airports: service.NewAirportService(service.AirportServiceOptions{Backend: client}),
		Flights:  service.NewFlightService(service.FlightServiceOptions{Backend: client}),
		Bookings: service.NewBookingService(service.BookingServiceOptions{Backend: client}),
		Auth:     auth,
		Metrics:  reg,
	}, nil
}
