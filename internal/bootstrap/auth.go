package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/airportmgmt/airport-web/config"
	"github.com/airportmgmt/airport-web/internal/adapters/authroles"
	"github.com/airportmgmt/airport-web/internal/adapters/backend"
	"github.com/airportmgmt/airport-web/internal/adapters/memory"
	redisadapter "github.com/airportmgmt/airport-web/internal/adapters/redis"
	"github.com/airportmgmt/airport-web/internal/ports"
	"github.com/airportmgmt/airport-web/internal/service"
)

const memorySweepInterval = time.Minute

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	Backend     config.BackendConfig
	Client      *backend.Client
	RedisClient redis.UniversalClient
	RedisPrefix string
	Logger      *slog.Logger
}

// BuildAuthService creates the auth service with the configured session store.
// A memory store is swept of expired slots until ctx is done.
func BuildAuthService(ctx context.Context, cfg AuthConfig) (*service.AuthService, error) {
	if cfg.Client == nil {
		return nil, errors.New("backend client is required")
	}

	sessions, err := buildSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: backend.NewAuthProvider(cfg.Client, cfg.Backend.SessionCookie),
		Sessions: sessions,
		Roles: authroles.StaticRoleMapper{
			AdminGroup:     cfg.Auth.AdminRole,
			StaffGroup:     cfg.Auth.StaffRole,
			CustomerGroups: cfg.Auth.CustomerRoles,
		},
		SessionTTL: cfg.Auth.SessionTTL,
		Logger:     cfg.Logger,
	}), nil
}

//nolint:ireturn // the store is chosen at runtime
func buildSessionStore(ctx context.Context, cfg AuthConfig) (ports.SessionStore, error) {
	switch cfg.Auth.SessionStore {
	case config.SessionStoreMemory:
		if cfg.Logger != nil {
			cfg.Logger.WarnContext(ctx, "using in-memory session store; sessions are lost on restart")
		}
		store := memory.NewSessionStore()
		go store.RunSweeper(ctx, memorySweepInterval)
		return store, nil
	case config.SessionStoreRedis, "":
		if cfg.RedisClient == nil {
			return nil, errors.New("redis session store selected but redis client not configured")
		}
		opts := []redisadapter.SessionStoreOption{redisadapter.WithLogger(cfg.Logger)}
		if cfg.RedisPrefix != "" {
			opts = append(opts, redisadapter.WithPrefix(cfg.RedisPrefix))
		}
		return redisadapter.NewSessionStore(cfg.RedisClient, opts...), nil
	default:
		return nil, errors.New("unknown session store: " + string(cfg.Auth.SessionStore))
	}
}
