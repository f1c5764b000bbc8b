// Package ports defines interfaces (hexagonal ports) for auth and backend behavior.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"

	domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"
)

// AuthProvider authenticates users against the backend.
type AuthProvider interface {
	// Login verifies credentials and returns the identity plus the backend session cookies.
	Login(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error)

	// Register creates a new account and returns the backend confirmation message.
	Register(ctx context.Context, reg domainauth.Registration) (string, error)

	// Logout ends the backend session bound to sess.
	Logout(ctx context.Context, sess domainauth.Session) error
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps backend role strings to application roles.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}
