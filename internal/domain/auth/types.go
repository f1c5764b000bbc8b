// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"context"
	"errors"
	"slices"
	"time"
)

var (
	// ErrSessionNotFound reports that no identity slot exists for a session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired reports an identity slot past its ExpiresAt.
	ErrSessionExpired = errors.New("session expired")
)

// Role represents an application's authorization role as reported by the backend.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleStaff    Role = "STAFF"
	RoleCustomer Role = "CUSTOMER"
)

// Credentials are the inputs of a username/password login.
type Credentials struct {
	Username string
	Password string
}

// Registration carries the fields of a new account request.
type Registration struct {
	Username string
	Password string
	Email    string
}

// Cookie is a backend session cookie captured at login and replayed on later backend calls.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Identity represents the authenticated principal returned by the backend.
type Identity struct {
	UserID   string
	Username string
	Email    string
	// Groups holds the raw backend role strings; a RoleMapper turns them into a Role.
	Groups  []string
	Cookies []Cookie
}

// Session is the server-side identity slot for one browser session.
// ID is an opaque session identifier stored in the session cookie.
type Session struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	BackendCookies []Cookie  `json:"backend_cookies,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// IsAuthenticated reports whether s represents a logged-in user.
// A nil session is a guest.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}

// HasRole reports whether the session holds any of the given roles.
func (s *Session) HasRole(roles ...Role) bool {
	if !s.IsAuthenticated() {
		return false
	}
	return slices.Contains(roles, s.Role)
}

// IsManager reports whether the session may manage flights and see all bookings.
func (s *Session) IsManager() bool {
	return s.HasRole(RoleAdmin, RoleStaff)
}

// Expired reports whether the session expired at or before now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type sessionCtxKey struct{}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sess)
}

// SessionFrom returns the session stored in ctx, if any.
func SessionFrom(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey{}).(*Session)
	return sess, ok && sess != nil
}
