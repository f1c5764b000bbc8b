package httpx

import (
	"context"

	domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"
)

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged. The session travels
// under the domain key so backend calls made with the same context replay its cookies.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return domainauth.WithSession(ctx, session)
}

// GetUserSessionFromContext returns the user session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	return domainauth.SessionFrom(ctx)
}

// GetSessionFromContext retrieves the session from the request context, or nil for guests.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s
	}
	return nil
}

// IsGuestUser reports whether the current request context is unauthenticated.
func IsGuestUser(ctx context.Context) bool {
	return !GetSessionFromContext(ctx).IsAuthenticated()
}
