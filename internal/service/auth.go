package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"
	apperrors "github.com/airportmgmt/airport-web/internal/errors"
	"github.com/airportmgmt/airport-web/internal/ports"
)

// DefaultSessionTTL matches the backend's session lifetime.
const DefaultSessionTTL = time.Hour

const minPasswordLen = 6

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider   ports.AuthProvider
	Sessions   ports.SessionStore
	Roles      ports.RoleMapper
	SessionTTL time.Duration
	Logger     *slog.Logger
}

// AuthService orchestrates login, registration, and the identity slot of each browser session.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Login verifies credentials with the backend, maps the backend role and persists a new session.
func (s *AuthService) Login(ctx context.Context, creds domainauth.Credentials) (*domainauth.Session, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return nil, apperrors.Validation("Username and password are required")
	}

	identity, err := s.provider.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	session := domainauth.Session{
		ID:             generateSessionID(),
		UserID:         identity.UserID,
		Username:       identity.Username,
		Email:          identity.Email,
		Role:           s.roles.Map(identity.Groups),
		BackendCookies: identity.Cookies,
		ExpiresAt:      s.now().Add(s.ttl),
	}
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", session.UserID, "role", session.Role)
	return &session, nil
}

// Register validates the account fields locally before creating the account on the backend.
func (s *AuthService) Register(ctx context.Context, reg domainauth.Registration) (string, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)

	if !usernamePattern.MatchString(reg.Username) {
		return "", apperrors.ValidationField("username", "Username must be 3-20 letters, digits or underscores")
	}
	if _, err := mail.ParseAddress(reg.Email); err != nil || !strings.Contains(reg.Email, ".") {
		return "", apperrors.ValidationField("email", "Invalid email format")
	}
	if len(reg.Password) < minPasswordLen {
		return "", apperrors.ValidationField("password", "Password must be at least 6 characters")
	}

	msg, err := s.provider.Register(ctx, reg)
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	return msg, nil
}

// GetSession retrieves a live session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(domainauth.ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, domainauth.ErrSessionExpired
	}

	return &session, nil
}

// Logout ends the backend session on a best-effort basis and always clears the identity slot.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if session, err := s.sessions.Get(ctx, sessionID); err == nil {
		if logoutErr := s.provider.Logout(ctx, session); logoutErr != nil {
			s.logger.WarnContext(ctx, "backend logout failed", "user_id", session.UserID, "error", logoutErr)
		}
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// generateSessionID creates a random session ID.
func generateSessionID() string {
	return uuid.NewString()
}
