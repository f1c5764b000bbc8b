// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"
	apperrors "github.com/airportmgmt/airport-web/internal/errors"
	"github.com/airportmgmt/airport-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.RoleMapper   = (*StaticRoleMapper)(nil)
)

// Account is a user known to MockAuthProvider.
type Account struct {
	Password string
	Email    string
	Role     string
}

// MockAuthProvider authenticates against a fixed account table.
type MockAuthProvider struct {
	LoginFunc    func(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error)
	RegisterFunc func(ctx context.Context, reg domainauth.Registration) (string, error)
	LogoutFunc   func(ctx context.Context, sess domainauth.Session) error

	Accounts map[string]Account

	// LogoutCalls counts Logout invocations.
	LogoutCalls int
	nextID      int
}

// NewMockAuthProvider creates a MockAuthProvider with an admin, a staff and a passenger account.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		Accounts: map[string]Account{
			"admin": {Password: "admin123", Email: "admin@example.com", Role: "ADMIN"},
			"staff": {Password: "staff123", Email: "staff@example.com", Role: "STAFF"},
			"alice": {Password: "alice123", Email: "alice@example.com", Role: "PASSENGER"},
		},
	}
}

func (m *MockAuthProvider) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	acct, ok := m.Accounts[creds.Username]
	if !ok || acct.Password != creds.Password {
		return domainauth.Identity{}, apperrors.FromStatus(401, "Invalid username or password")
	}
	m.nextID++
	return domainauth.Identity{
		UserID:   strconv.Itoa(m.nextID),
		Username: creds.Username,
		Email:    acct.Email,
		Groups:   []string{acct.Role},
		Cookies:  []domainauth.Cookie{{Name: "JSESSIONID", Value: fmt.Sprintf("mock-%s-%d", creds.Username, m.nextID)}},
	}, nil
}

func (m *MockAuthProvider) Register(ctx context.Context, reg domainauth.Registration) (string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, reg)
	}
	if m.Accounts == nil {
		m.Accounts = map[string]Account{}
	}
	if _, exists := m.Accounts[reg.Username]; exists {
		return "", apperrors.FromStatus(400, "Username already exists")
	}
	m.Accounts[reg.Username] = Account{Password: reg.Password, Email: reg.Email, Role: "PASSENGER"}
	return "User registered successfully", nil
}

func (m *MockAuthProvider) Logout(ctx context.Context, sess domainauth.Session) error {
	m.LogoutCalls++
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sess)
	}
	return nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are stored.
func (m *MemorySessionStore) Len() int { return len(m.sessions) }

// ErrNotFound is returned by mocks when an entity is not present.
var ErrNotFound = domainauth.ErrSessionNotFound

// StaticRoleMapper maps the first backend role string verbatim when it is a known role.
type StaticRoleMapper struct{}

func (StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		switch r := domainauth.Role(g); r {
		case domainauth.RoleAdmin, domainauth.RoleStaff:
			return r
		}
	}
	return domainauth.RoleCustomer
}
