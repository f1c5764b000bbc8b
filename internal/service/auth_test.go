package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"
	apperrors "github.com/airportmgmt/airport-web/internal/errors"
	"github.com/airportmgmt/airport-web/internal/mocks"
	mockauth "github.com/airportmgmt/airport-web/internal/mocks/auth"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthService(provider *mockauth.MockAuthProvider, sessions *mockauth.MemorySessionStore) *AuthService {
	return NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Roles:    mockauth.StaticRoleMapper{},
		Logger:   quietLogger(),
	})
}

func TestNewAuthService_Defaults(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{})
	assert.Equal(t, DefaultSessionTTL, svc.ttl)
	assert.NotNil(t, svc.logger)
}

func TestAuthService_Login_Success(t *testing.T) {
	sessions := mockauth.NewMemorySessionStore()
	svc := newTestAuthService(mockauth.NewMockAuthProvider(), sessions)
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sess, err := svc.Login(context.Background(), domainauth.Credentials{Username: " staff ", Password: "staff123"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "staff", sess.Username)
	assert.Equal(t, domainauth.RoleStaff, sess.Role)
	assert.Equal(t, now.Add(time.Hour), sess.ExpiresAt)
	assert.Len(t, sess.BackendCookies, 1)

	stored, err := sessions.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, *sess, stored)
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc := newTestAuthService(mockauth.NewMockAuthProvider(), mockauth.NewMemorySessionStore())

	_, err := svc.Login(context.Background(), domainauth.Credentials{Username: "", Password: "x"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Login(context.Background(), domainauth.Credentials{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Invalid username or password", apperrors.UserMessage(err, ""))
}

func TestAuthService_Login_SaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	svc := NewAuthService(AuthServiceOptions{
		Provider: mockauth.NewMockAuthProvider(),
		Sessions: store,
		Roles:    mockauth.StaticRoleMapper{},
		Logger:   quietLogger(),
	})

	_, err := svc.Login(context.Background(), domainauth.Credentials{Username: "alice", Password: "alice123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session")
}

func TestAuthService_Register(t *testing.T) {
	svc := newTestAuthService(mockauth.NewMockAuthProvider(), mockauth.NewMemorySessionStore())
	ctx := context.Background()

	tests := []struct {
		name  string
		reg   domainauth.Registration
		field string
	}{
		{name: "short username", reg: domainauth.Registration{Username: "ab", Email: "a@b.co", Password: "secret1"}, field: "username"},
		{name: "bad characters", reg: domainauth.Registration{Username: "bob smith", Email: "a@b.co", Password: "secret1"}, field: "username"},
		{name: "bad email", reg: domainauth.Registration{Username: "bob", Email: "not-an-email", Password: "secret1"}, field: "email"},
		{name: "short password", reg: domainauth.Registration{Username: "bob", Email: "bob@example.com", Password: "123"}, field: "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.reg)
			require.Error(t, err)
			assert.Equal(t, tt.field, apperrors.GetField(err))
		})
	}

	msg, err := svc.Register(ctx, domainauth.Registration{Username: "bob_1", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", msg)

	_, err = svc.Register(ctx, domainauth.Registration{Username: "bob_1", Email: "bob@example.com", Password: "secret1"})
	assert.Equal(t, "Username already exists", apperrors.UserMessage(err, ""))
}

func TestAuthService_GetSession(t *testing.T) {
	sessions := mockauth.NewMemorySessionStore()
	svc := newTestAuthService(mockauth.NewMockAuthProvider(), sessions)
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.GetSession(ctx, "")
	require.Error(t, err)

	_, err = svc.GetSession(ctx, "missing")
	require.ErrorIs(t, err, domainauth.ErrSessionNotFound)

	require.NoError(t, sessions.Save(ctx, domainauth.Session{ID: "live", UserID: "1", ExpiresAt: now.Add(time.Minute)}))
	sess, err := svc.GetSession(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "1", sess.UserID)

	require.NoError(t, sessions.Save(ctx, domainauth.Session{ID: "old", UserID: "1", ExpiresAt: now.Add(-time.Minute)}))
	_, err = svc.GetSession(ctx, "old")
	require.ErrorIs(t, err, domainauth.ErrSessionExpired)
	assert.Equal(t, 1, sessions.Len(), "expired session removed")
}

func TestAuthService_GetSession_ExpiredDeleteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "old").Return(domainauth.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}, nil)
	store.EXPECT().Delete(gomock.Any(), "old").Return(errors.New("redis down"))

	svc := NewAuthService(AuthServiceOptions{Sessions: store, Logger: quietLogger()})
	_, err := svc.GetSession(context.Background(), "old")
	require.ErrorIs(t, err, domainauth.ErrSessionExpired)
	assert.Contains(t, err.Error(), "redis down")
}

func TestAuthService_Logout(t *testing.T) {
	provider := mockauth.NewMockAuthProvider()
	sessions := mockauth.NewMemorySessionStore()
	svc := newTestAuthService(provider, sessions)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, ""))
	assert.Equal(t, 0, provider.LogoutCalls)

	sess, err := svc.Login(ctx, domainauth.Credentials{Username: "alice", Password: "alice123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.ID))
	assert.Equal(t, 1, provider.LogoutCalls)
	assert.Equal(t, 0, sessions.Len())
}

func TestAuthService_Logout_BackendFailureStillClearsSlot(t *testing.T) {
	provider := mockauth.NewMockAuthProvider()
	provider.LogoutFunc = func(context.Context, domainauth.Session) error { return errors.New("connection refused") }
	sessions := mockauth.NewMemorySessionStore()
	svc := newTestAuthService(provider, sessions)
	ctx := context.Background()

	sess, err := svc.Login(ctx, domainauth.Credentials{Username: "alice", Password: "alice123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.ID))
	assert.Equal(t, 0, sessions.Len())
}

func TestAuthService_Logout_DeleteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "s1").Return(domainauth.Session{}, mockauth.ErrNotFound)
	store.EXPECT().Delete(gomock.Any(), "s1").Return(errors.New("redis down"))

	svc := NewAuthService(AuthServiceOptions{Provider: mockauth.NewMockAuthProvider(), Sessions: store, Logger: quietLogger()})
	err := svc.Logout(context.Background(), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete session")
}
