package ports_test

import (
	"testing"

	"github.com/airportmgmt/airport-web/internal/mocks"
	mockauth "github.com/airportmgmt/airport-web/internal/mocks/auth"
	"github.com/airportmgmt/airport-web/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthProvider = (*mockauth.MockAuthProvider)(nil)
	var _ ports.SessionStore = (*mockauth.MemorySessionStore)(nil)
	var _ ports.RoleMapper = (*mockauth.StaticRoleMapper)(nil)
	var _ ports.Backend = (*mocks.MockBackend)(nil)
	var _ ports.SessionStore = (*mocks.MockSessionStore)(nil)
}
