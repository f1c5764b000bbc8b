package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"
	"github.com/airportmgmt/airport-web/internal/http/ui/viewmodel"
)

func TestTemplateDataBuilder_Guest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/airports", nil)
	data := NewTemplateData(r, PageMeta{Title: "Airports", CurrentPage: PageAirports}).Build()

	assert.Equal(t, "Airports", data["Title"])
	assert.Equal(t, PageAirports, data["CurrentPage"])
	assert.Equal(t, false, data["IsAuthenticated"])
	assert.NotContains(t, data, "User")
	assert.Contains(t, data, "CSRFToken")
	assert.Equal(t, map[string]string{}, data["Errors"])
}

func TestTemplateDataBuilder_AuthenticatedUser(t *testing.T) {
	session := &domainauth.Session{ID: "s1", UserID: "1", Username: "alice", Email: "alice@example.com", Role: domainauth.RoleAdmin}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(SetSessionInContext(r.Context(), session))

	data := NewTemplateData(r, PageMeta{Title: "Home", CurrentPage: PageHome}).Build()

	assert.Equal(t, true, data["IsAuthenticated"])
	user, ok := data["User"].(*viewmodel.User)
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, string(domainauth.RoleAdmin), user.Role)
}

func TestTemplateDataBuilder_WithError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	data := NewTemplateData(r, PageMeta{}).WithError("").Build()
	assert.NotContains(t, data, "Error")

	data = NewTemplateData(r, PageMeta{}).WithError("Failed to load airports").Build()
	assert.Equal(t, true, data["Error"])
	assert.Equal(t, "Failed to load airports", data["ErrorMessage"])
}

func TestTemplateDataBuilder_WithFieldErrorsAndCustomKeys(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	data := NewTemplateData(r, PageMeta{}).
		WithFieldErrors(map[string]string{"code": "Airport code is required"}).
		With("Mode", "create").
		Build()

	assert.Equal(t, map[string]string{"code": "Airport code is required"}, data["Errors"])
	assert.Equal(t, "create", data["Mode"])
}

func TestContentTemplateFor(t *testing.T) {
	assert.Equal(t, "flights-content", ContentTemplateFor(PageFlights))
	assert.Equal(t, "login-content", ContentTemplateFor(PageLogin))
	assert.Equal(t, "home-content", ContentTemplateFor("unknown"))
}
