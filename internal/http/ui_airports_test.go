package httpx

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airportmgmt/airport-web/internal/domain/model"
)

func TestAirportsList_EmptySearchLoadsAll(t *testing.T) {
	app := newTestApp(t)
	app.seedRoute(5)

	w := app.hxGet("/airports/list?q=%20%20")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "JFK")
	assert.Contains(t, w.Body.String(), "LAX")
	assert.Len(t, app.be.CallsTo("GET /airport/list"), 1)
	assert.Empty(t, app.be.CallsTo("GET /airport/search"))
}

func TestAirportsList_SearchForwardsQuery(t *testing.T) {
	app := newTestApp(t)
	app.seedRoute(5)

	w := app.hxGet("/airports/list?q=jfk")

	require.Equal(t, http.StatusOK, w.Code)
	calls := app.be.CallsTo("GET /airport/search")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Query, "jfk")
	assert.Empty(t, app.be.CallsTo("GET /airport/list"))
}

func TestAirportsList_ReplacesPageURL(t *testing.T) {
	app := newTestApp(t)
	app.seedRoute(5)

	assert.Equal(t, "/airports?q=new+york", app.hxGet("/airports/list?q=+new+york+").Header().Get("Hx-Replace-Url"))
	assert.Equal(t, "/airports", app.hxGet("/airports/list?q=").Header().Get("Hx-Replace-Url"))
	assert.Empty(t, app.get("/airports/list?q=jfk").Header().Get("Hx-Replace-Url"))
}

func TestAirportsList_Placeholder(t *testing.T) {
	app := newTestApp(t)

	w := app.hxGet("/airports/list")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No airports found")
}

func TestAirportsList_SearchFailureKeepsList(t *testing.T) {
	app := newTestApp(t)
	app.seedRoute(5)
	app.be.FailNext("GET /airport/search", http.StatusInternalServerError, "Search exploded")

	w := app.hxGet("/airports/list?q=jfk")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "none", w.Header().Get("Hx-Reswap"))
	toast, ok := triggers(t, w)["showToast"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, ToastError, toast["type"])
}

func TestAirportsList_LoadFailureRendersInline(t *testing.T) {
	app := newTestApp(t)
	app.be.FailNext("GET /airport/list", http.StatusInternalServerError, "database down")

	w := app.hxGet("/airports/list")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `class="error"`)
}

func TestAirportsList_ControlsFollowRole(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantEdit bool
	}{
		{name: "guest"},
		{name: "passenger", username: "alice", password: "alice123"},
		{name: "staff", username: "staff", password: "staff123"},
		{name: "admin", username: "admin", password: "admin123", wantEdit: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.seedRoute(5)
			if tt.username != "" {
				app.login(tt.username, tt.password)
			}

			body := app.hxGet("/airports/list").Body.String()

			if tt.wantEdit {
				assert.Contains(t, body, `data-action="edit"`)
				assert.Contains(t, body, `data-action="delete"`)
				assert.Contains(t, body, `hx-delete="/airports/1"`)
				assert.Contains(t, body, `hx-confirm="Are you sure you want to delete this airport? This may affect existing flights."`)
			} else {
				assert.NotContains(t, body, `data-action="edit"`)
				assert.NotContains(t, body, `data-action="delete"`)
				assert.NotContains(t, body, "hx-confirm")
			}
		})
	}
}

func TestAirportModal_CodeReadonlyOnlyWhenEditing(t *testing.T) {
	app := newTestApp(t)
	app.seedRoute(5)
	app.login("admin", "admin123")

	edit := app.hxGet("/airports/1/edit")
	require.Equal(t, http.StatusOK, edit.Code)
	assert.Contains(t, edit.Body.String(), "readonly")
	assert.Contains(t, edit.Body.String(), "Edit Airport")

	create := app.hxGet("/airports/new")
	require.Equal(t, http.StatusOK, create.Code)
	assert.NotContains(t, create.Body.String(), "readonly")
	assert.Contains(t, create.Body.String(), "Add New Airport")
}

func TestAirportSave_CreatesAndReloads(t *testing.T) {
	app := newTestApp(t)
	app.login("admin", "admin123")

	w := app.hxPost("/airports/save", url.Values{
		"code":    {"sfo"},
		"name":    {"San Francisco Intl"},
		"city":    {"San Francisco"},
		"country": {"USA"},
	})

	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	trig := triggers(t, w)
	assert.Contains(t, trig, EventAirportsReload)
	assert.Contains(t, trig, "closeModal")
	toast, ok := trig["showToast"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, ToastSuccess, toast["type"])

	airports := app.be.Airports()
	require.Len(t, airports, 1)
	assert.Equal(t, "SFO", airports[0].Code)
}

func TestAirportSave_ValidationKeepsModal(t *testing.T) {
	app := newTestApp(t)
	app.login("admin", "admin123")

	w := app.hxPost("/airports/save", url.Values{"code": {"TOOLONG"}, "name": {""}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "airport-modal")
	assert.Contains(t, w.Body.String(), "field-error")
	assert.Empty(t, app.be.CallsTo("POST /airport/create"))
}

func TestAirportRoutes_RequireAdmin(t *testing.T) {
	app := newTestApp(t)
	app.be.AddAirport(model.Airport{ID: 1, Code: "JFK", Name: "JFK", City: "NYC", Country: "USA"})
	app.login("staff", "staff123")

	w := app.hxGet("/airports/1/edit")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "none", w.Header().Get("Hx-Reswap"))
}

func TestAirportRoutes_GuestRedirectedToLogin(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/airports/new")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?redirect_uri=%2Fairports%2Fnew", w.Header().Get("Location"))
}

func TestAirportDelete_ReloadsList(t *testing.T) {
	app := newTestApp(t)
	app.seedRoute(5)
	app.login("admin", "admin123")

	w := app.do(http.MethodDelete, "/airports/1", reqOpts{htmx: true})

	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	assert.Contains(t, triggers(t, w), EventAirportsReload)
	assert.Len(t, app.be.Airports(), 1)
}
