package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airportmgmt/airport-web/internal/observability/metrics"
)

func TestRouter_HomeRendersForGuests(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<html")
	assert.Contains(t, body, `href="/login"`)
	assert.NotContains(t, body, `href="/bookings"`)
}

func TestRouter_NavFollowsSession(t *testing.T) {
	app := newTestApp(t)
	app.login("alice", "alice123")

	body := app.get("/flights").Body.String()

	assert.Contains(t, body, `href="/bookings"`)
	assert.Contains(t, body, `hx-post="/logout"`)
	assert.NotContains(t, body, `href="/login"`)
}

func TestRouter_CSRFRejectsUnsafeWithoutToken(t *testing.T) {
	app := newTestApp(t)
	app.login("admin", "admin123")

	w := app.do(http.MethodPost, "/airports/save", reqOpts{
		form:   url.Values{"code": {"SFO"}, "name": {"x"}, "city": {"y"}, "country": {"z"}},
		htmx:   true,
		noCSRF: true,
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "none", w.Header().Get("Hx-Reswap"))
	assert.Empty(t, app.be.CallsTo("POST /airport/create"))
}

func TestRouter_CSRFAcceptsFormField(t *testing.T) {
	app := newTestApp(t)
	app.login("admin", "admin123")

	w := app.do(http.MethodPost, "/airports/save", reqOpts{
		form: url.Values{
			"code": {"SFO"}, "name": {"San Francisco"}, "city": {"San Francisco"}, "country": {"USA"},
			DefaultCSRFCookieName: {app.cookies[DefaultCSRFCookieName].Value},
		},
		htmx:   true,
		noCSRF: true,
	})

	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
}

func TestRouter_LoginThrottled(t *testing.T) {
	var throttled int
	app := newTestApp(t, func(s *RouterServices) {
		s.LoginLimiter = NewLoginLimiter(LoginLimiterConfig{
			Rate:       0.001,
			Burst:      2,
			OnThrottle: func() { throttled++ },
		})
	})
	app.primeCSRF()

	bad := url.Values{"username": {"alice"}, "password": {"nope"}}
	for range 2 {
		assert.Equal(t, http.StatusOK, app.hxPost("/login", bad).Code)
	}
	w := app.hxPost("/login", bad)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "none", w.Header().Get("Hx-Reswap"))
	assert.Equal(t, 1, throttled)
	assert.Len(t, app.be.CallsTo("POST /auth/login"), 2)
}

func TestRouter_NotFound(t *testing.T) {
	app := newTestApp(t)

	t.Run("browser", func(t *testing.T) {
		w := app.get("/no/such/page")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
		assert.Contains(t, w.Body.String(), "404")
	})

	t.Run("api client", func(t *testing.T) {
		w := app.do(http.MethodGet, "/no/such/page", reqOpts{headers: map[string]string{"Accept": "application/json"}})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/json"))
		assert.Contains(t, w.Body.String(), "not_found")
	})
}

func TestRouter_MetricsLabelsPattern(t *testing.T) {
	reg := metrics.NewRegistry()
	app := newTestApp(t, func(s *RouterServices) {
		s.Metrics = reg
		s.MetricsPath = "/metrics"
	})
	app.hxGet("/airports/list")

	w := app.get("/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pattern="GET /airports/list"`)
}

func TestRouter_StaticAssetsCached(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/static/css/app.css")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
}

func TestUIHandlers_NotFoundPage(t *testing.T) {
	h := CreateUIHandlersForTest(t, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	h.NotFound(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, ContainsAll(w.Body.String(), []string{"Page Not Found", "The page you", "Back to home"}))
}
