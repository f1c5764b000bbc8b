package httpx

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/airportmgmt/airport-web/internal/adapters/authroles"
	"github.com/airportmgmt/airport-web/internal/adapters/backend"
	"github.com/airportmgmt/airport-web/internal/adapters/memory"
	"github.com/airportmgmt/airport-web/internal/domain/model"
	"github.com/airportmgmt/airport-web/internal/service"
	"github.com/airportmgmt/airport-web/internal/testutil/backendtest"
)

// testApp drives the full router against the fake backend, keeping cookies
// between requests the way a browser would.
type testApp struct {
	t       *testing.T
	be      *backendtest.Server
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newTestApp(t *testing.T, tweak ...func(*RouterServices)) *testApp {
	t.Helper()
	SkipIfNoTemplates(t)

	be := backendtest.New(t)
	client, err := backend.NewClient(backend.Config{BaseURL: be.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Provider: backend.NewAuthProvider(client, backendtest.SessionCookie),
		Sessions: memory.NewSessionStore(),
		Roles: authroles.StaticRoleMapper{
			AdminGroup:     "ADMIN",
			StaffGroup:     "STAFF",
			CustomerGroups: []string{"PASSENGER", "CUSTOMER"},
		},
		Logger: logger,
	})

	services := RouterServices{
		Airports:   service.NewAirportService(service.AirportServiceOptions{Backend: client}),
		Flights:    service.NewFlightService(service.FlightServiceOptions{Backend: client}),
		Bookings:   service.NewBookingService(service.BookingServiceOptions{Backend: client}),
		Auth:       authSvc,
		Logger:     logger,
		TemplateFS: os.DirFS(TemplatePathFromTest),
	}
	for _, fn := range tweak {
		fn(&services)
	}

	handler, err := NewRouter(services)
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
	}
	return &testApp{t: t, be: be, handler: handler, cookies: map[string]*http.Cookie{}}
}

type reqOpts struct {
	form url.Values
	// multipart encodes form as multipart/form-data, the way the modals submit.
	multipart bool
	htmx      bool
	noCSRF    bool
	headers   map[string]string
}

func (a *testApp) do(method, target string, o reqOpts) *httptest.ResponseRecorder {
	a.t.Helper()

	var (
		body        io.Reader = strings.NewReader("")
		contentType string
	)
	switch {
	case o.form != nil && o.multipart:
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for k, vs := range o.form {
			for _, v := range vs {
				require.NoError(a.t, mw.WriteField(k, v))
			}
		}
		require.NoError(a.t, mw.Close())
		body, contentType = &buf, mw.FormDataContentType()
	case o.form != nil:
		body, contentType = strings.NewReader(o.form.Encode()), "application/x-www-form-urlencoded"
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if o.htmx {
		req.Header.Set("Hx-Request", "true")
	} else {
		req.Header.Set("Accept", "text/html")
	}
	for k, v := range o.headers {
		req.Header.Set(k, v)
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	if ck, ok := a.cookies[DefaultCSRFCookieName]; ok && !o.noCSRF {
		req.Header.Set(DefaultCSRFHeaderName, ck.Value)
	}

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(a.cookies, c.Name)
			continue
		}
		a.cookies[c.Name] = c
	}
	return w
}

func (a *testApp) get(target string) *httptest.ResponseRecorder {
	a.t.Helper()
	return a.do(http.MethodGet, target, reqOpts{})
}

func (a *testApp) hxGet(target string) *httptest.ResponseRecorder {
	a.t.Helper()
	return a.do(http.MethodGet, target, reqOpts{htmx: true})
}

func (a *testApp) hxPost(target string, form url.Values) *httptest.ResponseRecorder {
	a.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	return a.do(http.MethodPost, target, reqOpts{form: form, htmx: true})
}

// primeCSRF loads a page so the CSRF cookie exists before any unsafe request.
func (a *testApp) primeCSRF() {
	a.t.Helper()
	if _, ok := a.cookies[DefaultCSRFCookieName]; ok {
		return
	}
	a.get("/login")
	require.Contains(a.t, a.cookies, DefaultCSRFCookieName)
}

// login signs in through the real login form and fails the test if no session cookie comes back.
func (a *testApp) login(username, password string) {
	a.t.Helper()
	a.primeCSRF()
	w := a.do(http.MethodPost, "/login", reqOpts{form: url.Values{
		"username": {username},
		"password": {password},
	}})
	require.Equal(a.t, http.StatusSeeOther, w.Code, w.Body.String())
	require.Contains(a.t, a.cookies, SessionCookieName)
}

// seedRoute stores two airports and a scheduled flight between them.
func (a *testApp) seedRoute(flightID int64) (model.Airport, model.Airport, model.Flight) {
	a.t.Helper()
	jfk := a.be.AddAirport(model.Airport{ID: 1, Code: "JFK", Name: "John F. Kennedy", City: "New York", Country: "USA"})
	lax := a.be.AddAirport(model.Airport{ID: 2, Code: "LAX", Name: "Los Angeles Intl", City: "Los Angeles", Country: "USA"})
	dep := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)
	f := a.be.AddFlight(model.Flight{
		ID:                   flightID,
		FlightNumber:         "AA123",
		SourceAirportID:      jfk.ID,
		DestinationAirportID: lax.ID,
		DepartureTime:        model.LocalTime{Time: dep},
		ArrivalTime:          model.LocalTime{Time: dep.Add(6 * time.Hour)},
		SeatsAvailable:       10,
		Price:                100,
	})
	return jfk, lax, f
}
