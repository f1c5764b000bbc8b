package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	airportweb "github.com/airportmgmt/airport-web"
	domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"
	"github.com/airportmgmt/airport-web/internal/observability/metrics"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Airports AirportsService
	Flights  FlightsService
	Bookings BookingsService
	Auth     AuthServiceInterface
	// Metrics is optional; nil disables request metrics and the metrics endpoint.
	Metrics     *metrics.Registry
	MetricsPath string
	// LoginLimiter throttles login and register submissions. Nil never throttles.
	LoginLimiter *LoginLimiter
	// Compression is applied when non-nil.
	Compression  *CompressionConfig
	CookieDomain string
	IsDev        bool         // Development mode: templates and static files from disk
	Logger       *slog.Logger // Logger for template and HTTP errors (optional)
	// TemplateFS overrides where templates are read from, mainly for tests.
	TemplateFS fs.FS
}

func (s RouterServices) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// NewRouter creates the HTTP handler: Recover, Logging, Metrics and optional
// Compression wrap a ServeMux carrying every route.
func NewRouter(services RouterServices) (http.Handler, error) {
	mux := http.NewServeMux()

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(services),
		Logger:     services.Logger,
	})
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{
		T:        tr,
		Airports: services.Airports,
		Flights:  services.Flights,
		Bookings: services.Bookings,
		IsDev:    services.IsDev,
		Logger:   services.Logger,
	}
	auth := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
		Pages:        ui,
	}

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	if services.Metrics != nil {
		path := services.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, services.Metrics.Handler())
	}
	mux.Handle("GET /static/", staticHandler(services))

	rc := routeConfig{
		auth:         services.Auth,
		cookieDomain: services.CookieDomain,
		csrf:         CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain}),
	}
	registerAuthRoutes(mux, auth, ui, rc, services.LoginLimiter)
	registerAirportRoutes(mux, ui, rc)
	registerFlightRoutes(mux, ui, rc)
	registerBookingRoutes(mux, ui, rc)
	mux.Handle("GET /{$}", rc.public(http.HandlerFunc(ui.Home)))
	mux.Handle("/", rc.public(http.HandlerFunc(ui.NotFound)))

	var handler http.Handler = mux
	if services.Compression != nil {
		cfg := *services.Compression
		if cfg.Logger == nil {
			cfg.Logger = services.Logger
		}
		handler = Compression(cfg)(handler)
	}
	handler = services.Metrics.Middleware(handler)
	handler = Logging(services.logger())(handler)
	handler = Recover(services.logger())(handler)
	return handler, nil
}

// templateFS picks templates from disk in dev mode and from the embedded FS otherwise.
func templateFS(services RouterServices) fs.FS {
	if services.TemplateFS != nil {
		return services.TemplateFS
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(airportweb.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		services.logger().Error("embedded templates unavailable, falling back to disk", "error", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticHandler serves /static/* from disk in dev mode and from the embedded FS otherwise.
func staticHandler(services RouterServices) http.Handler {
	if services.IsDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))), false)
	}
	sub, err := fs.Sub(airportweb.StaticFS, "frontend/static")
	if err != nil {
		services.logger().Error("embedded static assets unavailable, falling back to disk", "error", err)
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))), false)
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(sub))), true)
}

// staticWithCacheHeaders adds cache headers. Embedded assets only change with a
// deploy, so they get a short public max-age; disk assets are never cached.
func staticWithCacheHeaders(handler http.Handler, cacheable bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cacheable {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		handler.ServeHTTP(w, r)
	})
}

// routeConfig builds the per-route middleware chains. The session and CSRF
// middleware run inside the mux so the metrics middleware sees the matched pattern.
type routeConfig struct {
	auth         AuthServiceInterface
	cookieDomain string
	csrf         func(http.Handler) http.Handler
}

// public resolves the session when present and lets guests through.
func (rc routeConfig) public(h http.Handler) http.Handler {
	return rc.csrf(OptionalAuth(rc.auth, rc.cookieDomain)(h))
}

// authed requires any logged-in user.
func (rc routeConfig) authed(h http.Handler) http.Handler {
	return rc.csrf(RequireAuthBrowser(rc.auth, rc.cookieDomain)(h))
}

// role requires one of roles.
func (rc routeConfig) role(roles ...domainauth.Role) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return rc.csrf(RequireRoleBrowser(rc.auth, rc.cookieDomain, roles...)(h))
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, ui *UIHandlers, rc routeConfig, limiter *LoginLimiter) {
	mux.Handle("GET /login", rc.public(http.HandlerFunc(ui.LoginPage)))
	mux.Handle("GET /register", rc.public(http.HandlerFunc(ui.RegisterPage)))
	mux.Handle("POST /login", rc.public(limiter.Middleware(http.HandlerFunc(h.Login))))
	mux.Handle("POST /register", rc.public(limiter.Middleware(http.HandlerFunc(h.Register))))
	mux.Handle("POST /logout", rc.csrf(http.HandlerFunc(h.Logout)))
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerAirportRoutes(mux *http.ServeMux, h *UIHandlers, rc routeConfig) {
	admin := rc.role(domainauth.RoleAdmin)
	mux.Handle("GET /airports", rc.public(http.HandlerFunc(h.AirportsPage)))
	mux.Handle("GET /airports/list", rc.public(http.HandlerFunc(h.AirportsList)))
	mux.Handle("GET /airports/new", admin(http.HandlerFunc(h.AirportNew)))
	mux.Handle("GET /airports/{id}/edit", admin(http.HandlerFunc(h.AirportEdit)))
	mux.Handle("POST /airports/save", admin(http.HandlerFunc(h.AirportSave)))
	mux.Handle("DELETE /airports/{id}", admin(http.HandlerFunc(h.AirportDelete)))
}

func registerFlightRoutes(mux *http.ServeMux, h *UIHandlers, rc routeConfig) {
	manager := rc.role(domainauth.RoleAdmin, domainauth.RoleStaff)
	mux.Handle("GET /flights", rc.public(http.HandlerFunc(h.FlightsPage)))
	mux.Handle("GET /flights/list", rc.public(http.HandlerFunc(h.FlightsList)))
	mux.Handle("GET /flights/new", manager(http.HandlerFunc(h.FlightNew)))
	mux.Handle("GET /flights/{id}/edit", manager(http.HandlerFunc(h.FlightEdit)))
	mux.Handle("POST /flights/save", manager(http.HandlerFunc(h.FlightSave)))
	mux.Handle("POST /flights/{id}/cancel", manager(http.HandlerFunc(h.FlightCancel)))
	mux.Handle("DELETE /flights/{id}", manager(http.HandlerFunc(h.FlightDelete)))
	// Guests reach the handler so they get the login toast instead of a redirect.
	mux.Handle("GET /flights/{id}/book", rc.public(http.HandlerFunc(h.FlightBook)))
}

func registerBookingRoutes(mux *http.ServeMux, h *UIHandlers, rc routeConfig) {
	mux.Handle("GET /bookings", rc.authed(http.HandlerFunc(h.BookingsPage)))
	mux.Handle("GET /bookings/list", rc.authed(http.HandlerFunc(h.BookingsList)))
	mux.Handle("GET /bookings/total", rc.public(http.HandlerFunc(h.BookingTotal)))
	mux.Handle("POST /bookings", rc.authed(http.HandlerFunc(h.BookingCreate)))
	mux.Handle("POST /bookings/{id}/cancel", rc.authed(http.HandlerFunc(h.BookingCancel)))
}
