package config

import (
	"strings"
	"time"
)

// DefaultBackendURL is the context root the REST backend is deployed under.
const DefaultBackendURL = "http://localhost:8080/AirportManagementSystem"

// BackendConfig configures the client for the airport REST backend.
type BackendConfig struct {
	// URL is the base every backend path is appended to.
	URL string `env:"URL" envDefault:"http://localhost:8080/AirportManagementSystem"`

	// Timeout bounds each backend call. Zero leaves calls unbounded.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"0"`

	// SessionCookie names the backend's session cookie captured at login.
	SessionCookie string `env:"SESSION_COOKIE" envDefault:"JSESSIONID"`
}

// Sanitize trims values and restores defaults for blank settings.
func (b *BackendConfig) Sanitize() {
	b.URL = strings.TrimRight(strings.TrimSpace(b.URL), "/")
	if b.URL == "" {
		b.URL = DefaultBackendURL
	}
	if b.Timeout < 0 {
		b.Timeout = 0
	}
	b.SessionCookie = strings.TrimSpace(b.SessionCookie)
}
