package httpx

import "time"

// CurrentPage identifiers used in templates and navigation.
const (
	PageHome     = "home"
	PageAirports = "airports"
	PageFlights  = "flights"
	PageBookings = "bookings"
	PageLogin    = "login"
	PageRegister = "register"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// SessionCookieName names the cookie holding the identity slot id.
const SessionCookieName = "session_id"

// UX pacing delays executed client-side through redirectAfter.
const (
	BookingRedirectDelay = 1500 * time.Millisecond
	LoginRedirectDelay   = 1500 * time.Millisecond
	LogoutRedirectDelay  = 1000 * time.Millisecond
)

// FormMode represents the mode of a modal form (create or edit).
type FormMode string

const (
	// FormModeEdit indicates the form is in edit mode.
	FormModeEdit FormMode = "edit"
	// FormModeCreate indicates the form is in create mode.
	FormModeCreate FormMode = "create"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:     "home-content",
	PageAirports: "airports-content",
	PageFlights:  "flights-content",
	PageBookings: "bookings-content",
	PageLogin:    "login-content",
	PageRegister: "register-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to home-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "home-content"
}
