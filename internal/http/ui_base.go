package httpx

import (
	"bytes"
	"context"
	"html"
	"log/slog"
	"net/http"

	"github.com/airportmgmt/airport-web/internal/domain/model"
	"github.com/airportmgmt/airport-web/internal/http/ui/viewmodel"
	"github.com/airportmgmt/airport-web/internal/service"
)

const errMsgFixBelow = "Please fix the errors below."

// AirportsService is a minimal interface for the airport pages.
type AirportsService interface {
	List(ctx context.Context) ([]model.Airport, error)
	Search(ctx context.Context, q string) ([]model.Airport, error)
	GetByID(ctx context.Context, id int64) (*model.Airport, error)
	Save(ctx context.Context, in model.AirportInput) (string, error)
	Delete(ctx context.Context, id int64) (string, error)
}

// FlightsService is a minimal interface for the flight pages.
type FlightsService interface {
	List(ctx context.Context) ([]model.Flight, error)
	Search(ctx context.Context, c model.FlightCriteria) ([]model.Flight, error)
	GetByID(ctx context.Context, id int64) (*model.Flight, error)
	Save(ctx context.Context, in model.FlightInput) (string, error)
	Cancel(ctx context.Context, id int64) (string, error)
	Delete(ctx context.Context, id int64) (string, error)
}

// BookingsService is a minimal interface for the booking flow and My Bookings.
type BookingsService interface {
	Create(ctx context.Context, d model.BookingDraft) (string, error)
	ListMine(ctx context.Context) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	Cancel(ctx context.Context, id int64) (string, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ AirportsService = (*service.AirportService)(nil)
	_ FlightsService  = (*service.FlightService)(nil)
	_ BookingsService = (*service.BookingService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T        *TemplateRenderer
	Airports AirportsService
	Flights  FlightsService
	Bookings BookingsService
	IsDev    bool // Development mode flag for enhanced error reporting
	Logger   *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	session := GetSessionFromContext(r.Context())
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
		Nav:         viewmodel.NavFor(session),
	}

	if session.IsAuthenticated() {
		layout.IsAuthenticated = true
		layout.User = &viewmodel.User{
			Username: session.Username,
			Email:    session.Email,
			Role:     string(session.Role),
		}
	}

	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"Nav":             layout.Nav,
		"Viewer":          viewmodel.ViewerFor(GetSessionFromContext(r.Context())),
		"Errors":          map[string]string{},
		"CSRFToken":       layout.CSRFToken,
	}

	if layout.User != nil {
		data["User"] = layout.User
	}

	return data
}

// viewerFor returns the list viewer for the request.
func viewerFor(r *http.Request) viewmodel.Viewer {
	return viewmodel.ViewerFor(GetSessionFromContext(r.Context()))
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			markPageError(data)
		}
	}
	h.renderPage(w, r, data)
}

// renderPage renders a full page, or for non-boosted htmx requests only the content
// plus out-of-band title and navigation updates.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	layout := layoutFromMap(data)

	var buf bytes.Buffer
	buf.WriteString(`<title>` + html.EscapeString(layout.Title) + `</title>`)
	if err := h.T.t.ExecuteTemplate(&buf, "nav-oob", data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial nav render")
		return
	}
	if err := h.T.t.ExecuteTemplate(&buf, ContentTemplateFor(layout.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().Error("failed to write partial page", "error", err)
	}
}

// renderFragment renders a list or modal partial.
func (h *UIHandlers) renderFragment(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := h.T.RenderFragment(w, name, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, name)
	}
}

func markPageError(data map[string]any) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	data["ErrorMessage"] = "An unexpected error occurred. Please try again."
}

func layoutFromMap(data map[string]any) viewmodel.Layout {
	layout := viewmodel.Layout{}
	if v, ok := data["Title"].(string); ok {
		layout.Title = v
	}
	if v, ok := data["PageTitle"].(string); ok {
		layout.PageTitle = v
	}
	if v, ok := data["CurrentPage"].(string); ok {
		layout.CurrentPage = v
	}
	return layout
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		body := `<div class="template-error"><h2>Template Rendering Error</h2>` +
			`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
			`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
			`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`
		if _, writeErr := w.Write([]byte(body)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// itemActionOpts describes a one-click list action such as delete or cancel.
type itemActionOpts struct {
	Do func(ctx context.Context, id int64) (string, error)
	// SuccessMessage is toasted on success regardless of the backend message.
	SuccessMessage string
	// FailureMessage is toasted when a failure carries no server message.
	FailureMessage string
	ReloadEvent    string
}

// handleItemAction runs a destructive action on the {id} item. The confirmation
// dialog is shown client-side by hx-confirm, so reaching here means the user agreed.
// Success toasts and reloads the list; failure toasts the error and leaves the list alone.
func (h *UIHandlers) handleItemAction(w http.ResponseWriter, r *http.Request, opts itemActionOpts) {
	id, ok := pathID(r)
	if !ok {
		HTMX(w).Toast("Invalid identifier", ToastError).Reswap("none")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if _, err := opts.Do(r.Context(), id); err != nil {
		if clientGone(r, err) {
			return
		}
		HTMX(w).Toast(userMessage(err, opts.FailureMessage), ToastError).Reswap("none")
		w.WriteHeader(http.StatusOK)
		return
	}

	HTMX(w).Toast(opts.SuccessMessage, ToastSuccess).Reload(opts.ReloadEvent).NoContent()
}

// rejectModal answers a modal open request that could not load its data.
func rejectModal(w http.ResponseWriter, err error, fallback string) {
	HTMX(w).Toast(userMessage(err, fallback), ToastError).Reswap("none")
	w.WriteHeader(http.StatusOK)
}
