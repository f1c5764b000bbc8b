package httpx

import (
	"net/http"
	"strings"
	"time"
)

// Toast types understood by the client notification presenter.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Client-side events fired through Hx-Trigger.
const (
	EventShowToast      = "showToast"
	EventCloseModal     = "closeModal"
	EventRedirectAfter  = "redirectAfter"
	EventAirportsReload = "airports:reload"
	EventFlightsReload  = "flights:reload"
	EventBookingsReload = "bookings:reload"
)

// HTMXResponse provides a fluent API for building HTMX responses.
type HTMXResponse struct {
	w http.ResponseWriter
}

// HTMX creates a new HTMXResponse for fluent response building.
func HTMX(w http.ResponseWriter) *HTMXResponse {
	return &HTMXResponse{w: w}
}

// Trigger adds a client-side event with optional payload. Chainable.
func (h *HTMXResponse) Trigger(event string, payload any) *HTMXResponse {
	SetHXTrigger(h.w, event, payload)
	return h
}

// Toast queues a transient notification. Blank messages are ignored.
func (h *HTMXResponse) Toast(message, toastType string) *HTMXResponse {
	if strings.TrimSpace(message) == "" {
		return h
	}
	return h.Trigger(EventShowToast, map[string]any{
		"message": message,
		"type":    strings.TrimSpace(toastType),
	})
}

// CloseModal asks the client to remove the open modal.
func (h *HTMXResponse) CloseModal() *HTMXResponse {
	return h.Trigger(EventCloseModal, nil)
}

// Reload fires a list reload event such as EventAirportsReload.
func (h *HTMXResponse) Reload(event string) *HTMXResponse {
	return h.Trigger(event, nil)
}

// RedirectAfter asks the client to navigate to url once delay has passed.
func (h *HTMXResponse) RedirectAfter(url string, delay time.Duration) *HTMXResponse {
	return h.Trigger(EventRedirectAfter, map[string]any{
		"url":   url,
		"delay": delay.Milliseconds(),
	})
}

// Reswap overrides the swap of the triggering element. Chainable.
func (h *HTMXResponse) Reswap(swap string) *HTMXResponse {
	SetHXReswap(h.w, swap)
	return h
}

// ReplaceURL keeps the address bar in step with the swapped content. Chainable.
func (h *HTMXResponse) ReplaceURL(url string) *HTMXResponse {
	SetHXReplaceURL(h.w, url)
	return h
}

// NoContent finishes the response with 204 and no body.
func (h *HTMXResponse) NoContent() {
	h.w.WriteHeader(http.StatusNoContent)
}
