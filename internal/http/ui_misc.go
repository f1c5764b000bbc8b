package httpx

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/airportmgmt/airport-web/internal/http/ui/viewmodel"
)

// Home renders the landing page.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Airport Management System", PageTitle: "Welcome", CurrentPage: PageHome},
		Fetch: func(_ context.Context, data map[string]any) error {
			viewer := viewerFor(r)
			data["CanManageAirports"] = viewmodel.CanManage(viewer, viewmodel.EntityAirport)
			data["CanManageFlights"] = viewmodel.CanManage(viewer, viewmodel.EntityFlight)
			return nil
		},
	})
}

// NotFound answers unknown routes: an HTML page for browsers, JSON otherwise.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		h.renderBrowserNotFound(w, r)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusNotFound,
		ErrCode: "not_found",
		Err:     errors.New("not found"),
	})
}

func (h *UIHandlers) renderBrowserNotFound(w http.ResponseWriter, r *http.Request) {
	if h.T == nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}

	data := basePageData(r, PageMeta{Title: "Page Not Found - Airport Management", PageTitle: "Page Not Found"})
	data["Code"] = "404"
	data["Message"] = "The page you're looking for doesn't exist."

	var buf bytes.Buffer
	if err := h.T.t.ExecuteTemplate(&buf, "error-layout", data); err != nil {
		h.logger().Error("not found page render failed", "error", err)
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().Error("failed to write not found page", "error", err)
	}
}
