package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/airportmgmt/airport-web/internal/domain/model"
	"github.com/airportmgmt/airport-web/internal/http/ui/viewmodel"
)

func airportsPageMeta() PageMeta {
	return PageMeta{Title: "Airports - Airport Management", PageTitle: "Airports", CurrentPage: PageAirports}
}

// AirportsPage renders the airports page. The list itself is loaded by htmx from AirportsList.
func (h *UIHandlers) AirportsPage(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: airportsPageMeta(),
		Fetch: func(_ context.Context, data map[string]any) error {
			data["CanCreate"] = viewmodel.CanCreate(viewerFor(r), viewmodel.EntityAirport)
			data["Query"] = r.URL.Query().Get("q")
			return nil
		},
	})
}

// AirportsList serves the airport cards, searching when q is non-blank.
func (h *UIHandlers) AirportsList(w http.ResponseWriter, r *http.Request) {
	viewer := viewerFor(r)
	HandleList(ListHandlerOpts[model.Airport, string]{
		Handler:         h,
		W:               w,
		R:               r,
		Fetcher:         h.Airports.List,
		FilteredFetcher: h.Airports.Search,
		FilterParser:    func(q url.Values) string { return strings.TrimSpace(q.Get("q")) },
		IsEmpty:         func(q string) bool { return q == "" },
		EnrichData: func(b *TemplateDataBuilder, items []model.Airport, _ string) {
			b.With("Cards", viewmodel.AirportCards(viewer, items))
		},
		Template:           "airports-list",
		PageMeta:           airportsPageMeta(),
		ItemsKey:           "Airports",
		LoadErrorMessage:   "Failed to load airports",
		SearchErrorMessage: "Search failed",
		PageURL: func(q string) string {
			if q == "" {
				return "/airports"
			}
			return "/airports?" + url.Values{"q": {q}}.Encode()
		},
	})
}

// AirportDelete deletes one airport after the client-side confirmation.
func (h *UIHandlers) AirportDelete(w http.ResponseWriter, r *http.Request) {
	h.handleItemAction(w, r, itemActionOpts{
		Do:             h.Airports.Delete,
		SuccessMessage: "Airport deleted successfully",
		FailureMessage: "Failed to delete airport",
		ReloadEvent:    EventAirportsReload,
	})
}
