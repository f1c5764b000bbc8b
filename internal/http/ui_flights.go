package httpx

import (
	"context"
	"net/http"
	"net/url"

	"github.com/airportmgmt/airport-web/internal/domain/model"
	"github.com/airportmgmt/airport-web/internal/http/ui/viewmodel"
)

func flightsPageMeta() PageMeta {
	return PageMeta{Title: "Flights - Airport Management", PageTitle: "Flights", CurrentPage: PageFlights}
}

func parseFlightCriteria(q url.Values) model.FlightCriteria {
	return model.FlightCriteria{From: q.Get("from"), To: q.Get("to"), Date: q.Get("date")}.Normalize()
}

// FlightsPage renders the flights page with the search form. The list is loaded by htmx.
func (h *UIHandlers) FlightsPage(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: flightsPageMeta(),
		Fetch: func(_ context.Context, data map[string]any) error {
			data["CanCreate"] = viewmodel.CanCreate(viewerFor(r), viewmodel.EntityFlight)
			data["Criteria"] = parseFlightCriteria(r.URL.Query())
			return nil
		},
	})
}

// FlightsList serves the flight cards. Only non-empty criteria are forwarded to the search.
func (h *UIHandlers) FlightsList(w http.ResponseWriter, r *http.Request) {
	viewer := viewerFor(r)
	HandleList(ListHandlerOpts[model.Flight, model.FlightCriteria]{
		Handler:         h,
		W:               w,
		R:               r,
		Fetcher:         h.Flights.List,
		FilteredFetcher: h.Flights.Search,
		FilterParser:    parseFlightCriteria,
		IsEmpty:         model.FlightCriteria.IsEmpty,
		EnrichData: func(b *TemplateDataBuilder, items []model.Flight, _ model.FlightCriteria) {
			b.With("Cards", viewmodel.FlightCards(viewer, items))
		},
		Template:           "flights-list",
		PageMeta:           flightsPageMeta(),
		ItemsKey:           "Flights",
		LoadErrorMessage:   "Failed to load flights",
		SearchErrorMessage: "Search failed",
		PageURL: func(c model.FlightCriteria) string {
			if c.IsEmpty() {
				return "/flights"
			}
			return "/flights?" + c.Query().Encode()
		},
	})
}

// FlightCancel cancels a flight after the client-side confirmation.
func (h *UIHandlers) FlightCancel(w http.ResponseWriter, r *http.Request) {
	h.handleItemAction(w, r, itemActionOpts{
		Do:             h.Flights.Cancel,
		SuccessMessage: "Flight cancelled successfully",
		FailureMessage: "Failed to cancel flight",
		ReloadEvent:    EventFlightsReload,
	})
}

// FlightDelete deletes a flight after the client-side confirmation.
func (h *UIHandlers) FlightDelete(w http.ResponseWriter, r *http.Request) {
	h.handleItemAction(w, r, itemActionOpts{
		Do:             h.Flights.Delete,
		SuccessMessage: "Flight deleted successfully",
		FailureMessage: "Failed to delete flight",
		ReloadEvent:    EventFlightsReload,
	})
}
