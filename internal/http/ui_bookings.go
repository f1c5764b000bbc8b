package httpx

import (
	"context"
	"net/http"

	"github.com/airportmgmt/airport-web/internal/domain/model"
	"github.com/airportmgmt/airport-web/internal/http/ui/viewmodel"
)

const bookingScopeAll = "all"

func bookingsPageMeta() PageMeta {
	return PageMeta{Title: "My Bookings - Airport Management", PageTitle: "My Bookings", CurrentPage: PageBookings}
}

// bookingScope reports whether the request asks for every booking. Only managers may.
func bookingScope(r *http.Request) string {
	if r.URL.Query().Get("scope") == bookingScopeAll && GetSessionFromContext(r.Context()).IsManager() {
		return bookingScopeAll
	}
	return ""
}

// BookingsPage renders My Bookings. Managers get a toggle to list every booking.
func (h *UIHandlers) BookingsPage(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: bookingsPageMeta(),
		Fetch: func(_ context.Context, data map[string]any) error {
			data["CanViewAll"] = GetSessionFromContext(r.Context()).IsManager()
			data["Scope"] = bookingScope(r)
			return nil
		},
	})
}

// BookingsList serves the booking cards for the selected scope.
func (h *UIHandlers) BookingsList(w http.ResponseWriter, r *http.Request) {
	fetch := h.Bookings.ListMine
	if bookingScope(r) == bookingScopeAll {
		fetch = h.Bookings.ListAll
	}

	viewer := viewerFor(r)
	HandleList(ListHandlerOpts[model.Booking, struct{}]{
		Handler: h,
		W:       w,
		R:       r,
		Fetcher: fetch,
		EnrichData: func(b *TemplateDataBuilder, items []model.Booking, _ struct{}) {
			b.With("Cards", viewmodel.BookingCards(viewer, items))
		},
		Template:         "bookings-list",
		PageMeta:         bookingsPageMeta(),
		ItemsKey:         "Bookings",
		LoadErrorMessage: "Failed to load bookings",
	})
}

// BookingCancel cancels a confirmed booking after the client-side confirmation.
func (h *UIHandlers) BookingCancel(w http.ResponseWriter, r *http.Request) {
	h.handleItemAction(w, r, itemActionOpts{
		Do:             h.Bookings.Cancel,
		SuccessMessage: "Booking cancelled successfully",
		FailureMessage: "Failed to cancel booking",
		ReloadEvent:    EventBookingsReload,
	})
}
