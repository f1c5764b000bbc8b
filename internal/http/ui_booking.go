package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/airportmgmt/airport-web/internal/domain/model"
	"github.com/airportmgmt/airport-web/internal/http/validation"
)

// bookingForm is the submitted state of the booking modal.
type bookingForm struct {
	FlightID    int64
	SeatsBooked string
}

// FlightBook opens the booking modal for a flight. Guests are told to log in and
// redirected to the login page once, without any markup being swapped.
func (h *UIHandlers) FlightBook(w http.ResponseWriter, r *http.Request) {
	if IsGuestUser(r.Context()) {
		HTMX(w).Toast("Please login to book flights", ToastError).
			RedirectAfter("/login", LoginRedirectDelay).
			NoContent()
		return
	}

	id, ok := pathID(r)
	if !ok {
		rejectModal(w, nil, "Invalid flight")
		return
	}

	flight, err := h.Flights.GetByID(r.Context(), id)
	if err != nil {
		if clientGone(r, err) {
			return
		}
		rejectModal(w, err, "Failed to load flight")
		return
	}
	if !flight.IsBookable() {
		rejectModal(w, nil, "This flight is not available for booking")
		return
	}

	data := NewTemplateData(r, flightsPageMeta()).
		With("Flight", flight).
		With("FormData", bookingForm{FlightID: flight.ID, SeatsBooked: "1"}).
		With("Total", model.NewBookingDraft(flight.ID, "1", flight.Price).Total()).
		Build()
	h.renderFragment(w, r, "booking-modal", data)
}

// BookingTotal renders the running total shown in the booking modal as seats change.
// Invalid input renders $0.00.
func (h *UIHandlers) BookingTotal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	price, err := strconv.ParseFloat(strings.TrimSpace(q.Get("price")), 64)
	if err != nil || price < 0 {
		price = 0
	}
	draft := model.NewBookingDraft(0, q.Get("seatsBooked"), price)
	h.renderFragment(w, r, "booking-total", map[string]any{"Total": draft.Total()})
}

// BookingCreate books seats on a flight. Success closes the modal and moves the
// browser to My Bookings; failure re-opens the modal with the error.
func (h *UIHandlers) BookingCreate(w http.ResponseWriter, r *http.Request) {
	if err := parseRequestForm(r); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	form := bookingForm{
		FlightID:    formID(r, "flightId"),
		SeatsBooked: strings.TrimSpace(r.FormValue("seatsBooked")),
	}
	fieldErrors := validation.New().
		Validate("seatsBooked", form.SeatsBooked, validation.PositiveInt("Seats")).
		Errors()
	if form.FlightID <= 0 {
		fieldErrors["flightId"] = "Flight is required"
	}

	if len(fieldErrors) > 0 {
		h.renderBookingError(w, r, form, nil, fieldErrors)
		return
	}

	seats, _ := strconv.Atoi(form.SeatsBooked)
	_, err := h.Bookings.Create(r.Context(), model.BookingDraft{FlightID: form.FlightID, SeatsBooked: seats})
	if err != nil {
		if clientGone(r, err) {
			return
		}
		h.renderBookingError(w, r, form, err, nil)
		return
	}

	HTMX(w).Toast("Booking confirmed successfully!", ToastSuccess).
		CloseModal().
		RedirectAfter("/bookings", BookingRedirectDelay).
		NoContent()
}

// renderBookingError re-opens the booking modal. The flight is re-fetched so the
// summary stays accurate; if that fails the modal is rejected with a toast instead.
func (h *UIHandlers) renderBookingError(
	w http.ResponseWriter,
	r *http.Request,
	form bookingForm,
	err error,
	fieldErrors map[string]string,
) {
	flight, getErr := h.Flights.GetByID(r.Context(), form.FlightID)
	if getErr != nil {
		if err == nil {
			err = getErr
		}
		rejectModal(w, err, "Failed to create booking")
		return
	}

	RenderError(ErrorOpts{
		W:           w,
		R:           r,
		Err:         err,
		Fallback:    "Failed to create booking",
		FieldErrors: fieldErrors,
		Renderer: func(w http.ResponseWriter, r *http.Request, data map[string]any) {
			h.renderFragment(w, r, "booking-modal", data)
		},
		PageMeta: flightsPageMeta(),
		Data: map[string]any{
			"Flight":   flight,
			"FormData": form,
			"Total":    model.NewBookingDraft(flight.ID, form.SeatsBooked, flight.Price).Total(),
		},
		ShowToast: true,
	})
}
