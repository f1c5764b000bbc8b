package httpx

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/airportmgmt/airport-web/internal/domain/model"
	"github.com/airportmgmt/airport-web/internal/http/validation"
)

var flightNumberRe = regexp.MustCompile(`^[A-Z]{2}[0-9]{3,4}$`)

// flightForm keeps the raw submitted strings so a failed submission re-renders exactly what was typed.
type flightForm struct {
	ID                   int64
	FlightNumber         string
	SourceAirportID      string
	DestinationAirportID string
	DepartureTime        string
	ArrivalTime          string
	SeatsAvailable       string
	Price                string
	Status               string
}

func flightFormFrom(f model.Flight) flightForm {
	return flightForm{
		ID:                   f.ID,
		FlightNumber:         f.FlightNumber,
		SourceAirportID:      strconv.FormatInt(f.SourceAirportID, 10),
		DestinationAirportID: strconv.FormatInt(f.DestinationAirportID, 10),
		DepartureTime:        f.DepartureTime.InputValue(),
		ArrivalTime:          f.ArrivalTime.InputValue(),
		SeatsAvailable:       strconv.Itoa(f.SeatsAvailable),
		Price:                strconv.FormatFloat(f.Price, 'f', -1, 64),
		Status:               string(f.Status),
	}
}

// input converts an already validated form.
func (f flightForm) input() model.FlightInput {
	src, _ := strconv.ParseInt(f.SourceAirportID, 10, 64)
	dst, _ := strconv.ParseInt(f.DestinationAirportID, 10, 64)
	seats, _ := strconv.Atoi(f.SeatsAvailable)
	price, _ := strconv.ParseFloat(f.Price, 64)
	in := model.FlightInput{
		ID:                   f.ID,
		FlightNumber:         f.FlightNumber,
		SourceAirportID:      src,
		DestinationAirportID: dst,
		DepartureTime:        f.DepartureTime,
		ArrivalTime:          f.ArrivalTime,
		SeatsAvailable:       seats,
		Price:                price,
	}
	if f.ID > 0 {
		in.Status = model.FlightStatus(f.Status)
	}
	return in
}

func flightFormMode(f flightForm) FormMode {
	if f.ID > 0 {
		return FormModeEdit
	}
	return FormModeCreate
}

// flightModalData adds the airport options and status list the modal needs.
func flightModalData(airports []model.Airport) map[string]any {
	return map[string]any{
		"AirportOptions": airports,
		"Statuses":       model.FlightStatuses,
	}
}

func (h *UIHandlers) renderFlightModal(w http.ResponseWriter, r *http.Request, data map[string]any) {
	h.renderFragment(w, r, "flight-modal", data)
}

// FlightNew opens an empty flight modal with the airport selects populated.
func (h *UIHandlers) FlightNew(w http.ResponseWriter, r *http.Request) {
	airports, err := h.Airports.List(r.Context())
	if err != nil {
		if clientGone(r, err) {
			return
		}
		rejectModal(w, err, "Failed to load airports")
		return
	}

	b := NewTemplateData(r, flightsPageMeta()).
		With("Mode", string(FormModeCreate)).
		With("FormData", flightForm{})
	for k, v := range flightModalData(airports) {
		b.With(k, v)
	}
	h.renderFlightModal(w, r, b.Build())
}

// FlightEdit opens the flight modal pre-filled. The flight and the airport list are fetched concurrently.
func (h *UIHandlers) FlightEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var (
		flight   *model.Flight
		airports []model.Airport
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		f, err := h.Flights.GetByID(ctx, id)
		flight = f
		return err
	})
	g.Go(func() error {
		a, err := h.Airports.List(ctx)
		airports = a
		return err
	})
	if err := g.Wait(); err != nil {
		if clientGone(r, err) {
			return
		}
		rejectModal(w, err, "Failed to load flight")
		return
	}

	b := NewTemplateData(r, flightsPageMeta()).
		With("Mode", string(FormModeEdit)).
		With("FormData", flightFormFrom(*flight))
	for k, v := range flightModalData(airports) {
		b.With(k, v)
	}
	h.renderFlightModal(w, r, b.Build())
}

// FlightSave creates or updates a flight depending on the presence of the id field.
func (h *UIHandlers) FlightSave(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[flightForm]{
		W:      w,
		R:      r,
		Parser: parseFlightForm,
		Save: func(ctx context.Context, f flightForm) (string, error) {
			return h.Flights.Save(ctx, f.input())
		},
		Renderer:       h.renderFlightModal,
		ModeOf:         flightFormMode,
		ReloadEvent:    EventFlightsReload,
		FailureMessage: "Failed to save flight",
		PageMeta:       flightsPageMeta(),
		ExtraData: func(ctx context.Context) map[string]any {
			// Best effort: a failure here leaves the selects empty rather than hiding the real error.
			airports, err := h.Airports.List(ctx)
			if err != nil {
				h.logger().WarnContext(ctx, "reload airports for flight modal failed", "error", err)
			}
			return flightModalData(airports)
		},
	})
}

// parseFlightForm reads and validates the flight modal.
func parseFlightForm(r *http.Request) (flightForm, map[string]string) {
	f := flightForm{
		ID:                   formID(r, "id"),
		FlightNumber:         strings.ToUpper(strings.TrimSpace(r.FormValue("flightNumber"))),
		SourceAirportID:      strings.TrimSpace(r.FormValue("sourceAirportId")),
		DestinationAirportID: strings.TrimSpace(r.FormValue("destinationAirportId")),
		DepartureTime:        strings.TrimSpace(r.FormValue("departureTime")),
		ArrivalTime:          strings.TrimSpace(r.FormValue("arrivalTime")),
		SeatsAvailable:       strings.TrimSpace(r.FormValue("seatsAvailable")),
		Price:                strings.TrimSpace(r.FormValue("price")),
		Status:               strings.ToUpper(strings.TrimSpace(r.FormValue("status"))),
	}

	v := validation.New().
		Validate("flightNumber", f.FlightNumber,
			validation.Required("Flight number", 6), validation.Pattern("Flight number", flightNumberRe, false)).
		Validate("sourceAirportId", f.SourceAirportID, validation.PositiveInt("Source airport")).
		Validate("destinationAirportId", f.DestinationAirportID, validation.PositiveInt("Destination airport")).
		Validate("departureTime", f.DepartureTime, validation.DateTime("Departure time")).
		Validate("arrivalTime", f.ArrivalTime, validation.DateTime("Arrival time")).
		Validate("seatsAvailable", f.SeatsAvailable, validation.PositiveInt("Seats available")).
		Validate("price", f.Price, validation.PositiveAmount("Price"))

	if f.ID > 0 && f.Status != "" {
		v.Validate("status", f.Status, validation.OneOf("Status", flightStatusNames()))
	}
	if f.SourceAirportID != "" && f.SourceAirportID == f.DestinationAirportID {
		v.Add("destinationAirportId", "Destination must differ from the source airport.")
	}
	if dep, err := model.ParseLocalTime(f.DepartureTime); err == nil {
		if arr, err := model.ParseLocalTime(f.ArrivalTime); err == nil && !arr.After(dep.Time) {
			v.Add("arrivalTime", "Arrival time must be after departure time.")
		}
	}

	return f, v.Errors()
}

func flightStatusNames() []string {
	names := make([]string, len(model.FlightStatuses))
	for i, s := range model.FlightStatuses {
		names[i] = string(s)
	}
	return names
}
