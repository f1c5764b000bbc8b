package httpx

import (
	"net/http"
	"regexp"

	"github.com/airportmgmt/airport-web/internal/domain/model"
	"github.com/airportmgmt/airport-web/internal/http/validation"
)

var airportCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

func airportFormMode(in model.AirportInput) FormMode {
	if in.ID > 0 {
		return FormModeEdit
	}
	return FormModeCreate
}

// renderAirportModal renders the airport modal. In edit mode the code input is read-only.
func (h *UIHandlers) renderAirportModal(w http.ResponseWriter, r *http.Request, data map[string]any) {
	h.renderFragment(w, r, "airport-modal", data)
}

// AirportNew opens an empty airport modal.
func (h *UIHandlers) AirportNew(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, airportsPageMeta()).
		With("Mode", string(FormModeCreate)).
		With("FormData", model.AirportInput{}).
		Build()
	h.renderAirportModal(w, r, data)
}

// AirportEdit opens the airport modal pre-filled from the backend.
func (h *UIHandlers) AirportEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	a, err := h.Airports.GetByID(r.Context(), id)
	if err != nil {
		if clientGone(r, err) {
			return
		}
		rejectModal(w, err, "Failed to load airport")
		return
	}

	data := NewTemplateData(r, airportsPageMeta()).
		With("Mode", string(FormModeEdit)).
		With("FormData", model.AirportInput{ID: a.ID, Code: a.Code, Name: a.Name, City: a.City, Country: a.Country}).
		Build()
	h.renderAirportModal(w, r, data)
}

// AirportSave creates or updates an airport depending on the presence of the id field.
func (h *UIHandlers) AirportSave(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[model.AirportInput]{
		W:              w,
		R:              r,
		Parser:         parseAirportForm,
		Save:           h.Airports.Save,
		Renderer:       h.renderAirportModal,
		ModeOf:         airportFormMode,
		ReloadEvent:    EventAirportsReload,
		FailureMessage: "Failed to save airport",
		PageMeta:       airportsPageMeta(),
	})
}

// parseAirportForm reads and validates the airport modal. The code is upper-cased.
func parseAirportForm(r *http.Request) (model.AirportInput, map[string]string) {
	in := model.AirportInput{
		ID:      formID(r, "id"),
		Code:    r.FormValue("code"),
		Name:    r.FormValue("name"),
		City:    r.FormValue("city"),
		Country: r.FormValue("country"),
	}
	in.Normalize()

	errs := validation.New().
		Validate("code", in.Code, validation.Required("Code", 3), validation.Pattern("Code", airportCodeRe, false)).
		Validate("name", in.Name, validation.Required("Name", 100)).
		Validate("city", in.City, validation.Required("City", 100)).
		Validate("country", in.Country, validation.Required("Country", 100)).
		Errors()

	return in, errs
}
