package viewmodel

import (
	"slices"

	domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"
	"github.com/airportmgmt/airport-web/internal/domain/model"
)

// Action is a control rendered on a list card.
type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionCancel Action = "cancel"
	ActionBook   Action = "book"
)

// Actions is the set of controls visible for one item.
type Actions []Action

// Has reports whether a is in the set. Templates call it as {{.Actions.Has "edit"}}.
func (as Actions) Has(a Action) bool {
	return slices.Contains(as, a)
}

// Entity names a kind of listed item.
type Entity string

const (
	EntityAirport Entity = "airport"
	EntityFlight  Entity = "flight"
	EntityBooking Entity = "booking"
)

// Viewer is who is looking at a list.
type Viewer struct {
	Authenticated bool
	Role          domainauth.Role
}

// ViewerFor converts a session into a Viewer. A nil session is a guest.
func ViewerFor(s *domainauth.Session) Viewer {
	if !s.IsAuthenticated() {
		return Viewer{}
	}
	return Viewer{Authenticated: true, Role: s.Role}
}

// EntityState is the item-side input to VisibleActions.
type EntityState struct {
	Entity Entity
	// Bookable is set for flights that are SCHEDULED with seats left.
	Bookable bool
	// Cancellable is set for confirmed bookings.
	Cancellable bool
}

// managers lists the roles allowed to administer each entity.
//
//nolint:gochecknoglobals // static read-only lookup
var managers = map[Entity][]domainauth.Role{
	EntityAirport: {domainauth.RoleAdmin},
	EntityFlight:  {domainauth.RoleAdmin, domainauth.RoleStaff},
}

// CanManage reports whether v may create, edit or delete items of kind e.
func CanManage(v Viewer, e Entity) bool {
	return v.Authenticated && slices.Contains(managers[e], v.Role)
}

// CanCreate reports whether the add button is shown for kind e.
func CanCreate(v Viewer, e Entity) bool {
	return CanManage(v, e)
}

// VisibleActions returns the card controls v may use on an item in state st.
func VisibleActions(v Viewer, st EntityState) Actions {
	var out Actions
	switch st.Entity {
	case EntityAirport:
		if CanManage(v, EntityAirport) {
			out = append(out, ActionEdit, ActionDelete)
		}
	case EntityFlight:
		if CanManage(v, EntityFlight) {
			out = append(out, ActionEdit, ActionCancel, ActionDelete)
		}
		if v.Authenticated && st.Bookable {
			out = append(out, ActionBook)
		}
	case EntityBooking:
		if v.Authenticated && st.Cancellable {
			out = append(out, ActionCancel)
		}
	}
	return out
}

// AirportCard pairs an airport with its visible actions.
type AirportCard struct {
	model.Airport
	Actions Actions
}

// FlightCard pairs a flight with its visible actions.
type FlightCard struct {
	model.Flight
	Actions Actions
}

// BookingCard pairs a booking with its visible actions.
type BookingCard struct {
	model.Booking
	Actions Actions
}

// AirportCards builds the airport list view.
func AirportCards(v Viewer, airports []model.Airport) []AirportCard {
	cards := make([]AirportCard, 0, len(airports))
	for _, a := range airports {
		cards = append(cards, AirportCard{
			Airport: a,
			Actions: VisibleActions(v, EntityState{Entity: EntityAirport}),
		})
	}
	return cards
}

// FlightCards builds the flight list view.
func FlightCards(v Viewer, flights []model.Flight) []FlightCard {
	cards := make([]FlightCard, 0, len(flights))
	for _, f := range flights {
		cards = append(cards, FlightCard{
			Flight:  f,
			Actions: VisibleActions(v, EntityState{Entity: EntityFlight, Bookable: f.IsBookable()}),
		})
	}
	return cards
}

// BookingCards builds the bookings list view.
func BookingCards(v Viewer, bookings []model.Booking) []BookingCard {
	cards := make([]BookingCard, 0, len(bookings))
	for _, b := range bookings {
		cards = append(cards, BookingCard{
			Booking: b,
			Actions: VisibleActions(v, EntityState{Entity: EntityBooking, Cancellable: b.Cancellable()}),
		})
	}
	return cards
}
