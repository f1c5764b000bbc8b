package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"
	"github.com/airportmgmt/airport-web/internal/domain/model"
)

func session(role domainauth.Role) *domainauth.Session {
	return &domainauth.Session{UserID: "7", Username: "u", Role: role}
}

func TestVisibleActions_Airports(t *testing.T) {
	tests := []struct {
		name string
		s    *domainauth.Session
		want Actions
	}{
		{"guest", nil, nil},
		{"customer", session(domainauth.RoleCustomer), nil},
		{"staff", session(domainauth.RoleStaff), nil},
		{"admin", session(domainauth.RoleAdmin), Actions{ActionEdit, ActionDelete}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleActions(ViewerFor(tt.s), EntityState{Entity: EntityAirport})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVisibleActions_Flights(t *testing.T) {
	tests := []struct {
		name     string
		s        *domainauth.Session
		bookable bool
		want     Actions
	}{
		{"guest never books", nil, true, nil},
		{"customer bookable", session(domainauth.RoleCustomer), true, Actions{ActionBook}},
		{"customer not bookable", session(domainauth.RoleCustomer), false, nil},
		{"staff manages", session(domainauth.RoleStaff), false, Actions{ActionEdit, ActionCancel, ActionDelete}},
		{"admin manages and books", session(domainauth.RoleAdmin), true,
			Actions{ActionEdit, ActionCancel, ActionDelete, ActionBook}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleActions(ViewerFor(tt.s), EntityState{Entity: EntityFlight, Bookable: tt.bookable})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVisibleActions_AdminControlsIffAuthorized(t *testing.T) {
	roles := []domainauth.Role{"", domainauth.RoleCustomer, domainauth.RoleStaff, domainauth.RoleAdmin}
	for _, role := range roles {
		var s *domainauth.Session
		if role != "" {
			s = session(role)
		}
		v := ViewerFor(s)

		airport := VisibleActions(v, EntityState{Entity: EntityAirport})
		assert.Equal(t, role == domainauth.RoleAdmin, airport.Has(ActionEdit), "airport edit for %q", role)
		assert.Equal(t, role == domainauth.RoleAdmin, airport.Has(ActionDelete), "airport delete for %q", role)

		flight := VisibleActions(v, EntityState{Entity: EntityFlight})
		isManager := role == domainauth.RoleAdmin || role == domainauth.RoleStaff
		assert.Equal(t, isManager, flight.Has(ActionEdit), "flight edit for %q", role)
		assert.Equal(t, isManager, flight.Has(ActionCancel), "flight cancel for %q", role)
		assert.Equal(t, isManager, flight.Has(ActionDelete), "flight delete for %q", role)
		assert.Equal(t, isManager, CanCreate(v, EntityFlight))
	}
}

func TestVisibleActions_Bookings(t *testing.T) {
	v := ViewerFor(session(domainauth.RoleCustomer))
	assert.Equal(t, Actions{ActionCancel}, VisibleActions(v, EntityState{Entity: EntityBooking, Cancellable: true}))
	assert.Empty(t, VisibleActions(v, EntityState{Entity: EntityBooking}))
	assert.Empty(t, VisibleActions(Viewer{}, EntityState{Entity: EntityBooking, Cancellable: true}))
}

func TestFlightCards_BookNowNeedsScheduledSeats(t *testing.T) {
	v := ViewerFor(session(domainauth.RoleCustomer))
	cards := FlightCards(v, []model.Flight{
		{ID: 1, Status: model.FlightScheduled, SeatsAvailable: 3},
		{ID: 2, Status: model.FlightScheduled, SeatsAvailable: 0},
		{ID: 3, Status: model.FlightCancelled, SeatsAvailable: 10},
		{ID: 4, Status: model.FlightDelayed, SeatsAvailable: 10},
	})
	if assert.Len(t, cards, 4) {
		assert.True(t, cards[0].Actions.Has(ActionBook))
		assert.False(t, cards[1].Actions.Has(ActionBook))
		assert.False(t, cards[2].Actions.Has(ActionBook))
		assert.False(t, cards[3].Actions.Has(ActionBook))
	}
}

func TestNavFor(t *testing.T) {
	assert.Equal(t, Nav{ShowLogin: true, ShowRegister: true}, NavFor(nil))
	assert.Equal(t, Nav{ShowLogin: true, ShowRegister: true}, NavFor(&domainauth.Session{}))

	got := NavFor(&domainauth.Session{UserID: "1", Username: "alice", Role: domainauth.RoleCustomer})
	assert.Equal(t, Nav{ShowLogout: true, ShowMyBookings: true, Username: "alice"}, got)
}
