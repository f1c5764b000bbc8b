package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/airportmgmt/airport-web/internal/domain/model"
	apperrors "github.com/airportmgmt/airport-web/internal/errors"
	"github.com/airportmgmt/airport-web/internal/mocks"
	"github.com/airportmgmt/airport-web/internal/testutil/backendtest"
)

func TestBookingService_CreateValidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewBookingService(BookingServiceOptions{Backend: mocks.NewMockBackend(ctrl)})

	_, err := svc.Create(context.Background(), model.NewBookingDraft(0, "1", 10))
	assert.Equal(t, "flightId", apperrors.GetField(err))

	_, err = svc.Create(context.Background(), model.NewBookingDraft(3, "", 10))
	assert.Equal(t, "seatsBooked", apperrors.GetField(err))
}

func TestBookingService_AgainstBackend(t *testing.T) {
	srv := backendtest.New(t)
	a := srv.AddAirport(model.Airport{Code: "JFK"})
	b := srv.AddAirport(model.Airport{Code: "LAX"})
	f := srv.AddFlight(model.Flight{FlightNumber: "AA100", SourceAirportID: a.ID, DestinationAirportID: b.ID, SeatsAvailable: 3, Price: 50})

	client := newBackendClient(t, srv)
	svc := NewBookingService(BookingServiceOptions{Backend: client})
	alice := loginCtx(t, client, "alice", "alice123")
	staff := loginCtx(t, client, "staff", "staff123")

	_, err := svc.Create(context.Background(), model.NewBookingDraft(f.ID, "1", f.Price))
	assert.True(t, apperrors.IsUnauthorized(err))

	msg, err := svc.Create(alice, model.NewBookingDraft(f.ID, "2", f.Price))
	require.NoError(t, err)
	assert.Equal(t, "Booking created successfully", msg)

	_, err = svc.Create(alice, model.NewBookingDraft(f.ID, "2", f.Price))
	require.Error(t, err)
	assert.Equal(t, "Not enough seats available. Only 1 seats left.", apperrors.UserMessage(err, ""))

	mine, err := svc.ListMine(alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.InDelta(t, 100.0, mine[0].TotalPrice, 0.001)
	assert.True(t, mine[0].Cancellable())

	_, err = svc.ListAll(alice)
	assert.True(t, apperrors.IsForbidden(err))

	all, err := svc.ListAll(staff)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.Cancel(alice, mine[0].ID)
	require.NoError(t, err)
	flight, _ := srv.Flight(f.ID)
	assert.Equal(t, 3, flight.SeatsAvailable)
}
