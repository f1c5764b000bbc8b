package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/airportmgmt/airport-web/internal/adapters/backend"
	"github.com/airportmgmt/airport-web/internal/domain/model"
	apperrors "github.com/airportmgmt/airport-web/internal/errors"
	"github.com/airportmgmt/airport-web/internal/mocks"
	"github.com/airportmgmt/airport-web/internal/ports"
	"github.com/airportmgmt/airport-web/internal/testutil/backendtest"
)

func newBackendClient(t *testing.T, srv *backendtest.Server) *backend.Client {
	t.Helper()
	c, err := backend.NewClient(backend.Config{BaseURL: srv.URL, Logger: quietLogger()})
	require.NoError(t, err)
	return c
}

func TestAirportService_SearchBlankListsAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mocks.NewMockBackend(ctrl)
	b.EXPECT().
		Call(gomock.Any(), ports.BackendRequest{Method: http.MethodGet, Path: "/airport/list"}).
		Return(ports.BackendResponse{Data: json.RawMessage(`[{"id":1,"code":"JFK"}]`)}, nil)

	svc := NewAirportService(AirportServiceOptions{Backend: b})
	airports, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	require.Len(t, airports, 1)
	assert.Equal(t, "JFK", airports[0].Code)
}

func TestAirportService_SearchForwardsQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mocks.NewMockBackend(ctrl)
	b.EXPECT().
		Call(gomock.Any(), ports.BackendRequest{Method: http.MethodGet, Path: "/airport/search", Query: url.Values{"q": {"york"}}}).
		Return(ports.BackendResponse{Data: json.RawMessage(`null`)}, nil)

	svc := NewAirportService(AirportServiceOptions{Backend: b})
	airports, err := svc.Search(context.Background(), " york ")
	require.NoError(t, err)
	assert.Empty(t, airports)
}

func TestAirportService_SaveRoutesByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mocks.NewMockBackend(ctrl)

	var got []ports.BackendRequest
	b.EXPECT().Call(gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, req ports.BackendRequest) (ports.BackendResponse, error) {
			got = append(got, req)
			return ports.BackendResponse{}, nil
		})

	svc := NewAirportService(AirportServiceOptions{Backend: b})
	ctx := context.Background()

	msg, err := svc.Save(ctx, model.AirportInput{Code: "jfk", Name: "Kennedy", City: "New York", Country: "USA"})
	require.NoError(t, err)
	assert.Equal(t, "Airport created successfully", msg)

	_, err = svc.Save(ctx, model.AirportInput{ID: 5, Code: "JFK", Name: "Kennedy", City: "New York", Country: "USA"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPost, got[0].Method)
	assert.Equal(t, "/airport/create", got[0].Path)
	assert.Equal(t, "JFK", got[0].Form.Get("code"))
	assert.False(t, got[0].Form.Has("id"))

	assert.Equal(t, http.MethodPut, got[1].Method)
	assert.Equal(t, "/airport/update", got[1].Path)
	assert.Equal(t, "5", got[1].Form.Get("id"))
}

func TestAirportService_SaveValidatesBeforeCalling(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mocks.NewMockBackend(ctrl)

	svc := NewAirportService(AirportServiceOptions{Backend: b})
	_, err := svc.Save(context.Background(), model.AirportInput{Code: "JFKX", Name: "x", City: "y", Country: "z"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestAirportService_AgainstBackend(t *testing.T) {
	srv := backendtest.New(t)
	jfk := srv.AddAirport(model.Airport{Code: "JFK", Name: "John F. Kennedy", City: "New York", Country: "USA"})
	srv.AddAirport(model.Airport{Code: "LAX", Name: "Los Angeles Intl", City: "Los Angeles", Country: "USA"})

	svc := NewAirportService(AirportServiceOptions{Backend: newBackendClient(t, srv)})
	ctx := context.Background()

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := svc.Search(ctx, "angeles")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "LAX", found[0].Code)

	got, err := svc.GetByID(ctx, jfk.ID)
	require.NoError(t, err)
	assert.Equal(t, "New York", got.City)

	_, err = svc.GetByID(ctx, 9999)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Airport not found", apperrors.UserMessage(err, ""))
}

func TestAirportService_MutationsNeedAdmin(t *testing.T) {
	srv := backendtest.New(t)
	svc := NewAirportService(AirportServiceOptions{Backend: newBackendClient(t, srv)})

	_, err := svc.Save(context.Background(), model.AirportInput{Code: "SFO", Name: "San Francisco", City: "SF", Country: "USA"})
	require.Error(t, err)
	assert.Equal(t, "Authentication required", apperrors.UserMessage(err, ""))
	assert.Empty(t, srv.Airports())
}
