// Package mocks provides gomock doubles for the ports consumed by services and handlers.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	backend := mocks.NewMockBackend(ctrl)
//	backend.EXPECT().Call(gomock.Any(), gomock.Any()).Return(ports.BackendResponse{}, nil)
package mocks

// Backend: Call
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=backend_mock.go github.com/airportmgmt/airport-web/internal/ports Backend

// SessionStore: Save, Get, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/airportmgmt/airport-web/internal/ports SessionStore

// AuthProvider: Login, Register, Logout
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_provider_mock.go github.com/airportmgmt/airport-web/internal/ports AuthProvider

// RoleMapper: Map
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=role_mapper_mock.go github.com/airportmgmt/airport-web/internal/ports RoleMapper
