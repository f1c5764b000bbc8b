package ports

import (
	"context"
	"encoding/json"
	"net/url"
)

// BackendRequest describes one call to the REST backend.
// Form, when non-nil, is sent as a multipart/form-data body.
type BackendRequest struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
}

// BackendResponse is the decoded success envelope.
type BackendResponse struct {
	Data    json.RawMessage
	Message string
}

// Backend performs calls against the REST backend and decodes its envelope.
// A server-reported failure is returned as *errors.AppError carrying the server message.
type Backend interface {
	Call(ctx context.Context, req BackendRequest) (BackendResponse, error)
}
