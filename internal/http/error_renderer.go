package httpx

import (
	"context"
	"errors"
	"maps"
	"net/http"

	apperrors "github.com/airportmgmt/airport-web/internal/errors"
)

// ErrorRenderer is a function that renders an error template with the given data.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, data map[string]any)

// ErrorOpts contains all options needed to render an error response.
type ErrorOpts struct {
	W http.ResponseWriter
	R *http.Request
	// Err is the error that occurred (optional, can be nil if only field errors)
	Err error
	// Fallback is shown when Err carries no user-facing message, e.g. "Failed to save airport".
	Fallback string
	// FieldErrors contains field-level validation errors (field name → error message)
	FieldErrors map[string]string
	Renderer    ErrorRenderer
	PageMeta    PageMeta
	// Data contains additional template data such as the submitted form values.
	Data map[string]any
	// StatusCode is the HTTP status code to set (optional, defaults to 200 so htmx swaps the body)
	StatusCode int
	// ShowToast also raises the general error as a toast.
	ShowToast bool
}

// RenderError renders an error response using consistent error handling patterns.
// Backend failures surface their server message verbatim; anything else shows Fallback.
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	builder := NewTemplateData(opts.R, opts.PageMeta)

	generalError := ""
	if opts.Err != nil {
		generalError = userMessage(opts.Err, opts.Fallback)
		if field := apperrors.GetField(opts.Err); field != "" {
			if opts.FieldErrors == nil {
				opts.FieldErrors = map[string]string{}
			}
			opts.FieldErrors[field] = generalError
		}
	}

	builder.WithFieldErrors(opts.FieldErrors)
	if generalError == "" && len(opts.FieldErrors) > 0 {
		generalError = errMsgFixBelow
	}
	builder.WithError(generalError)

	if opts.Data != nil {
		maps.Copy(builder.data, opts.Data)
	}

	if opts.ShowToast {
		HTMX(opts.W).Toast(generalError, ToastError)
	}

	if opts.StatusCode != 0 {
		opts.W.WriteHeader(opts.StatusCode)
	}

	opts.Renderer(opts.W, opts.R, builder.Build())
}

// userMessage maps err to the text shown to the user. Backend application errors
// and local validation errors carry their own message; transport and decoding
// failures fall back to the caller's generic text.
func userMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if fallback == "" {
		fallback = "An error occurred. Please try again."
	}
	return apperrors.UserMessage(err, fallback)
}

// clientGone reports whether err only means the browser went away mid-request.
func clientGone(r *http.Request, err error) bool {
	return errors.Is(err, context.Canceled) && r.Context().Err() != nil
}
