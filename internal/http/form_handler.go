package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const maxFormBytes = 1 << 20

// FormParser parses form data from an HTTP request and returns the parsed data
// along with any field-level validation errors.
type FormParser[T any] func(r *http.Request) (T, map[string]string)

// FormSaver persists the parsed form and returns the backend confirmation message.
type FormSaver[T any] func(ctx context.Context, in T) (string, error)

// FormRenderer renders the modal with the given data. It is used to re-open the
// modal when a submission fails.
type FormRenderer func(w http.ResponseWriter, r *http.Request, data map[string]any)

// FormHandlerOpts contains all options needed to handle a modal form submission.
type FormHandlerOpts[T any] struct {
	W        http.ResponseWriter
	R        *http.Request
	Parser   FormParser[T]
	Save     FormSaver[T]
	Renderer FormRenderer
	// ModeOf reports whether the parsed form creates or edits. The presence of an
	// id field decides; nil means create.
	ModeOf func(T) FormMode
	// ReloadEvent is fired on success so the owning list refetches itself.
	ReloadEvent string
	// FailureMessage is shown when a failure carries no server message, e.g. "Failed to save airport".
	FailureMessage string
	PageMeta       PageMeta
	// ExtraData adds template data needed to re-render the modal, such as airport options.
	ExtraData func(ctx context.Context) map[string]any
}

// HandleForm processes a modal submission.
//
// On success the response closes the modal, toasts the server message and fires
// ReloadEvent. On failure the modal is re-rendered open with the submitted values,
// the error message and an error toast.
func HandleForm[T any](opts FormHandlerOpts[T]) {
	if opts.Parser == nil || opts.Save == nil || opts.Renderer == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return
	}

	if err := parseRequestForm(opts.R); err != nil {
		http.Error(opts.W, "invalid form submission", http.StatusBadRequest)
		return
	}

	data, fieldErrors := opts.Parser(opts.R)
	mode := FormModeCreate
	if opts.ModeOf != nil {
		mode = opts.ModeOf(data)
	}

	if len(fieldErrors) > 0 {
		opts.renderFormError(formFailure[T]{Mode: mode, Data: data, FieldErrors: fieldErrors})
		return
	}

	msg, err := opts.Save(opts.R.Context(), data)
	if err != nil {
		if clientGone(opts.R, err) {
			return
		}
		opts.renderFormError(formFailure[T]{Mode: mode, Data: data, Err: err})
		return
	}

	resp := HTMX(opts.W).Toast(msg, ToastSuccess).CloseModal()
	if opts.ReloadEvent != "" {
		resp.Reload(opts.ReloadEvent)
	}
	resp.NoContent()
}

// parseRequestForm accepts both urlencoded and multipart bodies.
func parseRequestForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return err
		}
		return nil
	}
	return r.ParseForm()
}

// formFailure groups what is needed to re-render a failed submission.
type formFailure[T any] struct {
	Mode        FormMode
	Data        T
	FieldErrors map[string]string
	Err         error
}

// renderFormError re-renders the modal with errors and preserves form data.
func (fh FormHandlerOpts[T]) renderFormError(f formFailure[T]) {
	extra := map[string]any{
		"Mode":     string(f.Mode),
		"FormData": f.Data,
	}
	if fh.ExtraData != nil {
		for k, v := range fh.ExtraData(fh.R.Context()) {
			extra[k] = v
		}
	}

	RenderError(ErrorOpts{
		W:           fh.W,
		R:           fh.R,
		Err:         f.Err,
		Fallback:    fh.FailureMessage,
		FieldErrors: f.FieldErrors,
		Renderer:    ErrorRenderer(fh.Renderer),
		PageMeta:    fh.PageMeta,
		Data:        extra,
		ShowToast:   true,
	})
}
