package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/airportmgmt/airport-web/internal/errors"
)

// stubTemplates is a minimal template set for exercising the generic handlers
// without the production templates.
func stubTemplates(t *testing.T) *TemplateRenderer {
	t.Helper()
	fsys := fstest.MapFS{
		"layout.tmpl": {Data: []byte(`{{define "layout"}}<html>{{.Title}}</html>{{end}}` +
			`{{define "nav-oob"}}<nav hx-swap-oob="true"></nav>{{end}}`)},
		"pages/home.tmpl": {Data: []byte(`{{define "home-content"}}home{{end}}`)},
		"partials/items.tmpl": {Data: []byte(`{{define "items-list"}}` +
			`{{if .Error}}<div class="error">{{.ErrorMessage}}</div>` +
			`{{else}}{{range .Items}}<li>{{.}}</li>{{else}}<p>Nothing found</p>{{end}}{{end}}` +
			`{{end}}` +
			`{{define "item-modal"}}<form data-mode="{{.Mode}}">` +
			`{{if .Error}}<p class="error">{{.ErrorMessage}}</p>{{end}}` +
			`{{with .Errors}}{{range $k, $v := .}}<span data-field="{{$k}}">{{$v}}</span>{{end}}{{end}}` +
			`</form>{{end}}`)},
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys})
	require.NoError(t, err)
	return tr
}

type listCalls struct {
	loads    int
	searches []string
}

func itemListOpts(h *UIHandlers, w http.ResponseWriter, r *http.Request, calls *listCalls,
	items []string, loadErr, searchErr error,
) ListHandlerOpts[string, string] {
	return ListHandlerOpts[string, string]{
		Handler: h, W: w, R: r,
		Fetcher: func(context.Context) ([]string, error) {
			calls.loads++
			return items, loadErr
		},
		FilteredFetcher: func(_ context.Context, q string) ([]string, error) {
			calls.searches = append(calls.searches, q)
			return items, searchErr
		},
		FilterParser:       func(q url.Values) string { return strings.TrimSpace(q.Get("q")) },
		IsEmpty:            func(q string) bool { return q == "" },
		Template:           "items-list",
		ItemsKey:           "Items",
		LoadErrorMessage:   "Failed to load items",
		SearchErrorMessage: "Search failed",
	}
}

func TestHandleList_EmptyCriteriaUsesFullLoad(t *testing.T) {
	h := &UIHandlers{T: stubTemplates(t)}

	for _, target := range []string{"/items/list", "/items/list?q=", "/items/list?q=%20%20"} {
		calls := &listCalls{}
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, target, nil)
		HandleList(itemListOpts(h, w, r, calls, []string{"JFK"}, nil, nil))

		assert.Equal(t, 1, calls.loads, target)
		assert.Empty(t, calls.searches, target)
		assert.Contains(t, w.Body.String(), "<li>JFK</li>")
	}
}

func TestHandleList_SearchUsesFilteredFetcher(t *testing.T) {
	h := &UIHandlers{T: stubTemplates(t)}
	calls := &listCalls{}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/items/list?q=new", nil)

	HandleList(itemListOpts(h, w, r, calls, []string{"NYC"}, nil, nil))

	assert.Zero(t, calls.loads)
	assert.Equal(t, []string{"new"}, calls.searches)
	assert.Contains(t, w.Body.String(), "<li>NYC</li>")
}

func TestHandleList_EmptyResultShowsPlaceholder(t *testing.T) {
	h := &UIHandlers{T: stubTemplates(t)}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/items/list", nil)

	HandleList(itemListOpts(h, w, r, &listCalls{}, nil, nil, nil))

	assert.Contains(t, w.Body.String(), "Nothing found")
}

func TestHandleList_LoadFailureRendersInline(t *testing.T) {
	h := &UIHandlers{T: stubTemplates(t)}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "transport", err: errors.New("connection refused"), want: "Failed to load items"},
		{name: "server message", err: apperrors.FromStatus(http.StatusInternalServerError, "Database unavailable"), want: "Database unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/items/list", nil)
			r.Header.Set("Hx-Request", "true")
			HandleList(itemListOpts(h, w, r, &listCalls{}, nil, tt.err, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
			assert.Empty(t, w.Header().Get("Hx-Reswap"))
		})
	}
}

func TestHandleList_SearchFailureKeepsList(t *testing.T) {
	h := &UIHandlers{T: stubTemplates(t)}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/items/list?q=zzz", nil)
	r.Header.Set("Hx-Request", "true")

	HandleList(itemListOpts(h, w, r, &listCalls{}, nil, nil, errors.New("timeout")))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "none", w.Header().Get("Hx-Reswap"))
	assert.Empty(t, w.Body.String())
	assert.Equal(t, map[string]any{"message": "Search failed", "type": ToastError}, triggers(t, w)[EventShowToast])
}

func TestHandleList_EchoesRequestSeq(t *testing.T) {
	h := &UIHandlers{T: stubTemplates(t)}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/items/list?q=a", nil)
	r.Header.Set(RequestSeqHeader, "7")

	HandleList(itemListOpts(h, w, r, &listCalls{}, nil, nil, nil))

	assert.Equal(t, "7", w.Header().Get(RequestSeqHeader))
}

func TestHandleList_ClientGoneWritesNothing(t *testing.T) {
	h := &UIHandlers{T: stubTemplates(t)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/items/list", nil).WithContext(ctx)

	HandleList(itemListOpts(h, w, r, &listCalls{}, nil, context.Canceled, nil))

	assert.Empty(t, w.Body.String())
}

func TestHandleList_MissingDependencies(t *testing.T) {
	w := httptest.NewRecorder()
	HandleList(ListHandlerOpts[string, string]{W: w, R: httptest.NewRequest(http.MethodGet, "/", nil)})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
