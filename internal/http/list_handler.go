package httpx

import (
	"context"
	"net/http"
	"net/url"
)

// FilterParser parses URL query parameters into search criteria.
type FilterParser[F any] func(url.Values) F

// ListFetcher loads every item.
type ListFetcher[T any] func(ctx context.Context) ([]T, error)

// FilteredFetcher loads the items matching filters.
type FilteredFetcher[T any, F any] func(ctx context.Context, filters F) ([]T, error)

// DataEnricher adds list-specific data such as role-dependent cards to the template data.
type DataEnricher[T any, F any] func(builder *TemplateDataBuilder, items []T, filters F)

// ListHandlerOpts contains all options needed for the generic list handler.
// T is the item type and F the search criteria.
type ListHandlerOpts[T any, F any] struct {
	// Handler is the UIHandlers instance for rendering (required)
	Handler *UIHandlers
	W       http.ResponseWriter
	R       *http.Request
	// Fetcher loads the full list (required).
	Fetcher ListFetcher[T]
	// FilteredFetcher runs a search; used only when IsEmpty reports false for the parsed filters.
	FilteredFetcher FilteredFetcher[T, F]
	FilterParser    FilterParser[F]
	// IsEmpty reports whether filters carry no criterion. All-empty criteria load the full list.
	IsEmpty    func(F) bool
	EnrichData DataEnricher[T, F]
	// Template is the list fragment to render, e.g. "airports-list".
	Template string
	PageMeta PageMeta
	// ItemsKey is the template data key for the raw items.
	ItemsKey string
	// LoadErrorMessage is rendered inline when loading the full list fails without a server message.
	LoadErrorMessage string
	// SearchErrorMessage is toasted when a search fails without a server message.
	SearchErrorMessage string
	// PageURL returns the full page address for filters. When set, htmx
	// requests get the browser URL replaced so a reload keeps the search.
	PageURL func(F) string
}

// HandleList serves a list fragment.
//
// A full load that fails renders the error inside the list container. A search
// that fails raises an error toast and tells htmx not to swap, so the list on
// screen stays as it was. Every response echoes the request sequence header so
// the client can discard responses that arrive after a newer request.
//
//	HandleList(ListHandlerOpts[model.Airport, string]{
//	    Handler: h, W: w, R: r,
//	    Fetcher:         h.Airports.List,
//	    FilteredFetcher: h.Airports.Search,
//	    FilterParser:    func(q url.Values) string { return q.Get("q") },
//	    IsEmpty:         func(q string) bool { return strings.TrimSpace(q) == "" },
//	    Template:        "airports-list",
//	    ItemsKey:        "Airports",
//	    LoadErrorMessage:   "Failed to load airports",
//	    SearchErrorMessage: "Search failed",
//	})
func HandleList[T, F any](opts ListHandlerOpts[T, F]) {
	if !validateListHandlerDeps(opts) {
		return
	}
	echoRequestSeq(opts.W, opts.R)

	var filters F
	if opts.FilterParser != nil {
		filters = opts.FilterParser(opts.R.URL.Query())
	}

	searching := opts.FilteredFetcher != nil && opts.IsEmpty != nil && !opts.IsEmpty(filters)

	var (
		items []T
		err   error
	)
	if searching {
		items, err = opts.FilteredFetcher(opts.R.Context(), filters)
	} else {
		items, err = opts.Fetcher(opts.R.Context())
	}

	if err != nil {
		if clientGone(opts.R, err) {
			return
		}
		if searching && IsHTMX(opts.R) {
			opts.rejectSearch(err)
			return
		}
		fallback := opts.LoadErrorMessage
		if searching {
			fallback = opts.SearchErrorMessage
		}
		opts.renderListError(userMessage(err, fallback))
		return
	}

	renderListSuccess(opts, items, filters)
}

// validateListHandlerDeps checks required dependencies and returns false if any are nil.
func validateListHandlerDeps[T, F any](opts ListHandlerOpts[T, F]) bool {
	if opts.W == nil || opts.R == nil || opts.Handler == nil || opts.Fetcher == nil || opts.Template == "" {
		if opts.W != nil {
			http.Error(opts.W, "Internal configuration error", http.StatusInternalServerError)
		}
		return false
	}
	return true
}

// rejectSearch keeps the displayed list and reports the failure as a toast.
func (lh *ListHandlerOpts[T, F]) rejectSearch(err error) {
	HTMX(lh.W).Toast(userMessage(err, lh.SearchErrorMessage), ToastError).Reswap("none")
	lh.W.WriteHeader(http.StatusOK)
}

// renderListError renders the list fragment with an inline error instead of items.
func (lh *ListHandlerOpts[T, F]) renderListError(errMsg string) {
	data := NewTemplateData(lh.R, lh.PageMeta).WithError(errMsg).Build()
	lh.Handler.renderFragment(lh.W, lh.R, lh.Template, data)
}

// renderListSuccess renders the list fragment with items.
func renderListSuccess[T, F any](opts ListHandlerOpts[T, F], items []T, filters F) {
	if items == nil {
		items = []T{}
	}
	builder := NewTemplateData(opts.R, opts.PageMeta)
	if opts.ItemsKey != "" {
		builder.With(opts.ItemsKey, items)
	}
	if opts.EnrichData != nil {
		opts.EnrichData(builder, items, filters)
	}
	if opts.PageURL != nil && IsHTMX(opts.R) {
		HTMX(opts.W).ReplaceURL(opts.PageURL(filters))
	}
	opts.Handler.renderFragment(opts.W, opts.R, opts.Template, builder.Build())
}
