package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// RequestSeqHeader carries the client's monotonic list-request sequence number.
// List handlers echo it back so the client can drop responses older than its latest request.
const RequestSeqHeader = "X-Request-Seq"

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// IsBoosted reports whether the request was initiated by hx-boost (Hx-Boosted: true).
func IsBoosted(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Boosted"), "true")
}

// WantsPartial returns true when the handler should return only the main fragment (not full layout).
// Boosted navigations still want the whole page body.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !IsBoosted(r)
}

// IsBrowserRequest reports whether the client expects HTML rather than JSON.
func IsBrowserRequest(r *http.Request) bool {
	if IsHTMX(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

// HXTarget returns the id of the target element being updated.
func HXTarget(r *http.Request) string { return r.Header.Get("Hx-Target") }

// SetHXRedirect instructs htmx to redirect the browser to the given URL.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set("Hx-Redirect", url) }

// SetHXReplaceURL replaces the browser location with url without adding a history entry.
func SetHXReplaceURL(w http.ResponseWriter, url string) { w.Header().Set("Hx-Replace-Url", url) }

// SetHXReswap overrides the swap strategy of the triggering element, e.g. "none".
func SetHXReswap(w http.ResponseWriter, swap string) { w.Header().Set("Hx-Reswap", swap) }

// SetHXTrigger adds a client-side event to the Hx-Trigger response header.
// The header is a JSON object {"<event>": <payload>}; events set earlier in the
// same response are kept. A nil payload is sent as true.
func SetHXTrigger(w http.ResponseWriter, event string, payload any) {
	var value any = true
	if payload != nil {
		value = payload
	}

	events := map[string]any{}
	if existing := w.Header().Get("Hx-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			// A plain event name list; keep each name as a bare event.
			events = map[string]any{}
			for _, name := range strings.Split(existing, ",") {
				if name = strings.TrimSpace(name); name != "" {
					events[name] = true
				}
			}
		}
	}
	events[event] = value

	b, err := json.Marshal(events)
	if err != nil {
		w.Header().Set("Hx-Trigger", "{\""+event+"\":true}")
		return
	}
	w.Header().Set("Hx-Trigger", string(b))
}

// echoRequestSeq copies the request sequence header onto the response when present.
func echoRequestSeq(w http.ResponseWriter, r *http.Request) {
	if seq := strings.TrimSpace(r.Header.Get(RequestSeqHeader)); seq != "" {
		w.Header().Set(RequestSeqHeader, seq)
	}
}
