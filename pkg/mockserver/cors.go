package mockserver

import (
	"net/http"

	"github.com/pact-foundation/pact-mockserver/pkg/config"
)

// isPreflight reports whether r is a CORS preflight request the matching
// engine should never see: an OPTIONS request carrying
// Access-Control-Request-Method.
func isPreflight(r *http.Request, cors *config.CORSConfig) bool {
	if cors == nil || !cors.Enabled {
		return false
	}
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

// writePreflightResponse answers a CORS preflight with a synthetic 204 and
// permissive headers, echoing the requested method/headers back. This
// response is observable but never recorded in the journal.
func writePreflightResponse(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	if method := r.Header.Get("Access-Control-Request-Method"); method != "" {
		h.Set("Access-Control-Allow-Methods", method)
	}
	if headers := r.Header.Get("Access-Control-Request-Headers"); headers != "" {
		h.Set("Access-Control-Allow-Headers", headers)
	}
	w.WriteHeader(http.StatusNoContent)
}
