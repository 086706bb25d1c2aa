package pactresponse

import (
	"encoding/json"

	"github.com/pact-foundation/pact-mockserver/internal/matching"
)

// diagnosticBody is the wire shape of the 500 response body written when a
// request is unexpected or only partially matches.
type diagnosticBody struct {
	Error      string               `json:"error"`
	Mismatches []matching.Mismatch `json:"mismatches"`
}

// Diagnostic renders outcome as the JSON body for a no-match or
// mismatch response. message is a short human-readable summary ("no
// interaction matched this request", "interaction matched but had
// mismatches"); the actual per-field detail lives in Mismatches.
func Diagnostic(message string, outcome matching.Outcome) []byte {
	body := diagnosticBody{Error: message, Mismatches: outcome.Report.Mismatches}
	if body.Mismatches == nil {
		body.Mismatches = []matching.Mismatch{}
	}
	data, err := json.Marshal(body)
	if err != nil {
		// Mismatch is a plain data struct; Marshal cannot fail on it.
		return []byte(`{"error":"` + message + `"}`)
	}
	return data
}
