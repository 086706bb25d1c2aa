package control

import (
	"github.com/pact-foundation/pact-mockserver/internal/matching"
	"github.com/pact-foundation/pact-mockserver/pkg/journal"
)

// flattenMismatches collects every mismatch recorded across a journal's
// non-matched entries into one flat list for the verify response.
func flattenMismatches(entries []journal.Entry) []matching.Mismatch {
	var out []matching.Mismatch
	for _, e := range entries {
		out = append(out, e.Mismatches...)
	}
	return out
}
