package journal

import (
	"encoding/json"
	"time"

	"github.com/pact-foundation/pact-mockserver/internal/matching"
)

// Kind classifies how a journaled request was resolved against the
// instance's expected interactions.
type Kind int

const (
	// KindMatched means the request was compared against the interaction at
	// InteractionIndex and every field matched.
	KindMatched Kind = iota
	// KindMismatch means method and path matched an interaction but at
	// least one other field (query, header, body) did not.
	KindMismatch
	// KindUnexpected means no interaction's method and path matched the
	// request at all. InteractionIndex is -1 for this kind.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindMatched:
		return "matched"
	case KindMismatch:
		return "mismatch"
	default:
		return "unexpected"
	}
}

// MarshalJSON renders the kind as its lowercase name rather than its
// underlying int, for a control-API response worth reading by hand.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Entry is one journaled outcome. Timestamps use time.Now(), whose
// monotonic reading satisfies the append-order requirement without needing
// a separate sequence counter.
type Entry struct {
	Timestamp        time.Time           `json:"timestamp"`
	Kind             Kind                `json:"kind"`
	InteractionIndex int                 `json:"interactionIndex"`
	Method           string              `json:"method"`
	Path             string              `json:"path"`
	ActualBody       []byte              `json:"actualBody,omitempty"`
	Mismatches       []matching.Mismatch `json:"mismatches,omitempty"`
}
