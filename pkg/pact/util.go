package pact

import (
	"fmt"
	"sort"
	"strings"
)

// stableParams renders a params map deterministically so it can be used as
// part of a merge-dedup key (see Interaction.StateKey). Map iteration order
// in Go is randomized, so values are collected and sorted by key first.
func stableParams(params map[string]interface{}) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		fmt.Fprintf(&b, "%v", params[k])
	}
	return b.String()
}
