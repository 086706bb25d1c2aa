package matching

import (
	"fmt"
	"net/http"

	"github.com/pact-foundation/pact-mockserver/pkg/pact"
)

// matchHeader compares the headers an interaction expects against the
// actual request headers. Unlike query parameters, headers not mentioned
// by the interaction are ignored: the actual request is always free to
// carry additional transport-level headers (Host, User-Agent, and so on).
func matchHeader(expected pact.Headers, rules pact.RuleCategory, actual http.Header) []Mismatch {
	var mismatches []Mismatch

	for _, h := range expected {
		actualValues := actual.Values(h.Name)
		if len(actualValues) == 0 {
			mismatches = append(mismatches, Mismatch{
				Field: "header." + h.Name, Rule: "presence",
				Expected: fmt.Sprint(h.Values), Actual: "<absent>",
				Reason: "expected header is missing",
			})
			continue
		}

		group, hasRule := ruleFor(rules, h.Name)
		if !hasRule {
			if !stringSlicesEqualUnordered(h.Values, actualValues) {
				mismatches = append(mismatches, Mismatch{
					Field: "header." + h.Name, Rule: "equality",
					Expected: fmt.Sprint(h.Values), Actual: fmt.Sprint(actualValues),
					Reason: "header values do not match",
				})
			}
			continue
		}

		for i, want := range h.Values {
			got := ""
			if i < len(actualValues) {
				got = actualValues[i]
			}
			if ok, reason := applyRuleGroup(&group, want, got); !ok {
				mismatches = append(mismatches, Mismatch{
					Field: "header." + h.Name, Rule: ruleKindOf(group),
					Expected: want, Actual: got, Reason: reason,
				})
			}
		}
	}

	return mismatches
}
