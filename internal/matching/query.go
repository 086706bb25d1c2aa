package matching

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/pact-foundation/pact-mockserver/pkg/pact"
)

// matchQuery compares the expected query parameters (and any matching
// rules attached to them) against the actual request's query string. Pact
// treats the query string as a whole: every expected parameter must be
// present with matching values, and the actual request must not carry any
// parameter the interaction did not declare.
func matchQuery(expected pact.Query, rules pact.RuleCategory, actual url.Values) []Mismatch {
	var mismatches []Mismatch

	seen := make(map[string]bool, len(expected))
	for _, p := range expected {
		seen[p.Name] = true
		actualValues := actual[p.Name]
		if len(actualValues) == 0 {
			mismatches = append(mismatches, Mismatch{
				Field: "query." + p.Name, Rule: "presence",
				Expected: fmt.Sprint(p.Values), Actual: "<absent>",
				Reason: "expected query parameter is missing",
			})
			continue
		}

		group, hasRule := ruleFor(rules, p.Name)
		if !hasRule {
			if !stringSlicesEqualUnordered(p.Values, actualValues) {
				mismatches = append(mismatches, Mismatch{
					Field: "query." + p.Name, Rule: "equality",
					Expected: fmt.Sprint(p.Values), Actual: fmt.Sprint(actualValues),
					Reason: "query parameter values do not match",
				})
			}
			continue
		}

		for i, want := range p.Values {
			got := ""
			if i < len(actualValues) {
				got = actualValues[i]
			}
			if ok, reason := applyRuleGroup(&group, want, got); !ok {
				mismatches = append(mismatches, Mismatch{
					Field: "query." + p.Name, Rule: ruleKindOf(group),
					Expected: want, Actual: got, Reason: reason,
				})
			}
		}
	}

	extra := make([]string, 0)
	for name := range actual {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		mismatches = append(mismatches, Mismatch{
			Field: "query." + name, Rule: "presence",
			Expected: "<absent>", Actual: fmt.Sprint(actual[name]),
			Reason: "unexpected query parameter",
		})
	}

	return mismatches
}

func ruleFor(rules pact.RuleCategory, name string) (pact.RuleGroup, bool) {
	if rules == nil {
		return pact.RuleGroup{}, false
	}
	g, ok := rules[name]
	return g, ok
}

func ruleKindOf(g pact.RuleGroup) string {
	if len(g.Rules) == 0 {
		return "equality"
	}
	return g.Rules[0].Match
}

func stringSlicesEqualUnordered(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	ac := append([]string(nil), a...)
	bc := append([]string(nil), b...)
	sort.Strings(ac)
	sort.Strings(bc)
	for i := range ac {
		if ac[i] != bc[i] {
			return false
		}
	}
	return true
}
