package matching

import (
	"strings"

	"github.com/pact-foundation/pact-mockserver/pkg/pact"
)

// matchMethod compares an expected and actual HTTP method. A rule group on
// the method field is rare in practice (method is a string like any other
// field) but honored the same way path is.
func matchMethod(group *pact.RuleGroup, expected, actual string) (bool, string) {
	if group != nil {
		return applyRuleGroup(group, expected, actual)
	}
	if strings.EqualFold(expected, actual) {
		return true, ""
	}
	return false, "expected " + expected + ", got " + actual
}

