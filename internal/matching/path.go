package matching

import "github.com/pact-foundation/pact-mockserver/pkg/pact"

// matchPath compares an expected and actual request path. A "path" rule
// group (typically a single "regex" rule) overrides the pact default of
// strict string equality.
func matchPath(group *pact.RuleGroup, expected, actual string) (bool, string) {
	return applyRuleGroup(group, expected, actual)
}
