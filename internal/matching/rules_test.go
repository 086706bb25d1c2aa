package matching

import (
	"testing"

	"github.com/pact-foundation/pact-mockserver/pkg/pact"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestApplyRuleGroupDefaultsToEquality(t *testing.T) {
	ok, _ := applyRuleGroup(nil, "a", "a")
	assert.True(t, ok)

	ok, reason := applyRuleGroup(nil, "a", "b")
	assert.False(t, ok)
	assert.NotEmpty(t, reason)
}

func TestApplyRuleRegex(t *testing.T) {
	rule := pact.MatchingRule{Match: "regex", Regex: `^\d+$`}
	ok, _ := applyRule(rule, "123", "456")
	assert.True(t, ok)

	ok, _ = applyRule(rule, "123", "abc")
	assert.False(t, ok)
}

func TestApplyRuleType(t *testing.T) {
	rule := pact.MatchingRule{Match: "type"}
	ok, _ := applyRule(rule, "1", "999")
	assert.True(t, ok)

	ok, _ = applyRule(rule, "1", "not-a-number")
	assert.False(t, ok)
}

func TestApplyRuleMinMax(t *testing.T) {
	rule := pact.MatchingRule{Match: "minmax", Min: intPtr(2), Max: intPtr(4)}
	ok, _ := applyRule(rule, "", "abc")
	assert.True(t, ok)

	ok, _ = applyRule(rule, "", "a")
	assert.False(t, ok)

	ok, _ = applyRule(rule, "", "abcdef")
	assert.False(t, ok)
}

func TestApplyRuleGroupORCombine(t *testing.T) {
	group := &pact.RuleGroup{
		Combine: "OR",
		Rules: []pact.MatchingRule{
			{Match: "regex", Regex: `^a+$`},
			{Match: "regex", Regex: `^b+$`},
		},
	}
	ok, _ := applyRuleGroup(group, "", "bbb")
	assert.True(t, ok)

	ok, _ = applyRuleGroup(group, "", "ccc")
	assert.False(t, ok)
}

func TestApplyRuleDatetime(t *testing.T) {
	rule := pact.MatchingRule{Match: "datetime", Format: "yyyy-MM-dd"}
	ok, _ := applyRule(rule, "", "2024-01-15")
	assert.True(t, ok)

	ok, _ = applyRule(rule, "", "not-a-date")
	assert.False(t, ok)
}
