package matching

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pact-foundation/pact-mockserver/pkg/pact"
)

// applyRuleGroup evaluates a rule group against an (expected, actual) pair
// of string values. A nil or empty group falls back to the pact default of
// strict equality. Rules in a group combine with AND unless the group
// declares "OR", per pact.RuleGroup.Or.
func applyRuleGroup(group *pact.RuleGroup, expected, actual string) (bool, string) {
	if group == nil || len(group.Rules) == 0 {
		if expected == actual {
			return true, ""
		}
		return false, fmt.Sprintf("expected %q, got %q", expected, actual)
	}

	or := group.Or()
	var lastReason string
	for _, rule := range group.Rules {
		ok, reason := applyRule(rule, expected, actual)
		if ok && or {
			return true, ""
		}
		if !ok {
			lastReason = reason
			if !or {
				return false, reason
			}
		}
	}
	if or {
		return false, lastReason
	}
	return true, ""
}

// applyRule evaluates a single matching rule against a string pair. Rules
// whose definition is inherently value-shaped (arrayContains) are handled
// separately by the body matcher against parsed JSON, not here.
func applyRule(rule pact.MatchingRule, expected, actual string) (bool, string) {
	switch rule.Match {
	case "", "equality":
		if expected == actual {
			return true, ""
		}
		return false, fmt.Sprintf("expected %q, got %q", expected, actual)

	case "regex":
		re, err := regexp.Compile(rule.Regex)
		if err != nil {
			return false, fmt.Sprintf("invalid regex %q: %v", rule.Regex, err)
		}
		if re.MatchString(actual) {
			return true, ""
		}
		return false, fmt.Sprintf("%q does not match regex %q", actual, rule.Regex)

	case "type":
		if sameKind(expected, actual) {
			return true, ""
		}
		return false, fmt.Sprintf("%q and %q are not the same type", expected, actual)

	case "include":
		if strings.Contains(actual, expected) {
			return true, ""
		}
		return false, fmt.Sprintf("%q does not include %q", actual, expected)

	case "number":
		if _, err := strconv.ParseFloat(actual, 64); err == nil {
			return true, ""
		}
		return false, fmt.Sprintf("%q is not a number", actual)

	case "integer":
		if _, err := strconv.ParseInt(actual, 10, 64); err == nil {
			return true, ""
		}
		return false, fmt.Sprintf("%q is not an integer", actual)

	case "decimal":
		if f, err := strconv.ParseFloat(actual, 64); err == nil && f != float64(int64(f)) {
			return true, ""
		}
		return false, fmt.Sprintf("%q is not a decimal", actual)

	case "boolean":
		if _, err := strconv.ParseBool(actual); err == nil {
			return true, ""
		}
		return false, fmt.Sprintf("%q is not a boolean", actual)

	case "null":
		if actual == "" || actual == "null" {
			return true, ""
		}
		return false, fmt.Sprintf("%q is not null", actual)

	case "notEmpty":
		if actual != "" {
			return true, ""
		}
		return false, "value is empty"

	case "min":
		return checkLength(rule, actual, rule.Min, nil)

	case "max":
		return checkLength(rule, actual, nil, rule.Max)

	case "minmax":
		return checkLength(rule, actual, rule.Min, rule.Max)

	case "datetime", "time", "date":
		layout := rule.Format
		if layout == "" {
			layout = time.RFC3339
		}
		if _, err := time.Parse(convertToGoLayout(layout), actual); err == nil {
			return true, ""
		}
		return false, fmt.Sprintf("%q does not match format %q", actual, layout)

	case "values":
		return true, "" // "values" governs generator behaviour, not matching; treat as a no-op match

	case "contentType":
		expectedType, _ := rule.Value.(string)
		if strings.EqualFold(strings.TrimSpace(actual), strings.TrimSpace(expectedType)) {
			return true, ""
		}
		return false, fmt.Sprintf("content type %q does not match %q", actual, expectedType)

	default:
		return false, fmt.Sprintf("unsupported matching rule %q", rule.Match)
	}
}

func checkLength(rule pact.MatchingRule, actual string, min, max *int) (bool, string) {
	return checkLengthValue(len(actual), min, max)
}

func checkLengthValue(n int, min, max *int) (bool, string) {
	if min != nil && n < *min {
		return false, fmt.Sprintf("length %d is less than minimum %d", n, *min)
	}
	if max != nil && n > *max {
		return false, fmt.Sprintf("length %d exceeds maximum %d", n, *max)
	}
	return true, ""
}

func sameKind(expected, actual string) bool {
	return classify(expected) == classify(actual)
}

func classify(s string) string {
	if s == "" {
		return "string"
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return "number"
	}
	if _, err := strconv.ParseBool(s); err == nil {
		return "bool"
	}
	return "string"
}

// convertToGoLayout maps a small set of common Java/Pact datetime tokens to
// Go's reference-time layout; see pact.ConvertLayout.
func convertToGoLayout(format string) string {
	return pact.ConvertLayout(format)
}
