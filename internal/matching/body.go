package matching

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/ohler55/ojg/jp"
	"github.com/pact-foundation/pact-mockserver/pkg/pact"
)

// matchBody compares the body an interaction expects against the actual
// request or response body. JSON bodies are compared structurally, with
// any matching rules overriding strict equality at the JSON pointer paths
// they name; XML bodies are parsed, re-serialized and compared as strings
// (whitespace and attribute order still count); everything else falls
// back to exact byte equality.
func matchBody(expected pact.Body, rules pact.RuleCategory, actualBody []byte) []Mismatch {
	switch expected.State {
	case pact.BodyAbsent:
		return nil

	case pact.BodyNull:
		if len(actualBody) == 0 || strings.TrimSpace(string(actualBody)) == "null" {
			return nil
		}
		return []Mismatch{{Field: "body", Rule: "equality", Expected: "null", Actual: string(actualBody), Reason: "expected a null body"}}

	case pact.BodyEmpty:
		if len(actualBody) == 0 {
			return nil
		}
		return []Mismatch{{Field: "body", Rule: "equality", Expected: "", Actual: string(actualBody), Reason: "expected an empty body"}}
	}

	if isJSONContentType(expected.ContentType) {
		return matchJSONBody(expected.Content, rules, actualBody)
	}
	if isXMLContentType(expected.ContentType) {
		return matchXMLBody(expected.Content, actualBody)
	}
	return matchRawBody(expected.Content, actualBody)
}

func isJSONContentType(ct string) bool {
	return strings.Contains(strings.ToLower(ct), "json")
}

func isXMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "xml")
}

func matchRawBody(expected, actual []byte) []Mismatch {
	if string(expected) == string(actual) {
		return nil
	}
	return []Mismatch{{
		Field: "body", Rule: "equality",
		Expected: string(expected), Actual: string(actual),
		Reason: "body bytes do not match",
	}}
}

func matchXMLBody(expected, actual []byte) []Mismatch {
	expDoc := etree.NewDocument()
	actDoc := etree.NewDocument()
	if err := expDoc.ReadFromBytes(expected); err != nil {
		return matchRawBody(expected, actual)
	}
	if err := actDoc.ReadFromBytes(actual); err != nil {
		return []Mismatch{{Field: "body", Rule: "type", Expected: "well-formed XML", Actual: string(actual), Reason: "actual body is not well-formed XML"}}
	}

	expCanon, _ := expDoc.WriteToString()
	actCanon, _ := actDoc.WriteToString()
	if expCanon == actCanon {
		return nil
	}
	return []Mismatch{{
		Field: "body", Rule: "equality",
		Expected: expCanon, Actual: actCanon,
		Reason: "XML structure does not match",
	}}
}

func matchJSONBody(expected []byte, rules pact.RuleCategory, actual []byte) []Mismatch {
	var expVal, actVal interface{}
	if len(expected) == 0 {
		expVal = nil
	} else if err := json.Unmarshal(expected, &expVal); err != nil {
		return []Mismatch{{Field: "body", Rule: "type", Expected: "valid JSON", Actual: string(expected), Reason: "expected body is not valid JSON"}}
	}
	if err := json.Unmarshal(actual, &actVal); err != nil {
		return []Mismatch{{Field: "body", Rule: "type", Expected: "valid JSON", Actual: string(actual), Reason: "actual body is not valid JSON"}}
	}

	var actualDoc interface{}
	_ = json.Unmarshal(actual, &actualDoc)

	var mismatches []Mismatch
	diffJSON("$", expVal, actVal, rules, actualDoc, &mismatches)
	return mismatches
}

// bodyField renders a "$"-rooted JSON pointer path (the form matching
// rules are keyed by, and the form ojg/jp parses) as the user-facing
// Mismatch field name: "$.id" becomes "body.id", "$" alone becomes "body".
func bodyField(path string) string {
	return "body" + strings.TrimPrefix(path, "$")
}

// diffJSON recursively compares expected and actual JSON values rooted at
// path (a "$"-prefixed JSON pointer). A matching rule attached to path
// overrides the default of structural equality for the node it names (and
// everything beneath it); otherwise objects recurse key by key (extra
// actual keys are permitted, per pact's default body semantics), arrays
// recurse index by index with equal length required, and scalars compare
// by value.
func diffJSON(path string, expected, actual interface{}, rules pact.RuleCategory, root interface{}, out *[]Mismatch) {
	if group, ok := ruleFor(rules, path); ok {
		applyBodyRuleGroup(path, group, expected, actual, root, out)
		return
	}

	switch exp := expected.(type) {
	case map[string]interface{}:
		actMap, ok := actual.(map[string]interface{})
		if !ok {
			*out = append(*out, Mismatch{Field: bodyField(path), Rule: "type", Expected: "object", Actual: fmt.Sprintf("%T", actual), Reason: "expected a JSON object"})
			return
		}
		for k, v := range exp {
			av, present := actMap[k]
			childPath := path + "." + k
			if !present {
				*out = append(*out, Mismatch{Field: bodyField(childPath), Rule: "presence", Expected: fmt.Sprint(v), Actual: "<absent>", Reason: "expected JSON field is missing"})
				continue
			}
			diffJSON(childPath, v, av, rules, root, out)
		}

	case []interface{}:
		actArr, ok := actual.([]interface{})
		if !ok {
			*out = append(*out, Mismatch{Field: bodyField(path), Rule: "type", Expected: "array", Actual: fmt.Sprintf("%T", actual), Reason: "expected a JSON array"})
			return
		}
		if len(exp) != len(actArr) {
			*out = append(*out, Mismatch{
				Field: bodyField(path), Rule: "equality",
				Expected: strconv.Itoa(len(exp)), Actual: strconv.Itoa(len(actArr)),
				Reason: "array length does not match",
			})
			return
		}
		for i, v := range exp {
			diffJSON(fmt.Sprintf("%s[%d]", path, i), v, actArr[i], rules, root, out)
		}

	default:
		if !jsonScalarEqual(expected, actual) {
			*out = append(*out, Mismatch{
				Field: bodyField(path), Rule: "equality",
				Expected: fmt.Sprint(expected), Actual: fmt.Sprint(actual),
				Reason: "value does not match",
			})
		}
	}
}

func jsonScalarEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// applyBodyRuleGroup evaluates a matching rule group attached to a JSON
// pointer path against the actual document. "arrayContains" is evaluated
// against the whole array found at path; every other rule kind is
// evaluated against the scalar (or stringified) value extracted at path.
func applyBodyRuleGroup(path string, group pact.RuleGroup, expected, actual interface{}, root interface{}, out *[]Mismatch) {
	for _, rule := range group.Rules {
		if rule.Match == "arrayContains" {
			applyArrayContains(path, rule, actual, out)
			continue
		}

		actualValues, err := jp.ParseString(path)
		var actualAtPath interface{} = actual
		if err == nil {
			if results := actualValues.Get(root); len(results) > 0 {
				actualAtPath = results[0]
			}
		}

		switch rule.Match {
		case "min", "max", "minmax":
			arr, ok := actualAtPath.([]interface{})
			length := 0
			if ok {
				length = len(arr)
			} else if s, ok := actualAtPath.(string); ok {
				length = len(s)
			}
			ok2, reason := checkLengthValue(length, rule.Min, rule.Max)
			if !ok2 {
				*out = append(*out, Mismatch{Field: bodyField(path), Rule: rule.Match, Expected: fmt.Sprint(expected), Actual: fmt.Sprint(actualAtPath), Reason: reason})
			}
		case "type":
			if !sameJSONType(expected, actualAtPath) {
				*out = append(*out, Mismatch{Field: bodyField(path), Rule: "type", Expected: fmt.Sprintf("%T", expected), Actual: fmt.Sprintf("%T", actualAtPath), Reason: "JSON value type does not match"})
			}
		default:
			ok2, reason := applyRule(rule, fmt.Sprint(expected), fmt.Sprint(actualAtPath))
			if !ok2 {
				*out = append(*out, Mismatch{Field: bodyField(path), Rule: rule.Match, Expected: fmt.Sprint(expected), Actual: fmt.Sprint(actualAtPath), Reason: reason})
			}
		}
	}
}

func sameJSONType(a, b interface{}) bool {
	switch a.(type) {
	case map[string]interface{}:
		_, ok := b.(map[string]interface{})
		return ok
	case []interface{}:
		_, ok := b.([]interface{})
		return ok
	case string:
		_, ok := b.(string)
		return ok
	case bool:
		_, ok := b.(bool)
		return ok
	case float64:
		_, ok := b.(float64)
		return ok
	case nil:
		return b == nil
	default:
		return fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
	}
}

// applyArrayContains checks that at least one element of the actual array
// at path structurally matches the example document carried in the rule's
// Value field.
func applyArrayContains(path string, rule pact.MatchingRule, actual interface{}, out *[]Mismatch) {
	arr, ok := actual.([]interface{})
	if !ok {
		*out = append(*out, Mismatch{Field: bodyField(path), Rule: "arrayContains", Expected: "array", Actual: fmt.Sprintf("%T", actual), Reason: "expected a JSON array"})
		return
	}

	example := rule.Value
	for _, elem := range arr {
		var trial []Mismatch
		diffJSON(path+"[*]", example, elem, nil, elem, &trial)
		if len(trial) == 0 {
			return
		}
	}
	*out = append(*out, Mismatch{
		Field: bodyField(path), Rule: "arrayContains",
		Expected: fmt.Sprint(example), Actual: fmt.Sprint(actual),
		Reason: "no array element matches the expected example",
	})
}
