package pact

// MatchingRule is a single matching-rule primitive attached to a field.
// The primitives themselves (regex, type, min/max, arrayContains, datetime,
// ...) are evaluated by package matching; this type only carries their
// parameters through from the parsed document.
type MatchingRule struct {
	// Match names the rule kind: "regex", "type", "equality", "include",
	// "number", "integer", "decimal", "min", "max", "minmax",
	// "arrayContains", "datetime", "time", "date", "null", "contentType",
	// "values", "boolean", "notEmpty".
	Match string `json:"match,omitempty"`

	Regex  string `json:"regex,omitempty"`
	Min    *int   `json:"min,omitempty"`
	Max    *int   `json:"max,omitempty"`
	Format string `json:"format,omitempty"` // datetime/time/date layout

	// Value carries the expected value for rules that need one beyond the
	// field's own declared value (contentType's expected MIME type, the
	// example element an arrayContains rule looks for, and so on).
	Value interface{} `json:"value,omitempty"`
}

// RuleGroup is the set of matching rules attached to one field, combined
// with AND (all must pass) or OR (any must pass). Pact's default is AND.
type RuleGroup struct {
	Combine string         `json:"combine,omitempty"` // "AND" (default) or "OR"
	Rules   []MatchingRule `json:"matchers,omitempty"`
}

// Or reports how rules in this group should be combined: true means
// OR (any rule passing is sufficient), false means AND (all must pass).
func (g RuleGroup) Or() bool {
	return g.Combine == "OR"
}

// RuleCategory maps a field selector (a header/query parameter name, or a
// JSON-pointer-shaped path into a body) to the rule group governing it.
type RuleCategory map[string]RuleGroup

// MatchingRules is the per-section matching-rule tree attached to an
// expected Request or Response.
type MatchingRules struct {
	Method *RuleGroup   `json:"method,omitempty"`
	Path   *RuleGroup   `json:"path,omitempty"`
	Query  RuleCategory `json:"query,omitempty"`
	Header RuleCategory `json:"header,omitempty"`
	Body   RuleCategory `json:"body,omitempty"`
}

// Generator describes a dynamic-value rule attached to a field, evaluated
// at response time (after an interaction has been selected, before it is
// serialized to the wire).
type Generator struct {
	// Type names the generator kind: "RandomInt", "Uuid", "Date", "Time",
	// "DateTime", "RandomString", "ProviderState", "MockServerURL", or
	// "Expression" (evaluated via an expr-lang program, see generators.go).
	Type string `json:"type"`

	Min        *int   `json:"min,omitempty"`
	Max        *int   `json:"max,omitempty"`
	Format     string `json:"format,omitempty"`
	Expression string `json:"expression,omitempty"`
	Regex      string `json:"regex,omitempty"`
	Size       *int   `json:"size,omitempty"`
}

// GeneratorCategory maps a field selector to its generator.
type GeneratorCategory map[string]Generator

// Generators is the per-section generator tree attached to an expected
// Request or Response.
type Generators struct {
	Method *Generator        `json:"method,omitempty"`
	Path   *Generator        `json:"path,omitempty"`
	Query  GeneratorCategory `json:"query,omitempty"`
	Header GeneratorCategory `json:"header,omitempty"`
	Body   GeneratorCategory `json:"body,omitempty"`
	Status *Generator        `json:"status,omitempty"`
}
