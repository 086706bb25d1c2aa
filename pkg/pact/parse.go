package pact

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Parse parses a pact JSON document into a [Pact]. It validates the
// document against the structural JSON Schema shared by all specification
// versions before building the in-memory model (see Validate).
func Parse(data []byte) (*Pact, error) {
	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("pact: %w: %w", ErrInvalidPact, err)
	}

	var raw rawPact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("pact: %w: %w", ErrInvalidPact, err)
	}

	version := detectSpecVersion(raw.Metadata)

	p := &Pact{
		Consumer:    raw.Consumer,
		Provider:    raw.Provider,
		SpecVersion: version,
		Metadata:    raw.Metadata,
	}

	interactions := raw.Interactions
	if len(interactions) == 0 && len(raw.Messages) > 0 {
		return nil, fmt.Errorf("pact: %w: message pacts are not a supported interaction type for this mock server", ErrInvalidPact)
	}

	for _, ri := range interactions {
		i, err := parseInteraction(ri, version)
		if err != nil {
			return nil, fmt.Errorf("pact: %w: %w", ErrInvalidPact, err)
		}
		p.Interactions = append(p.Interactions, i)
	}

	return p, nil
}

type rawPact struct {
	Consumer     Participant            `json:"consumer"`
	Provider     Participant            `json:"provider"`
	Interactions []json.RawMessage      `json:"interactions"`
	Messages     []json.RawMessage      `json:"messages"`
	Metadata     map[string]interface{} `json:"metadata"`
}

func detectSpecVersion(metadata map[string]interface{}) SpecVersion {
	candidates := []string{"pactSpecification", "pact-specification"}
	for _, key := range candidates {
		raw, ok := metadata[key]
		if !ok {
			continue
		}
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		versionStr, _ := m["version"].(string)
		if v, err := ParseSpecVersion(versionStr); err == nil {
			return v
		}
	}
	return V3
}

type rawInteraction struct {
	Description    string            `json:"description"`
	ProviderState  string            `json:"providerState"`
	ProviderStates []rawProviderState `json:"providerStates"`
	Request        json.RawMessage   `json:"request"`
	Response       json.RawMessage   `json:"response"`

	Type     string                 `json:"type"`
	Pending  bool                   `json:"pending"`
	Comments map[string]interface{} `json:"comments"`
}

type rawProviderState struct {
	Name   string                 `json:"name"`
	Params map[string]interface{} `json:"params"`
}

func parseInteraction(data json.RawMessage, version SpecVersion) (*Interaction, error) {
	var ri rawInteraction
	if err := json.Unmarshal(data, &ri); err != nil {
		return nil, err
	}

	if ri.Description == "" {
		return nil, fmt.Errorf("interaction missing required non-empty description")
	}

	i := &Interaction{
		Description: ri.Description,
		Type:        ri.Type,
		Pending:     ri.Pending,
		Comments:    ri.Comments,
	}

	switch {
	case len(ri.ProviderStates) > 0:
		for _, ps := range ri.ProviderStates {
			i.ProviderStates = append(i.ProviderStates, ProviderState{Name: ps.Name, Params: ps.Params})
		}
	case ri.ProviderState != "":
		i.ProviderStates = []ProviderState{{Name: ri.ProviderState}}
	}

	req, err := parseRequest(ri.Request)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	i.Request = req

	resp, err := parseResponse(ri.Response)
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}
	i.Response = resp

	return i, nil
}

type rawRequestResponse struct {
	Method        string          `json:"method"`
	Path          string          `json:"path"`
	Status        int             `json:"status"`
	Query         json.RawMessage `json:"query"`
	Headers       json.RawMessage `json:"headers"`
	Body          json.RawMessage `json:"body"`
	MatchingRules json.RawMessage `json:"matchingRules"`
	Generators    json.RawMessage `json:"generators"`
}

func parseRequest(data json.RawMessage) (Request, error) {
	if len(data) == 0 {
		return Request{}, fmt.Errorf("missing required request object")
	}
	var raw rawRequestResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return Request{}, err
	}

	headers, err := parseHeaders(raw.Headers)
	if err != nil {
		return Request{}, fmt.Errorf("headers: %w", err)
	}
	query, err := parseQuery(raw.Query)
	if err != nil {
		return Request{}, fmt.Errorf("query: %w", err)
	}
	body, err := parseBody(raw.Body, headers.contentType())
	if err != nil {
		return Request{}, fmt.Errorf("body: %w", err)
	}
	rules, err := parseMatchingRules(raw.MatchingRules)
	if err != nil {
		return Request{}, fmt.Errorf("matchingRules: %w", err)
	}
	gens, err := parseGenerators(raw.Generators)
	if err != nil {
		return Request{}, fmt.Errorf("generators: %w", err)
	}

	return Request{
		Method:        raw.Method,
		Path:          raw.Path,
		Query:         query,
		Headers:       headers,
		Body:          body,
		MatchingRules: rules,
		Generators:    gens,
	}, nil
}

func parseResponse(data json.RawMessage) (Response, error) {
	if len(data) == 0 {
		return Response{}, fmt.Errorf("missing required response object")
	}
	var raw rawRequestResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return Response{}, err
	}

	headers, err := parseHeaders(raw.Headers)
	if err != nil {
		return Response{}, fmt.Errorf("headers: %w", err)
	}
	body, err := parseBody(raw.Body, headers.contentType())
	if err != nil {
		return Response{}, fmt.Errorf("body: %w", err)
	}
	rules, err := parseMatchingRules(raw.MatchingRules)
	if err != nil {
		return Response{}, fmt.Errorf("matchingRules: %w", err)
	}
	gens, err := parseGenerators(raw.Generators)
	if err != nil {
		return Response{}, fmt.Errorf("generators: %w", err)
	}

	return Response{
		StatusCode:    raw.Status,
		Headers:       headers,
		Body:          body,
		MatchingRules: rules,
		Generators:    gens,
	}, nil
}

func (h Headers) contentType() string {
	if v, ok := h.Get("Content-Type"); ok && len(v) > 0 {
		return v[0]
	}
	return ""
}

// parseHeaders accepts either {"name": "value"} or {"name": ["v1", "v2"]},
// preserving declaration order via token-based decoding since Go's
// encoding/json map decoding randomizes iteration order.
func parseHeaders(data json.RawMessage) (Headers, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	return decodeOrderedStringOrSlice(data)
}

// parseQuery accepts the V3/V4 object form {"name": ["v1", "v2"]} and the
// legacy V1/V2 literal query-string form ("a=1&b=2").
func parseQuery(data json.RawMessage) (Query, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return parseLegacyQueryString(s), nil
	}
	headers, err := decodeOrderedStringOrSlice(data)
	if err != nil {
		return nil, err
	}
	q := make(Query, 0, len(headers))
	for _, h := range headers {
		q = append(q, QueryParam{Name: h.Name, Values: h.Values})
	}
	return q, nil
}

func parseLegacyQueryString(s string) Query {
	var q Query
	if s == "" {
		return q
	}
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		name := parts[0]
		value := ""
		if len(parts) == 2 {
			value = parts[1]
		}
		found := false
		for i := range q {
			if q[i].Name == name {
				q[i].Values = append(q[i].Values, value)
				found = true
				break
			}
		}
		if !found {
			q = append(q, QueryParam{Name: name, Values: []string{value}})
		}
	}
	return q
}

// decodeOrderedStringOrSlice decodes a JSON object whose values are either a
// string or an array of strings, returning a Headers-shaped ordered list
// (reused for both header and query decoding since both are name -> []string
// maps on the wire).
func decodeOrderedStringOrSlice(data json.RawMessage) (Headers, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var out Headers
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}

		values, err := decodeStringOrSlice(raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out = append(out, Header{Name: name, Values: values})
	}
	return out, nil
}

func decodeStringOrSlice(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var vals []interface{}
		if err := json.Unmarshal(raw, &vals); err != nil {
			return nil, err
		}
		out := make([]string, 0, len(vals))
		for _, v := range vals {
			out = append(out, fmt.Sprintf("%v", v))
		}
		return out, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Non-string scalar (e.g. a bare number) — stringify it.
		var v interface{}
		if err2 := json.Unmarshal(raw, &v); err2 != nil {
			return nil, err
		}
		return []string{fmt.Sprintf("%v", v)}, nil
	}
	return []string{s}, nil
}

type base64Body struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
	Encoded     string `json:"encoded"`
}

// parseBody interprets the body field's three wire shapes: absent (no
// "body" key at all), a base64-tagged object, or a literal JSON/string
// value whose bytes are its canonical JSON encoding.
func parseBody(data json.RawMessage, headerContentType string) (Body, error) {
	if len(data) == 0 {
		return Body{State: BodyAbsent}, nil
	}
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == "null" {
		return Body{State: BodyNull, ContentType: headerContentType}, nil
	}

	if trimmed[0] == '{' {
		var probe base64Body
		if err := json.Unmarshal(data, &probe); err == nil && probe.Encoded == "base64" && probe.Content != "" {
			decoded, err := base64.StdEncoding.DecodeString(probe.Content)
			if err != nil {
				return Body{}, fmt.Errorf("invalid base64 body content: %w", err)
			}
			ct := probe.ContentType
			if ct == "" {
				ct = headerContentType
			}
			state := BodyPresent
			if len(decoded) == 0 {
				state = BodyEmpty
			}
			return Body{State: state, Content: decoded, ContentType: ct}, nil
		}
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return Body{}, err
		}
		state := BodyPresent
		if s == "" {
			state = BodyEmpty
		}
		ct := headerContentType
		if ct == "" {
			ct = "text/plain"
		}
		return Body{State: state, Content: []byte(s), ContentType: ct}, nil
	}

	// A literal JSON value (object/array/number/bool): store its canonical
	// compact encoding as the body's bytes.
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return Body{}, err
	}
	ct := headerContentType
	if ct == "" {
		ct = "application/json"
	}
	return Body{State: BodyPresent, Content: compact.Bytes(), ContentType: ct}, nil
}

type rawRuleGroup struct {
	Combine string         `json:"combine"`
	Rules   []MatchingRule `json:"matchers"`
}

type rawMatchingRules struct {
	Method map[string]rawRuleGroup `json:"method"`
	Path   *rawRuleGroup           `json:"path"`
	Query  map[string]rawRuleGroup `json:"query"`
	Header map[string]rawRuleGroup `json:"header"`
	Body   map[string]rawRuleGroup `json:"body"`
}

func parseMatchingRules(data json.RawMessage) (MatchingRules, error) {
	if len(data) == 0 || string(data) == "null" {
		return MatchingRules{}, nil
	}
	var raw rawMatchingRules
	if err := json.Unmarshal(data, &raw); err != nil {
		return MatchingRules{}, err
	}

	var rules MatchingRules
	if raw.Path != nil {
		rules.Path = &RuleGroup{Combine: raw.Path.Combine, Rules: raw.Path.Rules}
	}
	if len(raw.Method) > 0 {
		for _, g := range raw.Method {
			rules.Method = &RuleGroup{Combine: g.Combine, Rules: g.Rules}
			break
		}
	}
	rules.Query = convertRuleCategory(raw.Query)
	rules.Header = convertRuleCategory(raw.Header)
	rules.Body = convertRuleCategory(raw.Body)
	return rules, nil
}

func convertRuleCategory(raw map[string]rawRuleGroup) RuleCategory {
	if len(raw) == 0 {
		return nil
	}
	out := make(RuleCategory, len(raw))
	for k, g := range raw {
		out[k] = RuleGroup{Combine: g.Combine, Rules: g.Rules}
	}
	return out
}

type rawGenerators struct {
	Method map[string]Generator `json:"method"`
	Path   *Generator           `json:"path"`
	Query  map[string]Generator `json:"query"`
	Header map[string]Generator `json:"header"`
	Body   map[string]Generator `json:"body"`
	Status *Generator           `json:"status"`
}

func parseGenerators(data json.RawMessage) (Generators, error) {
	if len(data) == 0 || string(data) == "null" {
		return Generators{}, nil
	}
	var raw rawGenerators
	if err := json.Unmarshal(data, &raw); err != nil {
		return Generators{}, err
	}

	var gens Generators
	gens.Path = raw.Path
	gens.Status = raw.Status
	for _, g := range raw.Method {
		gv := g
		gens.Method = &gv
		break
	}
	if len(raw.Query) > 0 {
		gens.Query = raw.Query
	}
	if len(raw.Header) > 0 {
		gens.Header = raw.Header
	}
	if len(raw.Body) > 0 {
		gens.Body = raw.Body
	}
	return gens, nil
}

// EncodeBodyForWrite renders a Body back into its pact-JSON wire shape for
// PactWriter: JSON bodies are emitted as literal JSON values, everything
// else as a base64-tagged object so arbitrary bytes round-trip exactly.
func EncodeBodyForWrite(b Body) (json.RawMessage, error) {
	switch b.State {
	case BodyAbsent:
		return nil, nil
	case BodyNull:
		return json.RawMessage("null"), nil
	}

	if strings.Contains(b.ContentType, "json") {
		if json.Valid(b.Content) {
			return json.RawMessage(b.Content), nil
		}
	}

	encoded := base64Body{
		Content:     base64.StdEncoding.EncodeToString(b.Content),
		ContentType: b.ContentType,
		Encoded:     "base64",
	}
	return json.Marshal(encoded)
}
