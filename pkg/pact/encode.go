package pact

import (
	"bytes"
	"encoding/json"
)

// Encode renders p back into a pact JSON document, the inverse of Parse.
// PactWriter and the instance's diagnostic endpoint call it; it is exported
// here rather than kept as an unexported pair to Parse because the
// wire-format knowledge (ordered query/header objects, base64 body tagging,
// the "$.method" matching-rule/generator map wrapper) belongs with the rest of the wire-shape code
// in this package, not duplicated in the writer.
func Encode(p *Pact) ([]byte, error) {
	w := wirePact{
		Consumer: p.Consumer,
		Provider: p.Provider,
		Metadata: withSpecVersionMetadata(p.Metadata, p.SpecVersion),
	}
	for _, i := range p.Interactions {
		wi, err := encodeInteraction(i)
		if err != nil {
			return nil, err
		}
		w.Interactions = append(w.Interactions, wi)
	}
	return json.MarshalIndent(w, "", "  ")
}

func withSpecVersionMetadata(metadata map[string]interface{}, v SpecVersion) map[string]interface{} {
	out := make(map[string]interface{}, len(metadata)+1)
	for k, val := range metadata {
		out[k] = val
	}
	out["pactSpecification"] = map[string]interface{}{"version": v.String()}
	return out
}

type wirePact struct {
	Consumer     Participant            `json:"consumer"`
	Provider     Participant            `json:"provider"`
	Interactions []*wireInteraction     `json:"interactions"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

type wireInteraction struct {
	Description    string                 `json:"description"`
	ProviderStates []ProviderState        `json:"providerStates,omitempty"`
	Request        *wireRequestResponse   `json:"request"`
	Response       *wireRequestResponse   `json:"response"`
	Type           string                 `json:"type,omitempty"`
	Pending        bool                   `json:"pending,omitempty"`
	Comments       map[string]interface{} `json:"comments,omitempty"`
}

type wireRequestResponse struct {
	Method        string             `json:"method,omitempty"`
	Path          string             `json:"path,omitempty"`
	Status        int                `json:"status,omitempty"`
	Query         json.RawMessage    `json:"query,omitempty"`
	Headers       json.RawMessage    `json:"headers,omitempty"`
	Body          json.RawMessage    `json:"body,omitempty"`
	MatchingRules *wireMatchingRules `json:"matchingRules,omitempty"`
	Generators    *wireGenerators    `json:"generators,omitempty"`
}

type wireMatchingRules struct {
	Method map[string]RuleGroup `json:"method,omitempty"`
	Path   *RuleGroup           `json:"path,omitempty"`
	Query  RuleCategory         `json:"query,omitempty"`
	Header RuleCategory         `json:"header,omitempty"`
	Body   RuleCategory         `json:"body,omitempty"`
}

type wireGenerators struct {
	Method map[string]Generator `json:"method,omitempty"`
	Path   *Generator           `json:"path,omitempty"`
	Query  GeneratorCategory    `json:"query,omitempty"`
	Header GeneratorCategory    `json:"header,omitempty"`
	Body   GeneratorCategory    `json:"body,omitempty"`
	Status *Generator           `json:"status,omitempty"`
}

func encodeInteraction(i *Interaction) (*wireInteraction, error) {
	req, err := encodeRequest(i.Request)
	if err != nil {
		return nil, err
	}
	resp, err := encodeResponse(i.Response)
	if err != nil {
		return nil, err
	}
	return &wireInteraction{
		Description:    i.Description,
		ProviderStates: i.ProviderStates,
		Request:        req,
		Response:       resp,
		Type:           i.Type,
		Pending:        i.Pending,
		Comments:       i.Comments,
	}, nil
}

func encodeRequest(r Request) (*wireRequestResponse, error) {
	query, err := encodeQuery(r.Query)
	if err != nil {
		return nil, err
	}
	headers, err := encodeHeaders(r.Headers)
	if err != nil {
		return nil, err
	}
	body, err := EncodeBodyForWrite(r.Body)
	if err != nil {
		return nil, err
	}
	return &wireRequestResponse{
		Method:        r.Method,
		Path:          r.Path,
		Query:         query,
		Headers:       headers,
		Body:          body,
		MatchingRules: encodeMatchingRules(r.MatchingRules),
		Generators:    encodeGenerators(r.Generators),
	}, nil
}

func encodeResponse(r Response) (*wireRequestResponse, error) {
	headers, err := encodeHeaders(r.Headers)
	if err != nil {
		return nil, err
	}
	body, err := EncodeBodyForWrite(r.Body)
	if err != nil {
		return nil, err
	}
	return &wireRequestResponse{
		Status:        r.StatusCode,
		Headers:       headers,
		Body:          body,
		MatchingRules: encodeMatchingRules(r.MatchingRules),
		Generators:    encodeGenerators(r.Generators),
	}, nil
}

func encodeMatchingRules(r MatchingRules) *wireMatchingRules {
	if r.Method == nil && r.Path == nil && len(r.Query) == 0 && len(r.Header) == 0 && len(r.Body) == 0 {
		return nil
	}
	w := &wireMatchingRules{Path: r.Path, Query: r.Query, Header: r.Header, Body: r.Body}
	if r.Method != nil {
		w.Method = map[string]RuleGroup{"$.method": *r.Method}
	}
	return w
}

func encodeGenerators(g Generators) *wireGenerators {
	if g.Method == nil && g.Path == nil && g.Status == nil && len(g.Query) == 0 && len(g.Header) == 0 && len(g.Body) == 0 {
		return nil
	}
	w := &wireGenerators{Path: g.Path, Status: g.Status, Query: g.Query, Header: g.Header, Body: g.Body}
	if g.Method != nil {
		w.Method = map[string]Generator{"$.method": *g.Method}
	}
	return w
}

// encodeHeaders and encodeQuery render Headers/Query back into the wire's
// name -> (string | []string) object shape, preserving declaration order —
// the same reason Parse decodes with a token-based reader instead of a
// native map.
func encodeHeaders(h Headers) (json.RawMessage, error) {
	if len(h) == 0 {
		return nil, nil
	}
	return encodeOrderedFields(h)
}

func encodeQuery(q Query) (json.RawMessage, error) {
	if len(q) == 0 {
		return nil, nil
	}
	conv := make(Headers, len(q))
	for i, p := range q {
		conv[i] = Header{Name: p.Name, Values: p.Values}
	}
	return encodeOrderedFields(conv)
}

func encodeOrderedFields(fields Headers) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')

		var valJSON []byte
		if len(f.Values) == 1 {
			valJSON, err = json.Marshal(f.Values[0])
		} else {
			valJSON, err = json.Marshal(f.Values)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return json.RawMessage(buf.Bytes()), nil
}
