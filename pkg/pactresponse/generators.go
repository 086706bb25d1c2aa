package pactresponse

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/expr-lang/expr"
	"github.com/google/uuid"
	"github.com/ohler55/ojg/jp"

	"github.com/pact-foundation/pact-mockserver/pkg/pact"
)

// GeneratorContext carries the values a generator may need beyond its own
// parameters: the instance's externally-reachable base URL (for
// MockServerURL generators) and the merged provider-state params in effect
// for this interaction (for ProviderState generators).
type GeneratorContext struct {
	MockServerURL string
	ProviderState map[string]interface{}
}

// mergeProviderStateParams flattens an interaction's provider states into a
// single param map, later states taking precedence over earlier ones on key
// collision (pact interactions rarely declare more than one, but nothing in
// the data model forbids it).
func mergeProviderStateParams(states []pact.ProviderState) map[string]interface{} {
	out := make(map[string]interface{})
	for _, s := range states {
		for k, v := range s.Params {
			out[k] = v
		}
	}
	return out
}

const randomStringCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomString(n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(randomStringCharset))))
		if err != nil {
			return "", err
		}
		b[i] = randomStringCharset[idx.Int64()]
	}
	return string(b), nil
}

func randomInt(min, max int) (int64, error) {
	if max < min {
		min, max = max, min
	}
	span := int64(max-min) + 1
	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return 0, err
	}
	return int64(min) + n.Int64(), nil
}

// generateValue evaluates one generator and returns the value it produces.
// The returned type varies by generator kind: RandomInt returns int64,
// ProviderState and Expression return whatever value they resolve to, and
// the rest return a string, so callers applying a value into
// JSON (where the distinction matters) and callers applying one into a
// header or query string (where it does not) can both use the result.
func generateValue(g pact.Generator, ctx GeneratorContext) (interface{}, error) {
	switch g.Type {
	case "RandomInt":
		min, max := 0, 2147483647
		if g.Min != nil {
			min = *g.Min
		}
		if g.Max != nil {
			max = *g.Max
		}
		return randomInt(min, max)

	case "RandomString":
		size := 20
		if g.Size != nil {
			size = *g.Size
		}
		return randomString(size)

	case "Uuid":
		return uuid.New().String(), nil

	case "Date":
		return time.Now().UTC().Format(pact.ConvertLayout(orDefault(g.Format, "2006-01-02"))), nil

	case "Time":
		return time.Now().UTC().Format(pact.ConvertLayout(orDefault(g.Format, "15:04:05"))), nil

	case "DateTime":
		return time.Now().UTC().Format(pact.ConvertLayout(orDefault(g.Format, time.RFC3339))), nil

	case "ProviderState":
		v, ok := ctx.ProviderState[g.Expression]
		if !ok {
			return nil, fmt.Errorf("pactresponse: provider state has no parameter %q", g.Expression)
		}
		return v, nil

	case "MockServerURL":
		return ctx.MockServerURL, nil

	case "Expression":
		return evalExpression(g.Expression, ctx)

	default:
		return nil, fmt.Errorf("pactresponse: unsupported generator type %q", g.Type)
	}
}

// evalExpression evaluates an expr-lang expression against the generator
// context, exposing providerState and mockServerURL as top-level
// identifiers so expressions can read them directly.
func evalExpression(expression string, ctx GeneratorContext) (interface{}, error) {
	env := map[string]interface{}{
		"providerState": ctx.ProviderState,
		"mockServerURL": ctx.MockServerURL,
	}
	program, err := expr.Compile(expression, expr.Env(env))
	if err != nil {
		return nil, fmt.Errorf("pactresponse: compile generator expression %q: %w", expression, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("pactresponse: eval generator expression %q: %w", expression, err)
	}
	return result, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// applyHeaderGenerators rewrites header values in place for every header
// name present in gens. Headers not named by a generator are untouched.
func applyHeaderGenerators(headers pact.Headers, gens pact.GeneratorCategory, ctx GeneratorContext) (pact.Headers, error) {
	if len(gens) == 0 {
		return headers, nil
	}
	out := make(pact.Headers, len(headers))
	copy(out, headers)
	for i, h := range out {
		g, ok := gens[h.Name]
		if !ok {
			continue
		}
		v, err := generateValue(g, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = pact.Header{Name: h.Name, Values: []string{stringifyGeneratedValue(v)}}
	}
	return out, nil
}

func stringifyGeneratedValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}

// applyBodyGenerators rewrites the JSON document in body at every path named
// by gens, using an ojg JSONPath expression to locate and replace each
// value. Non-JSON bodies, or bodies a generator path can't resolve against,
// are returned unchanged rather than erroring: a generator that doesn't
// apply to this body shape is a configuration mismatch the provider author
// should notice from the response, not a hard failure of this mock.
func applyBodyGenerators(body []byte, gens pact.GeneratorCategory, ctx GeneratorContext) ([]byte, error) {
	if len(gens) == 0 || len(body) == 0 {
		return body, nil
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return body, nil
	}

	for path, g := range gens {
		pathExpr, err := jp.ParseString(path)
		if err != nil {
			continue
		}
		v, err := generateValue(g, ctx)
		if err != nil {
			return nil, err
		}
		_ = pathExpr.Set(doc, v)
	}

	return json.Marshal(doc)
}
