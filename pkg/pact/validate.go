package pact

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// baseSchema captures the structural shape common to every pact
// specification version this core accepts: a named consumer and provider,
// and a list of interactions each carrying a description, request and
// response. Version-specific detail (providerState vs. providerStates,
// V4's type/pending/comments) is intentionally left loose here and
// enforced instead while building the in-memory model in parse.go, the
// same division of labour the schema-based request validator in the
// reference admin API uses between schema checks and field-level checks.
const baseSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["consumer", "provider", "interactions"],
  "properties": {
    "consumer": {
      "type": "object",
      "required": ["name"],
      "properties": {"name": {"type": "string", "minLength": 1}}
    },
    "provider": {
      "type": "object",
      "required": ["name"],
      "properties": {"name": {"type": "string", "minLength": 1}}
    },
    "interactions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["description", "request", "response"],
        "properties": {
          "description": {"type": "string", "minLength": 1},
          "request": {
            "type": "object",
            "required": ["method", "path"],
            "properties": {
              "method": {"type": "string", "minLength": 1},
              "path": {"type": "string", "minLength": 1}
            }
          },
          "response": {
            "type": "object",
            "required": ["status"],
            "properties": {
              "status": {"type": "integer", "minimum": 100, "maximum": 599}
            }
          }
        }
      }
    },
    "metadata": {"type": "object"}
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiledBaseSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("pact-base.json", strings.NewReader(baseSchema)); err != nil {
			compileErr = fmt.Errorf("compile base pact schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("pact-base.json")
	})
	return compiledSchema, compileErr
}

// Validate checks a raw pact document against the structural JSON Schema
// shared by all supported specification versions. It does not itself
// detect the specification version; Parse does that afterwards from
// metadata and applies any version-specific field rules while building the
// model.
func Validate(data []byte) error {
	schema, err := compiledBaseSchema()
	if err != nil {
		return err
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("schema validation failed: %s", summarizeValidationError(ve))
		}
		return err
	}
	return nil
}

func summarizeValidationError(err *jsonschema.ValidationError) string {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return fmt.Sprintf("%s: %s", loc, err.Message)
	}
	parts := make([]string, 0, len(err.Causes))
	for _, cause := range err.Causes {
		parts = append(parts, summarizeValidationError(cause))
	}
	return strings.Join(parts, "; ")
}
