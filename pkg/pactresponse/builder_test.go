package pactresponse

import (
	"encoding/json"
	"testing"

	"github.com/pact-foundation/pact-mockserver/pkg/pact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPassesThroughStaticResponse(t *testing.T) {
	interaction := &pact.Interaction{
		Response: pact.Response{
			StatusCode: 200,
			Headers:    pact.Headers{{Name: "Content-Type", Values: []string{"application/json"}}},
			Body:       pact.Body{State: pact.BodyPresent, Content: []byte(`{"ok":true}`), ContentType: "application/json"},
		},
	}

	resp, err := Build(interaction, GeneratorContext{})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestBuildAppliesStatusGenerator(t *testing.T) {
	min, max := 201, 201
	interaction := &pact.Interaction{
		Response: pact.Response{
			StatusCode: 200,
			Generators: pact.Generators{Status: &pact.Generator{Type: "RandomInt", Min: &min, Max: &max}},
		},
	}

	resp, err := Build(interaction, GeneratorContext{})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
}

func TestBuildAppliesHeaderGenerator(t *testing.T) {
	interaction := &pact.Interaction{
		Response: pact.Response{
			StatusCode: 200,
			Headers:    pact.Headers{{Name: "X-Request-Id", Values: []string{"placeholder"}}},
			Generators: pact.Generators{Header: pact.GeneratorCategory{"X-Request-Id": {Type: "Uuid"}}},
		},
	}

	resp, err := Build(interaction, GeneratorContext{})
	require.NoError(t, err)
	assert.NotEqual(t, "placeholder", resp.Header.Get("X-Request-Id"))
	assert.Len(t, resp.Header.Get("X-Request-Id"), 36)
}

func TestBuildAppliesBodyGenerator(t *testing.T) {
	interaction := &pact.Interaction{
		Response: pact.Response{
			StatusCode: 200,
			Body:       pact.Body{State: pact.BodyPresent, Content: []byte(`{"id":1}`), ContentType: "application/json"},
			Generators: pact.Generators{Body: pact.GeneratorCategory{"$.id": {Type: "Uuid"}}},
		},
	}

	resp, err := Build(interaction, GeneratorContext{})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body, &decoded))
	assert.NotEqual(t, float64(1), decoded["id"])
}

func TestBuildProviderStateGeneratorReadsMergedParams(t *testing.T) {
	interaction := &pact.Interaction{
		ProviderStates: []pact.ProviderState{{Name: "a user exists", Params: map[string]interface{}{"id": "42"}}},
		Response: pact.Response{
			StatusCode: 200,
			Headers:    pact.Headers{{Name: "X-User-Id", Values: []string{"0"}}},
			Generators: pact.Generators{Header: pact.GeneratorCategory{"X-User-Id": {Type: "ProviderState", Expression: "id"}}},
		},
	}

	resp, err := Build(interaction, GeneratorContext{})
	require.NoError(t, err)
	assert.Equal(t, "42", resp.Header.Get("X-User-Id"))
}
