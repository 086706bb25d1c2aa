package pact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEncodePact = `{
  "consumer": {"name": "consumer"},
  "provider": {"name": "provider"},
  "interactions": [
    {
      "description": "a request for a widget",
      "providerStates": [{"name": "a widget exists", "params": {"id": "1"}}],
      "request": {
        "method": "GET",
        "path": "/widgets/1",
        "query": {"expand": ["owner"]},
        "headers": {"Accept": "application/json"}
      },
      "response": {
        "status": 200,
        "headers": {"Content-Type": "application/json"},
        "body": {"id": 1, "name": "widget"}
      }
    }
  ],
  "metadata": {"pactSpecification": {"version": "3.0.0"}, "custom": {"x": 1}}
}`

func TestEncodeParseRoundTrip(t *testing.T) {
	p, err := Parse([]byte(sampleEncodePact))
	require.NoError(t, err)

	encoded, err := Encode(p)
	require.NoError(t, err)

	roundTripped, err := Parse(encoded)
	require.NoError(t, err)

	assert.Equal(t, p.Consumer, roundTripped.Consumer)
	assert.Equal(t, p.Provider, roundTripped.Provider)
	assert.Equal(t, p.SpecVersion, roundTripped.SpecVersion)
	require.Len(t, roundTripped.Interactions, 1)
	assert.Equal(t, p.Interactions[0].Description, roundTripped.Interactions[0].Description)
	assert.Equal(t, p.Interactions[0].ProviderStates, roundTripped.Interactions[0].ProviderStates)
	assert.Equal(t, p.Interactions[0].Request.Method, roundTripped.Interactions[0].Request.Method)
	assert.Equal(t, p.Interactions[0].Request.Path, roundTripped.Interactions[0].Request.Path)
	assert.Equal(t, p.Interactions[0].Response.Body.Content, roundTripped.Interactions[0].Response.Body.Content)
}

func TestEncodePreservesCustomMetadata(t *testing.T) {
	p, err := Parse([]byte(sampleEncodePact))
	require.NoError(t, err)

	encoded, err := Encode(p)
	require.NoError(t, err)

	roundTripped, err := Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, p.Metadata["custom"], roundTripped.Metadata["custom"])
}
