package pact

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalV3Pact = `{
  "consumer": {"name": "OrderWeb"},
  "provider": {"name": "OrderService"},
  "interactions": [
    {
      "description": "a request for an order",
      "providerStates": [{"name": "an order exists", "params": {"id": "1"}}],
      "request": {
        "method": "GET",
        "path": "/orders/1",
        "query": {"expand": ["items", "customer"]},
        "headers": {"Accept": "application/json"}
      },
      "response": {
        "status": 200,
        "headers": {"Content-Type": "application/json"},
        "body": {"id": 1, "status": "open"}
      }
    }
  ],
  "metadata": {
    "pactSpecification": {"version": "3.0.0"}
  }
}`

func TestParseMinimalV3Pact(t *testing.T) {
	p, err := Parse([]byte(minimalV3Pact))
	require.NoError(t, err)

	assert.Equal(t, "OrderWeb", p.Consumer.Name)
	assert.Equal(t, "OrderService", p.Provider.Name)
	assert.Equal(t, V3, p.SpecVersion)
	require.Len(t, p.Interactions, 1)

	i := p.Interactions[0]
	assert.Equal(t, "a request for an order", i.Description)
	require.Len(t, i.ProviderStates, 1)
	assert.Equal(t, "an order exists", i.ProviderStates[0].Name)
	assert.Equal(t, "1", i.ProviderStates[0].Params["id"])

	assert.Equal(t, "GET", i.Request.Method)
	assert.Equal(t, "/orders/1", i.Request.Path)
	values, ok := i.Request.Query.Get("expand")
	require.True(t, ok)
	assert.Equal(t, []string{"items", "customer"}, values)

	accept, ok := i.Request.Headers.Get("accept")
	require.True(t, ok)
	assert.Equal(t, []string{"application/json"}, accept)

	assert.Equal(t, 200, i.Response.StatusCode)
	assert.Equal(t, BodyPresent, i.Response.Body.State)
	assert.JSONEq(t, `{"id":1,"status":"open"}`, string(i.Response.Body.Content))
}

func TestParseLegacyProviderStateString(t *testing.T) {
	doc := `{
      "consumer": {"name": "c"}, "provider": {"name": "p"},
      "interactions": [{
        "description": "d",
        "providerState": "a thing exists",
        "request": {"method": "GET", "path": "/x"},
        "response": {"status": 200}
      }]
    }`
	p, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, p.Interactions[0].ProviderStates, 1)
	assert.Equal(t, "a thing exists", p.Interactions[0].ProviderStates[0].Name)
}

func TestParseLegacyQueryString(t *testing.T) {
	doc := `{
      "consumer": {"name": "c"}, "provider": {"name": "p"},
      "interactions": [{
        "description": "d",
        "request": {"method": "GET", "path": "/x", "query": "a=1&b=2&a=3"},
        "response": {"status": 200}
      }]
    }`
	p, err := Parse([]byte(doc))
	require.NoError(t, err)
	values, ok := p.Interactions[0].Request.Query.Get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "3"}, values)
}

func TestParseBase64Body(t *testing.T) {
	doc := `{
      "consumer": {"name": "c"}, "provider": {"name": "p"},
      "interactions": [{
        "description": "d",
        "request": {"method": "POST", "path": "/x"},
        "response": {
          "status": 200,
          "body": {"content": "aGVsbG8=", "contentType": "text/plain", "encoded": "base64"}
        }
      }]
    }`
	p, err := Parse([]byte(doc))
	require.NoError(t, err)
	body := p.Interactions[0].Response.Body
	assert.Equal(t, BodyPresent, body.State)
	assert.Equal(t, "hello", string(body.Content))
	assert.Equal(t, "text/plain", body.ContentType)
}

func TestParseRejectsMissingRequiredFields(t *testing.T) {
	_, err := Parse([]byte(`{"consumer": {"name": "c"}}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPact)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPact)
}

func TestInteractionStateKeyStableAcrossParamOrder(t *testing.T) {
	a := &Interaction{
		Description: "d",
		ProviderStates: []ProviderState{
			{Name: "s", Params: map[string]interface{}{"a": 1, "b": 2}},
		},
	}
	b := &Interaction{
		Description: "d",
		ProviderStates: []ProviderState{
			{Name: "s", Params: map[string]interface{}{"b": 2, "a": 1}},
		},
	}
	assert.Equal(t, a.StateKey(), b.StateKey())
}

func TestEncodeBodyForWriteRoundTripsJSON(t *testing.T) {
	body := Body{State: BodyPresent, Content: []byte(`{"a":1}`), ContentType: "application/json"}
	raw, err := EncodeBodyForWrite(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))
}

func TestEncodeBodyForWriteBase64EncodesNonJSON(t *testing.T) {
	body := Body{State: BodyPresent, Content: []byte("hello"), ContentType: "text/plain"}
	raw, err := EncodeBodyForWrite(body)
	require.NoError(t, err)

	var decoded base64Body
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "base64", decoded.Encoded)
	assert.Equal(t, "text/plain", decoded.ContentType)
}
