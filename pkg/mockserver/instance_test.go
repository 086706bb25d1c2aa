package mockserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/pact-foundation/pact-mockserver/pkg/config"
	"github.com/pact-foundation/pact-mockserver/pkg/pact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePact(t *testing.T) *pact.Pact {
	t.Helper()
	doc := `{
		"consumer": {"name": "consumer"},
		"provider": {"name": "provider"},
		"interactions": [
			{
				"description": "a request for a widget",
				"request": {"method": "GET", "path": "/widgets/42"},
				"response": {
					"status": 200,
					"headers": {"Content-Type": "application/json"},
					"body": {"id": 42, "url": "placeholder"},
					"generators": {"body": {"$.url": {"type": "MockServerURL"}}}
				}
			}
		]
	}`
	p, err := pact.Parse([]byte(doc))
	require.NoError(t, err)
	return p
}

func startInstance(t *testing.T, cfg config.InstanceConfig) (*Instance, int) {
	t.Helper()
	inst := New("test-instance", samplePact(t), cfg)
	port, err := inst.Start("127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		inst.Shutdown(ctx)
	})
	return inst, port
}

func TestStartBindsOSAssignedPort(t *testing.T) {
	_, port := startInstance(t, config.DefaultInstanceConfig())
	assert.NotZero(t, port)
}

func TestStartTwiceFails(t *testing.T) {
	inst, _ := startInstance(t, config.DefaultInstanceConfig())
	_, err := inst.Start("127.0.0.1:0")
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestMatchingRequestRespondsWithGeneratedBody(t *testing.T) {
	_, port := startInstance(t, config.DefaultInstanceConfig())

	resp, err := http.Get(urlFor(port, "/widgets/42"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, float64(42), decoded["id"])
	assert.Contains(t, decoded["url"], "http://127.0.0.1:")
}

func TestUnexpectedRequestRespondsWithDiagnostic(t *testing.T) {
	_, port := startInstance(t, config.DefaultInstanceConfig())

	resp, err := http.Get(urlFor(port, "/nonexistent"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Pact-Mock-Service"))
}

func TestMatchedFalseUntilExpectedInteractionIsHit(t *testing.T) {
	inst, port := startInstance(t, config.DefaultInstanceConfig())
	assert.False(t, inst.Matched())

	resp, err := http.Get(urlFor(port, "/widgets/42"))
	require.NoError(t, err)
	resp.Body.Close()

	assert.True(t, inst.Matched())
}

func TestCORSPreflightBypassesMatchingAndJournal(t *testing.T) {
	inst, port := startInstance(t, config.DefaultInstanceConfig())

	req, err := http.NewRequest(http.MethodOptions, urlFor(port, "/widgets/42"), nil)
	require.NoError(t, err)
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "X-Custom")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET", resp.Header.Get("Access-Control-Allow-Methods"))
	assert.Empty(t, inst.JournalSnapshot())
}

func TestDiagnosticInteractionsEndpointServesWhenNoMatch(t *testing.T) {
	_, port := startInstance(t, config.DefaultInstanceConfig())

	resp, err := http.Get(urlFor(port, diagnosticInteractionsPath))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Len(t, decoded["interactions"], 1)
}

func TestShutdownReturnsFalseWhenAlreadyShutdown(t *testing.T) {
	inst := New("test", samplePact(t), config.DefaultInstanceConfig())
	_, err := inst.Start("127.0.0.1:0")
	require.NoError(t, err)

	ctx := context.Background()
	assert.True(t, inst.Shutdown(ctx))
	assert.False(t, inst.Shutdown(ctx))
}

func urlFor(port int, path string) string {
	return "http://127.0.0.1:" + strconv.Itoa(port) + path
}
