package pactresponse

import (
	"encoding/json"
	"testing"

	"github.com/pact-foundation/pact-mockserver/internal/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticIncludesMismatches(t *testing.T) {
	outcome := matching.Outcome{
		Index: 0,
		Report: matching.Report{
			Classification: matching.PartialMatch,
			Mismatches:     []matching.Mismatch{{Field: "body.id", Rule: "equality", Expected: "1", Actual: "2"}},
		},
	}

	data := Diagnostic("interaction matched but had mismatches", outcome)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "interaction matched but had mismatches", decoded["error"])
	assert.Len(t, decoded["mismatches"], 1)
}

func TestDiagnosticEmptyMismatchesStillArray(t *testing.T) {
	outcome := matching.Outcome{Index: -1, Report: matching.Report{Classification: matching.Unexpected}}
	data := Diagnostic("no interaction matched this request", outcome)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	mismatches, ok := decoded["mismatches"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, mismatches)
}
