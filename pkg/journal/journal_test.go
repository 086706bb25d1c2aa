package journal

import (
	"testing"

	"github.com/pact-foundation/pact-mockserver/internal/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullMatch(index int) matching.Outcome {
	return matching.Outcome{Index: index, Report: matching.Report{Classification: matching.FullMatch}}
}

func partialMatch(index int, mismatches ...matching.Mismatch) matching.Outcome {
	return matching.Outcome{Index: index, Report: matching.Report{Classification: matching.PartialMatch, Mismatches: mismatches}}
}

func unexpected() matching.Outcome {
	return matching.Outcome{Index: -1, Report: matching.Report{Classification: matching.Unexpected}}
}

func TestMatchedTrueWhenEveryInteractionMatchedAndNothingElseRecorded(t *testing.T) {
	j := New(2, 0)
	j.Record(fullMatch(0), "GET", "/a", nil)
	j.Record(fullMatch(1), "POST", "/b", nil)
	assert.True(t, j.Matched())
}

func TestMatchedFalseWhenAnInteractionNeverMatched(t *testing.T) {
	j := New(2, 0)
	j.Record(fullMatch(0), "GET", "/a", nil)
	assert.False(t, j.Matched())
}

func TestMatchedFalseAfterUnexpectedEvenWithAllInteractionsMatched(t *testing.T) {
	j := New(1, 0)
	j.Record(fullMatch(0), "GET", "/a", nil)
	j.Record(unexpected(), "PUT", "/unknown", nil)
	assert.False(t, j.Matched())
}

func TestMatchedFalseAfterMismatchEvenIfLaterFullyMatched(t *testing.T) {
	j := New(1, 0)
	j.Record(partialMatch(0, matching.Mismatch{Field: "body.id"}), "POST", "/a", nil)
	j.Record(fullMatch(0), "POST", "/a", nil)
	assert.False(t, j.Matched(), "an earlier mismatch must not be undone by a later full match")
}

func TestMatchedFalseOnEmptyJournalWithExpectedInteractions(t *testing.T) {
	j := New(1, 0)
	assert.False(t, j.Matched())
}

func TestMismatchesFiltersOutMatchedEntries(t *testing.T) {
	j := New(2, 0)
	j.Record(fullMatch(0), "GET", "/a", nil)
	j.Record(unexpected(), "PUT", "/b", nil)
	j.Record(partialMatch(1, matching.Mismatch{Field: "body.id"}), "POST", "/c", nil)

	mismatches := j.Mismatches()
	require.Len(t, mismatches, 2)
	assert.Equal(t, KindUnexpected, mismatches[0].Kind)
	assert.Equal(t, KindMismatch, mismatches[1].Kind)
}

func TestSnapshotIsPrefixStableAcrossAppends(t *testing.T) {
	j := New(2, 0)
	j.Record(fullMatch(0), "GET", "/a", nil)
	first := j.Snapshot()

	j.Record(fullMatch(1), "GET", "/b", nil)
	second := j.Snapshot()

	require.Len(t, first, 1)
	require.Len(t, second, 2)
	assert.Equal(t, first[0], second[0])
}

func TestRecordTruncatesBodyToMaxBytes(t *testing.T) {
	j := New(1, 4)
	entry := j.Record(fullMatch(0), "POST", "/a", []byte("hello world"))
	assert.Equal(t, []byte("hell"), entry.ActualBody)
}

func TestCountReflectsAppendedEntries(t *testing.T) {
	j := New(1, 0)
	assert.Equal(t, 0, j.Count())
	j.Record(fullMatch(0), "GET", "/a", nil)
	assert.Equal(t, 1, j.Count())
}
