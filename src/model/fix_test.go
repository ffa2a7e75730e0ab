package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixStatisticsCountVerifiedAsHigh(t *testing.T) {
	r := NewFixResult("test")
	for _, c := range []Confidence{ConfidenceVerified, ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceLow} {
		f := NewFix("d", "a", "b", 1, 1)
		f.Confidence = c
		r.AddFix(f)
	}

	assert.Equal(t, 5, r.TotalFixes)
	assert.Equal(t, 2, r.HighConfidenceCount)
	assert.Equal(t, 1, r.MediumConfidenceCount)
	assert.Equal(t, 2, r.LowConfidenceCount)
	assert.Len(t, r.HighConfidenceFixes(), 2)
	assert.Len(t, r.FixesByConfidence(ConfidenceLow), 2)
	assert.True(t, r.HasFixes())
}

func TestFixStatusTransitions(t *testing.T) {
	f := NewFix("d", "a", "b", 1, 1)
	require.NoError(t, f.MarkApplied())
	assert.Equal(t, FixStatusApplied, f.Status)
	require.NoError(t, f.MarkApplied())
	assert.ErrorIs(t, f.MarkRejected(), ErrInvalidTransition)

	g := NewFix("d", "a", "b", 1, 1)
	g.Status = FixStatusPending
	require.NoError(t, g.MarkRejected())
	assert.ErrorIs(t, g.MarkApplied(), ErrInvalidTransition)
	assert.Equal(t, FixStatusRejected, g.Status)
}

func TestConfidenceThreshold(t *testing.T) {
	floor, all := ParseConfidenceThreshold("ALL")
	assert.True(t, all)
	assert.Empty(t, floor)

	floor, all = ParseConfidenceThreshold("medium")
	assert.False(t, all)
	assert.Equal(t, ConfidenceMedium, floor)

	floor, _ = ParseConfidenceThreshold("whatever")
	assert.Equal(t, ConfidenceHigh, floor)

	assert.Equal(t, ConfidenceMedium, ParseConfidence("sure"))
	assert.Equal(t, ConfidenceVerified, ParseConfidence(" Verified "))
}

func TestLineNumberDecoding(t *testing.T) {
	var f Fix
	require.NoError(t, json.Unmarshal([]byte(`{"line_start": "7", "line_end": 9.0}`), &f))

	start, err := f.LineStart.Int()
	require.NoError(t, err)
	assert.Equal(t, 7, start)
	end, err := f.LineEnd.Int()
	require.NoError(t, err)
	assert.Equal(t, 9, end)

	require.NoError(t, json.Unmarshal([]byte(`{"line_start": "near the top", "line_end": null}`), &f))
	_, err = f.LineStart.Int()
	assert.Error(t, err)
	assert.True(t, f.LineEnd.IsZero())

	out, err := json.Marshal(Line(12))
	require.NoError(t, err)
	assert.Equal(t, "12", string(out))
	out, err = json.Marshal(RawLine("bad"))
	require.NoError(t, err)
	assert.Equal(t, `"bad"`, string(out))
}

func TestFailedFixResultSummary(t *testing.T) {
	r := FailedFixResult("llm", "timeout")
	assert.False(t, r.Success)
	assert.Contains(t, r.Summary(), "timeout")
}
