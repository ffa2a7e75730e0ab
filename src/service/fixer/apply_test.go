package fixer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-reviewer/src/model"
)

func fix(start int, fixed string, conf model.Confidence) model.Fix {
	f := model.NewFix(fmt.Sprintf("fix line %d", start), "", fixed, start, start)
	f.Confidence = conf
	return f
}

func resultOf(fixes ...model.Fix) *model.FixResult {
	r := model.NewFixResult(FixerName)
	for _, f := range fixes {
		r.AddFix(f)
	}
	return r
}

func numbered(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "l%d\n", i)
	}
	return b.String()
}

func TestApplyEmpty(t *testing.T) {
	src := "a\nb\n"
	assert.Equal(t, src, Apply(src, nil, "high"))
	assert.Equal(t, src, Apply(src, model.NewFixResult(FixerName), "all"))
}

func TestApplyBottomUp(t *testing.T) {
	r := resultOf(
		fix(5, "F5", model.ConfidenceHigh),
		fix(2, "F2a\nF2b", model.ConfidenceHigh),
		fix(8, "F8", model.ConfidenceHigh),
	)

	got := Apply(numbered(10), r, "high")

	want := "l1\nF2a\nF2b\nl3\nl4\nF5\nl6\nl7\nF8\nl9\nl10\n"
	assert.Equal(t, want, got)
	assert.Equal(t, 3, r.AppliedCount)
	for _, f := range r.Fixes {
		assert.Equal(t, model.FixStatusApplied, f.Status)
	}
}

func TestApplyMultiLineRange(t *testing.T) {
	f := model.NewFix("collapse", "", "merged", 2, 4)
	f.Confidence = model.ConfidenceHigh
	r := resultOf(f, fix(6, "six", model.ConfidenceHigh))

	got := Apply(numbered(6), r, "high")
	assert.Equal(t, "l1\nmerged\nl5\nsix\n", got)
}

func TestApplyConfidenceThreshold(t *testing.T) {
	src := "a\nb\nc\n"

	r := resultOf(fix(1, "A", model.ConfidenceHigh), fix(2, "B", model.ConfidenceLow))
	assert.Equal(t, "A\nb\nc\n", Apply(src, r, "high"))
	assert.Equal(t, model.FixStatusApplied, r.Fixes[0].Status)
	assert.Equal(t, model.FixStatusSuggested, r.Fixes[1].Status)
	assert.Equal(t, 1, r.AppliedCount)

	tests := []struct {
		threshold string
		want      string
	}{
		{"all", "A\nB\nC\n"},
		{"ALL", "A\nB\nC\n"},
		{"low", "A\nB\nC\n"},
		{"medium", "A\nb\nC\n"},
		{"high", "A\nb\nc\n"},
		{"verified", "a\nb\nc\n"},
		{"bogus", "A\nb\nc\n"},
		{"", "A\nb\nc\n"},
	}
	for _, tt := range tests {
		t.Run(tt.threshold, func(t *testing.T) {
			r := resultOf(
				fix(1, "A", model.ConfidenceHigh),
				fix(2, "B", model.ConfidenceLow),
				fix(3, "C", model.ConfidenceMedium),
			)
			assert.Equal(t, tt.want, Apply(src, r, tt.threshold))
		})
	}
}

func TestApplyOutOfRangeFallsBackToSubstitution(t *testing.T) {
	src := "x = 1\ny=2\nz = 3\n"

	f := model.NewFix("spacing", "y=2", "y = 2", 999, 999)
	f.Confidence = model.ConfidenceHigh
	r := resultOf(f)

	assert.Equal(t, "x = 1\ny = 2\nz = 3\n", Apply(src, r, "high"))
	assert.Equal(t, model.FixStatusApplied, r.Fixes[0].Status)

	missing := model.NewFix("stale", "not here", "whatever", 999, 999)
	missing.Confidence = model.ConfidenceHigh
	r = resultOf(missing)
	assert.Equal(t, src, Apply(src, r, "high"))
	assert.Equal(t, model.FixStatusSuggested, r.Fixes[0].Status)
	assert.Zero(t, r.AppliedCount)
}

func TestApplySubstitutesFirstOccurrenceOnly(t *testing.T) {
	f := model.NewFix("dup", "v", "w", 0, 0)
	f.Confidence = model.ConfidenceHigh
	assert.Equal(t, "w\nv\n", Apply("v\nv\n", resultOf(f), "high"))
}

func TestApplyMalformedLineNumbers(t *testing.T) {
	src := "a\nb\nc\n"

	bad := fix(0, "BAD", model.ConfidenceHigh)
	bad.LineStart = model.RawLine("three")
	bad.LineEnd = model.RawLine("")
	good := fix(3, "C", model.ConfidenceHigh)

	r := resultOf(bad, good)
	got := Apply(src, r, "high")

	assert.Equal(t, "BAD\nb\nC\n", got)
	assert.Equal(t, 2, r.AppliedCount)
}

func TestApplyClampsLineEnd(t *testing.T) {
	over := model.NewFix("tail", "", "end", 2, 50)
	over.Confidence = model.ConfidenceHigh
	assert.Equal(t, "a\nend\n", Apply("a\nb\nc\n", resultOf(over), "high"))

	backwards := model.NewFix("inverted", "", "B", 2, 1)
	backwards.Confidence = model.ConfidenceHigh
	assert.Equal(t, "a\nB\nc\n", Apply("a\nb\nc\n", resultOf(backwards), "high"))
}

func TestApplyEqualStartsKeepEncounterOrder(t *testing.T) {
	first := fix(2, "X1\nX2", model.ConfidenceHigh)
	second := fix(2, "Y", model.ConfidenceHigh)

	got := Apply("a\nb\nc\n", resultOf(first, second), "high")
	assert.Equal(t, "a\nY\nX2\nc\n", got)
}

func TestApplySwallowsStatusErrors(t *testing.T) {
	rejected := fix(1, "A", model.ConfidenceHigh)
	rejected.Status = model.FixStatusRejected
	r := resultOf(rejected, fix(2, "B", model.ConfidenceHigh))

	got := Apply("a\nb\n", r, "high")
	assert.Equal(t, "A\nB\n", got)
	assert.Equal(t, model.FixStatusRejected, r.Fixes[0].Status)
	assert.Equal(t, 1, r.AppliedCount)
}

func TestApplyPreservesMissingTrailingNewline(t *testing.T) {
	assert.Equal(t, "a\nB", Apply("a\nb", resultOf(fix(2, "B", model.ConfidenceHigh)), "high"))
}

func TestApplyDeletesLines(t *testing.T) {
	assert.Equal(t, "a\nc\n", Apply("a\nb\nc\n", resultOf(fix(2, "", model.ConfidenceHigh)), "high"))
}

func TestApplyRecomputesStatistics(t *testing.T) {
	r := resultOf(fix(1, "A", model.ConfidenceHigh), fix(2, "B", model.ConfidenceLow))
	r.AppliedCount = 42

	Apply("a\nb\n", r, "all")
	require.Equal(t, 2, r.TotalFixes)
	assert.Equal(t, 2, r.AppliedCount)
	assert.Equal(t, 1, r.HighConfidenceCount)
	assert.Equal(t, 1, r.LowConfidenceCount)
}

func TestApplyRestoresStatusesAfterPanic(t *testing.T) {
	calls := 0
	splice = func(lines []string, start, end int, replacement string) []string {
		calls++
		if calls > 1 {
			panic("splice failed")
		}
		return spliceLines(lines, start, end, replacement)
	}
	t.Cleanup(func() { splice = spliceLines })

	src := numbered(3)
	r := resultOf(fix(1, "one", model.ConfidenceHigh), fix(3, "three", model.ConfidenceHigh))

	assert.Equal(t, src, Apply(src, r, "high"))
	assert.Equal(t, 2, calls)
	assert.Equal(t, model.FixStatusSuggested, r.Fixes[0].Status)
	assert.Equal(t, model.FixStatusSuggested, r.Fixes[1].Status)
	assert.Zero(t, r.AppliedCount)
}
