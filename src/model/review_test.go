package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueOf(s Severity) Issue {
	return Issue{Severity: s, Category: CategoryStyle, Message: string(s)}
}

func TestQualityScoreWeights(t *testing.T) {
	cases := []struct {
		name   string
		issues []Severity
		want   float64
		passed bool
	}{
		{"empty", nil, 100, true},
		{"one of each", []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}, 62, false},
		{"info only", []Severity{SeverityInfo, SeverityInfo}, 98, true},
		{"clamped at zero", []Severity{SeverityCritical, SeverityCritical, SeverityCritical, SeverityCritical, SeverityCritical, SeverityCritical}, 0, false},
		{"high does not fail", []Severity{SeverityHigh, SeverityHigh}, 80, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReviewResult("test")
			for _, s := range tc.issues {
				r.AddIssue(issueOf(s))
			}
			assert.Equal(t, tc.want, r.QualityScore)
			assert.Equal(t, tc.passed, r.Passed)
			assert.Equal(t, len(tc.issues), r.TotalIssues)
		})
	}
}

func TestUpdateStatisticsIdempotent(t *testing.T) {
	r := NewReviewResult("test")
	for _, s := range []Severity{SeverityHigh, SeverityLow, SeverityLow, SeverityInfo} {
		r.AddIssue(issueOf(s))
	}

	before := *r
	r.UpdateStatistics()
	r.UpdateStatistics()

	assert.Empty(t, cmp.Diff(before, *r))
	assert.Equal(t, r.TotalIssues, r.CriticalCount+r.HighCount+r.MediumCount+r.LowCount+r.InfoCount)
}

func TestUpdateStatisticsAfterDirectMutation(t *testing.T) {
	r := NewReviewResult("test")
	r.Issues = append(r.Issues, issueOf(SeverityCritical), issueOf(SeverityMedium))
	assert.Zero(t, r.TotalIssues)

	r.UpdateStatistics()
	assert.Equal(t, 2, r.TotalIssues)
	assert.Equal(t, 1, r.CriticalCount)
	assert.Equal(t, 75.0, r.QualityScore)
	assert.False(t, r.Passed)
	assert.True(t, r.HasCriticalIssues())
	assert.True(t, r.HasHighPriorityIssues())
}

func TestIssueQueriesPreserveOrder(t *testing.T) {
	r := NewReviewResult("test")
	r.AddIssue(Issue{Severity: SeverityLow, Category: CategoryStyle, Message: "a"})
	r.AddIssue(Issue{Severity: SeverityHigh, Category: CategorySecurity, Message: "b"})
	r.AddIssue(Issue{Severity: SeverityLow, Category: CategorySecurity, Message: "c"})

	low := r.IssuesBySeverity(SeverityLow)
	require.Len(t, low, 2)
	assert.Equal(t, "a", low[0].Message)
	assert.Equal(t, "c", low[1].Message)

	sec := r.IssuesByCategory(CategorySecurity)
	require.Len(t, sec, 2)
	assert.Equal(t, "b", sec[0].Message)

	assert.Empty(t, r.IssuesByCategory(CategoryPerformance))
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityCritical.AtLeast(SeverityHigh))
	assert.True(t, SeverityMedium.AtLeast(SeverityMedium))
	assert.False(t, SeverityInfo.AtLeast(SeverityLow))

	_, err := ParseSeverity("urgent")
	assert.Error(t, err)
	s, err := ParseSeverity("high")
	require.NoError(t, err)
	assert.Equal(t, SeverityHigh, s)
}

func TestSummaryMentionsStatus(t *testing.T) {
	r := NewReviewResult("test")
	assert.Contains(t, r.Summary(), "PASSED")
	r.AddIssue(issueOf(SeverityCritical))
	assert.Contains(t, r.Summary(), "FAILED")
}
