package model

import (
	"fmt"
	"time"
)

// ReviewResult holds the issues found in one review along with
// statistics derived from them. The statistics are a cache: they are
// recomputed from Issues by UpdateStatistics and carry no other state.
type ReviewResult struct {
	ID            string    `json:"id,omitempty"`
	Issues        []Issue   `json:"issues"`
	TotalIssues   int       `json:"total_issues"`
	CriticalCount int       `json:"critical_count"`
	HighCount     int       `json:"high_count"`
	MediumCount   int       `json:"medium_count"`
	LowCount      int       `json:"low_count"`
	InfoCount     int       `json:"info_count"`
	QualityScore  float64   `json:"quality_score"`
	Passed        bool      `json:"passed"`
	ReviewerName  string    `json:"reviewer_name"`
	ReviewedAt    time.Time `json:"reviewed_at"`

	// FixResult is attached when fixes were requested for this review
	FixResult *FixResult `json:"fix_result,omitempty"`
}

// NewReviewResult creates an empty, passing result for the named reviewer
func NewReviewResult(reviewer string) *ReviewResult {
	r := &ReviewResult{
		Issues:       []Issue{},
		ReviewerName: reviewer,
		ReviewedAt:   time.Now().UTC(),
	}
	r.UpdateStatistics()
	return r
}

// AddIssue appends an issue and refreshes the statistics
func (r *ReviewResult) AddIssue(issue Issue) {
	r.Issues = append(r.Issues, issue)
	r.UpdateStatistics()
}

// UpdateStatistics recomputes counts, quality score and pass/fail from
// Issues. It is idempotent.
func (r *ReviewResult) UpdateStatistics() {
	r.TotalIssues = len(r.Issues)
	r.CriticalCount, r.HighCount, r.MediumCount, r.LowCount, r.InfoCount = 0, 0, 0, 0, 0

	for _, issue := range r.Issues {
		switch issue.Severity {
		case SeverityCritical:
			r.CriticalCount++
		case SeverityHigh:
			r.HighCount++
		case SeverityMedium:
			r.MediumCount++
		case SeverityLow:
			r.LowCount++
		case SeverityInfo:
			r.InfoCount++
		}
	}

	r.QualityScore = r.CalculateQualityScore()
	r.Passed = r.CriticalCount == 0
}

// CalculateQualityScore returns 100 minus the severity weights of all
// issues, clamped to [0, 100]
func (r *ReviewResult) CalculateQualityScore() float64 {
	score := 100.0
	for _, issue := range r.Issues {
		score -= issue.Severity.Weight()
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// HasCriticalIssues reports whether any issue is critical
func (r *ReviewResult) HasCriticalIssues() bool {
	for _, issue := range r.Issues {
		if issue.IsCritical() {
			return true
		}
	}
	return false
}

// HasHighPriorityIssues reports whether any issue is high or critical
func (r *ReviewResult) HasHighPriorityIssues() bool {
	for _, issue := range r.Issues {
		if issue.IsHighPriority() {
			return true
		}
	}
	return false
}

// IssuesBySeverity returns the issues with exactly the given severity, in order
func (r *ReviewResult) IssuesBySeverity(s Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == s {
			out = append(out, issue)
		}
	}
	return out
}

// IssuesByCategory returns the issues in the given category, in order
func (r *ReviewResult) IssuesByCategory(c Category) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Category == c {
			out = append(out, issue)
		}
	}
	return out
}

// Summary renders a short human-readable description of the result
func (r *ReviewResult) Summary() string {
	status := "PASSED"
	if !r.Passed {
		status = "FAILED"
	}
	return fmt.Sprintf(
		"Review %s - score %.1f/100, %d issues (critical: %d, high: %d, medium: %d, low: %d, info: %d)",
		status, r.QualityScore, r.TotalIssues,
		r.CriticalCount, r.HighCount, r.MediumCount, r.LowCount, r.InfoCount,
	)
}
