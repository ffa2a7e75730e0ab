package model

import "fmt"

// Severity represents the severity level of a review issue
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity from most to least severe
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// Rank orders severities: info=0 < low < medium < high < critical=4.
// Unknown values rank below info.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return -1
	}
}

// Weight is the quality-score deduction for one issue of this severity
func (s Severity) Weight() float64 {
	switch s {
	case SeverityCritical:
		return 20
	case SeverityHigh:
		return 10
	case SeverityMedium:
		return 5
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the known severities
func (s Severity) Valid() bool {
	return s.Rank() >= 0
}

// AtLeast reports whether s is at or above floor
func (s Severity) AtLeast(floor Severity) bool {
	return s.Rank() >= floor.Rank()
}

// ParseSeverity converts a string into a Severity
func ParseSeverity(v string) (Severity, error) {
	s := Severity(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown severity: %q", v)
	}
	return s, nil
}

// Category represents the kind of problem an issue describes
type Category string

const (
	CategoryStyle         Category = "style"
	CategoryComplexity    Category = "complexity"
	CategorySecurity      Category = "security"
	CategoryPerformance   Category = "performance"
	CategoryBestPractices Category = "best_practices"
	CategoryDocumentation Category = "documentation"
	CategoryBugRisk       Category = "bug_risk"
)

// Categories lists every category in display order
var Categories = []Category{
	CategorySecurity, CategoryBugRisk, CategoryComplexity, CategoryPerformance,
	CategoryBestPractices, CategoryStyle, CategoryDocumentation,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts a string into a Category
func ParseCategory(v string) (Category, error) {
	c := Category(v)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category: %q", v)
	}
	return c, nil
}

// Issue is a single finding produced by an analyzer.
// Line and Column are 1-based; zero means the issue has no location.
type Issue struct {
	Severity         Severity `json:"severity"`
	Category         Category `json:"category"`
	Message          string   `json:"message"`
	Line             int      `json:"line_number,omitempty"`
	Column           int      `json:"column,omitempty"`
	CodeSnippet      string   `json:"code_snippet,omitempty"`
	Suggestion       string   `json:"suggestion,omitempty"`
	RuleID           string   `json:"rule_id,omitempty"`
	DocumentationURL string   `json:"documentation_url,omitempty"`
}

// IsCritical reports whether the issue is critical
func (i Issue) IsCritical() bool {
	return i.Severity == SeverityCritical
}

// IsHighPriority reports whether the issue is high or critical
func (i Issue) IsHighPriority() bool {
	return i.Severity == SeverityHigh || i.Severity == SeverityCritical
}

// HasLine reports whether the issue points at a line
func (i Issue) HasLine() bool {
	return i.Line > 0
}

func (i Issue) String() string {
	loc := ""
	if i.HasLine() {
		loc = fmt.Sprintf("line %d: ", i.Line)
	}
	return fmt.Sprintf("[%s] %s%s", i.Severity, loc, i.Message)
}
