package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Confidence is how sure a fixer is that a fix is correct
type Confidence string

const (
	ConfidenceLow      Confidence = "low"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceHigh     Confidence = "high"
	ConfidenceVerified Confidence = "verified"
)

// ConfidenceAll is the threshold sentinel that selects every fix
const ConfidenceAll = "all"

// Rank orders confidences: low=0 < medium < high < verified=3.
// Unknown values rank below low.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceLow:
		return 0
	case ConfidenceMedium:
		return 1
	case ConfidenceHigh:
		return 2
	case ConfidenceVerified:
		return 3
	default:
		return -1
	}
}

// Valid reports whether c is a known confidence level
func (c Confidence) Valid() bool {
	return c.Rank() >= 0
}

// ParseConfidence normalizes v and falls back to medium for unknown values
func ParseConfidence(v string) Confidence {
	c := Confidence(strings.ToLower(strings.TrimSpace(v)))
	if !c.Valid() {
		return ConfidenceMedium
	}
	return c
}

// ParseConfidenceThreshold interprets a minimum-confidence setting.
// "all" selects everything; unrecognized values fall back to high.
func ParseConfidenceThreshold(v string) (floor Confidence, all bool) {
	norm := strings.ToLower(strings.TrimSpace(v))
	if norm == ConfidenceAll {
		return "", true
	}
	if c := Confidence(norm); c.Valid() {
		return c, false
	}
	return ConfidenceHigh, false
}

// FixStatus tracks where a fix is in its lifecycle
type FixStatus string

const (
	FixStatusSuggested FixStatus = "suggested"
	FixStatusApplied   FixStatus = "applied"
	FixStatusRejected  FixStatus = "rejected"
	FixStatusPending   FixStatus = "pending"
)

// ErrInvalidTransition is returned when a fix status would move backward
var ErrInvalidTransition = errors.New("invalid fix status transition")

// LineNumber is a 1-based line reference as reported by a fixer. The raw
// decoded value is kept so that malformed input (strings, floats, null)
// survives decoding and is resolved when the fix is applied.
type LineNumber struct {
	raw string
	set bool
}

// Line returns a well-formed line reference
func Line(n int) LineNumber {
	return LineNumber{raw: strconv.Itoa(n), set: true}
}

// RawLine returns a line reference holding an arbitrary textual value
func RawLine(v string) LineNumber {
	return LineNumber{raw: v, set: true}
}

// IsZero reports whether no value was provided
func (l LineNumber) IsZero() bool {
	return !l.set
}

// Int resolves the reference to an integer line number
func (l LineNumber) Int() (int, error) {
	if !l.set {
		return 0, errors.New("line number missing")
	}
	s := strings.TrimSpace(l.raw)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
		return int(f), nil
	}
	return 0, fmt.Errorf("invalid line number %q", l.raw)
}

func (l LineNumber) String() string {
	if !l.set {
		return ""
	}
	return l.raw
}

// UnmarshalJSON accepts numbers, strings and null
func (l *LineNumber) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	switch {
	case text == "null":
		*l = LineNumber{}
	case strings.HasPrefix(text, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = RawLine(s)
	default:
		*l = RawLine(text)
	}
	return nil
}

// MarshalJSON writes well-formed references as numbers and anything else as a string
func (l LineNumber) MarshalJSON() ([]byte, error) {
	if !l.set {
		return []byte("null"), nil
	}
	if n, err := l.Int(); err == nil {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(l.raw)
}

// Fix is a proposed replacement of a line range with new text
type Fix struct {
	IssueDescription string     `json:"issue_description"`
	OriginalCode     string     `json:"original_code"`
	FixedCode        string     `json:"fixed_code"`
	LineStart        LineNumber `json:"line_start"`
	LineEnd          LineNumber `json:"line_end"`
	Explanation      string     `json:"explanation"`
	Confidence       Confidence `json:"confidence"`
	Severity         Severity   `json:"severity"`
	Category         Category   `json:"category"`
	Status           FixStatus  `json:"status"`
	Diff             string     `json:"diff,omitempty"`
}

// NewFix creates a fix with the default confidence, severity, category and status
func NewFix(description, original, fixed string, start, end int) Fix {
	return Fix{
		IssueDescription: description,
		OriginalCode:     original,
		FixedCode:        fixed,
		LineStart:        Line(start),
		LineEnd:          Line(end),
		Confidence:       ConfidenceMedium,
		Severity:         SeverityInfo,
		Category:         CategoryBestPractices,
		Status:           FixStatusSuggested,
	}
}

// IsHighConfidence reports whether the fix is high confidence or verified
func (f *Fix) IsHighConfidence() bool {
	return f.Confidence == ConfidenceHigh || f.Confidence == ConfidenceVerified
}

// IsCritical reports whether the fix addresses a critical issue
func (f *Fix) IsCritical() bool {
	return f.Severity == SeverityCritical
}

// MarkApplied moves the fix to applied
func (f *Fix) MarkApplied() error {
	return f.transition(FixStatusApplied)
}

// MarkRejected moves the fix to rejected
func (f *Fix) MarkRejected() error {
	return f.transition(FixStatusRejected)
}

// applied and rejected are terminal
func (f *Fix) transition(to FixStatus) error {
	if f.Status == to {
		return nil
	}
	switch f.Status {
	case "", FixStatusSuggested, FixStatusPending:
		f.Status = to
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.Status, to)
}

// FixResult is the set of fixes proposed for one piece of code
type FixResult struct {
	Fixes                 []Fix     `json:"fixes"`
	TotalFixes            int       `json:"total_fixes"`
	HighConfidenceCount   int       `json:"high_confidence_count"`
	MediumConfidenceCount int       `json:"medium_confidence_count"`
	LowConfidenceCount    int       `json:"low_confidence_count"`
	AppliedCount          int       `json:"applied_count"`
	Success               bool      `json:"success"`
	ErrorMessage          string    `json:"error_message,omitempty"`
	FixerName             string    `json:"fixer_name"`
	GeneratedAt           time.Time `json:"generated_at"`
}

// NewFixResult creates an empty successful result
func NewFixResult(fixer string) *FixResult {
	return &FixResult{
		Fixes:       []Fix{},
		Success:     true,
		FixerName:   fixer,
		GeneratedAt: time.Now().UTC(),
	}
}

// FailedFixResult creates an unsuccessful result carrying msg
func FailedFixResult(fixer, msg string) *FixResult {
	r := NewFixResult(fixer)
	r.Success = false
	r.ErrorMessage = msg
	return r
}

// AddFix appends a fix and refreshes the statistics
func (r *FixResult) AddFix(f Fix) {
	r.Fixes = append(r.Fixes, f)
	r.UpdateStatistics()
}

// UpdateStatistics recomputes all counts from Fixes. Verified fixes are
// counted as high confidence.
func (r *FixResult) UpdateStatistics() {
	r.TotalFixes = len(r.Fixes)
	r.HighConfidenceCount, r.MediumConfidenceCount, r.LowConfidenceCount, r.AppliedCount = 0, 0, 0, 0

	for i := range r.Fixes {
		f := &r.Fixes[i]
		switch f.Confidence {
		case ConfidenceHigh, ConfidenceVerified:
			r.HighConfidenceCount++
		case ConfidenceMedium:
			r.MediumConfidenceCount++
		case ConfidenceLow:
			r.LowConfidenceCount++
		}
		if f.Status == FixStatusApplied {
			r.AppliedCount++
		}
	}
}

// FixesByConfidence returns fixes with exactly the given confidence
func (r *FixResult) FixesByConfidence(c Confidence) []Fix {
	var out []Fix
	for _, f := range r.Fixes {
		if f.Confidence == c {
			out = append(out, f)
		}
	}
	return out
}

// FixesByStatus returns fixes with exactly the given status
func (r *FixResult) FixesByStatus(s FixStatus) []Fix {
	var out []Fix
	for _, f := range r.Fixes {
		if f.Status == s {
			out = append(out, f)
		}
	}
	return out
}

// HighConfidenceFixes returns high and verified fixes
func (r *FixResult) HighConfidenceFixes() []Fix {
	var out []Fix
	for i := range r.Fixes {
		if r.Fixes[i].IsHighConfidence() {
			out = append(out, r.Fixes[i])
		}
	}
	return out
}

// HasFixes reports whether any fix was proposed
func (r *FixResult) HasFixes() bool {
	return len(r.Fixes) > 0
}

// Summary renders a short human-readable description of the result
func (r *FixResult) Summary() string {
	if !r.Success {
		return "Fix generation failed: " + r.ErrorMessage
	}
	return fmt.Sprintf("%d fixes (high: %d, medium: %d, low: %d), %d applied",
		r.TotalFixes, r.HighConfidenceCount, r.MediumConfidenceCount, r.LowConfidenceCount, r.AppliedCount)
}
