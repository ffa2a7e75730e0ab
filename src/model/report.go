package model

import "time"

// ReviewReport bundles a review with the file it describes, for rendering
type ReviewReport struct {
	FilePath    string        `json:"file_path"`
	Language    string        `json:"language"`
	Metadata    CodeMetadata  `json:"metadata"`
	Result      *ReviewResult `json:"result"`
	Prompts     *PromptResult `json:"prompts,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// NewReviewReport creates a report for a parsed file and its review
func NewReviewReport(code *ParsedCode, result *ReviewResult) *ReviewReport {
	r := &ReviewReport{Result: result, GeneratedAt: time.Now().UTC()}
	if code != nil {
		r.FilePath = code.FilePath
		r.Language = code.Language
		r.Metadata = code.Metadata
	}
	return r
}

// Name returns the file path or a placeholder for inline input
func (r *ReviewReport) Name() string {
	if r.FilePath == "" {
		return "<input>"
	}
	return r.FilePath
}
