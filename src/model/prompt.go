package model

import (
	"errors"
	"strings"
)

// MaxPrompts is the most prompts one PromptResult holds
const MaxPrompts = 5

var (
	// ErrTooManyPrompts is returned by AddPrompt on a full result
	ErrTooManyPrompts = errors.New("prompt limit reached")
	// ErrEmptyPrompt is returned by AddPrompt for blank prompt text
	ErrEmptyPrompt = errors.New("prompt text is empty")
)

// PromptSuggestion is a remediation prompt for one category of issues
type PromptSuggestion struct {
	Category        Category `json:"category"`
	PromptText      string   `json:"prompt_text"`
	IssueCount      int      `json:"issue_count"`
	SeveritySummary string   `json:"severity_summary"` // e.g. "2 high, 1 medium"
	LineReferences  []int    `json:"line_references"`
}

// PromptResult holds the prompts generated for a review, highest priority first
type PromptResult struct {
	Prompts            []PromptSuggestion `json:"prompts"`
	TotalIssuesCovered int                `json:"total_issues_covered"`
	CategoriesCovered  []Category         `json:"categories_covered"`
	Language           string             `json:"language"`
}

// NewPromptResult creates an empty result for language
func NewPromptResult(language string) *PromptResult {
	return &PromptResult{
		Prompts:           []PromptSuggestion{},
		CategoriesCovered: []Category{},
		Language:          language,
	}
}

// AddPrompt appends p, trimming its text and updating the coverage totals
func (r *PromptResult) AddPrompt(p PromptSuggestion) error {
	if len(r.Prompts) >= MaxPrompts {
		return ErrTooManyPrompts
	}
	p.PromptText = strings.TrimSpace(p.PromptText)
	if p.PromptText == "" {
		return ErrEmptyPrompt
	}

	r.Prompts = append(r.Prompts, p)
	r.TotalIssuesCovered += p.IssueCount
	for _, c := range r.CategoriesCovered {
		if c == p.Category {
			return nil
		}
	}
	r.CategoriesCovered = append(r.CategoriesCovered, p.Category)
	return nil
}

// PromptFor returns the prompt for category c
func (r *PromptResult) PromptFor(c Category) (PromptSuggestion, bool) {
	for _, p := range r.Prompts {
		if p.Category == c {
			return p, true
		}
	}
	return PromptSuggestion{}, false
}

// HasPrompts reports whether any prompt was generated
func (r *PromptResult) HasPrompts() bool {
	return len(r.Prompts) > 0
}
