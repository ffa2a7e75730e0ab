package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/util"
)

// DuplicationAnalyzer finds blocks of lines repeated within the file
type DuplicationAnalyzer struct {
	BaseAnalyzer
	cfg config.DuplicationAnalyzerConfig
}

// NewDuplicationAnalyzer creates a new duplication analyzer
func NewDuplicationAnalyzer(base BaseAnalyzer, cfg config.DuplicationAnalyzerConfig) *DuplicationAnalyzer {
	if cfg.MinLines < 2 {
		cfg.MinLines = 2
	}
	return &DuplicationAnalyzer{BaseAnalyzer: base, cfg: cfg}
}

// Name returns the analyzer name
func (a *DuplicationAnalyzer) Name() string {
	return "duplication"
}

type sourceLine struct {
	text string
	num  int
}

// Analyze slides a window of MinLines significant lines over the file and
// reports every window whose content was already seen earlier
func (a *DuplicationAnalyzer) Analyze(ctx context.Context, code *model.ParsedCode) (*model.ReviewResult, error) {
	result := model.NewReviewResult(a.Name())

	var significant []sourceLine
	for i, line := range util.SplitLines(code.Content) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isCommentLine(trimmed, code.Language) {
			continue
		}
		if a.cfg.SkipTrivial && isTrivialLine(trimmed) {
			continue
		}
		significant = append(significant, sourceLine{text: trimmed, num: i + 1})
	}

	window := a.cfg.MinLines
	firstSeen := make(map[string]int) // hash -> index of first window
	for i := 0; i+window <= len(significant); i++ {
		block := significant[i : i+window]
		h := hashBlock(block)

		first, dup := firstSeen[h]
		if !dup {
			firstSeen[h] = i
			continue
		}
		// a window overlapping its own earlier copy is a run of repeated lines
		if i-first < window {
			continue
		}

		result.AddIssue(model.Issue{
			Severity:   model.SeverityLow,
			Category:   model.CategoryBestPractices,
			Message:    fmt.Sprintf("Duplicate block of %d lines (first seen at line %d)", window, significant[first].num),
			Line:       block[0].num,
			Suggestion: "Extract the repeated logic into a shared function",
			RuleID:     "DUP001",
		})
		// skip the rest of this block so one duplicate yields one issue
		i += window - 1
	}

	util.Debug("Duplication analyzer: %d duplicate blocks in %d significant lines", result.TotalIssues, len(significant))
	return result, nil
}

func isTrivialLine(trimmed string) bool {
	switch trimmed {
	case "{", "}", "(", ")", "[", "]", "};", "});", "else:", "try:", "pass", "return", "break", "continue", "end":
		return true
	}
	return strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from ")
}

func hashBlock(lines []sourceLine) string {
	h := sha256.New()
	for _, l := range lines {
		h.Write([]byte(l.text))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
