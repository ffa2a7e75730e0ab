package analyzer

import (
	"context"
	"fmt"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/util"
)

// ComplexityAnalyzer flags functions whose cyclomatic complexity exceeds
// the configured threshold
type ComplexityAnalyzer struct {
	BaseAnalyzer
	cfg config.ComplexityAnalyzerConfig
}

// NewComplexityAnalyzer creates a new complexity analyzer
func NewComplexityAnalyzer(base BaseAnalyzer, cfg config.ComplexityAnalyzerConfig) *ComplexityAnalyzer {
	return &ComplexityAnalyzer{BaseAnalyzer: base, cfg: cfg}
}

// Name returns the analyzer name
func (a *ComplexityAnalyzer) Name() string {
	return "complexity"
}

// Analyze reports every function above the threshold. Code without usable
// structure produces no findings.
func (a *ComplexityAnalyzer) Analyze(ctx context.Context, code *model.ParsedCode) (*model.ReviewResult, error) {
	result := model.NewReviewResult(a.Name())
	if !code.HasStructure() {
		util.Debug("Complexity analyzer: no usable structure for %s source", code.Language)
		return result, nil
	}

	threshold := a.cfg.MaxComplexity
	for _, fn := range code.Metadata.Functions {
		if a.ShouldExclude(fn.ClassName, fn.Name) {
			continue
		}

		complexity := fn.CyclomaticComplexity()
		if complexity <= threshold {
			continue
		}

		severity := model.SeverityMedium
		if float64(complexity) > 1.5*float64(threshold) {
			severity = model.SeverityHigh
		}

		result.AddIssue(model.Issue{
			Severity:   severity,
			Category:   model.CategoryComplexity,
			Message:    fmt.Sprintf("Function '%s' has high cyclomatic complexity: %d", fn.Name, complexity),
			Line:       fn.StartLine,
			Suggestion: fmt.Sprintf("Split '%s' into smaller functions (threshold: %d)", fn.Name, threshold),
			RuleID:     "COMPLEXITY001",
		})
	}

	util.Debug("Complexity analyzer: %d of %d functions above threshold %d",
		result.TotalIssues, len(code.Metadata.Functions), threshold)
	return result, nil
}
