package analyzer

import (
	"context"
	"fmt"
	"strings"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/util"
)

// StructureAnalyzer detects size and documentation problems: long files,
// long functions, long parameter lists, missing docstrings and sparse
// comments
type StructureAnalyzer struct {
	BaseAnalyzer
	cfg config.StructureAnalyzerConfig
}

// NewStructureAnalyzer creates a new structure analyzer
func NewStructureAnalyzer(base BaseAnalyzer, cfg config.StructureAnalyzerConfig) *StructureAnalyzer {
	return &StructureAnalyzer{BaseAnalyzer: base, cfg: cfg}
}

// Name returns the analyzer name
func (a *StructureAnalyzer) Name() string {
	return "structure"
}

// Analyze runs file-level checks always and entity-level checks when the
// structure is usable
func (a *StructureAnalyzer) Analyze(ctx context.Context, code *model.ParsedCode) (*model.ReviewResult, error) {
	result := model.NewReviewResult(a.Name())
	md := code.Metadata

	a.detectFileIssues(md, result)
	if code.HasStructure() {
		a.detectFunctionIssues(md, result)
		if a.cfg.RequireDocstrings {
			a.detectMissingDocs(md, result)
		}
	}

	util.Debug("Structure analyzer: found %d issues", result.TotalIssues)
	return result, nil
}

func (a *StructureAnalyzer) detectFileIssues(md model.CodeMetadata, result *model.ReviewResult) {
	if a.cfg.MaxFileLines > 0 && md.LineCount > a.cfg.MaxFileLines {
		result.AddIssue(model.Issue{
			Severity:   scaledSeverity(md.LineCount, a.cfg.MaxFileLines),
			Category:   model.CategoryBestPractices,
			Message:    fmt.Sprintf("File is too large (%d lines, threshold: %d)", md.LineCount, a.cfg.MaxFileLines),
			Suggestion: "Split into multiple files organized by responsibility",
			RuleID:     "STRUCT001",
		})
	}

	if md.Structured && a.cfg.MaxFileFunctions > 0 && md.FunctionCount > a.cfg.MaxFileFunctions {
		result.AddIssue(model.Issue{
			Severity:   scaledSeverity(md.FunctionCount, a.cfg.MaxFileFunctions),
			Category:   model.CategoryBestPractices,
			Message:    fmt.Sprintf("File has too many functions (%d, threshold: %d)", md.FunctionCount, a.cfg.MaxFileFunctions),
			Suggestion: "Split into multiple files organized by feature",
			RuleID:     "STRUCT002",
		})
	}

	if a.cfg.MinCommentRatio > 0 && md.CodeLineCount >= a.cfg.MinCodeLines && md.CommentRatio < a.cfg.MinCommentRatio {
		result.AddIssue(model.Issue{
			Severity:   model.SeverityInfo,
			Category:   model.CategoryDocumentation,
			Message:    fmt.Sprintf("Comment ratio %.0f%% is below %.0f%%", md.CommentRatio*100, a.cfg.MinCommentRatio*100),
			Suggestion: "Document non-obvious logic with comments",
			RuleID:     "DOC002",
		})
	}
}

func (a *StructureAnalyzer) detectFunctionIssues(md model.CodeMetadata, result *model.ReviewResult) {
	for _, fn := range md.Functions {
		if a.ShouldExclude(fn.ClassName, fn.Name) {
			continue
		}

		if lines := fn.LineCount(); a.cfg.MaxFunctionLines > 0 && lines > a.cfg.MaxFunctionLines {
			result.AddIssue(model.Issue{
				Severity:   scaledSeverity(lines, a.cfg.MaxFunctionLines),
				Category:   model.CategoryBestPractices,
				Message:    fmt.Sprintf("Function '%s' is too long (%d lines, threshold: %d)", fn.Name, lines, a.cfg.MaxFunctionLines),
				Line:       fn.StartLine,
				Suggestion: "Extract smaller, single-purpose functions",
				RuleID:     "STRUCT003",
			})
		}

		if a.cfg.MaxParameters > 0 && fn.ParameterCount > a.cfg.MaxParameters {
			result.AddIssue(model.Issue{
				Severity:   scaledSeverity(fn.ParameterCount, a.cfg.MaxParameters),
				Category:   model.CategoryBestPractices,
				Message:    fmt.Sprintf("Function '%s' has too many parameters (%d, threshold: %d)", fn.Name, fn.ParameterCount, a.cfg.MaxParameters),
				Line:       fn.StartLine,
				Suggestion: "Group related parameters into an object",
				RuleID:     "STRUCT004",
			})
		}
	}
}

func (a *StructureAnalyzer) detectMissingDocs(md model.CodeMetadata, result *model.ReviewResult) {
	for _, cls := range md.Classes {
		if cls.HasDocstring || strings.HasPrefix(cls.Name, "_") || a.ShouldExclude(cls.Name, "") {
			continue
		}
		result.AddIssue(missingDocIssue("Class", cls.Name, cls.StartLine))
	}

	for _, fn := range md.Functions {
		// private helpers and one-liners are exempt
		if fn.HasDocstring || strings.HasPrefix(fn.Name, "_") || fn.LineCount() <= 3 || a.ShouldExclude(fn.ClassName, fn.Name) {
			continue
		}
		result.AddIssue(missingDocIssue("Function", fn.Name, fn.StartLine))
	}
}

func missingDocIssue(kind, name string, line int) model.Issue {
	return model.Issue{
		Severity:   model.SeverityInfo,
		Category:   model.CategoryDocumentation,
		Message:    fmt.Sprintf("%s '%s' has no docstring", kind, name),
		Line:       line,
		Suggestion: "Describe what it does, its parameters and its return value",
		RuleID:     "DOC001",
	}
}

// scaledSeverity is low above the threshold and medium beyond twice it
func scaledSeverity(value, threshold int) model.Severity {
	if value > threshold*2 {
		return model.SeverityMedium
	}
	return model.SeverityLow
}
