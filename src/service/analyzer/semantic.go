package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/service/llm"
	"code-reviewer/src/util"
)

// DefaultSemanticPrompt asks the model for issues in a fixed JSON shape
const DefaultSemanticPrompt = `You are an expert code reviewer. Analyze code for bugs, security issues, performance problems, and best practices violations.

IMPORTANT: You must respond with ONLY valid JSON in this exact format:
{
  "issues": [
    {
      "severity": "critical|high|medium|low|info",
      "category": "security|bug_risk|performance|best_practices|style|complexity|documentation",
      "message": "Clear description of the issue",
      "line_number": 5,
      "suggestion": "How to fix it"
    }
  ]
}

If no issues are found, return: {"issues": []}
Do not include any text before or after the JSON.`

// SemanticAnalyzer asks a language model to review the code
type SemanticAnalyzer struct {
	provider llm.Provider
	llmCfg   config.LLMConfig
	prompt   string
}

// NewSemanticAnalyzer creates a new semantic analyzer
func NewSemanticAnalyzer(provider llm.Provider, llmCfg config.LLMConfig, cfg config.SemanticAnalyzerConfig) *SemanticAnalyzer {
	prompt := cfg.SystemPrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultSemanticPrompt
	}
	return &SemanticAnalyzer{provider: provider, llmCfg: llmCfg, prompt: prompt}
}

// Name returns the analyzer name
func (a *SemanticAnalyzer) Name() string {
	return "semantic"
}

// Analyze sends the code to the provider. Provider failures are reported
// as an informational issue rather than an error.
func (a *SemanticAnalyzer) Analyze(ctx context.Context, code *model.ParsedCode) (*model.ReviewResult, error) {
	result := model.NewReviewResult(a.Name())

	if code.HasSyntaxErrors {
		result.AddIssue(model.Issue{
			Severity: model.SeverityInfo,
			Category: model.CategoryBugRisk,
			Message:  "Skipping AI review due to syntax errors. Fix syntax first.",
			RuleID:   "AI000",
		})
		return result, nil
	}

	resp, err := a.provider.Complete(ctx, llm.Request{
		System:      a.prompt,
		Prompt:      buildReviewPrompt(code),
		Model:       a.llmCfg.Model,
		Temperature: a.llmCfg.Temperature,
		MaxTokens:   a.llmCfg.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		util.Warn("Semantic review via %s failed: %v", a.provider.Name(), err)
		result.AddIssue(model.Issue{
			Severity:   model.SeverityInfo,
			Category:   model.CategoryBugRisk,
			Message:    fmt.Sprintf("AI review failed: %v", err),
			Suggestion: "Check API key, network connection, or try again later",
			RuleID:     "AI999",
		})
		return result, nil
	}

	issues, err := decodeIssues(resp.Text)
	if err != nil {
		util.Warn("Ignoring malformed semantic review response: %v", err)
		return result, nil
	}
	for _, issue := range issues {
		result.AddIssue(issue)
	}

	util.Debug("Semantic analyzer: %d issues from %s (%d tokens)", result.TotalIssues, a.provider.Name(), resp.Usage.TotalTokens)
	return result, nil
}

func buildReviewPrompt(code *model.ParsedCode) string {
	md := code.Metadata
	var b strings.Builder
	fmt.Fprintf(&b, "Review this %s code for issues:\n\n", strings.ToUpper(code.Language))
	b.WriteString("Code Metadata:\n")
	fmt.Fprintf(&b, "- Lines: %d\n", md.LineCount)
	fmt.Fprintf(&b, "- Functions: %d\n", md.FunctionCount)
	fmt.Fprintf(&b, "- Classes: %d\n", md.ClassCount)
	fmt.Fprintf(&b, "- Complexity: %g\n", md.Complexity)
	fmt.Fprintf(&b, "- Has Docstrings: %t\n\n", md.HasDocstrings)
	fmt.Fprintf(&b, "Code to review:\n```%s\n%s\n```\n\n", code.Language, code.Content)
	b.WriteString(`Identify all issues including:
- Security vulnerabilities (SQL injection, hardcoded secrets, unsafe operations)
- Potential bugs (logic errors, edge cases, error handling)
- Performance problems (inefficient algorithms, unnecessary operations)
- Code quality (naming, structure, readability, maintainability)
- Best practices violations

Return your findings as JSON only.`)
	return b.String()
}

type rawIssue struct {
	Severity   string           `json:"severity"`
	Category   string           `json:"category"`
	Message    string           `json:"message"`
	Line       model.LineNumber `json:"line_number"`
	Suggestion string           `json:"suggestion"`
}

// decodeIssues accepts {"issues":[...]}, a bare list, or either inside a
// fenced block. Entries that do not decode or carry an unknown severity or
// category are dropped.
func decodeIssues(text string) ([]model.Issue, error) {
	entries, err := llm.ExtractList(text, "issues")
	if err != nil {
		return nil, err
	}

	raw := make([]rawIssue, 0, len(entries))
	for i, entry := range entries {
		var r rawIssue
		if err := json.Unmarshal(entry, &r); err != nil {
			util.Debug("Skipping malformed issue %d: %v", i, err)
			continue
		}
		raw = append(raw, r)
	}

	issues := make([]model.Issue, 0, len(raw))
	for _, r := range raw {
		sev, err := model.ParseSeverity(strings.ToLower(orDefault(r.Severity, "info")))
		if err != nil {
			continue
		}
		cat, err := model.ParseCategory(strings.ToLower(orDefault(r.Category, "best_practices")))
		if err != nil {
			continue
		}
		line, err := r.Line.Int()
		if err != nil || line < 0 {
			line = 0
		}
		issues = append(issues, model.Issue{
			Severity:   sev,
			Category:   cat,
			Message:    r.Message,
			Line:       line,
			Suggestion: r.Suggestion,
			RuleID:     fmt.Sprintf("AI%03d", line),
		})
	}
	return issues, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
