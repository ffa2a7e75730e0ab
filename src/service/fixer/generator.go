package fixer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/service/llm"
	"code-reviewer/src/util"
)

// FixerName is the fixer name on generated results
const FixerName = "CodeFixer"

const (
	fixTemperature   = 0.2
	contextThreshold = 100 // files with at least this many lines get windowed context
	contextRadius    = 10
)

// DefaultFixPrompt asks the model for fixes in a fixed JSON shape
const DefaultFixPrompt = `You are an expert code fixing assistant. Generate precise, safe code fixes for identified issues.

IMPORTANT: You must respond with ONLY valid JSON in this exact format:
{
  "fixes": [
    {
      "issue_description": "Clear description of what is being fixed",
      "original_code": "The problematic code",
      "fixed_code": "The corrected code",
      "line_start": 1,
      "line_end": 1,
      "explanation": "Why this fix is needed and what it does",
      "confidence": "low|medium|high|verified",
      "diff": "Optional unified diff format"
    }
  ]
}

If no fixes can be generated, return: {"fixes": []}
Do not include any text before or after the JSON.`

// Generator asks a language model for fixes to review issues
type Generator struct {
	provider llm.Provider
	llmCfg   config.LLMConfig
	prompt   string
}

// NewGenerator creates a new fix generator
func NewGenerator(provider llm.Provider, llmCfg config.LLMConfig, cfg config.FixesConfig) *Generator {
	prompt := cfg.SystemPrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultFixPrompt
	}
	return &Generator{provider: provider, llmCfg: llmCfg, prompt: prompt}
}

// GenerateFix generates fixes for a single issue
func (g *Generator) GenerateFix(ctx context.Context, code *model.ParsedCode, issue model.Issue) *model.FixResult {
	return g.GenerateFixes(ctx, code, []model.Issue{issue})
}

// GenerateFixes generates fixes for issues. Provider failures produce an
// unsuccessful result, never an error.
func (g *Generator) GenerateFixes(ctx context.Context, code *model.ParsedCode, issues []model.Issue) *model.FixResult {
	result := model.NewFixResult(FixerName)
	if len(issues) == 0 {
		return result
	}

	util.Info("Generating fixes for %d issues via %s", len(issues), g.provider.Name())
	resp, err := g.provider.Complete(ctx, llm.Request{
		System:      g.prompt,
		Prompt:      buildFixPrompt(code, issues),
		Model:       g.llmCfg.Model,
		Temperature: fixTemperature,
		MaxTokens:   g.llmCfg.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		util.Error("Fix generation failed: %v", err)
		return model.FailedFixResult(FixerName, err.Error())
	}

	fixes, err := decodeFixes(resp.Text, issues)
	if err != nil {
		util.Warn("Ignoring malformed fix response: %v", err)
		return result
	}
	for _, f := range fixes {
		result.AddFix(f)
	}

	util.Info("Fix generation complete: %s", result.Summary())
	return result
}

func buildFixPrompt(code *model.ParsedCode, issues []model.Issue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate fixes for the following issues in this %s code:\n\nIssues to fix:\n", strings.ToUpper(code.Language))
	for i, issue := range issues {
		where := "general"
		if issue.HasLine() {
			where = fmt.Sprintf("line %d", issue.Line)
		}
		fmt.Fprintf(&b, "%d. [%s] %s (%s)\n", i+1, strings.ToUpper(string(issue.Severity)), issue.Message, where)
	}
	fmt.Fprintf(&b, "\nCode context:\n```%s\n%s\n```\n\n", code.Language, codeContext(code, issues))
	b.WriteString(`For each issue, generate a precise fix with:
- The exact original code that needs to be changed
- The corrected code
- Line numbers where the fix should be applied
- Confidence level (high for safe/obvious fixes, medium for good fixes, low for uncertain)
- Brief explanation of the fix

Return your fixes as JSON only.`)
	return b.String()
}

// codeContext returns the whole file for small inputs, otherwise the
// numbered lines within contextRadius of each located issue
func codeContext(code *model.ParsedCode, issues []model.Issue) string {
	lines := util.SplitLines(code.Content)
	if len(lines) < contextThreshold {
		return code.Content
	}

	keep := make(map[int]bool)
	for _, issue := range issues {
		if !issue.HasLine() {
			continue
		}
		from := max(0, issue.Line-contextRadius-1)
		to := min(len(lines), issue.Line+contextRadius)
		for i := from; i < to; i++ {
			keep[i] = true
		}
	}
	if len(keep) == 0 {
		return code.Content
	}

	idx := make([]int, 0, len(keep))
	for i := range keep {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	parts := make([]string, len(idx))
	for k, i := range idx {
		parts[k] = fmt.Sprintf("%d: %s", i+1, lines[i])
	}
	return strings.Join(parts, "\n")
}

type rawFix struct {
	IssueDescription string           `json:"issue_description"`
	OriginalCode     string           `json:"original_code"`
	FixedCode        string           `json:"fixed_code"`
	LineStart        model.LineNumber `json:"line_start"`
	LineEnd          model.LineNumber `json:"line_end"`
	Explanation      string           `json:"explanation"`
	Confidence       string           `json:"confidence"`
	Diff             string           `json:"diff"`
}

// decodeFixes accepts {"fixes":[...]}, a bare list, or either inside a
// fenced block. Entries that do not decode are dropped.
func decodeFixes(text string, issues []model.Issue) ([]model.Fix, error) {
	entries, err := llm.ExtractList(text, "fixes")
	if err != nil {
		return nil, err
	}

	raw := make([]rawFix, 0, len(entries))
	for i, entry := range entries {
		var r rawFix
		if err := json.Unmarshal(entry, &r); err != nil {
			util.Debug("Skipping malformed fix %d: %v", i, err)
			continue
		}
		raw = append(raw, r)
	}

	fixes := make([]model.Fix, 0, len(raw))
	for _, r := range raw {
		fix := model.Fix{
			IssueDescription: r.IssueDescription,
			OriginalCode:     r.OriginalCode,
			FixedCode:        r.FixedCode,
			LineStart:        r.LineStart,
			LineEnd:          r.LineEnd,
			Explanation:      r.Explanation,
			Confidence:       model.ParseConfidence(orDefault(r.Confidence, string(model.ConfidenceMedium))),
			Severity:         model.SeverityInfo,
			Category:         model.CategoryBestPractices,
			Status:           model.FixStatusSuggested,
			Diff:             validDiff(r.Diff),
		}
		// severity and category come from the issue reported on the same line
		if start, err := r.LineStart.Int(); err == nil {
			for _, issue := range issues {
				if issue.Line == start {
					fix.Severity = issue.Severity
					fix.Category = issue.Category
					break
				}
			}
		}

		if fix.LineStart.IsZero() {
			fix.LineStart = model.Line(1)
		}
		if fix.LineEnd.IsZero() {
			fix.LineEnd = fix.LineStart
		}
		fixes = append(fixes, fix)
	}
	return fixes, nil
}

// validDiff returns diff when it parses as a unified diff and "" otherwise
func validDiff(diff string) string {
	if strings.TrimSpace(diff) == "" {
		return ""
	}
	files, _, err := gitdiff.Parse(strings.NewReader(diff))
	if err != nil || len(files) == 0 {
		util.Debug("Dropping unparseable fix diff: %v", err)
		return ""
	}
	return diff
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
