// Package prompt turns review findings into remediation prompts that a
// developer can paste into a coding assistant.
package prompt

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/service/llm"
	"code-reviewer/src/util"
)

// DefaultSystemPrompt frames the model as a remediation prompt writer
const DefaultSystemPrompt = `You are an expert software engineer helping developers fix code issues.
Generate clear, actionable prompts that can be used with a coding assistant to address specific code quality issues.
Your prompts should:
- Follow professional software engineering standards and best practices
- Be specific and actionable
- Reference the exact issues and line numbers when relevant
- Provide context about why the fix is important
- Be formatted as clear instructions for the assistant
Keep prompts concise but comprehensive (2-4 sentences).`

// Generator asks a provider for one remediation prompt per issue category
type Generator struct {
	provider    llm.Provider
	model       string
	temperature float64
	maxTokens   int
	maxPrompts  int
	system      string
}

// NewGenerator creates a new prompt generator
func NewGenerator(provider llm.Provider, llmCfg config.LLMConfig, cfg config.PromptsConfig) *Generator {
	g := &Generator{
		provider:    provider,
		model:       llmCfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   llmCfg.MaxTokens,
		maxPrompts:  cfg.MaxPrompts,
		system:      cfg.SystemPrompt,
	}
	if g.maxPrompts <= 0 || g.maxPrompts > model.MaxPrompts {
		g.maxPrompts = model.MaxPrompts
	}
	if strings.TrimSpace(g.system) == "" {
		g.system = DefaultSystemPrompt
	}
	return g
}

type categoryGroup struct {
	category model.Category
	issues   []model.Issue
	maxRank  int
}

// Generate builds prompts for the highest-priority categories of result.
// A category whose request fails is skipped; the others still get prompts.
func (g *Generator) Generate(ctx context.Context, result *model.ReviewResult, language string) *model.PromptResult {
	out := model.NewPromptResult(language)
	if result == nil || len(result.Issues) == 0 {
		return out
	}

	groups := prioritize(result.Issues)
	if len(groups) > g.maxPrompts {
		groups = groups[:g.maxPrompts]
	}

	util.Info("Generating remediation prompts for %d categories via %s", len(groups), g.provider.Name())
	for _, grp := range groups {
		resp, err := g.provider.Complete(ctx, llm.Request{
			System:      g.system,
			Prompt:      buildUserPrompt(grp, language),
			Model:       g.model,
			Temperature: g.temperature,
			MaxTokens:   g.maxTokens,
		})
		if err != nil {
			util.Warn("Skipping %s prompt: %v", grp.category, err)
			continue
		}

		err = out.AddPrompt(model.PromptSuggestion{
			Category:        grp.category,
			PromptText:      resp.Text,
			IssueCount:      len(grp.issues),
			SeveritySummary: severitySummary(grp.issues),
			LineReferences:  lineReferences(grp.issues),
		})
		if err != nil {
			util.Warn("Skipping %s prompt: %v", grp.category, err)
		}
	}

	util.Debug("Prompt generation complete: %d prompts covering %d issues", len(out.Prompts), out.TotalIssuesCovered)
	return out
}

// prioritize groups issues by category, ordered by highest severity and
// then issue count, both descending. Ties keep first-appearance order.
func prioritize(issues []model.Issue) []categoryGroup {
	index := make(map[model.Category]int)
	var groups []categoryGroup
	for _, issue := range issues {
		i, ok := index[issue.Category]
		if !ok {
			i = len(groups)
			index[issue.Category] = i
			groups = append(groups, categoryGroup{category: issue.Category, maxRank: -2})
		}
		groups[i].issues = append(groups[i].issues, issue)
		if r := issue.Severity.Rank(); r > groups[i].maxRank {
			groups[i].maxRank = r
		}
	}

	sort.SliceStable(groups, func(a, b int) bool {
		if groups[a].maxRank != groups[b].maxRank {
			return groups[a].maxRank > groups[b].maxRank
		}
		return len(groups[a].issues) > len(groups[b].issues)
	})
	return groups
}

func buildUserPrompt(grp categoryGroup, language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a coding assistant prompt to fix the following %s issues in %s code:\n\n", grp.category, language)
	for _, issue := range grp.issues {
		fmt.Fprintf(&b, "- %s: %s", strings.ToUpper(string(issue.Severity)), issue.Message)
		if issue.HasLine() {
			fmt.Fprintf(&b, " (line %d)", issue.Line)
		}
		if issue.Suggestion != "" {
			fmt.Fprintf(&b, "\n  Suggestion: %s", issue.Suggestion)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, `
The prompt should:
- Be actionable and specific
- Follow professional %s engineering standards and best practices
- Address all %d issue(s) in this category
- Be 2-4 sentences long
- Include context about why these fixes are important

Generate ONLY the prompt text that a developer would paste into the assistant.`, strings.ToUpper(language), len(grp.issues))
	return b.String()
}

// severitySummary renders counts such as "2 high, 1 medium", most severe first
func severitySummary(issues []model.Issue) string {
	counts := make(map[model.Severity]int)
	for _, issue := range issues {
		counts[issue.Severity]++
	}

	var parts []string
	for _, sev := range model.Severities {
		if n := counts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	return strings.Join(parts, ", ")
}

func lineReferences(issues []model.Issue) []int {
	seen := make(map[int]bool)
	lines := []int{}
	for _, issue := range issues {
		if issue.HasLine() && !seen[issue.Line] {
			seen[issue.Line] = true
			lines = append(lines, issue.Line)
		}
	}
	sort.Ints(lines)
	return lines
}
