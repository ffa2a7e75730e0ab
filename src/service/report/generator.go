package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/util"
)

// Formats lists every supported report format
var Formats = []string{"text", "json", "markdown", "csv", "sarif"}

// Generator generates reports in various formats
type Generator struct {
	cfg   config.OutputConfig
	title cases.Caser
}

// NewGenerator creates a new report generator
func NewGenerator(cfg config.OutputConfig) *Generator {
	return &Generator{cfg: cfg, title: cases.Title(language.English)}
}

// Generate generates a report in the specified format
func (g *Generator) Generate(report *model.ReviewReport, format string) (string, error) {
	if report.Result == nil {
		return "", fmt.Errorf("report for %s has no review result", report.Name())
	}

	util.Debug("Generating report in %s format (%d issues)", format, len(report.Result.Issues))
	switch format {
	case "json":
		return g.generateJSON(report)
	case "markdown", "md":
		return g.generateMarkdown(report)
	case "csv":
		return g.generateCSV(report)
	case "sarif":
		return g.generateSARIF(report)
	case "text", "":
		return g.generateText(report), nil
	default:
		util.Warn("Unsupported report format requested: %s", format)
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// Extension returns the file extension for a format
func Extension(format string) string {
	switch format {
	case "markdown":
		return "md"
	case "text", "":
		return "txt"
	}
	return format
}

func (g *Generator) generateJSON(report *model.ReviewReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) generateMarkdown(report *model.ReviewReport) (string, error) {
	var sb strings.Builder
	r := report.Result

	// Header
	sb.WriteString("# Code Review Report\n\n")
	sb.WriteString(fmt.Sprintf("**File:** `%s`\n", report.Name()))
	if report.Language != "" {
		sb.WriteString(fmt.Sprintf("**Language:** %s\n", report.Language))
	}
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	// Summary
	status := "PASSED"
	if !r.Passed {
		status = "FAILED"
	}
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Quality Score:** %.1f/100\n", r.QualityScore))
	sb.WriteString(fmt.Sprintf("- **Total Issues:** %d\n", r.TotalIssues))
	sb.WriteString(fmt.Sprintf("- **Status:** %s\n\n", status))

	// By Severity
	sb.WriteString("### Issues by Severity\n\n")
	sb.WriteString("| Severity | Count |\n")
	sb.WriteString("|----------|-------|\n")
	for _, sev := range severitiesDescending() {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", sev, len(r.IssuesBySeverity(sev))))
	}
	sb.WriteString("\n")

	// Issues by Category
	sb.WriteString("## Issues\n\n")
	if len(r.Issues) == 0 {
		sb.WriteString("No issues found.\n\n")
	}
	for _, cat := range model.Categories {
		issues := r.IssuesByCategory(cat)
		if len(issues) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("### %s (%d issues)\n\n", g.categoryTitle(cat), len(issues)))
		for _, issue := range issues {
			sb.WriteString(fmt.Sprintf("#### %s %s\n\n", severityLabel(issue.Severity), issue.Message))
			sb.WriteString(fmt.Sprintf("- **Line:** %s\n", lineOrNA(issue.Line)))
			if issue.RuleID != "" {
				sb.WriteString(fmt.Sprintf("- **Rule:** %s\n", issue.RuleID))
			}
			if g.cfg.IncludeSuggestions && issue.Suggestion != "" {
				sb.WriteString(fmt.Sprintf("- **Suggestion:** %s\n", issue.Suggestion))
			}
			if g.cfg.IncludeCodeSnippets && issue.CodeSnippet != "" {
				sb.WriteString("\n**Code:**\n```\n")
				sb.WriteString(issue.CodeSnippet)
				sb.WriteString("\n```\n")
			}
			sb.WriteString("\n")
		}
	}

	if fr := r.FixResult; fr != nil {
		sb.WriteString("## Fixes\n\n")
		sb.WriteString(fr.Summary() + "\n\n")
		for i, fix := range fr.Fixes {
			sb.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, orPlaceholder(fix.IssueDescription, "Fix")))
			sb.WriteString(fmt.Sprintf("- **Lines:** %s-%s\n", fix.LineStart, fix.LineEnd))
			sb.WriteString(fmt.Sprintf("- **Confidence:** %s\n", fix.Confidence))
			sb.WriteString(fmt.Sprintf("- **Status:** %s\n", fix.Status))
			if fix.Explanation != "" {
				sb.WriteString(fmt.Sprintf("- **Explanation:** %s\n", fix.Explanation))
			}
			if fix.Diff != "" {
				sb.WriteString("\n```diff\n" + strings.TrimRight(fix.Diff, "\n") + "\n```\n")
			}
			sb.WriteString("\n")
		}
	}

	if pr := report.Prompts; pr != nil && pr.HasPrompts() {
		sb.WriteString("## Remediation Prompts\n\n")
		for i, p := range pr.Prompts {
			sb.WriteString(fmt.Sprintf("### %d. %s (%d issues: %s)\n\n", i+1, g.categoryTitle(p.Category), p.IssueCount, p.SeveritySummary))
			if len(p.LineReferences) > 0 {
				sb.WriteString(fmt.Sprintf("- **Lines:** %s\n\n", joinLines(p.LineReferences)))
			}
			sb.WriteString("> " + strings.ReplaceAll(p.PromptText, "\n", "\n> ") + "\n\n")
		}
	}

	return sb.String(), nil
}

func (g *Generator) generateCSV(report *model.ReviewReport) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Severity", "Category", "Line", "Message", "Suggestion", "Rule ID"}); err != nil {
		return "", err
	}
	for _, issue := range report.Result.Issues {
		row := []string{
			string(issue.Severity),
			string(issue.Category),
			lineOrNA(issue.Line),
			issue.Message,
			issue.Suggestion,
			issue.RuleID,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (g *Generator) generateSARIF(report *model.ReviewReport) (string, error) {
	sarif := map[string]any{
		"$schema": "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		"version": "2.1.0",
		"runs": []map[string]any{
			{
				"tool": map[string]any{
					"driver": map[string]any{
						"name":    "code-reviewer",
						"version": "1.0.0",
						"rules":   g.buildSARIFRules(report.Result.Issues),
					},
				},
				"results": g.buildSARIFResults(report.Name(), report.Result.Issues),
			},
		},
	}

	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) buildSARIFRules(issues []model.Issue) []map[string]any {
	ruleMap := make(map[string]bool)
	rules := []map[string]any{}

	for _, issue := range issues {
		ruleID := sarifRuleID(issue)
		if ruleMap[ruleID] {
			continue
		}
		ruleMap[ruleID] = true

		rules = append(rules, map[string]any{
			"id":   ruleID,
			"name": string(issue.Category),
			"shortDescription": map[string]any{
				"text": issue.Message,
			},
			"defaultConfiguration": map[string]any{
				"level": sarifLevel(issue.Severity),
			},
		})
	}

	return rules
}

func (g *Generator) buildSARIFResults(uri string, issues []model.Issue) []map[string]any {
	results := []map[string]any{}

	for _, issue := range issues {
		physical := map[string]any{
			"artifactLocation": map[string]any{"uri": uri},
		}
		if issue.HasLine() {
			region := map[string]any{"startLine": issue.Line}
			if issue.Column > 0 {
				region["startColumn"] = issue.Column
			}
			physical["region"] = region
		}

		result := map[string]any{
			"ruleId":    sarifRuleID(issue),
			"level":     sarifLevel(issue.Severity),
			"message":   map[string]any{"text": issue.Message},
			"locations": []map[string]any{{"physicalLocation": physical}},
		}

		if issue.Suggestion != "" {
			result["fixes"] = []map[string]any{
				{
					"description": map[string]any{"text": issue.Suggestion},
				},
			}
		}

		results = append(results, result)
	}

	return results
}

func (g *Generator) categoryTitle(c model.Category) string {
	return g.title.String(strings.ReplaceAll(string(c), "_", " "))
}

func sarifRuleID(issue model.Issue) string {
	if issue.RuleID != "" {
		return issue.RuleID
	}
	return string(issue.Category)
}

func severitiesDescending() []model.Severity {
	return []model.Severity{
		model.SeverityCritical, model.SeverityHigh, model.SeverityMedium,
		model.SeverityLow, model.SeverityInfo,
	}
}

func severityLabel(s model.Severity) string {
	return "[" + strings.ToUpper(string(s)) + "]"
}

func sarifLevel(s model.Severity) string {
	switch s {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

func lineOrNA(line int) string {
	if line <= 0 {
		return "N/A"
	}
	return strconv.Itoa(line)
}

func joinLines(lines []int) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = strconv.Itoa(l)
	}
	return strings.Join(parts, ", ")
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}
