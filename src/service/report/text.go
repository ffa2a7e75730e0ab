package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"code-reviewer/src/model"
)

var (
	colorRed    = lipgloss.Color("#ff5555")
	colorOrange = lipgloss.Color("#ffb86c")
	colorYellow = lipgloss.Color("#f1fa8c")
	colorBlue   = lipgloss.Color("#8be9fd")
	colorGreen  = lipgloss.Color("#50fa7b")
	colorDim    = lipgloss.Color("#6272a4")

	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	passStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)

var severityStyles = map[model.Severity]lipgloss.Style{
	model.SeverityCritical: lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	model.SeverityHigh:     lipgloss.NewStyle().Foreground(colorOrange).Bold(true),
	model.SeverityMedium:   lipgloss.NewStyle().Foreground(colorYellow),
	model.SeverityLow:      lipgloss.NewStyle().Foreground(colorBlue),
	model.SeverityInfo:     lipgloss.NewStyle().Foreground(colorDim),
}

// render applies style unless color output is off
func (g *Generator) render(style lipgloss.Style, text string) string {
	if !g.cfg.Color {
		return text
	}
	return style.Render(text)
}

func (g *Generator) generateText(report *model.ReviewReport) string {
	var sb strings.Builder
	r := report.Result

	sb.WriteString(g.render(headerStyle, "Code review: "+report.Name()) + "\n")

	status := g.render(passStyle, "PASSED")
	if !r.Passed {
		status = g.render(failStyle, "FAILED")
	}
	sb.WriteString(fmt.Sprintf("Quality score: %.1f/100  %s\n", r.QualityScore, status))
	sb.WriteString(fmt.Sprintf("Issues: %d (critical: %d, high: %d, medium: %d, low: %d, info: %d)\n",
		r.TotalIssues, r.CriticalCount, r.HighCount, r.MediumCount, r.LowCount, r.InfoCount))

	if len(r.Issues) > 0 {
		sb.WriteString("\n")
	}
	for _, issue := range r.Issues {
		label := g.render(severityStyles[issue.Severity], fmt.Sprintf("%-10s", severityLabel(issue.Severity)))
		loc := fmt.Sprintf("%5s", lineOrNA(issue.Line))
		sb.WriteString(fmt.Sprintf("%s %s  %s", label, loc, issue.Message))
		if issue.RuleID != "" {
			sb.WriteString(" " + g.render(dimStyle, "("+issue.RuleID+")"))
		}
		sb.WriteString("\n")
		if g.cfg.IncludeSuggestions && issue.Suggestion != "" {
			sb.WriteString("                  " + g.render(dimStyle, "-> "+issue.Suggestion) + "\n")
		}
	}

	if fr := r.FixResult; fr != nil {
		sb.WriteString("\n" + g.render(headerStyle, "Fixes") + ": " + fr.Summary() + "\n")
		for _, fix := range fr.Fixes {
			sb.WriteString(fmt.Sprintf("  [%s] lines %s-%s %s (%s)\n",
				fix.Status, fix.LineStart, fix.LineEnd, orPlaceholder(fix.IssueDescription, "fix"), fix.Confidence))
		}
	}

	if pr := report.Prompts; pr != nil && pr.HasPrompts() {
		sb.WriteString("\n" + g.render(headerStyle, "Remediation prompts") + "\n")
		for i, p := range pr.Prompts {
			sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, g.categoryTitle(p.Category), p.SeveritySummary))
			sb.WriteString("   " + p.PromptText + "\n")
		}
	}

	return sb.String()
}

// RenderMarkdown renders a markdown report for a terminal of the given width
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
