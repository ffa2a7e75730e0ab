package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"code-reviewer/src/model"
	"code-reviewer/src/util"
)

type secretPattern struct {
	kind    string
	pattern *regexp.Regexp
}

// secretPatterns are tried in order; a line reports at most one secret
var secretPatterns = []secretPattern{
	{"API key", regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[=:]\s*["']([a-zA-Z0-9_\-]{20,})["']`)},
	{"password", regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[=:]\s*["']([^"']{3,})["']`)},
	{"secret token", regexp.MustCompile(`(?i)(secret|token)\s*[=:]\s*["']([a-zA-Z0-9_\-]{20,})["']`)},
	{"AWS access key", regexp.MustCompile(`(?i)(aws[_-]?access[_-]?key|access[_-]?key[_-]?id)\s*[=:]\s*["']([A-Z0-9]{20})["']`)},
	{"API key", regexp.MustCompile(`(?i)\bsk-[a-zA-Z0-9]{20,}`)},
}

// sqlPatterns match statements assembled by string interpolation or
// concatenation. Placeholders passed separately to the driver do not match.
var sqlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(select|insert|update|delete)\b.*["']\s*%\s*[\w(]`),
	regexp.MustCompile(`(?i)\b(select|insert|update|delete)\b.*["']\s*\.format\(`),
	regexp.MustCompile(`(?i)\b(select|insert|update|delete)\b.*(["'` + "`" + `]\s*\+|\+\s*["'])`),
	regexp.MustCompile(`(?i)\bf["'][^"']*\b(select|insert|update|delete)\b[^"']*\{`),
	regexp.MustCompile("(?i)`[^`]*\\b(select|insert|update|delete)\\b[^`]*\\$\\{"),
}

// dangerousCalls lists dynamic-evaluation entry points per language
var dangerousCalls = map[string]map[string]string{
	"python": {
		"eval": "Use ast.literal_eval or explicit parsing instead of eval()",
		"exec": "Avoid exec(); dispatch to explicit functions instead",
	},
	"javascript": {
		"eval":         "Avoid eval(); parse data with JSON.parse or use explicit logic",
		"new Function": "Avoid constructing functions from strings",
	},
	"typescript": {
		"eval":         "Avoid eval(); parse data with JSON.parse or use explicit logic",
		"new Function": "Avoid constructing functions from strings",
	},
}

var dynamicEvalLine = regexp.MustCompile(`(?:^|[^\w.])(eval|exec)\s*\(|\bnew\s+(Function)\s*\(`)

// SecurityAnalyzer scans for hardcoded secrets, dynamic evaluation and
// SQL built by interpolation
type SecurityAnalyzer struct {
	BaseAnalyzer
}

// NewSecurityAnalyzer creates a new security analyzer
func NewSecurityAnalyzer(base BaseAnalyzer) *SecurityAnalyzer {
	return &SecurityAnalyzer{BaseAnalyzer: base}
}

// Name returns the analyzer name
func (a *SecurityAnalyzer) Name() string {
	return "security"
}

// Analyze scans code line by line
func (a *SecurityAnalyzer) Analyze(ctx context.Context, code *model.ParsedCode) (*model.ReviewResult, error) {
	result := model.NewReviewResult(a.Name())
	lines := util.SplitLines(code.Content)

	for i, line := range lines {
		if issue, ok := detectSecret(line, i+1); ok {
			result.AddIssue(issue)
		}
	}

	if code.HasStructure() {
		a.checkCallSites(code, lines, result)
	} else {
		a.checkEvalLines(code, lines, result)
	}

	for i, line := range lines {
		for _, re := range sqlPatterns {
			if re.MatchString(line) {
				result.AddIssue(model.Issue{
					Severity:    model.SeverityHigh,
					Category:    model.CategorySecurity,
					Message:     "Potential SQL injection vulnerability",
					Line:        i + 1,
					CodeSnippet: strings.TrimSpace(line),
					Suggestion:  "Use parameterized queries instead of building SQL from strings",
					RuleID:      "SEC003",
				})
				break
			}
		}
	}

	return result, nil
}

func detectSecret(line string, lineNum int) (model.Issue, bool) {
	for _, sp := range secretPatterns {
		loc := sp.pattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		// the snippet is left out so the secret is not copied into reports
		return model.Issue{
			Severity:   model.SeverityCritical,
			Category:   model.CategorySecurity,
			Message:    fmt.Sprintf("Hardcoded %s detected", sp.kind),
			Line:       lineNum,
			Column:     loc[0] + 1,
			Suggestion: "Load secrets from environment variables or a secrets manager",
			RuleID:     "SEC001",
		}, true
	}
	return model.Issue{}, false
}

func (a *SecurityAnalyzer) checkCallSites(code *model.ParsedCode, lines []string, result *model.ReviewResult) {
	known := dangerousCalls[code.Language]
	seen := make(map[string]bool)

	for _, call := range code.Metadata.Calls {
		advice, ok := known[call.Name]
		if !ok {
			continue
		}
		key := fmt.Sprintf("%d:%s", call.Line, call.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		result.AddIssue(evalIssue(call.Name, advice, call.Line, snippetAt(lines, call.Line)))
	}
}

// checkEvalLines is the fallback when the call structure is unavailable
func (a *SecurityAnalyzer) checkEvalLines(code *model.ParsedCode, lines []string, result *model.ReviewResult) {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isCommentLine(trimmed, code.Language) {
			continue
		}
		m := dynamicEvalLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if name == "" {
			name = "new Function"
		}
		advice := "Avoid evaluating code built at runtime"
		if perLang, ok := dangerousCalls[code.Language]; ok && perLang[name] != "" {
			advice = perLang[name]
		}
		result.AddIssue(evalIssue(name, advice, i+1, trimmed))
	}
}

func evalIssue(name, advice string, line int, snippet string) model.Issue {
	label := name + "()"
	if strings.HasPrefix(name, "new ") {
		label = name
	}
	return model.Issue{
		Severity:    model.SeverityHigh,
		Category:    model.CategorySecurity,
		Message:     fmt.Sprintf("Use of %s can execute arbitrary code", label),
		Line:        line,
		CodeSnippet: snippet,
		Suggestion:  advice,
		RuleID:      "SEC002",
	}
}

func snippetAt(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[line-1])
}
