package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/util"
)

var (
	snakeCase  = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	camelCase  = regexp.MustCompile(`^[a-z$][a-zA-Z0-9$]*$`)
	pascalCase = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)

	missingAssignSpace   = regexp.MustCompile(`\w=[^=]`)
	missingOperatorSpace = regexp.MustCompile(`\w[+\-*/]\w`)
)

type namingConvention struct {
	pattern *regexp.Regexp
	label   string
	convert func(string) string
}

var (
	snakeConvention  = namingConvention{snakeCase, "snake_case", toSnakeCase}
	camelConvention  = namingConvention{camelCase, "camelCase", toCamelCase}
	pascalConvention = namingConvention{pascalCase, "PascalCase", toPascalCase}
)

// functionConventions maps a language to its expected function naming
var functionConventions = map[string]namingConvention{
	"python":     snakeConvention,
	"javascript": camelConvention,
	"typescript": camelConvention,
}

// StyleAnalyzer checks naming, operator spacing and line length
type StyleAnalyzer struct {
	BaseAnalyzer
	cfg config.StyleAnalyzerConfig
}

// NewStyleAnalyzer creates a new style analyzer
func NewStyleAnalyzer(base BaseAnalyzer, cfg config.StyleAnalyzerConfig) *StyleAnalyzer {
	return &StyleAnalyzer{BaseAnalyzer: base, cfg: cfg}
}

// Name returns the analyzer name
func (a *StyleAnalyzer) Name() string {
	return "style"
}

// Analyze runs the style checks
func (a *StyleAnalyzer) Analyze(ctx context.Context, code *model.ParsedCode) (*model.ReviewResult, error) {
	result := model.NewReviewResult(a.Name())

	if a.cfg.CheckNaming {
		if code.HasStructure() {
			a.checkNaming(code, result)
		} else {
			util.Debug("Style analyzer: skipping naming checks (no usable structure)")
		}
	}

	for i, line := range util.SplitLines(code.Content) {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		if a.cfg.CheckSpacing && trimmed != "" && !isCommentLine(trimmed, code.Language) {
			a.checkSpacing(line, trimmed, lineNum, result)
		}

		if a.cfg.MaxLineLength > 0 {
			if n := utf8.RuneCountInString(line); n > a.cfg.MaxLineLength {
				result.AddIssue(model.Issue{
					Severity:   model.SeverityInfo,
					Category:   model.CategoryStyle,
					Message:    fmt.Sprintf("Line too long (%d > %d characters)", n, a.cfg.MaxLineLength),
					Line:       lineNum,
					Suggestion: "Break the line into multiple lines",
					RuleID:     "STYLE005",
				})
			}
		}
	}

	return result, nil
}

func (a *StyleAnalyzer) checkNaming(code *model.ParsedCode, result *model.ReviewResult) {
	fnConv, ok := functionConventions[code.Language]
	if !ok {
		return
	}

	for _, fn := range code.Metadata.Functions {
		if strings.HasPrefix(fn.Name, "_") || a.ShouldExclude(fn.ClassName, fn.Name) {
			continue
		}
		if !fnConv.pattern.MatchString(fn.Name) {
			result.AddIssue(model.Issue{
				Severity:   model.SeverityLow,
				Category:   model.CategoryStyle,
				Message:    fmt.Sprintf("Function name '%s' should use %s", fn.Name, fnConv.label),
				Line:       fn.StartLine,
				Suggestion: fmt.Sprintf("Rename to '%s'", fnConv.convert(fn.Name)),
				RuleID:     "STYLE001",
			})
		}
	}

	for _, cls := range code.Metadata.Classes {
		if strings.HasPrefix(cls.Name, "_") || a.ShouldExclude(cls.Name, "") {
			continue
		}
		if !pascalConvention.pattern.MatchString(cls.Name) {
			result.AddIssue(model.Issue{
				Severity:   model.SeverityLow,
				Category:   model.CategoryStyle,
				Message:    fmt.Sprintf("Class name '%s' should use PascalCase", cls.Name),
				Line:       cls.StartLine,
				Suggestion: fmt.Sprintf("Rename to '%s'", pascalConvention.convert(cls.Name)),
				RuleID:     "STYLE002",
			})
		}
	}
}

func (a *StyleAnalyzer) checkSpacing(line, trimmed string, lineNum int, result *model.ReviewResult) {
	if loc := missingAssignSpace.FindStringIndex(line); loc != nil && !strings.Contains(line, "==") {
		result.AddIssue(model.Issue{
			Severity:    model.SeverityInfo,
			Category:    model.CategoryStyle,
			Message:     "Missing spaces around assignment operator",
			Line:        lineNum,
			Column:      loc[0] + 2,
			CodeSnippet: trimmed,
			Suggestion:  "Add spaces around '='",
			RuleID:      "STYLE003",
		})
	}

	if loc := missingOperatorSpace.FindStringIndex(line); loc != nil {
		result.AddIssue(model.Issue{
			Severity:    model.SeverityInfo,
			Category:    model.CategoryStyle,
			Message:     "Missing spaces around arithmetic operator",
			Line:        lineNum,
			Column:      loc[0] + 2,
			CodeSnippet: trimmed,
			Suggestion:  "Add spaces around arithmetic operators",
			RuleID:      "STYLE004",
		})
	}
}

func isCommentLine(trimmed, language string) bool {
	if language == "python" {
		return strings.HasPrefix(trimmed, "#")
	}
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "#")
}

// splitWords breaks an identifier on underscores and case changes
func splitWords(name string) []string {
	var words []string
	var cur []rune
	runes := []rune(name)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '$':
			flush()
		case unicode.IsUpper(r):
			// start a new word at a lower->upper boundary or at the last
			// capital of an acronym ("HTTPServer" -> http, server)
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				flush()
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}

func toSnakeCase(name string) string {
	return strings.Join(splitWords(name), "_")
}

func toCamelCase(name string) string {
	words := splitWords(name)
	for i := 1; i < len(words); i++ {
		words[i] = capitalize(words[i])
	}
	return strings.Join(words, "")
}

func toPascalCase(name string) string {
	words := splitWords(name)
	for i := range words {
		words[i] = capitalize(words[i])
	}
	return strings.Join(words, "")
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r)) + w[size:]
}
