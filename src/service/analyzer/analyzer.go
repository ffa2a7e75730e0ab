package analyzer

import (
	"context"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/service/llm"
	"code-reviewer/src/util"
)

// Analyzer inspects one piece of parsed code and reports issues
type Analyzer interface {
	// Name returns the analyzer name
	Name() string

	// Analyze returns the issues found in code. Expected anomalies in the
	// input (syntax errors, missing metadata) yield fewer issues, not an error.
	Analyze(ctx context.Context, code *model.ParsedCode) (*model.ReviewResult, error)
}

// BaseAnalyzer provides common functionality for analyzers
type BaseAnalyzer struct {
	Exclusions *util.ExclusionMatcher
}

// NewBaseAnalyzer creates a new base analyzer
func NewBaseAnalyzer(cfg *config.Config) BaseAnalyzer {
	return BaseAnalyzer{
		Exclusions: util.NewExclusionMatcher(cfg.Exclusions),
	}
}

// ShouldExclude checks if a named entity should be skipped
func (b *BaseAnalyzer) ShouldExclude(className, funcName string) bool {
	return b.Exclusions.Matches(className, funcName)
}

// Defaults builds the configured analyzers in review order. The semantic
// analyzer runs last and only when a provider is available.
func Defaults(cfg *config.Config, provider llm.Provider) []Analyzer {
	base := NewBaseAnalyzer(cfg)
	a := cfg.Analyzers

	var analyzers []Analyzer
	if a.Style.Enabled {
		analyzers = append(analyzers, NewStyleAnalyzer(base, a.Style))
	}
	if a.Complexity.Enabled {
		analyzers = append(analyzers, NewComplexityAnalyzer(base, a.Complexity))
	}
	if a.Security.Enabled {
		analyzers = append(analyzers, NewSecurityAnalyzer(base))
	}
	if a.Structure.Enabled {
		analyzers = append(analyzers, NewStructureAnalyzer(base, a.Structure))
	}
	if a.Duplication.Enabled {
		analyzers = append(analyzers, NewDuplicationAnalyzer(base, a.Duplication))
	}
	if a.Semantic.Enabled {
		if provider != nil {
			analyzers = append(analyzers, NewSemanticAnalyzer(provider, cfg.LLM, a.Semantic))
		} else {
			util.Warn("Semantic analyzer enabled but no LLM provider is configured, skipping")
		}
	}

	util.Debug("Analyzer set built with %d analyzers", len(analyzers))
	for _, an := range analyzers {
		util.Debug("  - %s", an.Name())
	}
	return analyzers
}

// Descriptions documents every analyzer for listings
var Descriptions = []struct {
	Name        string
	Description string
}{
	{"style", "Naming conventions, operator spacing, line length"},
	{"complexity", "Cyclomatic complexity per function"},
	{"security", "Hardcoded secrets, dynamic evaluation, interpolated SQL"},
	{"structure", "File and function size, parameter lists, documentation"},
	{"duplication", "Repeated blocks of lines within the file"},
	{"semantic", "Language-model review for logic and design problems"},
}

// Enabled reports whether the named analyzer is switched on in cfg
func Enabled(cfg *config.Config, name string) bool {
	a := cfg.Analyzers
	switch name {
	case "style":
		return a.Style.Enabled
	case "complexity":
		return a.Complexity.Enabled
	case "security":
		return a.Security.Enabled
	case "structure":
		return a.Structure.Enabled
	case "duplication":
		return a.Duplication.Enabled
	case "semantic":
		return a.Semantic.Enabled
	}
	return false
}
