package config

import (
	"fmt"
	"time"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:        "code-reviewer",
			Version:     "1.0.0",
			Description: "Single-file code review and fix application engine",
		},
		LLM: LLMConfig{
			URL:         "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
			MaxTokens:   2000,
			Timeout:     30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:   3,
				BackoffFactor: 1.5,
				InitialDelay:  500 * time.Millisecond,
				MaxDelay:      10 * time.Second,
				RetryOnStatus: []int{429, 500, 502, 503, 504},
			},
		},
		Concurrency: ConcurrencyConfig{
			MaxParallelAnalyzers: 4,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        1 * time.Hour,
			MaxEntries: 128,
		},
		Analyzers: AnalyzersConfig{
			Style: StyleAnalyzerConfig{
				Enabled:       true,
				CheckNaming:   true,
				CheckSpacing:  true,
				MaxLineLength: 100,
			},
			Complexity: ComplexityAnalyzerConfig{
				Enabled:       true,
				MaxComplexity: 10,
			},
			Security: SecurityAnalyzerConfig{
				Enabled: true,
			},
			// Structure and duplication checks are opt-in
			Structure: StructureAnalyzerConfig{
				Enabled:           false,
				MaxFileLines:      500,
				MaxFileFunctions:  20,
				MaxFunctionLines:  50,
				MaxParameters:     5,
				RequireDocstrings: true,
				MinCommentRatio:   0.05,
				MinCodeLines:      50,
			},
			Duplication: DuplicationAnalyzerConfig{
				Enabled:     false,
				MinLines:    5,
				SkipTrivial: true,
			},
			Semantic: SemanticAnalyzerConfig{
				Enabled: false,
			},
		},
		Exclusions: ExclusionsConfig{
			ClassPatterns:    []string{},
			FunctionPatterns: []string{},
		},
		Severity: SeverityConfig{
			MinSeverity: "",
		},
		Fixes: FixesConfig{
			Enabled:       false,
			MinConfidence: "high",
			MinSeverity:   "",
		},
		Prompts: PromptsConfig{
			Enabled:     false,
			MaxPrompts:  5,
			Temperature: 0.3,
		},
		Input: InputConfig{
			MaxLines: 10000,
		},
		Output: OutputConfig{
			Formats:             []string{"text"},
			OutputDir:           ".",
			IncludeSuggestions:  true,
			IncludeCodeSnippets: false,
			Color:               true,
		},
		Logging: LoggingConfig{
			Level:            "info",
			Format:           "text",
			IncludeTimestamp: true,
			IncludeCaller:    false,
		},
	}
}

// Review modes select a preset analyzer set
const (
	ModeQuick    = "quick"
	ModeStandard = "standard"
	ModeDeep     = "deep"
)

// ApplyMode toggles analyzers according to a named review mode.
// quick runs the rule-based analyzers, standard adds the semantic analyzer
// and deep runs the semantic analyzer alone. An empty mode leaves cfg untouched.
func ApplyMode(cfg *Config, mode string) error {
	a := &cfg.Analyzers
	switch mode {
	case "":
		return nil
	case ModeQuick:
		a.Style.Enabled, a.Complexity.Enabled, a.Security.Enabled = true, true, true
		a.Semantic.Enabled = false
	case ModeStandard:
		a.Style.Enabled, a.Complexity.Enabled, a.Security.Enabled = true, true, true
		a.Semantic.Enabled = true
	case ModeDeep:
		a.Style.Enabled, a.Complexity.Enabled, a.Security.Enabled = false, false, false
		a.Semantic.Enabled = true
	default:
		return fmt.Errorf("unknown review mode: %s", mode)
	}
	return nil
}
