package config

import "time"

// Config is the root configuration structure
type Config struct {
	Agent       AgentConfig       `yaml:"agent"`
	LLM         LLMConfig         `yaml:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache"`
	Analyzers   AnalyzersConfig   `yaml:"analyzers"`
	Exclusions  ExclusionsConfig  `yaml:"exclusions"`
	Severity    SeverityConfig    `yaml:"severity"`
	Fixes       FixesConfig       `yaml:"fixes"`
	Prompts     PromptsConfig     `yaml:"prompts"`
	Input       InputConfig       `yaml:"input"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// AgentConfig contains agent metadata
type AgentConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// LLMConfig contains settings for the language-model backend used by the
// semantic analyzer and the fix generator
type LLMConfig struct {
	Provider     string        `yaml:"provider"` // openai, gemini, or empty for auto-detection
	URL          string        `yaml:"url"`
	APIKey       string        `yaml:"api_key"`
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	Model        string        `yaml:"model"`
	Temperature  float64       `yaml:"temperature"`
	MaxTokens    int           `yaml:"max_tokens"`
	Timeout      time.Duration `yaml:"timeout"`
	Retry        RetryConfig   `yaml:"retry"`
}

// RetryConfig contains retry settings for API calls
type RetryConfig struct {
	MaxAttempts   int           `yaml:"max_attempts"`
	BackoffFactor float64       `yaml:"backoff_factor"`
	InitialDelay  time.Duration `yaml:"initial_delay"`
	MaxDelay      time.Duration `yaml:"max_delay"`
	RetryOnStatus []int         `yaml:"retry_on_status"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	MaxParallelAnalyzers int `yaml:"max_parallel_analyzers"`
}

// CacheConfig contains parse cache settings
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

// AnalyzersConfig contains settings for all analyzers
type AnalyzersConfig struct {
	Style       StyleAnalyzerConfig       `yaml:"style"`
	Complexity  ComplexityAnalyzerConfig  `yaml:"complexity"`
	Security    SecurityAnalyzerConfig    `yaml:"security"`
	Structure   StructureAnalyzerConfig   `yaml:"structure"`
	Duplication DuplicationAnalyzerConfig `yaml:"duplication"`
	Semantic    SemanticAnalyzerConfig    `yaml:"semantic"`
}

// StyleAnalyzerConfig contains style analyzer settings
type StyleAnalyzerConfig struct {
	Enabled       bool `yaml:"enabled"`
	CheckNaming   bool `yaml:"check_naming"`
	CheckSpacing  bool `yaml:"check_spacing"`
	MaxLineLength int  `yaml:"max_line_length"`
}

// ComplexityAnalyzerConfig contains complexity analyzer settings
type ComplexityAnalyzerConfig struct {
	Enabled       bool `yaml:"enabled"`
	MaxComplexity int  `yaml:"max_complexity"`
}

// SecurityAnalyzerConfig contains security analyzer settings
type SecurityAnalyzerConfig struct {
	Enabled bool `yaml:"enabled"`
}

// StructureAnalyzerConfig contains size and documentation analyzer settings
type StructureAnalyzerConfig struct {
	Enabled           bool    `yaml:"enabled"`
	MaxFileLines      int     `yaml:"max_file_lines"`
	MaxFileFunctions  int     `yaml:"max_file_functions"`
	MaxFunctionLines  int     `yaml:"max_function_lines"`
	MaxParameters     int     `yaml:"max_parameters"`
	RequireDocstrings bool    `yaml:"require_docstrings"`
	MinCommentRatio   float64 `yaml:"min_comment_ratio"`
	MinCodeLines      int     `yaml:"min_code_lines"` // comment ratio is only checked above this size
}

// DuplicationAnalyzerConfig contains duplicate-block analyzer settings
type DuplicationAnalyzerConfig struct {
	Enabled     bool `yaml:"enabled"`
	MinLines    int  `yaml:"min_lines"`
	SkipTrivial bool `yaml:"skip_trivial"`
}

// SemanticAnalyzerConfig contains settings for the LLM-backed analyzer
type SemanticAnalyzerConfig struct {
	Enabled      bool   `yaml:"enabled"`
	SystemPrompt string `yaml:"system_prompt"`
}

// ExclusionsConfig contains exclusion patterns for named entities
type ExclusionsConfig struct {
	ClassPatterns    []string `yaml:"class_patterns"`
	FunctionPatterns []string `yaml:"function_patterns"`
}

// SeverityConfig contains severity settings
type SeverityConfig struct {
	MinSeverity string `yaml:"min_severity"` // empty keeps everything
}

// FixesConfig contains automatic fix settings
type FixesConfig struct {
	Enabled       bool   `yaml:"enabled"`
	MinConfidence string `yaml:"min_confidence"` // low, medium, high, verified, all
	MinSeverity   string `yaml:"min_severity"`
	SystemPrompt  string `yaml:"system_prompt"`
}

// PromptsConfig contains remediation prompt settings
type PromptsConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MaxPrompts   int     `yaml:"max_prompts"` // one prompt per category, highest priority first
	Temperature  float64 `yaml:"temperature"`
	SystemPrompt string  `yaml:"system_prompt"`
}

// InputConfig limits what will be reviewed
type InputConfig struct {
	MaxLines int `yaml:"max_lines"` // 0 disables the limit
}

// OutputConfig contains output settings
type OutputConfig struct {
	Formats             []string `yaml:"formats"`
	OutputDir           string   `yaml:"output_dir"`
	IncludeSuggestions  bool     `yaml:"include_suggestions"`
	IncludeCodeSnippets bool     `yaml:"include_code_snippets"`
	Color               bool     `yaml:"color"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level            string `yaml:"level"`
	Format           string `yaml:"format"` // text, json
	File             string `yaml:"file"`
	IncludeTimestamp bool   `yaml:"include_timestamp"`
	IncludeCaller    bool   `yaml:"include_caller"`
}
