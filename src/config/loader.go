package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

// Loader handles configuration loading from YAML files
type Loader struct {
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{lookupEnv: os.LookupEnv}
}

// Load loads configuration from a YAML file with environment variable substitution.
// Environment variables can be referenced in the YAML using:
//   - ${VAR_NAME} - substitutes the value of VAR_NAME, empty string if not set
//   - ${VAR_NAME:-default} - substitutes VAR_NAME or "default" if not set
//
// API keys left empty after loading are taken from OPENAI_API_KEY and
// GEMINI_API_KEY.
func (l *Loader) Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	filePath := l.resolveConfigPath(configPath)
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		expandedData := l.expandEnvVars(string(data))

		if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	l.applyEnvKeys(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (l *Loader) resolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}

	defaults := []string{
		"config.yaml",
		"config/config.yaml",
		filepath.Join(os.Getenv("HOME"), ".code-reviewer", "config.yaml"),
	}

	for _, path := range defaults {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// expandEnvVars expands ${VAR} and ${VAR:-default} references in the input string
func (l *Loader) expandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultVal := ""
		if len(submatches) >= 3 {
			defaultVal = submatches[2]
		}

		if val, exists := l.lookupEnv(varName); exists {
			return val
		}

		return defaultVal
	})
}

func (l *Loader) applyEnvKeys(cfg *Config) {
	if cfg.LLM.APIKey == "" {
		if v, ok := l.lookupEnv("OPENAI_API_KEY"); ok {
			cfg.LLM.APIKey = v
		}
	}
	if cfg.LLM.GeminiAPIKey == "" {
		if v, ok := l.lookupEnv("GEMINI_API_KEY"); ok {
			cfg.LLM.GeminiAPIKey = v
		}
	}
}

// Validate checks enumerated settings that would otherwise be silently ignored
func (c *Config) Validate() error {
	for _, sev := range []struct{ key, val string }{
		{"severity.min_severity", c.Severity.MinSeverity},
		{"fixes.min_severity", c.Fixes.MinSeverity},
	} {
		switch sev.val {
		case "", "info", "low", "medium", "high", "critical":
		default:
			return fmt.Errorf("%s: unknown severity %q", sev.key, sev.val)
		}
	}

	switch c.LLM.Provider {
	case "", "openai", "gemini":
	default:
		return fmt.Errorf("llm.provider: unknown provider %q", c.LLM.Provider)
	}

	if c.Concurrency.MaxParallelAnalyzers < 1 {
		return fmt.Errorf("concurrency.max_parallel_analyzers must be at least 1")
	}
	if c.Input.MaxLines < 0 {
		return fmt.Errorf("input.max_lines must not be negative")
	}
	if c.Prompts.MaxPrompts < 0 {
		return fmt.Errorf("prompts.max_prompts must not be negative")
	}

	return nil
}
