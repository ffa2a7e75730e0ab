package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestExpandEnvVars(t *testing.T) {
	l := &Loader{lookupEnv: fakeEnv(map[string]string{"MODEL": "gpt-x"})}

	assert.Equal(t, "model: gpt-x", l.expandEnvVars("model: ${MODEL}"))
	assert.Equal(t, "model: fallback", l.expandEnvVars("model: ${MISSING:-fallback}"))
	assert.Equal(t, "model: ", l.expandEnvVars("model: ${MISSING}"))
	assert.Equal(t, "model: gpt-x", l.expandEnvVars("model: ${MODEL:-other}"))
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
analyzers:
  complexity:
    max_complexity: 5
severity:
  min_severity: ${FLOOR:-medium}
llm:
  model: ${MODEL}
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	l := &Loader{lookupEnv: fakeEnv(map[string]string{"MODEL": "gemini-2.0-flash", "GEMINI_API_KEY": "g-key"})}
	cfg, err := l.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Analyzers.Complexity.MaxComplexity)
	assert.Equal(t, "medium", cfg.Severity.MinSeverity)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, "g-key", cfg.LLM.GeminiAPIKey)
	// untouched sections keep their defaults
	assert.Equal(t, 100, cfg.Analyzers.Style.MaxLineLength)
	assert.True(t, cfg.Analyzers.Security.Enabled)
	assert.Equal(t, 10000, cfg.Input.MaxLines)
	assert.Equal(t, 5, cfg.Prompts.MaxPrompts)
}

func TestLoadRejectsNegativeLimits(t *testing.T) {
	for _, body := range []string{"input:\n  max_lines: -1\n", "prompts:\n  max_prompts: -2\n"} {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		_, err := NewLoader().Load(path)
		assert.Error(t, err, body)
	}
}

func TestLoadRejectsUnknownSeverity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("severity:\n  min_severity: urgent\n"), 0o644))

	_, err := NewLoader().Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_severity")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestApplyMode(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ApplyMode(cfg, ModeDeep))
	assert.False(t, cfg.Analyzers.Style.Enabled)
	assert.False(t, cfg.Analyzers.Security.Enabled)
	assert.True(t, cfg.Analyzers.Semantic.Enabled)

	require.NoError(t, ApplyMode(cfg, ModeQuick))
	assert.True(t, cfg.Analyzers.Style.Enabled)
	assert.False(t, cfg.Analyzers.Semantic.Enabled)

	assert.Error(t, ApplyMode(cfg, "thorough"))
}
