package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
output:
  color: false
logging:
  level: error
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfigYAML), 0644))

	h := New()
	var out bytes.Buffer
	h.rootCmd.SetOut(&out)
	h.rootCmd.SetErr(&out)
	h.rootCmd.SetIn(strings.NewReader(stdin))
	h.rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := h.Execute()
	return out.String(), err
}

func TestReviewCommandJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.py")
	require.NoError(t, os.WriteFile(path, []byte("def badName():\n    return 1\n"), 0644))

	out, err := run(t, "", "review", "--file", path, "--format", "json")
	require.NoError(t, err)

	var doc struct {
		FilePath string `json:"file_path"`
		Language string `json:"language"`
		Result   struct {
			TotalIssues int  `json:"total_issues"`
			Passed      bool `json:"passed"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, path, doc.FilePath)
	assert.Equal(t, "python", doc.Language)
	assert.Positive(t, doc.Result.TotalIssues)
	assert.True(t, doc.Result.Passed)
}

func TestReviewCommandStdinFailOnCritical(t *testing.T) {
	code := "API_KEY = \"sk-1234567890abcdefghij\"\n"

	out, err := run(t, code, "review", "--file", "-", "--language", "python", "--fail-on-critical")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "critical issues found")
	assert.Contains(t, out, "FAILED")
}

func TestReviewCommandWritesReports(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))
	outDir := filepath.Join(dir, "reports")

	out, err := run(t, "", "review", "--file", path, "--output", outDir, "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to "+filepath.Join(outDir, "app-review.md"))
	assert.FileExists(t, filepath.Join(outDir, "app-review.md"))
}

func TestReviewCommandPromptsWithoutProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.py")
	require.NoError(t, os.WriteFile(path, []byte("def badName():\n    return 1\n"), 0644))

	out, err := run(t, "", "review", "--file", path, "--format", "json", "--prompts")
	require.NoError(t, err)

	var doc struct {
		Prompts *struct {
			Prompts  []json.RawMessage `json:"prompts"`
			Language string            `json:"language"`
		} `json:"prompts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.NotNil(t, doc.Prompts)
	assert.Empty(t, doc.Prompts.Prompts)
	assert.Equal(t, "python", doc.Prompts.Language)
}

func TestReviewCommandRejectsUnknownMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))

	_, err := run(t, "", "review", "--file", path, "--mode", "thorough")
	assert.Error(t, err)
}

func TestAnalyzersCommand(t *testing.T) {
	out, err := run(t, "", "analyzers")
	require.NoError(t, err)
	assert.Contains(t, out, "style")
	assert.Contains(t, out, "(enabled)")
	assert.Contains(t, out, "semantic")
	assert.Contains(t, out, "Report formats: text, json, markdown, csv, sarif")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "code-reviewer 1.0.0\n", out)
}
