package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/service/llm"
)

func newSemantic(p llm.Provider) *SemanticAnalyzer {
	cfg := config.DefaultConfig()
	return NewSemanticAnalyzer(p, cfg.LLM, cfg.Analyzers.Semantic)
}

func TestSemanticAnalyzerDecodesIssues(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{`{"issues":[
		{"severity":"high","category":"bug_risk","message":"Off by one","line_number":4,"suggestion":"Use <"},
		{"severity":"urgent","category":"bug_risk","message":"dropped"},
		{"severity":"LOW","category":"performance","message":"Slow loop","line_number":"12"},
		{"message":"No location"}
	]}`}}
	a := newSemantic(mock)

	code := parsed("python", "for i in range(10):\n    pass\n")
	r, err := a.Analyze(context.Background(), code)
	require.NoError(t, err)

	require.Len(t, r.Issues, 3)
	assert.Equal(t, model.Issue{
		Severity:   model.SeverityHigh,
		Category:   model.CategoryBugRisk,
		Message:    "Off by one",
		Line:       4,
		Suggestion: "Use <",
		RuleID:     "AI004",
	}, r.Issues[0])
	assert.Equal(t, model.SeverityLow, r.Issues[1].Severity)
	assert.Equal(t, 12, r.Issues[1].Line)
	assert.Equal(t, "AI012", r.Issues[1].RuleID)
	assert.Equal(t, model.SeverityInfo, r.Issues[2].Severity)
	assert.Equal(t, model.CategoryBestPractices, r.Issues[2].Category)
	assert.Equal(t, "AI000", r.Issues[2].RuleID)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].JSON)
	assert.Equal(t, DefaultSemanticPrompt, reqs[0].System)
	assert.Contains(t, reqs[0].Prompt, "Review this PYTHON code")
	assert.Contains(t, reqs[0].Prompt, "for i in range(10):")
}

func TestSemanticAnalyzerAcceptsFencedList(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{"Sure:\n```json\n[{\"severity\":\"medium\",\"category\":\"style\",\"message\":\"Rename\",\"line_number\":2}]\n```"}}

	r, err := newSemantic(mock).Analyze(context.Background(), parsed("python", "x = 1\n"))
	require.NoError(t, err)
	require.Len(t, r.Issues, 1)
	assert.Equal(t, "AI002", r.Issues[0].RuleID)
}

func TestSemanticAnalyzerSkipsOnSyntaxErrors(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{`{"issues":[]}`}}
	code := parsed("python", "def broken(:\n")
	code.HasSyntaxErrors = true

	r, err := newSemantic(mock).Analyze(context.Background(), code)
	require.NoError(t, err)

	require.Len(t, r.Issues, 1)
	assert.Equal(t, "AI000", r.Issues[0].RuleID)
	assert.Equal(t, model.SeverityInfo, r.Issues[0].Severity)
	assert.Empty(t, mock.Requests())
}

func TestSemanticAnalyzerProviderFailure(t *testing.T) {
	mock := &llm.MockProvider{Err: errors.New("connection refused")}

	r, err := newSemantic(mock).Analyze(context.Background(), parsed("python", "x = 1\n"))
	require.NoError(t, err)

	require.Len(t, r.Issues, 1)
	assert.Equal(t, "AI999", r.Issues[0].RuleID)
	assert.Equal(t, "AI review failed: connection refused", r.Issues[0].Message)
	assert.True(t, r.Passed)
}

func TestSemanticAnalyzerMalformedResponse(t *testing.T) {
	for _, text := range []string{"I could not review this.", `{"issues": "none"}`, ""} {
		mock := &llm.MockProvider{Responses: []string{text}}
		r, err := newSemantic(mock).Analyze(context.Background(), parsed("python", "x = 1\n"))
		require.NoError(t, err)
		assert.Empty(t, r.Issues, text)
		assert.Equal(t, 100.0, r.QualityScore)
	}
}

func TestSemanticAnalyzerCustomPrompt(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{`{"issues":[]}`}}
	cfg := config.DefaultConfig()
	a := NewSemanticAnalyzer(mock, cfg.LLM, config.SemanticAnalyzerConfig{Enabled: true, SystemPrompt: "Be brief."})

	_, err := a.Analyze(context.Background(), parsed("javascript", "let x = 1\n"))
	require.NoError(t, err)
	assert.Equal(t, "Be brief.", mock.Requests()[0].System)
	assert.Equal(t, "gpt-4o-mini", mock.Requests()[0].Model)
}

func TestSemanticAnalyzerKeepsValidEntriesNextToMalformedOnes(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{`{"issues":[
		{"severity":"medium","category":"bug_risk","message":"Unchecked error","line_number":2},
		{"severity":"high","category":"security","message":123,"line_number":3},
		"not an issue",
		{"severity":"low","category":"style","message":"Long name","line_number":5}
	]}`}}

	r, err := newSemantic(mock).Analyze(context.Background(), parsed("python", "x = 1\n"))
	require.NoError(t, err)

	require.Len(t, r.Issues, 2)
	assert.Equal(t, "Unchecked error", r.Issues[0].Message)
	assert.Equal(t, "AI002", r.Issues[0].RuleID)
	assert.Equal(t, "Long name", r.Issues[1].Message)
	assert.Equal(t, 93.0, r.QualityScore)
}
