package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/service/analyzer"
	"code-reviewer/src/service/parser"
)

// opencensus, linked in through the genai client, starts a worker in init
var leakOptions = []goleak.Option{
	goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, leakOptions...)
}

type stubAnalyzer struct {
	name   string
	issues []model.Issue
	delay  time.Duration
	err    error
	panics bool
}

func (s *stubAnalyzer) Name() string { return s.name }

func (s *stubAnalyzer) Analyze(ctx context.Context, code *model.ParsedCode) (*model.ReviewResult, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.panics {
		panic("analyzer bug")
	}
	if s.err != nil {
		return nil, s.err
	}
	r := model.NewReviewResult(s.name)
	for _, i := range s.issues {
		r.AddIssue(i)
	}
	return r, nil
}

func issue(sev model.Severity, msg string, line int) model.Issue {
	return model.Issue{Severity: sev, Category: model.CategoryBugRisk, Message: msg, Line: line}
}

func messages(r *model.ReviewResult) []string {
	var out []string
	for _, i := range r.Issues {
		out = append(out, i.Message)
	}
	return out
}

func code(content string) *model.ParsedCode {
	return &model.ParsedCode{Content: content, Language: "python", Metadata: model.CodeMetadata{Structured: true}}
}

func TestReviewMergesInAnalyzerOrder(t *testing.T) {
	slow := &stubAnalyzer{name: "slow", delay: 30 * time.Millisecond, issues: []model.Issue{issue(model.SeverityLow, "first", 1)}}
	fast := &stubAnalyzer{name: "fast", issues: []model.Issue{issue(model.SeverityHigh, "second", 2), issue(model.SeverityInfo, "third", 3)}}

	e := New(config.DefaultConfig(), slow, fast)
	r := e.Review(context.Background(), code("x = 1\n"))

	assert.Equal(t, []string{"first", "second", "third"}, messages(r))
	assert.Equal(t, ReviewerName, r.ReviewerName)
	assert.Equal(t, 3, r.TotalIssues)
	assert.Equal(t, 1, r.HighCount)
	assert.InDelta(t, 100.0-2-10-1, r.QualityScore, 0.001)
	assert.True(t, r.Passed)

	_, err := uuid.Parse(r.ID)
	assert.NoError(t, err)
}

func TestReviewLeavesNoWorkersRunning(t *testing.T) {
	defer goleak.VerifyNone(t, append(leakOptions, goleak.IgnoreCurrent())...)

	var analyzers []analyzer.Analyzer
	for i := 0; i < 8; i++ {
		analyzers = append(analyzers, &stubAnalyzer{name: "slow", delay: 5 * time.Millisecond, issues: []model.Issue{issue(model.SeverityLow, "x", i+1)}})
	}
	analyzers = append(analyzers, &stubAnalyzer{name: "panicking", panics: true})

	r := New(config.DefaultConfig(), analyzers...).Review(context.Background(), code("x = 1\n"))
	assert.Equal(t, 8, r.LowCount)
}

func TestReviewIsolatesFailingAnalyzers(t *testing.T) {
	good := &stubAnalyzer{name: "good", issues: []model.Issue{issue(model.SeverityMedium, "kept", 4)}}
	failing := &stubAnalyzer{name: "failing", err: errors.New("boom")}
	panicking := &stubAnalyzer{name: "panicking", panics: true}

	e := New(config.DefaultConfig(), failing, good, panicking)
	r := e.Review(context.Background(), code(""))

	assert.Equal(t, []string{"kept"}, messages(r))
	assert.Equal(t, 1, r.MediumCount)
}

func TestReviewAppliesSeverityFloorDuringMerge(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Severity.MinSeverity = "medium"

	a := &stubAnalyzer{name: "a", issues: []model.Issue{
		issue(model.SeverityInfo, "info", 1),
		issue(model.SeverityMedium, "medium", 2),
		issue(model.SeverityCritical, "critical", 3),
		issue(model.SeverityLow, "low", 4),
	}}

	r := New(cfg, a).Review(context.Background(), code(""))
	assert.Equal(t, []string{"medium", "critical"}, messages(r))
	assert.False(t, r.Passed)
	assert.InDelta(t, 75.0, r.QualityScore, 0.001)
}

func TestReviewStatisticsMatchIssues(t *testing.T) {
	a := &stubAnalyzer{name: "a", issues: []model.Issue{issue(model.SeverityHigh, "h", 1), issue(model.SeverityCritical, "c", 2)}}
	b := &stubAnalyzer{name: "b", issues: []model.Issue{issue(model.SeverityLow, "l", 3)}}

	r := New(config.DefaultConfig(), a, b).Review(context.Background(), code(""))

	recomputed := *r
	recomputed.UpdateStatistics()
	if diff := cmp.Diff(*r, recomputed); diff != "" {
		t.Errorf("statistics drifted from issues (-got +recomputed):\n%s", diff)
	}
}

func TestReviewWithNoAnalyzers(t *testing.T) {
	r := New(config.DefaultConfig()).Review(context.Background(), code("x = 1\n"))
	assert.Empty(t, r.Issues)
	assert.Equal(t, 100.0, r.QualityScore)
	assert.True(t, r.Passed)
}

func TestReviewClampsParallelism(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Concurrency.MaxParallelAnalyzers = 0

	var analyzers []analyzer.Analyzer
	for _, name := range []string{"a", "b", "c"} {
		analyzers = append(analyzers, &stubAnalyzer{name: name, issues: []model.Issue{issue(model.SeverityInfo, name, 1)}})
	}
	e := New(cfg, analyzers...)

	assert.Equal(t, []string{"a", "b", "c"}, e.Names())
	assert.Len(t, e.Analyzers(), 3)
	assert.Equal(t, []string{"a", "b", "c"}, messages(e.Review(context.Background(), code(""))))
}

func TestReviewEndToEndStyleExample(t *testing.T) {
	cfg := config.DefaultConfig()
	p := parser.New(cfg.Cache)
	pc, err := p.Parse(context.Background(), "def badName():\n    x=1+2\n    return x\n", "python")
	require.NoError(t, err)

	r := New(cfg, analyzer.Defaults(cfg, nil)...).Review(context.Background(), pc)

	rules := map[string]bool{}
	for _, i := range r.Issues {
		assert.Equal(t, model.CategoryStyle, i.Category)
		rules[i.RuleID] = true
	}
	assert.True(t, rules["STYLE001"], "naming issue expected")
	assert.True(t, rules["STYLE004"], "operator spacing issue expected")
	assert.Less(t, r.QualityScore, 100.0)
	assert.True(t, r.Passed)
}

func TestReviewEndToEndSecretExample(t *testing.T) {
	cfg := config.DefaultConfig()
	p := parser.New(cfg.Cache)
	pc, err := p.Parse(context.Background(), `API_KEY = "sk-1234567890abcdefghij"`+"\n", "python")
	require.NoError(t, err)

	r := New(cfg, analyzer.Defaults(cfg, nil)...).Review(context.Background(), pc)

	crit := r.IssuesBySeverity(model.SeverityCritical)
	require.Len(t, crit, 1)
	assert.Equal(t, model.CategorySecurity, crit[0].Category)
	assert.Equal(t, 1, r.CriticalCount)
	assert.False(t, r.Passed)
	// the style analyzer also flags "sk-1" as missing operator spacing
	assert.LessOrEqual(t, r.QualityScore, 80.0)
}

func TestFixableIssues(t *testing.T) {
	issues := []model.Issue{
		{Severity: model.SeverityHigh, Category: model.CategorySecurity, Message: "a", Line: 3},
		{Severity: model.SeverityHigh, Category: model.CategorySecurity, Message: "no line"},
		{Severity: model.SeverityHigh, Category: model.CategoryComplexity, Message: "complex", Line: 5},
		{Severity: model.SeverityInfo, Category: model.CategoryStyle, Message: "b", Line: 7},
	}

	all := FixableIssues(issues, "")
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Message)
	assert.Equal(t, "b", all[1].Message)

	floored := FixableIssues(issues, model.SeverityMedium)
	require.Len(t, floored, 1)
	assert.Equal(t, "a", floored[0].Message)

	assert.Empty(t, FixableIssues(nil, ""))
}
