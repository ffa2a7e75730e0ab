// Package review runs a set of analyzers over one piece of parsed code and
// merges their findings into a single scored result.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/service/analyzer"
	"code-reviewer/src/util"
)

// ReviewerName is the reviewer name on combined results
const ReviewerName = "ReviewEngine"

// Engine manages and runs analyzers.
// Analyzers run in parallel; their results are merged in registration order.
type Engine struct {
	analyzers   []analyzer.Analyzer
	maxParallel int
	minSeverity model.Severity
}

// New creates a new review engine
func New(cfg *config.Config, analyzers ...analyzer.Analyzer) *Engine {
	e := &Engine{
		analyzers:   analyzers,
		maxParallel: cfg.Concurrency.MaxParallelAnalyzers,
	}
	if e.maxParallel < 1 {
		e.maxParallel = 1
	}

	if s := cfg.Severity.MinSeverity; s != "" {
		floor, err := model.ParseSeverity(s)
		if err != nil {
			util.Warn("Ignoring severity floor: %v", err)
		} else {
			e.minSeverity = floor
		}
	}

	util.Debug("Review engine initialized with %d analyzers", len(analyzers))
	return e
}

// Review runs every analyzer and returns the combined result. A failing
// analyzer is logged and contributes nothing.
func (e *Engine) Review(ctx context.Context, code *model.ParsedCode) *model.ReviewResult {
	startTime := time.Now()
	util.Info("Starting review with %d analyzers (max parallel: %d)", len(e.analyzers), e.maxParallel)

	results := make([]*model.ReviewResult, len(e.analyzers))

	var g errgroup.Group
	g.SetLimit(e.maxParallel)
	for i, a := range e.analyzers {
		g.Go(func() error {
			analyzerStart := time.Now()
			res, err := runIsolated(ctx, a, code)
			if err != nil {
				util.Error("Analyzer %s failed: %v", a.Name(), err)
				return nil
			}
			util.Debug("Analyzer %s found %d issues (took %v)", a.Name(), len(res.Issues), time.Since(analyzerStart))
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	combined := model.NewReviewResult(ReviewerName)
	combined.ID = uuid.NewString()
	for _, res := range results {
		if res == nil {
			continue
		}
		for _, issue := range res.Issues {
			if e.minSeverity != "" && !issue.Severity.AtLeast(e.minSeverity) {
				continue
			}
			combined.AddIssue(issue)
		}
	}
	combined.UpdateStatistics()

	util.Info("Review complete: %d issues, score %.1f (took %v)", combined.TotalIssues, combined.QualityScore, time.Since(startTime))
	return combined
}

// runIsolated calls the analyzer and converts a panic into an error
func runIsolated(ctx context.Context, a analyzer.Analyzer, code *model.ParsedCode) (res *model.ReviewResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	res, err = a.Analyze(ctx, code)
	if err == nil && res == nil {
		err = fmt.Errorf("analyzer returned no result")
	}
	return res, err
}

// Analyzers returns the registered analyzers in review order
func (e *Engine) Analyzers() []analyzer.Analyzer {
	return append([]analyzer.Analyzer(nil), e.analyzers...)
}

// Names returns names of all registered analyzers
func (e *Engine) Names() []string {
	names := make([]string, len(e.analyzers))
	for i, a := range e.analyzers {
		names[i] = a.Name()
	}
	return names
}

// FixableIssues returns the issues a fixer can act on: located, not
// complexity findings, and at or above minSeverity when one is given
func FixableIssues(issues []model.Issue, minSeverity model.Severity) []model.Issue {
	var out []model.Issue
	for _, issue := range issues {
		if !issue.HasLine() || issue.Category == model.CategoryComplexity {
			continue
		}
		if minSeverity != "" && !issue.Severity.AtLeast(minSeverity) {
			continue
		}
		out = append(out, issue)
	}
	return out
}
