package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/service/analyzer"
	"code-reviewer/src/service/fixer"
	"code-reviewer/src/service/llm"
	"code-reviewer/src/service/parser"
	"code-reviewer/src/service/prompt"
	"code-reviewer/src/service/review"
	"code-reviewer/src/util"
)

// ReviewController orchestrates parsing, review and optional fixing of one file
type ReviewController struct {
	cfg      *config.Config
	parser   *parser.Parser
	provider *llm.Metered // nil when no LLM backend is configured
}

// NewReviewController creates a new review controller. provider may be nil,
// in which case the semantic analyzer and fix generation are unavailable.
func NewReviewController(cfg *config.Config, provider llm.Provider) *ReviewController {
	c := &ReviewController{
		cfg:    cfg,
		parser: parser.New(cfg.Cache, parser.WithMaxLines(cfg.Input.MaxLines)),
	}
	if provider != nil {
		c.provider = llm.NewMetered(provider)
	}
	return c
}

// ReviewRequest describes one review
type ReviewRequest struct {
	Code          string
	FilePath      string // used for language detection and reporting; read when Code is empty
	Language      string // empty = detect
	Fix           bool   // also enabled by fixes.enabled
	MinConfidence string // empty = fixes.min_confidence
	Prompts       bool   // also enabled by prompts.enabled
}

// ReviewResponse carries the parse result, the review and, when fixes were
// requested, the fixed text
type ReviewResponse struct {
	Parsed    *model.ParsedCode
	Result    *model.ReviewResult
	FixedCode string
	Prompts   *model.PromptResult // nil unless prompts were requested
	Usage     llm.UsageStats
}

// Report bundles the response for rendering
func (r *ReviewResponse) Report() *model.ReviewReport {
	report := model.NewReviewReport(r.Parsed, r.Result)
	report.Prompts = r.Prompts
	return report
}

// Review runs the full pipeline
func (c *ReviewController) Review(ctx context.Context, req ReviewRequest) (*ReviewResponse, error) {
	startTime := time.Now()

	parsed, err := c.parse(ctx, req)
	if err != nil {
		return nil, err
	}
	util.Info("Starting review of %s (%s, %d lines)", displayName(parsed.FilePath), parsed.Language, parsed.Metadata.LineCount)

	var provider llm.Provider
	if c.provider != nil {
		provider = c.provider
	}
	engine := review.New(c.cfg, analyzer.Defaults(c.cfg, provider)...)
	result := engine.Review(ctx, parsed)

	resp := &ReviewResponse{Parsed: parsed, Result: result, FixedCode: parsed.Content}

	if req.Fix || c.cfg.Fixes.Enabled {
		c.applyFixes(ctx, req, resp)
	}

	if req.Prompts || c.cfg.Prompts.Enabled {
		c.generatePrompts(ctx, resp)
	}

	if c.provider != nil {
		resp.Usage = c.provider.Stats()
		if resp.Usage.Requests > 0 {
			util.Info("LLM usage: %d requests, %d tokens, estimated cost $%.4f",
				resp.Usage.Requests, resp.Usage.TotalTokens, resp.Usage.EstimatedCost)
		}
	}

	util.Info("Review complete: %d issues, score %.1f (took %v)",
		result.TotalIssues, result.QualityScore, time.Since(startTime))
	return resp, nil
}

func (c *ReviewController) parse(ctx context.Context, req ReviewRequest) (*model.ParsedCode, error) {
	if req.Code == "" && req.FilePath != "" {
		return c.parser.ParseFile(ctx, req.FilePath, req.Language)
	}
	if strings.TrimSpace(req.Code) == "" {
		return nil, parser.ErrEmptyInput
	}

	lang := req.Language
	if lang == "" {
		lang = parser.DetectLanguage(req.FilePath, req.Code)
	}
	parsed, err := c.parser.Parse(ctx, req.Code, lang)
	if err != nil {
		return nil, err
	}
	out := *parsed
	out.FilePath = req.FilePath
	return &out, nil
}

// applyFixes generates fixes for the fixable issues, attaches them to the
// result and applies them. Failures end up on the FixResult.
func (c *ReviewController) applyFixes(ctx context.Context, req ReviewRequest, resp *ReviewResponse) {
	if c.provider == nil {
		util.Warn("Fixes requested but no LLM provider is configured")
		resp.Result.FixResult = model.FailedFixResult(fixer.FixerName, fmt.Sprintf("fixer unavailable: %v", llm.ErrNoProvider))
		return
	}

	var floor model.Severity
	if s := c.cfg.Fixes.MinSeverity; s != "" {
		parsed, err := model.ParseSeverity(s)
		if err != nil {
			util.Warn("Ignoring fix severity floor: %v", err)
		} else {
			floor = parsed
		}
	}

	issues := review.FixableIssues(resp.Result.Issues, floor)
	util.Info("Generating fixes for %d of %d issues", len(issues), len(resp.Result.Issues))

	gen := fixer.NewGenerator(c.provider, c.cfg.LLM, c.cfg.Fixes)
	fixResult := gen.GenerateFixes(ctx, resp.Parsed, issues)
	resp.Result.FixResult = fixResult
	if !fixResult.Success {
		util.Warn("Fix generation failed: %s", fixResult.ErrorMessage)
		return
	}

	minConfidence := req.MinConfidence
	if minConfidence == "" {
		minConfidence = c.cfg.Fixes.MinConfidence
	}
	resp.FixedCode = fixer.Apply(resp.Parsed.Content, fixResult, minConfidence)
	util.Info("Fixes: %s", fixResult.Summary())
}

// generatePrompts attaches remediation prompts for the review's issues.
// Without a provider the response keeps an empty prompt result.
func (c *ReviewController) generatePrompts(ctx context.Context, resp *ReviewResponse) {
	if c.provider == nil {
		util.Warn("Prompts requested but no LLM provider is configured")
		resp.Prompts = model.NewPromptResult(resp.Parsed.Language)
		return
	}
	gen := prompt.NewGenerator(c.provider, c.cfg.LLM, c.cfg.Prompts)
	resp.Prompts = gen.Generate(ctx, resp.Result, resp.Parsed.Language)
}

// IsEmptyInput reports whether err means there was nothing to review
func IsEmptyInput(err error) bool {
	return errors.Is(err, parser.ErrEmptyInput)
}

// IsInputTooLarge reports whether err means the code exceeded input.max_lines
func IsInputTooLarge(err error) bool {
	return errors.Is(err, parser.ErrInputTooLarge)
}

func displayName(path string) string {
	if path == "" {
		return "<input>"
	}
	return path
}
