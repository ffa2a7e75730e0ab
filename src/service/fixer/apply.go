// Package fixer generates fixes for review issues through a language model
// and applies them to source text.
package fixer

import (
	"errors"
	"sort"
	"strings"

	"code-reviewer/src/model"
	"code-reviewer/src/util"
)

// splice is replaced in tests
var splice = spliceLines

type plannedFix struct {
	index int
	start int
	end   int
}

// Apply applies the fixes in result whose confidence meets minConfidence
// and returns the modified text. Fixes are applied bottom-up so that an
// edit never shifts the lines of an edit still pending. On any unexpected
// failure the original source is returned and fix statuses are restored.
func Apply(source string, result *model.FixResult, minConfidence string) (out string) {
	if result == nil || len(result.Fixes) == 0 {
		return source
	}

	statuses := make([]model.FixStatus, len(result.Fixes))
	for i := range result.Fixes {
		statuses[i] = result.Fixes[i].Status
	}
	defer func() {
		if r := recover(); r != nil {
			util.Error("Fix application aborted, returning original source: %v", r)
			for i, status := range statuses {
				result.Fixes[i].Status = status
			}
			result.UpdateStatistics()
			out = source
		}
	}()

	plan := planFixes(result.Fixes, minConfidence)
	util.Debug("Applying %d of %d fixes (min confidence: %s)", len(plan), len(result.Fixes), minConfidence)

	trailingNewline := strings.HasSuffix(source, "\n")
	lines := util.SplitLines(source)

	for _, p := range plan {
		fix := &result.Fixes[p.index]

		if p.start >= 1 && p.start <= len(lines) {
			lines = splice(lines, p.start, p.end, fix.FixedCode)
			markApplied(fix)
			continue
		}

		// stale or fabricated line numbers: substitute the original snippet
		if fix.OriginalCode == "" {
			util.Debug("Skipping fix at line %d: out of range and no original code", p.start)
			continue
		}
		text := util.JoinLines(lines, trailingNewline)
		if !strings.Contains(text, fix.OriginalCode) {
			util.Debug("Skipping fix at line %d: original code not found", p.start)
			continue
		}
		text = strings.Replace(text, fix.OriginalCode, fix.FixedCode, 1)
		trailingNewline = strings.HasSuffix(text, "\n")
		lines = util.SplitLines(text)
		markApplied(fix)
	}

	result.UpdateStatistics()
	return util.JoinLines(lines, trailingNewline)
}

// planFixes selects fixes at or above the confidence threshold and orders
// them by start line, descending. Equal start lines keep their order.
func planFixes(fixes []model.Fix, minConfidence string) []plannedFix {
	floor, all := model.ParseConfidenceThreshold(minConfidence)

	var plan []plannedFix
	for i := range fixes {
		fix := &fixes[i]
		if !all && fix.Confidence.Rank() < floor.Rank() {
			continue
		}
		start, end := resolveRange(fix)
		plan = append(plan, plannedFix{index: i, start: start, end: end})
	}

	sort.SliceStable(plan, func(a, b int) bool {
		return plan[a].start > plan[b].start
	})
	return plan
}

// resolveRange reads a fix's line range. A malformed start degrades to
// line 1; a missing or malformed end, or one before the start, becomes the start.
func resolveRange(fix *model.Fix) (start, end int) {
	start, err := fix.LineStart.Int()
	if err != nil {
		util.Warn("Fix %q has unusable line_start (%v), using line 1", fix.IssueDescription, err)
		start = 1
	}

	end, err = fix.LineEnd.Int()
	if err != nil || end < start {
		end = start
	}
	return start, end
}

// spliceLines replaces lines [start, end] (1-based, inclusive) with the
// lines of replacement. end is clamped to the last line.
func spliceLines(lines []string, start, end int, replacement string) []string {
	if end > len(lines) {
		end = len(lines)
	}

	spliced := make([]string, 0, len(lines))
	spliced = append(spliced, lines[:start-1]...)
	spliced = append(spliced, util.SplitLines(replacement)...)
	spliced = append(spliced, lines[end:]...)
	return spliced
}

func markApplied(fix *model.Fix) {
	if err := fix.MarkApplied(); err != nil && !errors.Is(err, model.ErrInvalidTransition) {
		util.Warn("Could not mark fix %q applied: %v", fix.IssueDescription, err)
	}
}
