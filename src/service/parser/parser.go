package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/util"
)

var (
	// ErrEmptyInput is returned by ParseFile for files with no content
	ErrEmptyInput = errors.New("no code to review")
	// ErrInputTooLarge is returned when the code exceeds the line limit
	ErrInputTooLarge = errors.New("code is too large to review")
)

// Parser turns source text into model.ParsedCode. It is safe for
// concurrent use.
type Parser struct {
	cache    *cache
	maxLines int
}

// Option configures a Parser
type Option func(*Parser)

// WithMaxLines rejects code longer than n lines; n <= 0 means no limit
func WithMaxLines(n int) Option {
	return func(p *Parser) {
		p.maxLines = n
	}
}

// New creates a parser; cfg controls the parse-result cache
func New(cfg config.CacheConfig, opts ...Option) *Parser {
	p := &Parser{}
	if cfg.Enabled {
		p.cache = newCache(cfg.TTL, cfg.MaxEntries)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts line metrics for any language and structural metadata
// for the languages with a grammar. Syntax errors are reported on the
// result, never as an error.
func (p *Parser) Parse(ctx context.Context, code, language string) (*model.ParsedCode, error) {
	if p.maxLines > 0 {
		if n := len(util.SplitLines(code)); n > p.maxLines {
			return nil, fmt.Errorf("%w: %d lines, maximum is %d", ErrInputTooLarge, n, p.maxLines)
		}
	}

	lang := NormalizeLanguage(language)
	if lang == "" {
		lang = DefaultLanguage
	}

	key := cacheKey(lang, code)
	if cached, ok := p.cache.get(key); ok {
		util.Debug("Parser: cache hit for %s source (%d bytes)", lang, len(code))
		return cached, nil
	}

	start := time.Now()
	pc := &model.ParsedCode{
		Content:  code,
		Language: lang,
		ParsedAt: time.Now().UTC(),
	}

	g := grammarFor(lang)
	if g == nil {
		pc.Metadata = lineMetrics(code, plainCommentLines(code, lang))
		util.Debug("Parser: no grammar for %s, line metrics only", lang)
		p.cache.put(key, pc)
		return pc, nil
	}

	if err := g.extract(ctx, pc); err != nil {
		return nil, fmt.Errorf("parsing %s source: %w", lang, err)
	}

	util.Debug("Parser: %s source parsed in %v (%d functions, %d classes, syntax errors: %v)",
		lang, time.Since(start), pc.Metadata.FunctionCount, pc.Metadata.ClassCount, pc.HasSyntaxErrors)

	p.cache.put(key, pc)
	return pc, nil
}

// ParseFile reads path and parses it, detecting the language when
// language is empty
func (p *Parser) ParseFile(ctx context.Context, path, language string) (*model.ParsedCode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyInput)
	}

	if language == "" {
		language = DetectLanguage(path, string(data))
		util.Debug("Parser: detected language %s for %s", language, path)
	}

	pc, err := p.Parse(ctx, string(data), language)
	if err != nil {
		return nil, err
	}
	out := *pc
	out.FilePath = path
	return &out, nil
}

// lineMetrics fills the line-based part of the metadata. commentLines is
// the set of 1-based lines holding a comment.
func lineMetrics(code string, commentLines map[int]bool) model.CodeMetadata {
	lines := util.SplitLines(code)
	md := model.CodeMetadata{
		LineCount:     len(lines),
		CommentCount:  len(commentLines),
		FunctionNames: []string{},
		ClassNames:    []string{},
		Complexity:    1,
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			md.BlankLineCount++
		case commentLines[i+1] && isCommentOnly(trimmed):
		default:
			md.CodeLineCount++
		}
	}

	if md.LineCount > 0 {
		md.CommentRatio = float64(md.CommentCount) / float64(md.LineCount)
		if md.CommentRatio > 1 {
			md.CommentRatio = 1
		}
	}
	return md
}

func isCommentOnly(trimmed string) bool {
	for _, prefix := range []string{"#", "//", "/*", "*", "--", ";"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// plainCommentLines finds full-line and trailing comments for languages
// without a grammar
func plainCommentLines(code, lang string) map[int]bool {
	marker := "//"
	switch lang {
	case "python", "ruby", "bash", "shell", "yaml", "toml", "perl", "r":
		marker = "#"
	case "sql", "lua", "haskell":
		marker = "--"
	}

	out := make(map[int]bool)
	for i, line := range util.SplitLines(code) {
		if strings.Contains(line, marker) {
			out[i+1] = true
		}
	}
	return out
}
