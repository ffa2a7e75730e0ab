package parser

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// DefaultLanguage is assumed when nothing else identifies the input
const DefaultLanguage = "python"

var extensionLanguages = map[string]string{
	".py":  "python",
	".pyw": "python",
	".js":  "javascript",
	".jsx": "javascript",
	".mjs": "javascript",
	".cjs": "javascript",
	".ts":  "typescript",
	".tsx": "typescript",
	".mts": "typescript",
}

// DetectLanguage guesses the language of a file. Known extensions win,
// then chroma's filename match, then chroma's content analysis.
func DetectLanguage(filename, content string) string {
	if lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(filename))]; ok {
		return lang
	}

	var lexer chroma.Lexer
	if filename != "" {
		lexer = lexers.Match(filepath.Base(filename))
	}
	if lexer == nil && strings.TrimSpace(content) != "" {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		return DefaultLanguage
	}
	return NormalizeLanguage(lexer.Config().Name)
}

// NormalizeLanguage lower-cases a language name and folds common aliases
func NormalizeLanguage(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "py", "python3", "python 3", "python 2", "python2":
		return "python"
	case "js", "jsx", "node", "nodejs":
		return "javascript"
	case "ts", "tsx":
		return "typescript"
	}
	return n
}
