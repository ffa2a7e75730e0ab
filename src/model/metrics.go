package model

import "time"

// FunctionInfo describes one function or method found by the parser
type FunctionInfo struct {
	Name           string `json:"name"`
	ClassName      string `json:"class_name,omitempty"`
	StartLine      int    `json:"start_line"`
	EndLine        int    `json:"end_line"`
	ParameterCount int    `json:"parameter_count"`
	HasDocstring   bool   `json:"has_docstring"`

	// Decision points inside the function body, nested functions included
	Branches             int `json:"branches"`              // conditionals, loops, exception handlers
	BoolOperators        int `json:"bool_operators"`        // each extra operand of a short-circuit chain
	ComprehensionFilters int `json:"comprehension_filters"` // if-clauses inside comprehensions
}

// LineCount returns the number of lines spanned by the function
func (f FunctionInfo) LineCount() int {
	if f.EndLine < f.StartLine {
		return 0
	}
	return f.EndLine - f.StartLine + 1
}

// CyclomaticComplexity returns 1 plus every decision point in the function
func (f FunctionInfo) CyclomaticComplexity() int {
	return 1 + f.Branches + f.BoolOperators + f.ComprehensionFilters
}

// ClassInfo describes one class-like declaration
type ClassInfo struct {
	Name         string `json:"name"`
	StartLine    int    `json:"start_line"`
	EndLine      int    `json:"end_line"`
	HasDocstring bool   `json:"has_docstring"`
}

// CallSite is a call to a plainly named function
type CallSite struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

// CodeMetadata holds the line and structural metrics for one piece of code.
// Structural fields are only meaningful when Structured is true.
type CodeMetadata struct {
	LineCount      int     `json:"line_count"`
	BlankLineCount int     `json:"blank_line_count"`
	CommentCount   int     `json:"comment_count"`
	CodeLineCount  int     `json:"code_line_count"`
	CommentRatio   float64 `json:"comment_ratio"`

	Structured     bool     `json:"structured"`
	FunctionCount  int      `json:"function_count"`
	ClassCount     int      `json:"class_count"`
	ImportCount    int      `json:"import_count"`
	FunctionNames  []string `json:"function_names"`
	ClassNames     []string `json:"class_names"`
	HasDocstrings  bool     `json:"has_docstrings"`
	DocstringCount int      `json:"docstring_count"`
	Complexity     float64  `json:"complexity"`

	Functions []FunctionInfo `json:"functions,omitempty"`
	Classes   []ClassInfo    `json:"classes,omitempty"`
	Calls     []CallSite     `json:"calls,omitempty"`
}

// SyntaxError locates a region the parser could not make sense of
type SyntaxError struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// ParsedCode is the analyzer input: source text plus parser metadata
type ParsedCode struct {
	Content         string        `json:"content"`
	Language        string        `json:"language"`
	FilePath        string        `json:"file_path,omitempty"`
	Metadata        CodeMetadata  `json:"metadata"`
	HasSyntaxErrors bool          `json:"has_syntax_errors"`
	SyntaxErrors    []SyntaxError `json:"syntax_errors,omitempty"`
	ParsedAt        time.Time     `json:"parsed_at"`
}

// HasStructure reports whether structural metadata can be relied on
func (p *ParsedCode) HasStructure() bool {
	return p.Metadata.Structured && !p.HasSyntaxErrors
}
