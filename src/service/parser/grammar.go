package parser

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"code-reviewer/src/model"
)

const maxSyntaxErrors = 20

// grammar maps a tree-sitter language onto the node types the metadata
// extraction cares about
type grammar struct {
	language   func() *sitter.Language
	functions  set
	classes    set
	branches   set
	imports    set
	filter     string            // comprehension filter clause
	calls      map[string]string // call node type -> field naming the callee
	boolOp     func(n *sitter.Node) bool
	receivers  set  // leading method parameters that are not counted
	docComment bool // documentation lives in /** */ comments instead of string literals
}

type set map[string]bool

func newSet(items ...string) set {
	s := make(set, len(items))
	for _, it := range items {
		s[it] = true
	}
	return s
}

var jsBranches = newSet(
	"if_statement", "for_statement", "for_in_statement", "while_statement",
	"do_statement", "catch_clause", "switch_case",
)

var jsFunctions = newSet(
	"function_declaration", "generator_function_declaration", "method_definition",
	"arrow_function", "function_expression", "function", "generator_function",
)

func jsBoolOp(n *sitter.Node) bool {
	if n.Type() != "binary_expression" {
		return false
	}
	op := n.ChildByFieldName("operator")
	return op != nil && (op.Type() == "&&" || op.Type() == "||")
}

var grammars = map[string]*grammar{
	"python": {
		language:  python.GetLanguage,
		functions: newSet("function_definition"),
		classes:   newSet("class_definition"),
		branches:  newSet("if_statement", "elif_clause", "while_statement", "for_statement", "except_clause", "except_group_clause"),
		imports:   newSet("import_statement", "import_from_statement", "future_import_statement"),
		filter:    "if_clause",
		calls:     map[string]string{"call": "function"},
		boolOp:    func(n *sitter.Node) bool { return n.Type() == "boolean_operator" },
		receivers: newSet("self", "cls"),
	},
	"javascript": {
		language:   javascript.GetLanguage,
		functions:  jsFunctions,
		classes:    newSet("class_declaration"),
		branches:   jsBranches,
		imports:    newSet("import_statement"),
		calls:      map[string]string{"call_expression": "function", "new_expression": "constructor"},
		boolOp:     jsBoolOp,
		docComment: true,
	},
	"typescript": {
		language:   typescript.GetLanguage,
		functions:  jsFunctions,
		classes:    newSet("class_declaration", "abstract_class_declaration", "interface_declaration", "type_alias_declaration"),
		branches:   jsBranches,
		imports:    newSet("import_statement"),
		calls:      map[string]string{"call_expression": "function", "new_expression": "constructor"},
		boolOp:     jsBoolOp,
		docComment: true,
	},
}

func grammarFor(lang string) *grammar {
	return grammars[lang]
}

// SupportedLanguages lists the languages parsed structurally
func SupportedLanguages() []string {
	return []string{"python", "javascript", "typescript"}
}

func (g *grammar) extract(ctx context.Context, pc *model.ParsedCode) error {
	src := []byte(pc.Content)

	sp := sitter.NewParser()
	sp.SetLanguage(g.language())
	tree, err := sp.ParseCtx(ctx, nil, src)
	if err != nil {
		return err
	}
	defer tree.Close()
	root := tree.RootNode()

	w := &walker{g: g, src: src, commentLines: make(map[int]bool)}
	w.walk(root)

	md := lineMetrics(pc.Content, w.commentLines)
	md.Structured = true
	md.Functions = w.functions
	md.Classes = w.classes
	md.Calls = w.calls
	md.FunctionCount = len(w.functions)
	md.ClassCount = len(w.classes)
	md.ImportCount = w.imports

	docstrings := 0
	for _, fn := range w.functions {
		md.FunctionNames = append(md.FunctionNames, fn.Name)
		md.Complexity += float64(fn.Branches + fn.BoolOperators)
		if fn.HasDocstring {
			docstrings++
		}
	}
	for _, cls := range w.classes {
		md.ClassNames = append(md.ClassNames, cls.Name)
		if cls.HasDocstring {
			docstrings++
		}
	}
	if g.docComment {
		docstrings = w.docComments
	}
	md.DocstringCount = docstrings
	md.HasDocstrings = docstrings > 0
	pc.Metadata = md

	if root.HasError() {
		pc.HasSyntaxErrors = true
		collectSyntaxErrors(root, &pc.SyntaxErrors)
		if len(pc.SyntaxErrors) == 0 {
			pc.SyntaxErrors = append(pc.SyntaxErrors, model.SyntaxError{Line: 1, Column: 1, Message: "invalid syntax"})
		}
	}
	return nil
}

type walker struct {
	g            *grammar
	src          []byte
	functions    []model.FunctionInfo
	classes      []model.ClassInfo
	calls        []model.CallSite
	imports      int
	docComments  int
	commentLines map[int]bool

	open      []int // indices of the enclosing named functions
	className string
}

func (w *walker) walk(n *sitter.Node) {
	typ := n.Type()
	pushed := false
	prevClass := w.className

	switch {
	case typ == "comment":
		for l := lineOf(n.StartPoint()); l <= lineOf(n.EndPoint()); l++ {
			w.commentLines[l] = true
		}
		if w.g.docComment && strings.HasPrefix(n.Content(w.src), "/**") {
			w.docComments++
		}
	case w.g.functions[typ]:
		if fn, ok := w.function(n); ok {
			w.functions = append(w.functions, fn)
			w.open = append(w.open, len(w.functions)-1)
			pushed = true
		}
	case w.g.classes[typ]:
		if name := w.text(n.ChildByFieldName("name")); name != "" {
			w.classes = append(w.classes, model.ClassInfo{
				Name:         name,
				StartLine:    lineOf(n.StartPoint()),
				EndLine:      lineOf(n.EndPoint()),
				HasDocstring: w.documented(n),
			})
			w.className = name
		}
	case w.g.branches[typ]:
		w.each(func(f *model.FunctionInfo) { f.Branches++ })
	case w.g.filter != "" && typ == w.g.filter:
		w.each(func(f *model.FunctionInfo) { f.ComprehensionFilters++ })
	case w.g.imports[typ]:
		w.imports++
	case w.g.boolOp(n):
		w.each(func(f *model.FunctionInfo) { f.BoolOperators++ })
	}

	if field, ok := w.g.calls[typ]; ok {
		w.call(n, typ, field)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.walk(n.NamedChild(i))
	}

	if pushed {
		w.open = w.open[:len(w.open)-1]
	}
	w.className = prevClass
}

// each applies fn to every enclosing function, so decision points in a
// nested function also count toward its parents
func (w *walker) each(fn func(*model.FunctionInfo)) {
	for _, idx := range w.open {
		fn(&w.functions[idx])
	}
}

func (w *walker) function(n *sitter.Node) (model.FunctionInfo, bool) {
	name := w.functionName(n)
	if name == "" {
		return model.FunctionInfo{}, false
	}
	return model.FunctionInfo{
		Name:           name,
		ClassName:      w.className,
		StartLine:      lineOf(n.StartPoint()),
		EndLine:        lineOf(n.EndPoint()),
		ParameterCount: w.parameterCount(n),
		HasDocstring:   w.documented(n),
	}, true
}

func (w *walker) functionName(n *sitter.Node) string {
	if name := w.text(n.ChildByFieldName("name")); name != "" {
		return name
	}

	// anonymous functions take the name they are bound to
	parent := n.Parent()
	if parent == nil {
		return ""
	}
	switch parent.Type() {
	case "variable_declarator":
		return w.text(parent.ChildByFieldName("name"))
	case "pair":
		return strings.Trim(w.text(parent.ChildByFieldName("key")), `"'`)
	case "assignment_expression":
		left := w.text(parent.ChildByFieldName("left"))
		if i := strings.LastIndex(left, "."); i >= 0 {
			left = left[i+1:]
		}
		return left
	}
	return ""
}

func (w *walker) parameterCount(n *sitter.Node) int {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		if n.ChildByFieldName("parameter") != nil {
			return 1
		}
		return 0
	}

	count := 0
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "comment", "keyword_separator", "positional_separator":
			continue
		case "identifier":
			if i == 0 && w.className != "" && w.g.receivers[w.text(p)] {
				continue
			}
		}
		count++
	}
	return count
}

// documented reports whether a definition carries a docstring or a
// leading /** */ comment
func (w *walker) documented(n *sitter.Node) bool {
	if !w.g.docComment {
		body := n.ChildByFieldName("body")
		if body == nil {
			return false
		}
		for i := 0; i < int(body.NamedChildCount()); i++ {
			stmt := body.NamedChild(i)
			if stmt.Type() == "comment" {
				continue
			}
			return stmt.Type() == "expression_statement" &&
				stmt.NamedChildCount() > 0 &&
				stmt.NamedChild(0).Type() == "string"
		}
		return false
	}

	target := n
	for p := target.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "variable_declarator", "lexical_declaration", "variable_declaration",
			"export_statement", "pair", "assignment_expression", "expression_statement":
			target = p
			continue
		}
		break
	}
	prev := target.PrevNamedSibling()
	return prev != nil && prev.Type() == "comment" && strings.HasPrefix(w.text(prev), "/**")
}

func (w *walker) call(n *sitter.Node, typ, field string) {
	callee := n.ChildByFieldName(field)
	if callee == nil || callee.Type() != "identifier" {
		return
	}
	name := w.text(callee)
	if typ == "new_expression" {
		name = "new " + name
	} else if name == "require" {
		w.imports++
	}
	w.calls = append(w.calls, model.CallSite{Name: name, Line: lineOf(n.StartPoint())})
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func lineOf(p sitter.Point) int {
	return int(p.Row) + 1
}

func collectSyntaxErrors(n *sitter.Node, out *[]model.SyntaxError) {
	if len(*out) >= maxSyntaxErrors {
		return
	}
	switch {
	case n.IsError():
		*out = append(*out, model.SyntaxError{
			Line:    lineOf(n.StartPoint()),
			Column:  int(n.StartPoint().Column) + 1,
			Message: "invalid syntax",
		})
		return
	case n.IsMissing():
		*out = append(*out, model.SyntaxError{
			Line:    lineOf(n.StartPoint()),
			Column:  int(n.StartPoint().Column) + 1,
			Message: "missing " + n.Type(),
		})
		return
	case !n.HasError():
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collectSyntaxErrors(n.Child(i), out)
	}
}
