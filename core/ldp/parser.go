package ldp

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/JuniperScore/core/errors"
)

// Element is a parsed LDP element: a named list of values and nested
// elements. Leaf values are stored as elements without a name.
type Element struct {
	Name   string
	Value  string
	Quoted bool
	Line   int
	Items  []*Element
}

// IsLeaf reports whether e is a value rather than a list.
func (e *Element) IsLeaf() bool { return e.Name == "" }

// Child returns the first nested element with the given name, or nil.
func (e *Element) Child(name string) *Element {
	for _, it := range e.Items {
		if it.Name == name {
			return it
		}
	}
	return nil
}

// Values returns the leaf values of e in order.
func (e *Element) Values() []string {
	var res []string
	for _, it := range e.Items {
		if it.IsLeaf() {
			res = append(res, it.Value)
		}
	}
	return res
}

// String returns the first quoted value of e, or "".
func (e *Element) String() string {
	for _, it := range e.Items {
		if it.IsLeaf() && it.Quoted {
			return it.Value
		}
	}
	return ""
}

// sexprGrammar is the participle grammar for LDP lists.
// Examples: "(n c4 q)", "(title center \"Sonata\")", "(score (vers 2.0))"
//
//nolint:govet // participle grammar tags are not standard struct tags
type sexprGrammar struct {
	Pos   lexer.Position
	Name  string         `"(" @Atom`
	Items []*itemGrammar `@@* ")"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type itemGrammar struct {
	Pos  lexer.Position
	List *sexprGrammar `  @@`
	Str  *string       `| @String`
	Atom *string       `| @Atom`
}

var sexprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Paren", Pattern: `[()]`},
	{Name: "Atom", Pattern: `[^\s()"]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var sexprParser = participle.MustBuild[sexprGrammar](
	participle.Lexer(sexprLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
)

// Parse parses LDP source text into an element tree. name is used in error
// messages only.
func Parse(name, src string) (*Element, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errors.NewParse("ldp", name, "empty source")
	}
	g, err := sexprParser.ParseString(name, src)
	if err != nil {
		pe := &errors.ParseError{Format: "ldp", Path: name, Message: err.Error(), Err: err}
		var perr participle.Error
		if errors.As(err, &perr) {
			pe.Line = perr.Position().Line
			pe.Message = perr.Message()
		}
		return nil, pe
	}
	return g.element(), nil
}

func (g *sexprGrammar) element() *Element {
	e := &Element{Name: g.Name, Line: g.Pos.Line}
	for _, it := range g.Items {
		switch {
		case it.List != nil:
			e.Items = append(e.Items, it.List.element())
		case it.Str != nil:
			e.Items = append(e.Items, &Element{Value: *it.Str, Quoted: true, Line: it.Pos.Line})
		case it.Atom != nil:
			e.Items = append(e.Items, &Element{Value: *it.Atom, Line: it.Pos.Line})
		}
	}
	return e
}
