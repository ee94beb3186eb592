// Package xml provides XML parsing and XPath queries for the score
// importers, on top of xmlquery.
//
// Security Notes:
//   - XXE (External Entity) attacks are mitigated by Go's xml.Decoder,
//     which never fetches external entities, and Validate disables entity
//     expansion entirely.
//   - xmlquery parses through encoding/xml and inherits its properties.
package xml

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/JuniperScore/core/errors"
)

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node represents an XML element.
type Node struct {
	node *xmlquery.Node
}

// ValidationResult contains the result of a well-formedness check.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError represents a single validation error.
type ValidationError struct {
	Line    int
	Column  int
	Message string
}

// Parse parses XML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &errors.ParseError{Format: "xml", Message: err.Error(), Err: err}
	}
	return &Document{root: root}, nil
}

// Validate checks that data is well formed and reports the position of
// the first error.
//
// Security: entity expansion is disabled (CWE-611).
func Validate(data []byte) ValidationResult {
	result := ValidationResult{Valid: true}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = map[string]string{}

	for {
		_, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, col := decoder.InputPos()
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Line:    line,
				Column:  col,
				Message: err.Error(),
			})
			break
		}
	}

	return result
}

// Root returns the root element of the document.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// XPath executes an XPath query and returns matching nodes.
func (d *Document) XPath(expr string) ([]*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, errors.NewValidation("xpath", err.Error())
	}

	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, errors.Wrapf(err, "xpath query %q", expr)
	}

	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// XPathFirst executes an XPath query and returns the first matching node,
// or nil.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, errors.NewValidation("xpath", err.Error())
	}

	node, err := xmlquery.Query(d.root, expr)
	if err != nil {
		return nil, errors.Wrapf(err, "xpath query %q", expr)
	}
	if node == nil {
		return nil, nil
	}
	return &Node{node: node}, nil
}

// Name returns the element name.
func (n *Node) Name() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the text content of the node and its descendants, with
// surrounding space removed.
func (n *Node) Text() string {
	if n == nil || n.node == nil {
		return ""
	}
	return strings.TrimSpace(n.node.InnerText())
}

// Children returns the child element nodes.
func (n *Node) Children() []*Node {
	if n == nil || n.node == nil {
		return nil
	}

	var children []*Node
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			children = append(children, &Node{node: child})
		}
	}
	return children
}

// ChildrenNamed returns the child elements with the given name.
func (n *Node) ChildrenNamed(name string) []*Node {
	var res []*Node
	for _, c := range n.Children() {
		if c.Name() == name {
			res = append(res, c)
		}
	}
	return res
}

// Child returns the first child element with the given name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil || n.node == nil {
		return nil
	}
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == name {
			return &Node{node: child}
		}
	}
	return nil
}

// HasChild reports whether a child element with the given name exists.
func (n *Node) HasChild(name string) bool { return n.Child(name) != nil }

// ChildText returns the trimmed text of the named child, or "".
func (n *Node) ChildText(name string) string { return n.Child(name).Text() }

// ChildInt returns the named child parsed as an integer. ok is false when
// the child is missing or not a number.
func (n *Node) ChildInt(name string) (v int, ok bool) {
	v, err := strconv.Atoi(n.ChildText(name))
	return v, err == nil
}

// ChildFloat returns the named child parsed as a number.
func (n *Node) ChildFloat(name string) (v float64, ok bool) {
	v, err := strconv.ParseFloat(n.ChildText(name), 64)
	return v, err == nil
}

// Attributes returns all attributes of the node.
func (n *Node) Attributes() map[string]string {
	if n == nil || n.node == nil {
		return nil
	}

	attrs := make(map[string]string)
	for _, attr := range n.node.Attr {
		attrs[attr.Name.Local] = attr.Value
	}
	return attrs
}

// Attr returns the value of a specific attribute.
func (n *Node) Attr(name string) string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}

// AttrInt returns the attribute parsed as an integer, or def when it is
// missing or malformed.
func (n *Node) AttrInt(name string, def int) int {
	v, err := strconv.Atoi(n.Attr(name))
	if err != nil {
		return def
	}
	return v
}
