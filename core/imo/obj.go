package imo

import (
	"fmt"
	"sync/atomic"
)

// ID identifies a node for its whole lifetime.
type ID int64

// NoID is the id of nodes whose id has been explicitly cleared.
const NoID ID = -1

var lastID atomic.Int64

func nextID() ID {
	return ID(lastID.Add(1))
}

// Obj is a node of the internal model tree. A node exclusively owns its
// children; relation membership is never expressed through children.
type Obj interface {
	ID() ID
	SetID(id ID)
	Kind() Kind
	TypeName() string
	Parent() Obj
	NumChildren() int
	Child(i int) Obj
	Children() []Obj
	ChildOfType(k Kind) Obj
	AppendChild(c Obj)
	RemoveChild(c Obj)
	IsDeleted() bool
	AcceptIn(v any)
	AcceptOut(v any)
	base() *node
}

// node holds the state common to every kind. self points at the outer
// value so that promoted methods can hand out the concrete Obj.
type node struct {
	self     Obj
	id       ID
	kind     Kind
	parent   Obj
	children []Obj
	deleted  bool
}

func (n *node) init(self Obj, k Kind) {
	n.self = self
	n.kind = k
	n.id = nextID()
}

func (n *node) base() *node { return n }

// ID returns the node id.
func (n *node) ID() ID { return n.id }

// SetID overrides the id assigned at construction.
func (n *node) SetID(id ID) { n.id = id }

// Kind returns the node kind.
func (n *node) Kind() Kind { return n.kind }

// TypeName returns the tag name of the node kind.
func (n *node) TypeName() string { return n.kind.String() }

// Parent returns the owning node or nil.
func (n *node) Parent() Obj { return n.parent }

// IsDeleted reports whether the node has been torn down.
func (n *node) IsDeleted() bool { return n.deleted }

// NumChildren returns the number of owned children.
func (n *node) NumChildren() int { return len(n.children) }

// Child returns the i-th child or nil when i is out of range.
func (n *node) Child(i int) Obj {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns a copy of the children list.
func (n *node) Children() []Obj {
	res := make([]Obj, len(n.children))
	copy(res, n.children)
	return res
}

// ChildOfType returns the first child of kind k, or nil.
func (n *node) ChildOfType(k Kind) Obj {
	for _, c := range n.children {
		if c.Kind() == k {
			return c
		}
	}
	return nil
}

// AppendChild makes c the last child of n. A child already owned by
// another node is moved.
func (n *node) AppendChild(c Obj) {
	if c == nil {
		return
	}
	cb := c.base()
	if cb == n {
		invariant("node %s #%d appended to itself", n.kind, n.id)
	}
	if cb.parent != nil {
		cb.parent.RemoveChild(c)
	}
	cb.parent = n.self
	n.children = append(n.children, c)
}

// RemoveChild detaches c from n without deleting it. No-op when c is not
// a child of n.
func (n *node) RemoveChild(c Obj) {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.base().parent = nil
			return
		}
	}
}

// AcceptIn routes the start of a visit to v. See Visitor and KindVisitor.
func (n *node) AcceptIn(v any) {
	if kv, ok := v.(KindVisitor); ok {
		if kv.VisitsKind(n.kind) {
			kv.StartVisit(n.self)
		}
		return
	}
	if vv, ok := v.(Visitor); ok {
		vv.StartVisit(n.self)
	}
}

// AcceptOut routes the end of a visit to v.
func (n *node) AcceptOut(v any) {
	if kv, ok := v.(KindVisitor); ok {
		if kv.VisitsKind(n.kind) {
			kv.EndVisit(n.self)
		}
		return
	}
	if vv, ok := v.(Visitor); ok {
		vv.EndVisit(n.self)
	}
}

// preDeleter is implemented by kinds that must release non-tree state
// before their children are deleted.
type preDeleter interface {
	beforeDelete()
}

// Delete tears o down: kinds with cross-tree state release it first
// (a staff object leaves every relation it belongs to), then children are
// deleted depth first and o is detached from its parent.
func Delete(o Obj) {
	if o == nil {
		return
	}
	n := o.base()
	if n.deleted {
		invariant("%s #%d deleted twice", n.kind, n.id)
	}
	if pd, ok := o.(preDeleter); ok {
		pd.beforeDelete()
	}
	for len(n.children) > 0 {
		Delete(n.children[len(n.children)-1])
	}
	if n.parent != nil {
		n.parent.RemoveChild(o)
	}
	n.deleted = true
}

// Visitor receives every node of a traversal.
type Visitor interface {
	StartVisit(o Obj)
	EndVisit(o Obj)
}

// KindVisitor is a Visitor that only wants the kinds it reports. Nodes of
// other kinds are skipped silently.
type KindVisitor interface {
	Visitor
	VisitsKind(k Kind) bool
}

// Walk visits root and its tree children depth first, calling AcceptIn
// before and AcceptOut after the children of each node. Values of v that
// implement neither Visitor nor KindVisitor make Walk a no-op.
func Walk(root Obj, v any) {
	if root == nil {
		return
	}
	root.AcceptIn(v)
	for _, c := range root.Children() {
		Walk(c, v)
	}
	root.AcceptOut(v)
}

func invariant(format string, args ...any) {
	panic(fmt.Sprintf("imo: invariant violation: "+format, args...))
}
