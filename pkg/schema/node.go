package schema

import (
	"github.com/matzehuels/treegen/pkg/errors"
	"github.com/matzehuels/treegen/pkg/tree"
)

// Node is a node of a run-time schema. Its fields are the edges declared by
// its [NodeType], in declaration order:
//
//	prim string  *tree.Prim[string]
//	prim int     *tree.Prim[int64]
//	prim float   *tree.Prim[float64]
//	prim bool    *tree.Prim[bool]
//	prim bytes   *tree.Prim[[]byte]
//	one          *tree.One[tree.Node]
//	maybe        *tree.Maybe[tree.Node]
//	any          *tree.Any[tree.Node]
//	many         *tree.Many[tree.Node]
//	link         *tree.Link[tree.Node]
//
// Every edge is narrowed to the variants of the field's type.
type Node struct {
	tree.Base
	typ    *NodeType
	fields []tree.Field
}

func (nt *NodeType) new() tree.Node {
	n := &Node{typ: nt, fields: make([]tree.Field, len(nt.Fields))}
	for i, ft := range nt.Fields {
		n.fields[i] = tree.Field{Name: ft.Name, Edge: ft.newEdge()}
	}
	return n
}

func (ft FieldType) newEdge() tree.Edge {
	switch ft.Kind {
	case tree.KindPrim:
		switch ft.Type {
		case PrimInt:
			return &tree.Prim[int64]{}
		case PrimFloat:
			return &tree.Prim[float64]{}
		case PrimBool:
			return &tree.Prim[bool]{}
		case PrimBytes:
			return &tree.Prim[[]byte]{}
		}
		return &tree.Prim[string]{}
	case tree.KindOne:
		e := &tree.One[tree.Node]{}
		e.Allow(ft.Variants...)
		return e
	case tree.KindMaybe:
		e := &tree.Maybe[tree.Node]{}
		e.Allow(ft.Variants...)
		return e
	case tree.KindAny:
		e := &tree.Any[tree.Node]{}
		e.Allow(ft.Variants...)
		return e
	case tree.KindMany:
		e := &tree.Many[tree.Node]{}
		e.Allow(ft.Variants...)
		return e
	default:
		e := &tree.Link[tree.Node]{}
		e.Allow(ft.Variants...)
		return e
	}
}

func (n *Node) Type() string         { return n.typ.Name }
func (n *Node) Fields() []tree.Field { return n.fields }
func (n *Node) New() tree.Node       { return n.typ.new() }

// NodeType returns the description n was built from.
func (n *Node) NodeType() *NodeType { return n.typ }

// Field returns the edge of the field called name.
func (n *Node) Field(name string) (tree.Edge, bool) {
	for _, f := range n.fields {
		if f.Name == name {
			return f.Edge, true
		}
	}
	return nil, false
}

// Prim returns the value of the primitive field called name, or nil if n
// has no such primitive field.
func (n *Node) Prim(name string) any {
	if e, ok := n.Field(name); ok {
		if p, ok := e.(tree.PrimEdge); ok {
			return p.Value()
		}
	}
	return nil
}

// SetPrim assigns v to the primitive field called name. v must have the
// field's Go type.
func (n *Node) SetPrim(name string, v any) error {
	e, ok := n.Field(name)
	if !ok {
		return fieldError(n, name)
	}
	p, ok := e.(tree.PrimEdge)
	if !ok {
		return fieldError(n, name)
	}
	return p.SetValue(v)
}

// Child returns the target of the single edge called name, or nil.
func (n *Node) Child(name string) tree.Node {
	if e, ok := n.Field(name); ok {
		if s, ok := e.(tree.SingleEdge); ok {
			return s.Node()
		}
	}
	return nil
}

// SetChild assigns c to the One, Maybe, or Link field called name.
func (n *Node) SetChild(name string, c tree.Node) error {
	e, ok := n.Field(name)
	if !ok {
		return fieldError(n, name)
	}
	s, ok := e.(tree.SingleEdge)
	if !ok {
		return fieldError(n, name)
	}
	return s.SetNode(c)
}

// Children returns the elements of the list edge called name.
func (n *Node) Children(name string) []tree.Node {
	if e, ok := n.Field(name); ok {
		if l, ok := e.(tree.ListEdge); ok {
			return l.Nodes()
		}
	}
	return nil
}

// Append adds cs to the Any or Many field called name.
func (n *Node) Append(name string, cs ...tree.Node) error {
	e, ok := n.Field(name)
	if !ok {
		return fieldError(n, name)
	}
	l, ok := e.(tree.ListEdge)
	if !ok {
		return fieldError(n, name)
	}
	for _, c := range cs {
		if err := l.AppendNode(c); err != nil {
			return err
		}
	}
	return nil
}

func fieldError(n *Node, name string) error {
	if _, ok := n.Field(name); ok {
		return errors.New(errors.ErrCodeType, "%s.%s has the wrong kind for this operation", n.Type(), name)
	}
	return errors.New(errors.ErrCodeInvalidInput, "%s has no field %q", n.Type(), name)
}
