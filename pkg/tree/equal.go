package tree

import (
	"bytes"
	"math"
	"reflect"
)

// Equal reports whether the trees rooted at a and b are structurally equal:
// same variants, same primitive values, and equal children, field by field.
// Annotations are ignored.
//
// Links are compared by position instead of by content, since they may form
// cycles. Two links are equal if both are unset, if their targets have the
// same sequence id in their respective trees, or, for targets outside the
// trees, if they are the same node.
//
// Equal accepts trees that are not well-formed; a node shared within one
// tree is compared at each place it occurs.
func Equal(a, b Node) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	c := &comparer{left: numberLenient(a), right: numberLenient(b)}
	return c.equal(a, b, 0)
}

type comparer struct {
	left, right *Numbering
}

func (c *comparer) equal(a, b Node, depth int) bool {
	if depth > MaxDepth || a.Type() != b.Type() {
		return false
	}
	fa, fb := a.Fields(), b.Fields()
	if len(fa) != len(fb) {
		return false
	}
	for i := range fa {
		if fa[i].Name != fb[i].Name || fa[i].Edge.Kind() != fb[i].Edge.Kind() {
			return false
		}
		if !c.edgeEqual(fa[i].Edge, fb[i].Edge, depth) {
			return false
		}
	}
	return true
}

func (c *comparer) edgeEqual(ea, eb Edge, depth int) bool {
	switch x := ea.(type) {
	case PrimEdge:
		y, ok := eb.(PrimEdge)
		return ok && valueEqual(x.Value(), y.Value())

	case SingleEdge:
		y, ok := eb.(SingleEdge)
		if !ok {
			return false
		}
		if x.Kind() == KindLink {
			return c.linkEqual(x.Node(), y.Node())
		}
		return c.childEqual(x.Node(), y.Node(), depth)

	case ListEdge:
		y, ok := eb.(ListEdge)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i := range x.Len() {
			if !c.childEqual(x.NodeAt(i), y.NodeAt(i), depth) {
				return false
			}
		}
		return true
	}
	return false
}

func (c *comparer) childEqual(a, b Node, depth int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return c.equal(a, b, depth+1)
}

func (c *comparer) linkEqual(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ia, inA := c.left.ID(a)
	ib, inB := c.right.ID(b)
	switch {
	case inA && inB:
		return ia == ib
	case !inA && !inB:
		return a == b
	}
	return false
}

// valueEqual compares primitive field values. Byte strings compare by
// content, so that a nil and an empty byte string are equal. NaN equals NaN,
// so a tree holding one equals its own round trip.
func valueEqual(a, b any) bool {
	switch x := a.(type) {
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case float64:
		y, ok := b.(float64)
		return ok && (x == y || math.IsNaN(x) && math.IsNaN(y))
	}
	return reflect.DeepEqual(a, b)
}
