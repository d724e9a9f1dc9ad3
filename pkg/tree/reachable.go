package tree

import (
	"iter"

	"github.com/matzehuels/treegen/pkg/errors"
)

// MaxDepth bounds the depth of trees accepted by numbering, validation,
// serialization, and deserialization, so that hostile or runaway input
// fails with an error instead of exhausting the goroutine stack.
const MaxDepth = 10000

// Numbering assigns sequence ids to the nodes of a tree in depth-first
// owning-edge order, the root being 0. It doubles as an arena view of the
// tree: ids index a slice of nodes for the lifetime of one serialization.
//
// A Numbering is a snapshot; it is not updated when the tree is mutated.
type Numbering struct {
	ids   map[Node]int
	nodes []Node
}

// Number numbers the tree rooted at root. Reaching a node a second time
// through an owning edge means the node is shared or part of a cycle, and
// fails with a NOT_WELL_FORMED error before anything else is inspected.
// Link edges are not followed.
func Number(root Node) (*Numbering, error) {
	if isNil(root) {
		return nil, errors.New(errors.ErrCodeNotWellFormed, "root node is nil")
	}
	num := &Numbering{ids: make(map[Node]int)}
	if err := num.visit(root, 0, true); err != nil {
		return nil, err
	}
	return num, nil
}

// numberLenient numbers a possibly ill-formed tree, keeping the first id of
// shared nodes and stopping at MaxDepth. It is used by Equal, Dump, and the
// renderers, which must cope with trees that have not been validated.
func numberLenient(root Node) *Numbering {
	num := &Numbering{ids: make(map[Node]int)}
	if !isNil(root) {
		_ = num.visit(root, 0, false)
	}
	return num
}

func (num *Numbering) visit(n Node, depth int, strict bool) error {
	if depth > MaxDepth {
		return errors.New(errors.ErrCodeNotWellFormed, "tree is deeper than %d levels", MaxDepth)
	}
	if _, seen := num.ids[n]; seen {
		if !strict {
			return nil
		}
		return errors.New(errors.ErrCodeNotWellFormed,
			"%s node is reachable through more than one owning edge (shared or cyclic)", n.Type())
	}
	num.ids[n] = len(num.nodes)
	num.nodes = append(num.nodes, n)
	for c := range Children(n) {
		if err := num.visit(c, depth+1, strict); err != nil {
			return err
		}
	}
	return nil
}

// ID returns the sequence id of n.
func (num *Numbering) ID(n Node) (int, bool) {
	if isNil(n) {
		return 0, false
	}
	id, ok := num.ids[n]
	return id, ok
}

// Node returns the node with sequence id id, or nil.
func (num *Numbering) Node(id int) Node {
	if id < 0 || id >= len(num.nodes) {
		return nil
	}
	return num.nodes[id]
}

// Len returns the number of numbered nodes.
func (num *Numbering) Len() int { return len(num.nodes) }

// All iterates over the nodes in sequence-id order.
func (num *Numbering) All() iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		for i, n := range num.nodes {
			if !yield(i, n) {
				return
			}
		}
	}
}

// Children iterates over the owned children of n in declaration order,
// list elements in list order. Unset edges and nil elements are skipped.
func Children(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, f := range n.Fields() {
			if !f.Edge.Kind().Owning() {
				continue
			}
			switch e := f.Edge.(type) {
			case SingleEdge:
				if c := e.Node(); c != nil && !yield(c) {
					return
				}
			case ListEdge:
				for i := range e.Len() {
					if c := e.NodeAt(i); c != nil && !yield(c) {
						return
					}
				}
			}
		}
	}
}

// Walk calls fn for every node reachable from root through owning edges,
// in sequence-id order, with the node's depth below root. Shared nodes are
// visited once. If fn returns false, Walk skips the node's children.
func Walk(root Node, fn func(n Node, depth int) bool) {
	seen := make(map[Node]bool)
	var walk func(Node, int)
	walk = func(n Node, depth int) {
		if seen[n] || depth > MaxDepth {
			return
		}
		seen[n] = true
		if !fn(n, depth) {
			return
		}
		for c := range Children(n) {
			walk(c, depth+1)
		}
	}
	if !isNil(root) {
		walk(root, 0)
	}
}
