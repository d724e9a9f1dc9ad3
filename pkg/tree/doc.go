// Package tree provides the node model and serialization protocol shared by
// every generated tree schema.
//
// # Overview
//
// A schema is a set of node variants. Each variant is a Go struct that
// embeds [Base] and declares its fields with the edge types of this package:
//
//	type Goto struct {
//	    tree.Base
//	    Target tree.Link[*Label]
//	    Cond   tree.Maybe[Expr]
//	}
//
//	func (*Goto) Type() string    { return "Goto" }
//	func (*Goto) New() tree.Node  { return &Goto{} }
//	func (g *Goto) Fields() []tree.Field {
//	    return []tree.Field{{Name: "target", Edge: &g.Target}, {Name: "cond", Edge: &g.Cond}}
//	}
//
// Abstract categories such as Expr are sealed interfaces; the element type
// of an edge is enforced by the compiler. Schemas built at run time (see
// package schema) use [Node] as element type and narrow edges with Allow.
//
// # Edges
//
//	Kind       Type       Cardinality                    Marker
//	One        One[T]     exactly one, owning            "1"
//	Maybe      Maybe[T]   zero or one, owning            "?"
//	Any        Any[T]     zero or more, owning, ordered  "*"
//	Many       Many[T]    one or more, owning, ordered   "+"
//	Link       Link[T]    zero or one, non-owning        "$"
//	Prim       Prim[T]    primitive leaf value           -
//
// The nodes reachable from a root through owning edges form a tree: each
// must be reachable through exactly one owning path. Links may point at any
// node of the tree, cycles included.
//
// # Serialization
//
// [Serialize] numbers the tree depth-first (see [Number]), checks it with
// [CheckWellFormed], and encodes one map per node:
//
//	{"@i": 3, "@t": "Goto",
//	 "target": {"@T": "$", "@l": 7},
//	 "cond":   {"@T": "?", "@t": null},
//	 "{line}": 12}
//
// Single children are written inline with their marker merged into the
// child's map; list fields hold their children under "@d"; primitive fields
// are {"x": value}; annotations use brace-wrapped keys. The codec sorts map
// keys, so equal trees always serialize to equal bytes.
//
// [Deserialize] reverses this through a [Registry], deferring links until
// every node has been built so that links may refer forward.
//
// # Identity
//
// Node identity is pointer identity. Sequence ids exist only on the wire
// and are recomputed by every serialization; deserialization always
// produces fresh nodes.
//
// # Concurrency
//
// A tree is not safe for concurrent mutation. Distinct trees may be
// serialized and deserialized concurrently; a [Registry] is read-only after
// initialization.
package tree
