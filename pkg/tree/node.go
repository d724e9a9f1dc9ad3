package tree

import (
	"iter"
	"maps"
	"slices"
)

// Node is a typed vertex of a tree.
//
// Implementations must be pointer types that embed [Base]. Fields must
// return the same edges, in the same order, on every call: the order is
// the traversal order used for sequence ids and therefore part of the wire
// format.
type Node interface {
	// Type returns the variant discriminator written to the wire as "@t".
	Type() string

	// Fields returns the node's declared edges and primitive fields.
	// Each Edge points into the node, so mutating it mutates the node.
	Fields() []Field

	// Annotations returns the node's annotation storage (never nil).
	Annotations() *Annotations

	// New returns an empty instance of the same variant. It is the factory
	// used by [Registry], [Copy], and [Clone].
	New() Node
}

// Field is a named edge or primitive field of a node.
type Field struct {
	Name string
	Edge Edge
}

// Base carries the state shared by every node. Embed it in concrete node
// types to satisfy the Annotations method of [Node].
type Base struct {
	annots Annotations
}

// Annotations returns the node's annotation storage.
func (b *Base) Annotations() *Annotations { return &b.annots }

// Annotations is string-keyed metadata attached to a node. Annotation values
// must be encodable by the cbor package. Annotations never take part in
// [Equal] but are serialized and restored.
//
// The zero value is an empty set of annotations ready to use.
type Annotations struct {
	m map[string]any
}

// Get returns the annotation stored under key.
func (a *Annotations) Get(key string) (any, bool) {
	v, ok := a.m[key]
	return v, ok
}

// Set stores v under key, replacing any previous value.
func (a *Annotations) Set(key string, v any) {
	if a.m == nil {
		a.m = make(map[string]any)
	}
	a.m[key] = v
}

// Has reports whether an annotation is stored under key.
func (a *Annotations) Has(key string) bool {
	_, ok := a.m[key]
	return ok
}

// Delete removes the annotation stored under key, if any.
func (a *Annotations) Delete(key string) { delete(a.m, key) }

// Len returns the number of annotations.
func (a *Annotations) Len() int { return len(a.m) }

// Keys returns the annotation keys in sorted order.
func (a *Annotations) Keys() []string { return slices.Sorted(maps.Keys(a.m)) }

// All iterates over the annotations in key order.
func (a *Annotations) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range a.Keys() {
			if !yield(k, a.m[k]) {
				return
			}
		}
	}
}

// copyFrom replaces a's contents with a copy of src's map. Values are
// shared.
func (a *Annotations) copyFrom(src *Annotations) {
	if len(src.m) == 0 {
		a.m = nil
		return
	}
	a.m = maps.Clone(src.m)
}

// FieldByName returns the field of n with the given name.
func FieldByName(n Node, name string) (Field, bool) {
	for _, f := range n.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
