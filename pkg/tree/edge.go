package tree

import (
	"iter"
	"reflect"
	"slices"
	"strings"

	"github.com/matzehuels/treegen/pkg/cbor"
	"github.com/matzehuels/treegen/pkg/errors"
)

// Kind is the cardinality of an edge.
type Kind int

const (
	// KindPrim is a primitive leaf value, not a node edge.
	KindPrim Kind = iota
	// KindOne is exactly one owned child.
	KindOne
	// KindMaybe is zero or one owned child.
	KindMaybe
	// KindAny is zero or more owned children, ordered.
	KindAny
	// KindMany is one or more owned children, ordered. Emptiness is only
	// rejected by validation.
	KindMany
	// KindLink is zero or one non-owning reference to a node of the same tree.
	KindLink
)

var kindNames = [...]string{"prim", "one", "maybe", "any", "many", "link"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Marker returns the cardinality marker written to the wire as "@T".
// Primitive fields carry no marker.
func (k Kind) Marker() string {
	switch k {
	case KindOne:
		return "1"
	case KindMaybe:
		return "?"
	case KindAny:
		return "*"
	case KindMany:
		return "+"
	case KindLink:
		return "$"
	}
	return ""
}

// Owning reports whether edges of this kind own their targets.
func (k Kind) Owning() bool {
	return k == KindOne || k == KindMaybe || k == KindAny || k == KindMany
}

// ParseKind returns the Kind named by s, as printed by [Kind.String].
func ParseKind(s string) (Kind, bool) {
	i := slices.Index(kindNames[:], strings.ToLower(s))
	if i < 0 {
		return 0, false
	}
	return Kind(i), true
}

// Edge is a declared field of a node. The set of implementations is closed:
// [One], [Maybe], [Link] (see [SingleEdge]), [Any], [Many] (see [ListEdge]),
// and [Prim] (see [PrimEdge]).
type Edge interface {
	Kind() Kind
	sealed()
}

// SingleEdge is the runtime-typed view of [One], [Maybe], and [Link].
type SingleEdge interface {
	Edge

	// Node returns the target, or nil if the edge is unset.
	Node() Node
	// SetNode assigns n, failing with a TYPE_ERROR if n is not of the edge's
	// static type or not in its allowed set. A nil n clears the edge.
	SetNode(n Node) error
	IsSet() bool
	Clear()
	// Allowed returns the discriminators the edge is narrowed to, or nil.
	Allowed() []string

	put(n Node)
}

// ListEdge is the runtime-typed view of [Any] and [Many].
type ListEdge interface {
	Edge

	Len() int
	NodeAt(i int) Node
	Nodes() []Node
	// AppendNode appends n, failing with a TYPE_ERROR if n is nil, not of
	// the element type, or not in the allowed set.
	AppendNode(n Node) error
	Clear()
	Allowed() []string

	putAll(ns []Node)
}

// PrimEdge is the runtime-typed view of [Prim].
type PrimEdge interface {
	Edge

	Value() any
	// SetValue assigns a decoded primitive, failing with a TYPE_ERROR if it
	// cannot be represented by the field's type.
	SetValue(v any) error
}

// =============================================================================
// Single-valued edges
// =============================================================================

type single[T Node] struct {
	v     T
	allow []string
}

// Get returns the target, or the zero T if unset.
func (e *single[T]) Get() T { return e.v }

// Set assigns v. The element type is checked at compile time. Set panics
// with a TYPE_ERROR if v is outside the allowed set; use [SingleEdge.SetNode]
// to get the error instead.
func (e *single[T]) Set(v T) {
	mustAllow(v, e.allow)
	e.v = v
}

// Clear unsets the edge.
func (e *single[T]) Clear() {
	var zero T
	e.v = zero
}

// IsSet reports whether the edge has a target.
func (e *single[T]) IsSet() bool { return !isNil(e.v) }

// Node returns the target as a [Node], or nil.
func (e *single[T]) Node() Node {
	if !e.IsSet() {
		return nil
	}
	return e.v
}

// SetNode assigns n after checking its runtime type.
func (e *single[T]) SetNode(n Node) error {
	if isNil(n) {
		e.Clear()
		return nil
	}
	v, err := assignable[T](n, e.allow)
	if err != nil {
		return err
	}
	e.v = v
	return nil
}

// Allow narrows the edge to targets whose discriminator is one of types.
// Calling it with no arguments removes the restriction.
func (e *single[T]) Allow(types ...string) { e.allow = slices.Clone(types) }

// Allowed returns the discriminators the edge is narrowed to, or nil.
func (e *single[T]) Allowed() []string { return slices.Clone(e.allow) }

func (e *single[T]) put(n Node) {
	v, _ := n.(T)
	e.v = v
}

// One is an owning edge to exactly one child of type T.
type One[T Node] struct{ single[T] }

// Maybe is an owning edge to zero or one child of type T.
type Maybe[T Node] struct{ single[T] }

// Link is a non-owning reference to a node of type T elsewhere in the same
// tree. Links may point anywhere in the tree, cycles included.
type Link[T Node] struct{ single[T] }

func (*One[T]) Kind() Kind   { return KindOne }
func (*Maybe[T]) Kind() Kind { return KindMaybe }
func (*Link[T]) Kind() Kind  { return KindLink }

func (*One[T]) sealed()   {}
func (*Maybe[T]) sealed() {}
func (*Link[T]) sealed()  {}

// =============================================================================
// List edges
// =============================================================================

type list[T Node] struct {
	items []T
	allow []string
}

// Len returns the number of elements.
func (e *list[T]) Len() int { return len(e.items) }

// At returns the element at index i. It panics if i is out of range.
func (e *list[T]) At(i int) T { return e.items[i] }

// SetAt replaces the element at index i. It panics if i is out of range or
// v is outside the allowed set.
func (e *list[T]) SetAt(i int, v T) {
	mustAllow(v, e.allow)
	e.items[i] = v
}

// Append appends vs in order. It panics with a TYPE_ERROR, leaving the list
// unchanged, if any of vs is outside the allowed set.
func (e *list[T]) Append(vs ...T) {
	for _, v := range vs {
		mustAllow(v, e.allow)
	}
	e.items = append(e.items, vs...)
}

// Insert inserts v at index i, shifting later elements up. It panics if v
// is outside the allowed set.
func (e *list[T]) Insert(i int, v T) {
	mustAllow(v, e.allow)
	e.items = slices.Insert(e.items, i, v)
}

// Remove deletes and returns the element at index i.
func (e *list[T]) Remove(i int) T {
	v := e.items[i]
	e.items = slices.Delete(e.items, i, i+1)
	return v
}

// Clear removes all elements.
func (e *list[T]) Clear() { e.items = nil }

// All iterates over the elements in order.
func (e *list[T]) All() iter.Seq2[int, T] { return slices.All(e.items) }

// Slice returns a copy of the elements.
func (e *list[T]) Slice() []T { return slices.Clone(e.items) }

// NodeAt returns the element at index i as a [Node], or nil if it is unset.
func (e *list[T]) NodeAt(i int) Node {
	if isNil(e.items[i]) {
		return nil
	}
	return e.items[i]
}

// Nodes returns the elements as Nodes. Unset elements are nil.
func (e *list[T]) Nodes() []Node {
	out := make([]Node, len(e.items))
	for i := range e.items {
		out[i] = e.NodeAt(i)
	}
	return out
}

// AppendNode appends n after checking its runtime type.
func (e *list[T]) AppendNode(n Node) error {
	if isNil(n) {
		return errors.New(errors.ErrCodeType, "cannot append a nil node to a list of %s", typeName[T]())
	}
	v, err := assignable[T](n, e.allow)
	if err != nil {
		return err
	}
	e.items = append(e.items, v)
	return nil
}

// Allow narrows the list to elements whose discriminator is one of types.
func (e *list[T]) Allow(types ...string) { e.allow = slices.Clone(types) }

// Allowed returns the discriminators the list is narrowed to, or nil.
func (e *list[T]) Allowed() []string { return slices.Clone(e.allow) }

func (e *list[T]) putAll(ns []Node) {
	e.items = make([]T, len(ns))
	for i, n := range ns {
		e.items[i], _ = n.(T)
	}
}

// Any is an ordered owning edge to zero or more children of type T.
type Any[T Node] struct{ list[T] }

// Many is an ordered owning edge to one or more children of type T. It may
// be empty while a tree is being built; [CheckWellFormed] rejects it then.
type Many[T Node] struct{ list[T] }

func (*Any[T]) Kind() Kind  { return KindAny }
func (*Many[T]) Kind() Kind { return KindMany }

func (*Any[T]) sealed()  {}
func (*Many[T]) sealed() {}

// =============================================================================
// Primitive fields
// =============================================================================

// Prim is a primitive leaf field. T is typically string, int64, float64,
// bool, or []byte; other types must implement [cbor.Marshaler] and have a
// pointer that implements [cbor.Unmarshaler].
type Prim[T any] struct{ v T }

// Get returns the value.
func (p *Prim[T]) Get() T { return p.v }

// Set assigns v.
func (p *Prim[T]) Set(v T) { p.v = v }

// Value returns the value as an any.
func (p *Prim[T]) Value() any { return p.v }

// SetValue assigns v if it is a T, or restores it through
// [cbor.Unmarshaler].
func (p *Prim[T]) SetValue(v any) error {
	if t, ok := v.(T); ok {
		p.v = t
		return nil
	}
	if u, ok := any(&p.v).(cbor.Unmarshaler); ok {
		if err := u.UnmarshalCBORValue(v); err != nil {
			return errors.Wrap(errors.ErrCodeType, err, "restore %s", typeName[T]())
		}
		return nil
	}
	return errors.New(errors.ErrCodeType, "cannot assign %T to a %s field", v, typeName[T]())
}

func (*Prim[T]) Kind() Kind { return KindPrim }
func (*Prim[T]) sealed()    {}

// =============================================================================
// Helpers
// =============================================================================

func assignable[T Node](n Node, allow []string) (T, error) {
	v, ok := n.(T)
	if !ok {
		var zero T
		return zero, errors.New(errors.ErrCodeType, "%s node is not assignable to %s", n.Type(), typeName[T]())
	}
	if err := checkAllowed(n, allow); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// mustAllow panics if v is set and outside allow. Typed setters have no
// error result, so this is their TYPE_ERROR.
func mustAllow[T Node](v T, allow []string) {
	if len(allow) == 0 || isNil(v) {
		return
	}
	if err := checkAllowed(v, allow); err != nil {
		panic(err)
	}
}

func checkAllowed(n Node, allow []string) error {
	if len(allow) == 0 || slices.Contains(allow, n.Type()) {
		return nil
	}
	return errors.New(errors.ErrCodeType, "%s node is not one of %s", n.Type(), strings.Join(allow, ", "))
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

// isNil reports whether v is nil or a typed nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
