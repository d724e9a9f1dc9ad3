package tree

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/treegen/pkg/cbor"
	"github.com/matzehuels/treegen/pkg/errors"
	"github.com/matzehuels/treegen/pkg/observability"
)

// Deserialize decodes data into a fresh tree, dispatching every node map on
// its "@t" discriminator through reg. Link fields are resolved after the
// whole tree has been built, so links may refer forward. Any failure aborts
// the whole call without returning a partial tree:
//   - malformed bytes or node maps fail with DECODE_ERROR
//   - an unregistered discriminator fails with UNKNOWN_NODE_TYPE
//   - a node or value of the wrong type for its field fails with TYPE_ERROR
//   - a link to a sequence id that no node declared fails with LINK_RESOLUTION
//
// Map entries that are neither declared fields, wire keys, nor annotations
// are ignored. The result is not validated; use [CheckWellFormed].
func Deserialize(reg *Registry, data []byte) (Node, error) {
	start := time.Now()
	root, nodes, err := deserialize(reg, data)
	rootType := ""
	if root != nil {
		rootType = root.Type()
	}
	observability.Tree().OnDeserialize(rootType, len(data), nodes, time.Since(start), err)
	return root, err
}

// DeserializeAs is like [Deserialize] but also requires the root to be a T.
func DeserializeAs[T Node](reg *Registry, data []byte) (T, error) {
	var zero T
	n, err := Deserialize(reg, data)
	if err != nil {
		return zero, err
	}
	root, ok := n.(T)
	if !ok {
		return zero, errors.New(errors.ErrCodeType, "root node %s is not a %s", n.Type(), typeName[T]())
	}
	return root, nil
}

// Decode builds a tree from its primitive-domain form, as produced by
// [Encode] or [cbor.Decode].
func Decode(reg *Registry, v any) (Node, error) {
	root, _, err := decodeTree(reg, v)
	return root, err
}

func deserialize(reg *Registry, data []byte) (Node, int, error) {
	dec := cbor.Decoder{MaxDepth: wireDepth}
	v, err := dec.Decode(data)
	if err != nil {
		return nil, 0, err
	}
	return decodeTree(reg, v)
}

func decodeTree(reg *Registry, v any) (Node, int, error) {
	if reg == nil {
		return nil, 0, errors.New(errors.ErrCodeInvalidInput, "registry is nil")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, 0, errors.New(errors.ErrCodeDecode, "expected a node map at the root, got %s", describe(v))
	}

	d := &decoder{reg: reg, bySeq: make(map[int64]Node)}
	root, err := d.node(m, 0)
	if err != nil {
		return nil, 0, err
	}
	if err := d.resolve(); err != nil {
		return nil, 0, err
	}
	return root, d.count, nil
}

// pendingLink is a link field whose target is looked up once every node
// has been built.
type pendingLink struct {
	owner string
	field string
	edge  SingleEdge
	seq   int64
}

type decoder struct {
	reg   *Registry
	bySeq map[int64]Node
	links []pendingLink
	count int
}

func (d *decoder) node(m map[string]any, depth int) (Node, error) {
	if depth > MaxDepth {
		return nil, errors.New(errors.ErrCodeDecode, "tree is deeper than %d levels", MaxDepth)
	}
	typ, ok := m[KeyType].(string)
	if !ok {
		return nil, errors.New(errors.ErrCodeDecode, "node map has no %q discriminator", KeyType)
	}
	n, err := d.reg.New(typ)
	if err != nil {
		return nil, err
	}
	d.count++

	if raw, ok := m[KeySeq]; ok && raw != nil {
		seq, ok := raw.(int64)
		if !ok {
			return nil, errors.New(errors.ErrCodeDecode, "%s: expected an integer sequence id, got %s", typ, describe(raw))
		}
		if _, dup := d.bySeq[seq]; dup {
			return nil, errors.New(errors.ErrCodeDecode, "%s: sequence id %d is used by more than one node", typ, seq)
		}
		d.bySeq[seq] = n
	}

	for _, f := range n.Fields() {
		raw, ok := m[f.Name].(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeDecode, "%s.%s: missing or invalid field serialization", typ, f.Name)
		}
		if err := d.field(n, f, raw, depth); err != nil {
			return nil, err
		}
	}

	for k, v := range m {
		if name, ok := annotationName(k); ok {
			n.Annotations().Set(name, v)
		}
	}
	return n, nil
}

func (d *decoder) field(n Node, f Field, raw map[string]any, depth int) error {
	kind := f.Edge.Kind()
	if kind != KindPrim {
		if marker, _ := raw[KeyEdge].(string); marker != kind.Marker() {
			return errors.New(errors.ErrCodeDecode, "%s.%s: edge marker %q does not match %s edge", n.Type(), f.Name, marker, kind)
		}
	}

	switch e := f.Edge.(type) {
	case PrimEdge:
		v, ok := raw[KeyPrim]
		if !ok {
			return errors.New(errors.ErrCodeDecode, "%s.%s: primitive field has no %q entry", n.Type(), f.Name, KeyPrim)
		}
		if err := e.SetValue(v); err != nil {
			return errors.Wrap(errors.ErrCodeType, err, "%s.%s", n.Type(), f.Name)
		}

	case SingleEdge:
		if kind == KindLink {
			switch seq := raw[KeyLink].(type) {
			case nil:
			case int64:
				d.links = append(d.links, pendingLink{owner: n.Type(), field: f.Name, edge: e, seq: seq})
			default:
				return errors.New(errors.ErrCodeDecode, "%s.%s: expected a sequence id as link target, got %s", n.Type(), f.Name, describe(seq))
			}
			return nil
		}
		if raw[KeyType] == nil {
			return nil
		}
		child, err := d.node(raw, depth+1)
		if err != nil {
			return err
		}
		if err := e.SetNode(child); err != nil {
			return errors.Wrap(errors.ErrCodeType, err, "%s.%s", n.Type(), f.Name)
		}

	case ListEdge:
		elems, ok := raw[KeyList].([]any)
		if !ok {
			return errors.New(errors.ErrCodeDecode, "%s.%s: list field has no %q array", n.Type(), f.Name, KeyList)
		}
		for i, el := range elems {
			cm, ok := el.(map[string]any)
			if !ok {
				return errors.New(errors.ErrCodeDecode, "%s.%s[%d]: expected a node map, got %s", n.Type(), f.Name, i, describe(el))
			}
			if marker, _ := cm[KeyEdge].(string); marker != markerChild {
				return errors.New(errors.ErrCodeDecode, "%s.%s[%d]: unexpected edge marker %q", n.Type(), f.Name, i, marker)
			}
			child, err := d.node(cm, depth+1)
			if err != nil {
				return err
			}
			if err := e.AppendNode(child); err != nil {
				return errors.Wrap(errors.ErrCodeType, err, "%s.%s[%d]", n.Type(), f.Name, i)
			}
		}
	}
	return nil
}

// resolve points every deferred link at the node that declared its
// sequence id.
func (d *decoder) resolve() error {
	for _, l := range d.links {
		target, ok := d.bySeq[l.seq]
		if !ok {
			return errors.New(errors.ErrCodeLinkResolution, "%s.%s: no node has sequence id %d", l.owner, l.field, l.seq)
		}
		if err := l.edge.SetNode(target); err != nil {
			return errors.Wrap(errors.ErrCodeType, err, "%s.%s", l.owner, l.field)
		}
	}
	return nil
}

func annotationName(key string) (string, bool) {
	if len(key) < 2 || !strings.HasPrefix(key, annotOpen) || !strings.HasSuffix(key, annotClose) {
		return "", false
	}
	return key[1 : len(key)-1], true
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case int64, uint64:
		return "an integer"
	case float64:
		return "a float"
	case string:
		return "a text string"
	case []byte:
		return "a byte string"
	case []any:
		return "an array"
	case map[string]any:
		return "a map"
	}
	return fmt.Sprintf("%T", v)
}
