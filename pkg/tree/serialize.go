package tree

import (
	"time"

	"github.com/matzehuels/treegen/pkg/cbor"
	"github.com/matzehuels/treegen/pkg/errors"
	"github.com/matzehuels/treegen/pkg/observability"
)

// Wire keys of a serialized node map.
const (
	KeySeq      = "@i" // sequence id
	KeyType     = "@t" // type discriminator
	KeyEdge     = "@T" // cardinality marker of a field
	KeyList     = "@d" // elements of an Any or Many field
	KeyLink     = "@l" // sequence id of a link target
	KeyPrim     = "x"  // value of a primitive field
	annotOpen   = "{"
	annotClose  = "}"
	markerChild = "1"
)

// wireDepth is the codec nesting needed for a tree of MaxDepth levels: a
// list element sits three containers below its parent's map.
const wireDepth = 3*MaxDepth + 2

// AnnotationKey returns the wire key of annotation name. The braces keep
// annotations from colliding with field names, which cannot contain them.
func AnnotationKey(name string) string { return annotOpen + name + annotClose }

// Serialize numbers the tree rooted at root, checks that it is well-formed,
// and encodes it. The tree is not modified and may be mutated again as soon
// as Serialize returns. Serializing an unmodified tree twice yields the same
// bytes.
func Serialize(root Node) ([]byte, error) {
	start := time.Now()
	data, nodes, err := serialize(root)
	rootType := ""
	if !isNil(root) {
		rootType = root.Type()
	}
	observability.Tree().OnSerialize(rootType, nodes, len(data), time.Since(start), err)
	return data, err
}

func serialize(root Node) ([]byte, int, error) {
	num, err := Number(root)
	if err != nil {
		return nil, 0, err
	}
	if err := num.check(); err != nil {
		return nil, num.Len(), err
	}
	m, err := num.encodeNode(root)
	if err != nil {
		return nil, num.Len(), err
	}
	enc := cbor.Encoder{MaxDepth: wireDepth}
	data, err := enc.Encode(m)
	if err != nil {
		return nil, num.Len(), err
	}
	return data, num.Len(), nil
}

// Encode returns the primitive-domain form of the tree rooted at root, the
// value Serialize passes to the codec. The tree must be well-formed.
func Encode(root Node) (map[string]any, error) {
	num, err := Number(root)
	if err != nil {
		return nil, err
	}
	if err := num.check(); err != nil {
		return nil, err
	}
	return num.encodeNode(root)
}

func (num *Numbering) encodeNode(n Node) (map[string]any, error) {
	id, _ := num.ID(n)
	m := map[string]any{
		KeySeq:  int64(id),
		KeyType: n.Type(),
	}

	for _, f := range n.Fields() {
		switch e := f.Edge.(type) {
		case PrimEdge:
			m[f.Name] = map[string]any{KeyPrim: e.Value()}

		case SingleEdge:
			switch {
			case e.Kind() == KindLink:
				var target any
				if e.IsSet() {
					tid, _ := num.ID(e.Node())
					target = int64(tid)
				}
				m[f.Name] = map[string]any{KeyEdge: KindLink.Marker(), KeyLink: target}
			case e.IsSet():
				child, err := num.encodeNode(e.Node())
				if err != nil {
					return nil, err
				}
				child[KeyEdge] = e.Kind().Marker()
				m[f.Name] = child
			default:
				m[f.Name] = map[string]any{KeyEdge: e.Kind().Marker(), KeyType: nil}
			}

		case ListEdge:
			elems := make([]any, 0, e.Len())
			for i := range e.Len() {
				child, err := num.encodeNode(e.NodeAt(i))
				if err != nil {
					return nil, err
				}
				child[KeyEdge] = markerChild
				elems = append(elems, child)
			}
			m[f.Name] = map[string]any{KeyEdge: e.Kind().Marker(), KeyList: elems}

		default:
			return nil, errors.New(errors.ErrCodeInternal, "%s.%s: unknown edge implementation %T", n.Type(), f.Name, f.Edge)
		}
	}

	for k, v := range n.Annotations().All() {
		m[AnnotationKey(k)] = v
	}
	return m, nil
}
