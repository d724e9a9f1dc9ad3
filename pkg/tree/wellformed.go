package tree

import (
	"github.com/matzehuels/treegen/pkg/errors"
)

// CheckWellFormed verifies that the tree rooted at root can be serialized:
//   - no node is reachable through more than one owning edge
//   - every One edge is set and every Many edge is non-empty
//   - no list holds a nil element
//   - every set Link points at a node of the tree
//   - every target is in its edge's allowed set, if the edge has one
//
// It stops at the first violation and returns an error naming the node type
// and field. Violations carry NOT_WELL_FORMED, except allowed-set violations,
// which carry TYPE_ERROR.
func CheckWellFormed(root Node) error {
	num, err := Number(root)
	if err != nil {
		return err
	}
	return num.check()
}

// IsWellFormed reports whether [CheckWellFormed] would succeed.
func IsWellFormed(root Node) bool {
	return CheckWellFormed(root) == nil
}

func (num *Numbering) check() error {
	for _, n := range num.nodes {
		if err := num.checkNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (num *Numbering) checkNode(n Node) error {
	for _, f := range n.Fields() {
		switch e := f.Edge.(type) {
		case SingleEdge:
			if !e.IsSet() {
				if e.Kind() == KindOne {
					return errors.New(errors.ErrCodeNotWellFormed, "%s.%s: required edge is not set", n.Type(), f.Name)
				}
				continue
			}
			target := e.Node()
			if e.Kind() == KindLink {
				if _, ok := num.ID(target); !ok {
					return errors.New(errors.ErrCodeNotWellFormed,
						"%s.%s: link target %s is not part of the tree", n.Type(), f.Name, target.Type())
				}
			}
			if err := checkAllowed(target, e.Allowed()); err != nil {
				return errors.Wrap(errors.ErrCodeType, err, "%s.%s", n.Type(), f.Name)
			}

		case ListEdge:
			if e.Kind() == KindMany && e.Len() == 0 {
				return errors.New(errors.ErrCodeNotWellFormed, "%s.%s: needs at least one node but has none", n.Type(), f.Name)
			}
			allowed := e.Allowed()
			for i := range e.Len() {
				c := e.NodeAt(i)
				if c == nil {
					return errors.New(errors.ErrCodeNotWellFormed, "%s.%s[%d]: element is nil", n.Type(), f.Name, i)
				}
				if err := checkAllowed(c, allowed); err != nil {
					return errors.Wrap(errors.ErrCodeType, err, "%s.%s[%d]", n.Type(), f.Name, i)
				}
			}
		}
	}
	return nil
}
