package tree

// Copy returns a shallow copy of n: a new node of the same variant whose
// edges hold the same children and link targets as n. Annotations are
// copied into a new map; annotation and primitive values are shared.
func Copy[T Node](n T) T {
	if isNil(n) {
		return n
	}
	out := n.New().(T)
	copyInto(out, n, func(c Node) Node { return c })
	return out
}

// Clone returns a deep copy of the tree rooted at n. Every owned child is
// cloned recursively, but Link edges keep pointing at the nodes of the
// original tree, not at their clones. Relink a clone with [Deserialize] of
// [Serialize] if it must be self-contained.
//
// n must not contain cycles through owning edges; check it with
// [CheckWellFormed] first if in doubt.
func Clone[T Node](n T) T {
	if isNil(n) {
		return n
	}
	return clone(n).(T)
}

func clone(n Node) Node {
	out := n.New()
	copyInto(out, n, func(c Node) Node {
		if c == nil {
			return nil
		}
		return clone(c)
	})
	return out
}

// copyInto fills dst, a fresh node of src's variant, from src. Owned
// children are passed through child; link targets are kept as is.
func copyInto(dst, src Node, child func(Node) Node) {
	dst.Annotations().copyFrom(src.Annotations())
	df, sf := dst.Fields(), src.Fields()
	for i := range sf {
		switch s := sf[i].Edge.(type) {
		case PrimEdge:
			_ = df[i].Edge.(PrimEdge).SetValue(s.Value())
		case SingleEdge:
			d := df[i].Edge.(SingleEdge)
			if s.Kind() == KindLink {
				d.put(s.Node())
			} else {
				d.put(child(s.Node()))
			}
		case ListEdge:
			ns := s.Nodes()
			for j, c := range ns {
				ns[j] = child(c)
			}
			df[i].Edge.(ListEdge).putAll(ns)
		}
	}
}
