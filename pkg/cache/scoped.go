package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several stores can share
// one backend without seeing each other's entries.
//
// Example usage:
//
//	// Trees uploaded through the server
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "server:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TreeKey generates a prefixed tree key.
func (k *ScopedKeyer) TreeKey(hash string) string {
	return k.prefix + k.inner.TreeKey(hash)
}
