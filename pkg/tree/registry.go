package tree

import (
	"maps"
	"slices"

	"github.com/matzehuels/treegen/pkg/errors"
)

// Registry maps type discriminators to node factories. It is the single
// dispatch point used by [Deserialize]: every node map's "@t" is looked up
// here and nowhere else.
//
// A Registry is built at startup and read-only afterwards. Lookups are safe
// for concurrent use; Register is not safe to call concurrently with
// anything else.
type Registry struct {
	factories map[string]func() Node
}

// NewRegistry returns a registry holding the variants of protos.
func NewRegistry(protos ...Node) (*Registry, error) {
	r := &Registry{factories: make(map[string]func() Node)}
	if err := r.Register(protos...); err != nil {
		return nil, err
	}
	return r, nil
}

// MustRegistry is like [NewRegistry] but panics on error. It simplifies
// initialization of package-level registries.
func MustRegistry(protos ...Node) *Registry {
	r, err := NewRegistry(protos...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds the variants of protos, using each prototype's New method
// as factory.
func (r *Registry) Register(protos ...Node) error {
	for _, p := range protos {
		if err := r.RegisterFunc(p.Type(), p.New); err != nil {
			return err
		}
	}
	return nil
}

// RegisterFunc adds a variant under typ. The factory must produce nodes
// whose Type is typ. Registering a discriminator twice is an error.
func (r *Registry) RegisterFunc(typ string, factory func() Node) error {
	if err := errors.ValidateIdentifier("node type", typ); err != nil {
		return err
	}
	if _, dup := r.factories[typ]; dup {
		return errors.New(errors.ErrCodeInvalidSchema, "node type %s is registered twice", typ)
	}
	if got := factory().Type(); got != typ {
		return errors.New(errors.ErrCodeInvalidSchema, "factory for %s produces %s nodes", typ, got)
	}
	if r.factories == nil {
		r.factories = make(map[string]func() Node)
	}
	r.factories[typ] = factory
	return nil
}

// New returns an empty node of variant typ. An unregistered discriminator
// fails with UNKNOWN_NODE_TYPE.
func (r *Registry) New(typ string) (Node, error) {
	f, ok := r.factories[typ]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownNodeType, "unknown node type %q", typ)
	}
	return f(), nil
}

// Has reports whether typ is registered.
func (r *Registry) Has(typ string) bool {
	_, ok := r.factories[typ]
	return ok
}

// Types returns the registered discriminators in sorted order.
func (r *Registry) Types() []string {
	return slices.Sorted(maps.Keys(r.factories))
}

// Len returns the number of registered variants.
func (r *Registry) Len() int { return len(r.factories) }
