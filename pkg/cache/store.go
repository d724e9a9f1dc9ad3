package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treegen/pkg/errors"
	"github.com/matzehuels/treegen/pkg/observability"
	"github.com/matzehuels/treegen/pkg/tree"
)

// keyType is reported to the cache hooks.
const keyType = "tree"

// Store keeps serialized trees in a Cache under their content address.
//
// The Store is stateless except for its configuration, so multiple
// goroutines can use it at once.
type Store struct {
	Cache    Cache
	Keyer    Keyer
	Registry *tree.Registry
	TTL      time.Duration
	Logger   *log.Logger
}

// NewStore creates a store deserializing with reg.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (nothing is kept).
func NewStore(c Cache, keyer Keyer, reg *tree.Registry, logger *log.Logger) *Store {
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	if c == nil {
		c = NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		Cache:    c,
		Keyer:    keyer,
		Registry: reg,
		Logger:   logger,
	}
}

// Put serializes the tree rooted at n and stores it. It returns the tree's
// public key, "tree:" followed by the hash of its encoding.
func (s *Store) Put(ctx context.Context, n tree.Node) (string, error) {
	data, err := tree.Serialize(n)
	if err != nil {
		return "", err
	}
	return s.put(ctx, data)
}

// PutBlob stores an already serialized tree. The blob is deserialized,
// checked for well-formedness, and re-serialized first, so equal trees get
// equal keys whatever encoder produced them.
func (s *Store) PutBlob(ctx context.Context, data []byte) (string, error) {
	n, err := tree.Deserialize(s.Registry, data)
	if err != nil {
		return "", err
	}
	canonical, err := tree.Serialize(n)
	if err != nil {
		return "", err
	}
	return s.put(ctx, canonical)
}

func (s *Store) put(ctx context.Context, data []byte) (string, error) {
	hash := Hash(data)
	key := s.Keyer.TreeKey(hash)
	err := RetryWithBackoff(ctx, func() error {
		return s.Cache.Set(ctx, key, data, s.TTL)
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "store %s", key)
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
	s.Logger.Debug("stored tree", "key", key, "bytes", len(data))
	return KeyPrefix + hash, nil
}

// GetBlob returns the encoding stored under key. A missing entry fails
// with an error matching both ErrNotFound and NOT_FOUND.
func (s *Store) GetBlob(ctx context.Context, key string) ([]byte, error) {
	if err := errors.ValidateCacheKey(key); err != nil {
		return nil, err
	}
	skey := s.Keyer.TreeKey(hashOf(key))

	var (
		data []byte
		hit  bool
	)
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = s.Cache.Get(ctx, skey)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load %s", skey)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, errors.Wrap(errors.ErrCodeNotFound, ErrNotFound, "tree %s", key)
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	s.Logger.Debug("loaded tree", "key", skey, "bytes", len(data))
	return data, nil
}

// Get loads and deserializes the tree stored under key.
func (s *Store) Get(ctx context.Context, key string) (tree.Node, error) {
	data, err := s.GetBlob(ctx, key)
	if err != nil {
		return nil, err
	}
	n, err := tree.Deserialize(s.Registry, data)
	if err != nil {
		return nil, fmt.Errorf("tree %s: %w", key, err)
	}
	return n, nil
}

// Delete removes the tree stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := errors.ValidateCacheKey(key); err != nil {
		return err
	}
	if err := s.Cache.Delete(ctx, s.Keyer.TreeKey(hashOf(key))); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete %s", key)
	}
	return nil
}

// Clear removes every stored tree if the cache supports it.
func (s *Store) Clear(ctx context.Context) error {
	cl, ok := s.Cache.(Clearer)
	if !ok {
		return errors.New(errors.ErrCodeUnsupported, "cache backend %T cannot be cleared", s.Cache)
	}
	if err := cl.Clear(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "clear cache")
	}
	return nil
}
