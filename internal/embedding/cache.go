package embedding

import (
	"context"
	"fmt"
	"sync"
)

// Store is an optional persistence collaborator for cached embeddings.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the stored vector for the exact text, if present.
	Get(text string) ([]float32, bool, error)

	// Put stores a vector under the exact text.
	Put(text string, vector []float32) error

	// Clear removes all stored vectors.
	Clear() error
}

// Cache memoizes a Provider by exact input text, so repeated lookups for the
// same concept name never issue a second network call. Concurrent misses for
// the same key may each call the inner provider; the last write wins, which
// is harmless because embeddings are deterministic per model.
type Cache struct {
	inner Provider
	store Store // optional, may be nil

	mu      sync.RWMutex
	vectors map[string][]float32
}

var _ Provider = (*Cache)(nil)

// NewCache wraps a provider with an in-memory memoization layer.
func NewCache(inner Provider) *Cache {
	return &Cache{
		inner:   inner,
		vectors: make(map[string][]float32),
	}
}

// NewCacheWithStore wraps a provider with memoization backed by a persistent
// store. The store is consulted on memory miss before the provider.
func NewCacheWithStore(inner Provider, store Store) *Cache {
	c := NewCache(inner)
	c.store = store
	return c
}

// Embed returns the cached vector for text, resolving it through the store
// or the inner provider on miss. The cache key is the raw text; no
// normalization happens here (canonicalization is the extractor's job).
func (c *Cache) Embed(ctx context.Context, text string) ([]float32, error) {
	c.mu.RLock()
	vec, ok := c.vectors[text]
	c.mu.RUnlock()
	if ok {
		return vec, nil
	}

	if c.store != nil {
		stored, found, err := c.store.Get(text)
		if err != nil {
			return nil, fmt.Errorf("reading embedding store: %w", err)
		}
		if found {
			c.remember(text, stored)
			return stored, nil
		}
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		if err := c.store.Put(text, vec); err != nil {
			return nil, fmt.Errorf("writing embedding store: %w", err)
		}
	}
	c.remember(text, vec)
	return vec, nil
}

// ModelName returns the inner provider's model name.
func (c *Cache) ModelName() string {
	return c.inner.ModelName()
}

// Dimensions returns the inner provider's vector dimensions.
func (c *Cache) Dimensions() int {
	return c.inner.Dimensions()
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}

// Invalidate drops all memoized entries, including the persistent store if
// one is attached. Called on index rebuild.
func (c *Cache) Invalidate() error {
	c.mu.Lock()
	c.vectors = make(map[string][]float32)
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Clear(); err != nil {
			return fmt.Errorf("clearing embedding store: %w", err)
		}
	}
	return nil
}

func (c *Cache) remember(text string, vec []float32) {
	c.mu.Lock()
	c.vectors[text] = vec
	c.mu.Unlock()
}
