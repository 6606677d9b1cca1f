// Package index holds the working set of concepts and their embeddings for
// one analysis session.
package index

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/videomine/cartographer/internal/concept"
	"github.com/videomine/cartographer/internal/vecmath"
)

// ErrNotFound is returned when a concept name is not in the index.
var ErrNotFound = errors.New("concept not found")

// snapshot is an immutable view of the index contents. Readers load the
// current snapshot once and never observe partial state; writers build a
// fresh snapshot and swap it in atomically.
type snapshot struct {
	order  []string
	byName map[string]concept.Concept
	dims   int
}

var emptySnapshot = &snapshot{byName: map[string]concept.Concept{}}

// Index maps concept names to concepts, preserving insertion order. Safe for
// concurrent readers while a rebuild is in progress.
type Index struct {
	snap atomic.Pointer[snapshot]
}

// New creates an empty index.
func New() *Index {
	idx := &Index{}
	idx.snap.Store(emptySnapshot)
	return idx
}

// Upsert inserts a concept or replaces the entry with the same name. A
// replaced concept keeps its original position in insertion order.
func (idx *Index) Upsert(c concept.Concept) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.ApplyDefaults()

	cur := idx.snap.Load()
	if cur.dims != 0 && len(c.Embedding) != cur.dims {
		return fmt.Errorf("upserting %q: %w: got %d, want %d",
			c.Name, vecmath.ErrDimensionMismatch, len(c.Embedding), cur.dims)
	}

	next := cur.clone()
	if _, exists := next.byName[c.Name]; !exists {
		next.order = append(next.order, c.Name)
	}
	next.byName[c.Name] = c
	next.dims = len(c.Embedding)
	idx.snap.Store(next)
	return nil
}

// Rebuild replaces the entire index contents in a single atomic swap.
// Duplicate names keep the last occurrence but the first position.
func (idx *Index) Rebuild(concepts []concept.Concept) error {
	next := &snapshot{byName: make(map[string]concept.Concept, len(concepts))}
	for _, c := range concepts {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("rebuilding index: %w", err)
		}
		c.ApplyDefaults()
		if next.dims == 0 {
			next.dims = len(c.Embedding)
		} else if len(c.Embedding) != next.dims {
			return fmt.Errorf("rebuilding index: %q: %w: got %d, want %d",
				c.Name, vecmath.ErrDimensionMismatch, len(c.Embedding), next.dims)
		}
		if _, exists := next.byName[c.Name]; !exists {
			next.order = append(next.order, c.Name)
		}
		next.byName[c.Name] = c
	}
	idx.snap.Store(next)
	return nil
}

// Get returns the concept with the given name.
func (idx *Index) Get(name string) (concept.Concept, error) {
	c, ok := idx.snap.Load().byName[name]
	if !ok {
		return concept.Concept{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return c, nil
}

// All returns every concept in insertion order.
func (idx *Index) All() []concept.Concept {
	snap := idx.snap.Load()
	out := make([]concept.Concept, 0, len(snap.order))
	for _, name := range snap.order {
		out = append(out, snap.byName[name])
	}
	return out
}

// Len returns the number of concepts.
func (idx *Index) Len() int {
	return len(idx.snap.Load().order)
}

// Dimensions returns the shared embedding dimensionality, 0 when empty.
func (idx *Index) Dimensions() int {
	return idx.snap.Load().dims
}

func (s *snapshot) clone() *snapshot {
	next := &snapshot{
		order:  make([]string, len(s.order)),
		byName: make(map[string]concept.Concept, len(s.byName)+1),
		dims:   s.dims,
	}
	copy(next.order, s.order)
	for k, v := range s.byName {
		next.byName[k] = v
	}
	return next
}
