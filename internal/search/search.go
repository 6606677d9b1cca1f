// Package search ranks indexed concepts against a query text.
package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/videomine/cartographer/internal/concept"
	"github.com/videomine/cartographer/internal/embedding"
	"github.com/videomine/cartographer/internal/index"
	"github.com/videomine/cartographer/internal/vecmath"
)

// Result is one ranked concept.
type Result struct {
	Concept concept.Concept
	Score   float64
}

// Engine performs brute-force cosine ranking over the index. O(n) per query
// is fine at the tens-to-hundreds scale this tool operates at; the ranking
// contract would survive swapping in an ANN structure later.
type Engine struct {
	provider embedding.Provider
	idx      *index.Index
}

// New creates a search engine over the given index.
func New(provider embedding.Provider, idx *index.Index) *Engine {
	return &Engine{provider: provider, idx: idx}
}

// Search embeds the query and returns up to topK concepts ranked by cosine
// similarity, descending. Ties keep index insertion order. topK is clamped
// to the index size.
func (e *Engine) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", concept.ErrInvalidArgument, topK)
	}

	queryVec, err := e.provider.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	return e.Rank(queryVec, topK)
}

// Rank scores every indexed concept against a query vector.
func (e *Engine) Rank(queryVec []float32, topK int) ([]Result, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", concept.ErrInvalidArgument, topK)
	}

	concepts := e.idx.All()
	results := make([]Result, 0, len(concepts))
	for _, c := range concepts {
		score, err := vecmath.Cosine(queryVec, c.Embedding)
		if err != nil {
			return nil, fmt.Errorf("scoring %q: %w", c.Name, err)
		}
		results = append(results, Result{Concept: c, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Nearest returns the most similar concept to the named one, excluding
// itself. Used by the quiz and by similarity exploration.
func (e *Engine) Nearest(name string) (Result, error) {
	c, err := e.idx.Get(name)
	if err != nil {
		return Result{}, err
	}

	ranked, err := e.Rank(c.Embedding, e.idx.Len())
	if err != nil {
		return Result{}, err
	}
	for _, r := range ranked {
		if r.Concept.Name != name {
			return r, nil
		}
	}
	return Result{}, fmt.Errorf("no neighbor for %q: %w", name, vecmath.ErrEmptyInput)
}
