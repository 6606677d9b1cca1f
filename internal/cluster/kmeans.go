// Package cluster partitions the concept set into groups by embedding
// proximity.
package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/videomine/cartographer/internal/concept"
	"github.com/videomine/cartographer/internal/vecmath"
)

const (
	// DefaultSeed makes repeated clustering runs reproducible.
	DefaultSeed = 42

	// DefaultMaxIterations bounds k-means so it always terminates even if
	// assignments oscillate.
	DefaultMaxIterations = 100
)

// Cluster is one group of concepts with its centroid. Ids are dense from 0;
// members are in index insertion order.
type Cluster struct {
	ID       int
	Centroid []float32
	Members  []string
}

// KMeans runs seeded k-means over squared Euclidean distance in embedding
// space. Clusters are recomputed wholesale per run; nothing is maintained
// incrementally.
type KMeans struct {
	seed    int64
	maxIter int
}

// Option configures a KMeans engine.
type Option func(*KMeans)

// WithSeed sets the random seed for centroid initialization.
func WithSeed(seed int64) Option {
	return func(km *KMeans) {
		km.seed = seed
	}
}

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n int) Option {
	return func(km *KMeans) {
		km.maxIter = n
	}
}

// New creates a k-means engine.
func New(opts ...Option) *KMeans {
	km := &KMeans{seed: DefaultSeed, maxIter: DefaultMaxIterations}
	for _, opt := range opts {
		opt(km)
	}
	return km
}

// Partition groups the concepts into k clusters. Every concept lands in
// exactly one cluster. The run is deterministic for a fixed seed and input
// order.
func (km *KMeans) Partition(concepts []concept.Concept, k int) ([]Cluster, error) {
	n := len(concepts)
	if k <= 0 || k > n {
		return nil, fmt.Errorf("%w: k must be in [1, %d], got %d", concept.ErrInvalidArgument, n, k)
	}

	vectors := make([][]float32, n)
	for i, c := range concepts {
		vectors[i] = c.Embedding
	}

	centroids, err := initialCentroids(vectors, k, km.seed)
	if err != nil {
		return nil, err
	}

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}

	for iter := 0; iter < km.maxIter; iter++ {
		next, err := assign(vectors, centroids)
		if err != nil {
			return nil, err
		}

		changed := false
		for i := range next {
			if next[i] != assignments[i] {
				changed = true
				break
			}
		}
		assignments = next
		if !changed {
			break
		}

		// Recompute centroids as member means; a cluster that lost all
		// members keeps its previous centroid and may recapture points on
		// the next iteration.
		for c := 0; c < k; c++ {
			var members [][]float32
			for i, a := range assignments {
				if a == c {
					members = append(members, vectors[i])
				}
			}
			if len(members) == 0 {
				continue
			}
			mean, err := vecmath.Centroid(members)
			if err != nil {
				return nil, fmt.Errorf("updating centroid %d: %w", c, err)
			}
			centroids[c] = mean
		}
	}

	// Clusters still empty after convergence are dropped; survivors are
	// renumbered densely from 0.
	var clusters []Cluster
	for c := 0; c < k; c++ {
		var members []string
		for i, a := range assignments {
			if a == c {
				members = append(members, concepts[i].Name)
			}
		}
		if len(members) == 0 {
			continue
		}
		clusters = append(clusters, Cluster{
			ID:       len(clusters),
			Centroid: centroids[c],
			Members:  members,
		})
	}
	return clusters, nil
}

// assign maps every vector to its nearest centroid, ties going to the
// lowest cluster id.
func assign(vectors, centroids [][]float32) ([]int, error) {
	out := make([]int, len(vectors))
	for i, v := range vectors {
		best := 0
		bestDist := math.Inf(1)
		for c, centroid := range centroids {
			d, err := vecmath.SquaredDistance(v, centroid)
			if err != nil {
				return nil, fmt.Errorf("assigning vector %d: %w", i, err)
			}
			if d < bestDist {
				best = c
				bestDist = d
			}
		}
		out[i] = best
	}
	return out, nil
}

// initialCentroids seeds k centroids with a maximin spread: the first is
// drawn from the seeded rng, each further one is the vector farthest from
// all centroids chosen so far. Spread starts avoid the degenerate runs that
// purely random sampling produces on well-separated data.
func initialCentroids(vectors [][]float32, k int, seed int64) ([][]float32, error) {
	rng := rand.New(rand.NewSource(seed))

	centroids := make([][]float32, 0, k)
	centroids = append(centroids, cloneVector(vectors[rng.Intn(len(vectors))]))

	for len(centroids) < k {
		farthest := -1
		farthestDist := -1.0
		for i, v := range vectors {
			minDist := math.Inf(1)
			for _, c := range centroids {
				d, err := vecmath.SquaredDistance(v, c)
				if err != nil {
					return nil, fmt.Errorf("seeding centroids: %w", err)
				}
				if d < minDist {
					minDist = d
				}
			}
			if minDist > farthestDist {
				farthest = i
				farthestDist = minDist
			}
		}
		centroids = append(centroids, cloneVector(vectors[farthest]))
	}
	return centroids, nil
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
