// Package projection reduces concept embeddings to 2D for visualization.
package projection

import (
	"fmt"
	"math"

	"github.com/videomine/cartographer/internal/concept"
	"github.com/videomine/cartographer/internal/vecmath"
)

const (
	// powerIterations bounds the power-method loop per component.
	powerIterations = 100

	// convergenceEps stops the power method once the direction settles.
	convergenceEps = 1e-10

	// visualScale stretches the projected coordinates into a range that is
	// comfortable to plot directly.
	visualScale = 100.0
)

// Point is a concept positioned in the projected plane.
type Point struct {
	Name string
	X    float64
	Y    float64
}

// To2D projects the concepts onto their top two directions of maximal
// variance (principal components, extracted by power iteration with
// deflation). Relative proximity in embedding space is approximately
// preserved: concepts with similar vectors land close together.
//
// The run is fully deterministic. Degenerate inputs degrade gracefully: a
// single concept maps to the origin, and identical vectors all map to
// stable zero coordinates.
func To2D(concepts []concept.Concept) ([]Point, error) {
	n := len(concepts)
	if n == 0 {
		return nil, fmt.Errorf("projection: %w", vecmath.ErrEmptyInput)
	}
	if n == 1 {
		return []Point{{Name: concepts[0].Name}}, nil
	}

	dims := len(concepts[0].Embedding)
	vectors := make([][]float32, n)
	for i, c := range concepts {
		if len(c.Embedding) != dims {
			return nil, fmt.Errorf("projection: %q: %w: got %d, want %d",
				c.Name, vecmath.ErrDimensionMismatch, len(c.Embedding), dims)
		}
		vectors[i] = c.Embedding
	}

	mean, err := vecmath.Centroid(vectors)
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}

	centered := make([][]float64, n)
	for i, v := range vectors {
		row := make([]float64, dims)
		for d := range v {
			row[d] = float64(v[d]) - float64(mean[d])
		}
		centered[i] = row
	}

	pc1 := principalComponent(centered, nil)
	pc2 := principalComponent(centered, pc1)

	points := make([]Point, n)
	for i, c := range concepts {
		points[i] = Point{
			Name: c.Name,
			X:    dot(centered[i], pc1) * visualScale,
			Y:    dot(centered[i], pc2) * visualScale,
		}
	}
	return points, nil
}

// principalComponent extracts the dominant variance direction of the
// centered rows via power iteration, deflating against an optional earlier
// component. Returns nil when the remaining variance is (numerically) zero,
// in which case projections onto it are zero.
func principalComponent(rows [][]float64, deflate []float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	dims := len(rows[0])

	// Deterministic start: alternating signs avoid accidental orthogonality
	// to typical data directions.
	v := make([]float64, dims)
	for d := range v {
		if d%2 == 0 {
			v[d] = 1
		} else {
			v[d] = -1
		}
	}
	if deflate != nil {
		orthogonalize(v, deflate)
	}
	if normalize(v) == 0 {
		return nil
	}

	for iter := 0; iter < powerIterations; iter++ {
		// w = C·v without materializing the covariance matrix.
		w := make([]float64, dims)
		for _, row := range rows {
			coef := dot(row, v)
			for d := range w {
				w[d] += coef * row[d]
			}
		}
		if deflate != nil {
			orthogonalize(w, deflate)
		}
		if normalize(w) == 0 {
			return nil
		}

		delta := 0.0
		for d := range w {
			delta += math.Abs(w[d] - v[d])
		}
		v = w
		if delta < convergenceEps {
			break
		}
	}
	return v
}

// orthogonalize removes the component of v along unit vector u, in place.
func orthogonalize(v, u []float64) {
	c := dot(v, u)
	for d := range v {
		v[d] -= c * u[d]
	}
}

// normalize scales v to unit length in place and returns the original norm.
func normalize(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm < convergenceEps {
		return 0
	}
	for d := range v {
		v[d] /= norm
	}
	return norm
}

func dot(a, b []float64) float64 {
	if b == nil {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
