// Package vecmath provides the vector operations shared by search,
// clustering and projection.
package vecmath

import (
	"errors"
	"fmt"

	"github.com/viant/vec/search"
)

// Errors returned by vector operations.
var (
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrEmptyInput        = errors.New("empty input")
)

// Cosine computes the cosine similarity between two vectors, in [-1, 1].
// If either vector has zero norm the similarity is defined as 0 rather than
// an error; angle against a zero vector is meaningless but must not crash a
// request.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}

	va := search.Float32s(a)
	vb := search.Float32s(b)
	if va.Magnitude() == 0 || vb.Magnitude() == 0 {
		return 0, nil
	}

	return 1 - float64(va.CosineDistance(b)), nil
}

// Euclidean computes the L2 distance between two vectors.
func Euclidean(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	return float64(search.Float32s(a).EuclideanDistance(b)), nil
}

// SquaredDistance computes the squared L2 distance. Accumulates in float64
// so long vectors do not lose precision during clustering.
func SquaredDistance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum, nil
}

// Centroid computes the component-wise mean of a non-empty set of vectors.
func Centroid(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("centroid: %w", ErrEmptyInput)
	}

	dims := len(vectors[0])
	acc := make([]float64, dims)
	for _, v := range vectors {
		if len(v) != dims {
			return nil, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(v), dims)
		}
		for i, x := range v {
			acc[i] += float64(x)
		}
	}

	mean := make([]float32, dims)
	n := float64(len(vectors))
	for i, s := range acc {
		mean[i] = float32(s / n)
	}
	return mean, nil
}
