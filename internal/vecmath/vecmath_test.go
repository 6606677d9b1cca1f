package vecmath

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 0.0001

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{1, 0, 0},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 0},
			b:        []float32{-1, 0},
			expected: -1.0,
		},
		{
			name:     "45 degrees",
			a:        []float32{1, 1},
			b:        []float32{1, 0},
			expected: 0.7071067,
		},
		{
			name:     "zero vector a",
			a:        []float32{0, 0, 0},
			b:        []float32{1, 0, 0},
			expected: 0.0,
		},
		{
			name:     "zero vector b",
			a:        []float32{1, 0, 0},
			b:        []float32{0, 0, 0},
			expected: 0.0,
		},
		{
			name:     "empty vectors",
			a:        []float32{},
			b:        []float32{},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Cosine failed: %v", err)
			}
			if math.Abs(got-tt.expected) > tolerance {
				t.Errorf("Cosine(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestCosine_SelfSimilarity(t *testing.T) {
	vectors := [][]float32{
		{1, 2, 3},
		{0.1, -0.5, 0.9, 4},
		{42},
	}
	for _, v := range vectors {
		got, err := Cosine(v, v)
		if err != nil {
			t.Fatalf("Cosine failed: %v", err)
		}
		if math.Abs(got-1.0) > tolerance {
			t.Errorf("Cosine(%v, %v) = %v, want 1", v, v, got)
		}
	}
}

func TestCosine_Symmetry(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 5, 6}

	ab, err := Cosine(a, b)
	if err != nil {
		t.Fatalf("Cosine failed: %v", err)
	}
	ba, err := Cosine(b, a)
	if err != nil {
		t.Fatalf("Cosine failed: %v", err)
	}
	if math.Abs(ab-ba) > tolerance {
		t.Errorf("Cosine not symmetric: (a,b)=%v (b,a)=%v", ab, ba)
	}
}

func TestCosine_ScaleInvariant(t *testing.T) {
	a := []float32{0.2, 0.4, 0.1, 0.9}
	b := []float32{0.5, 0.1, 0.8, 0.3}

	base, err := Cosine(a, b)
	if err != nil {
		t.Fatalf("Cosine failed: %v", err)
	}

	scaled := make([]float32, len(a))
	for i := range a {
		scaled[i] = a[i] * 10
	}
	got, err := Cosine(scaled, b)
	if err != nil {
		t.Fatalf("Cosine failed: %v", err)
	}
	if math.Abs(got-base) > tolerance {
		t.Errorf("Cosine not scale invariant: %v vs %v", got, base)
	}
}

func TestCosine_DimensionMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 0}, []float32{1, 0, 0})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestEuclidean(t *testing.T) {
	d, err := Euclidean([]float32{0, 0}, []float32{3, 4})
	if err != nil {
		t.Fatalf("Euclidean failed: %v", err)
	}
	if math.Abs(d-5) > tolerance {
		t.Errorf("Euclidean = %v, want 5", d)
	}

	if _, err := Euclidean([]float32{1}, []float32{1, 2}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSquaredDistance(t *testing.T) {
	d, err := SquaredDistance([]float32{0, 0}, []float32{3, 4})
	if err != nil {
		t.Fatalf("SquaredDistance failed: %v", err)
	}
	if math.Abs(d-25) > tolerance {
		t.Errorf("SquaredDistance = %v, want 25", d)
	}
}

func TestCentroid(t *testing.T) {
	t.Run("component-wise mean", func(t *testing.T) {
		got, err := Centroid([][]float32{
			{0, 0},
			{2, 4},
			{4, 2},
		})
		if err != nil {
			t.Fatalf("Centroid failed: %v", err)
		}
		want := []float32{2, 2}
		for i := range want {
			if math.Abs(float64(got[i]-want[i])) > tolerance {
				t.Errorf("Centroid = %v, want %v", got, want)
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Centroid(nil)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
	})

	t.Run("ragged input", func(t *testing.T) {
		_, err := Centroid([][]float32{{1, 2}, {1}})
		if !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("expected ErrDimensionMismatch, got %v", err)
		}
	})
}
