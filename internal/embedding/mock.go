package embedding

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"sync/atomic"
)

// MockProvider implements Provider for testing. It returns canned vectors
// when configured, falling back to deterministic unit vectors derived from
// the text hash, and counts every Embed call so tests can assert caching
// behavior.
type MockProvider struct {
	dimensions int
	canned     map[string][]float32
	calls      atomic.Int64
}

var _ Provider = (*MockProvider)(nil)

// NewMockProvider creates a mock provider with the given dimensionality.
func NewMockProvider(dimensions int) *MockProvider {
	return &MockProvider{dimensions: dimensions}
}

// NewMockProviderWithVectors creates a mock provider that serves fixed
// vectors for known texts. All canned vectors must share the given
// dimensionality.
func NewMockProviderWithVectors(dimensions int, vectors map[string][]float32) *MockProvider {
	return &MockProvider{dimensions: dimensions, canned: vectors}
}

// Embed returns the canned or hash-derived vector for text.
func (m *MockProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	m.calls.Add(1)

	if vec, ok := m.canned[text]; ok {
		return vec, nil
	}
	return m.deterministicVector(text), nil
}

// ModelName returns a fixed test model name.
func (m *MockProvider) ModelName() string {
	return "mock-embed"
}

// Dimensions returns the configured dimensionality.
func (m *MockProvider) Dimensions() int {
	return m.dimensions
}

// Calls returns the number of Embed invocations so far.
func (m *MockProvider) Calls() int64 {
	return m.calls.Load()
}

// deterministicVector derives a normalized vector from the text hash, so
// equal texts always embed identically.
func (m *MockProvider) deterministicVector(text string) []float32 {
	hash := sha256.Sum256([]byte(text))
	vec := make([]float32, m.dimensions)
	for i := range vec {
		b := hash[(i*7)%len(hash)] ^ byte(i)
		vec[i] = (float32(b) / 127.5) - 1.0
	}
	return normalize(vec)
}

// normalize scales a vector to unit length. Zero vectors pass through.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	mag := float32(math.Sqrt(sum))
	if mag == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / mag
	}
	return out
}
