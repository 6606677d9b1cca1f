// Package embedding provides vector embedding generation for concept names.
package embedding

import (
	"context"
	"errors"
)

// Provider errors. Unavailable means the backing model or service cannot be
// reached (degraded mode, not fatal); Timeout is retryable by the caller.
var (
	ErrProviderUnavailable = errors.New("embedding provider unavailable")
	ErrProviderTimeout     = errors.New("embedding provider timeout")
)

// Provider generates embeddings from text.
type Provider interface {
	// Embed generates an embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the name of the embedding model.
	ModelName() string

	// Dimensions returns the expected vector dimensions.
	Dimensions() int
}
