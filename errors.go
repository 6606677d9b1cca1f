package cartographer

import (
	"github.com/videomine/cartographer/internal/concept"
	"github.com/videomine/cartographer/internal/embedding"
	"github.com/videomine/cartographer/internal/index"
	"github.com/videomine/cartographer/internal/vecmath"
)

// Error taxonomy surfaced to callers. All failures come back as wrapped
// typed errors; the lab never terminates the hosting process.
var (
	// ErrProviderUnavailable means the embedding backend is unreachable.
	// Degraded mode: stored vectors still serve similarity, clustering and
	// projection, only operations that embed new text fail.
	ErrProviderUnavailable = embedding.ErrProviderUnavailable

	// ErrProviderTimeout means the embedding call exceeded its deadline.
	// Retryable by the caller with backoff; the lab does not retry.
	ErrProviderTimeout = embedding.ErrProviderTimeout

	// ErrDimensionMismatch means vectors of different dimensionality met.
	// A data or programming error, fatal to the single request.
	ErrDimensionMismatch = vecmath.ErrDimensionMismatch

	// ErrNotFound means a concept name is not in the index.
	ErrNotFound = index.ErrNotFound

	// ErrInvalidArgument means a bad k or topK; surfaced immediately.
	ErrInvalidArgument = concept.ErrInvalidArgument

	// ErrEmptyInput means the index holds no concepts yet, distinct from
	// ErrNotFound so a UI can prompt to mine some videos first.
	ErrEmptyInput = vecmath.ErrEmptyInput
)
