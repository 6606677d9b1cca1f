package index

import (
	"context"
	"fmt"
	"time"

	"github.com/videomine/cartographer/internal/concept"
	"github.com/videomine/cartographer/internal/embedding"
)

// Source is one entry of the external concept feed. Names arrive already
// canonicalized; alias unification happens upstream.
type Source struct {
	Name         string
	Type         string
	SourceVideos []string
	Importance   float64
}

// BuildStats reports the outcome of a bulk index build.
type BuildStats struct {
	Indexed  int
	Skipped  int
	Duration time.Duration
}

// ProgressReporter receives progress updates during index building.
type ProgressReporter interface {
	// OnProgress is called with the current progress.
	OnProgress(current, total int)
}

// ProgressFunc is a function adapter for ProgressReporter.
type ProgressFunc func(current, total int)

// OnProgress implements ProgressReporter.
func (f ProgressFunc) OnProgress(current, total int) {
	f(current, total)
}

// Builder resolves a concept feed into an indexed concept set, obtaining
// vectors through an embedding provider.
type Builder struct {
	provider embedding.Provider
	progress ProgressReporter
}

// NewBuilder creates a builder on top of the given provider. Wrap the
// provider in an embedding.Cache so repeated builds reuse resolved vectors.
func NewBuilder(provider embedding.Provider) *Builder {
	return &Builder{provider: provider}
}

// SetProgressReporter sets the progress reporter for the builder.
func (b *Builder) SetProgressReporter(reporter ProgressReporter) {
	b.progress = reporter
}

// Build embeds every feed entry and returns the resulting concepts in feed
// order. Entries with empty names are skipped and counted; any provider
// failure aborts the build.
func (b *Builder) Build(ctx context.Context, feed []Source) ([]concept.Concept, *BuildStats, error) {
	start := time.Now()
	stats := &BuildStats{}

	concepts := make([]concept.Concept, 0, len(feed))
	total := len(feed)

	for i, src := range feed {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		if b.progress != nil {
			b.progress.OnProgress(i+1, total)
		}

		if src.Name == "" {
			stats.Skipped++
			continue
		}

		vec, err := b.provider.Embed(ctx, src.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("embedding %q: %w", src.Name, err)
		}

		c := concept.Concept{
			Name:         src.Name,
			Type:         concept.ParseType(src.Type),
			Embedding:    vec,
			SourceVideos: src.SourceVideos,
			Importance:   src.Importance,
		}
		c.ApplyDefaults()
		concepts = append(concepts, c)
		stats.Indexed++
	}

	stats.Duration = time.Since(start)
	return concepts, stats, nil
}
