// Package cartographer is an embeddings lab over a set of mined concepts:
// semantic search, pairwise similarity, clustering, 2D projection and a
// similarity quiz, backed by vectors from a local or hosted embedding
// model.
//
// The package owns the concept-to-vector mapping for one analysis session.
// How concepts are extracted and canonicalized is the caller's business;
// they arrive here as an already-deduplicated feed.
package cartographer

import (
	"context"
	"fmt"
	"time"

	"github.com/videomine/cartographer/internal/cluster"
	"github.com/videomine/cartographer/internal/config"
	"github.com/videomine/cartographer/internal/embedding"
	"github.com/videomine/cartographer/internal/index"
	"github.com/videomine/cartographer/internal/projection"
	"github.com/videomine/cartographer/internal/quiz"
	"github.com/videomine/cartographer/internal/search"
	"github.com/videomine/cartographer/internal/storage"
	"github.com/videomine/cartographer/internal/vecmath"
)

// ConceptInput is one entry of the external concept feed used to (re)build
// the index.
type ConceptInput struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	SourceVideos []string `json:"source_videos,omitempty"`
	Importance   float64  `json:"importance,omitempty"`
}

// ConceptSummary identifies one indexed concept.
type ConceptSummary struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SearchHit is one ranked search result.
type SearchHit struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// ClusterView is one cluster of concept names.
type ClusterView struct {
	ClusterID int      `json:"cluster_id"`
	Members   []string `json:"members"`
}

// ProjectedPoint is a concept positioned in the 2D plane, tagged with its
// cluster for coloring.
type ProjectedPoint struct {
	Name      string  `json:"name"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ClusterID int     `json:"cluster_id"`
}

// QuizView is a similarity question as shown to the user: the correct
// answer is hidden among the options.
type QuizView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// BuildReport summarizes an index rebuild.
type BuildReport struct {
	Indexed  int           `json:"indexed"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

// ModelStatus reports the embedding backend health.
type ModelStatus struct {
	Available  bool   `json:"available"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
}

// Lab wires the embedding provider, index and analysis engines together.
// All query operations read the current index snapshot and are safe to call
// concurrently with a rebuild.
type Lab struct {
	cache    *embedding.Cache
	idx      *index.Index
	builder  *index.Builder
	engine   *search.Engine
	kmeans   *cluster.KMeans
	quizzes  *quiz.Generator
	defaultK int
}

// Option configures a Lab.
type Option func(*labSettings)

type labSettings struct {
	seed     int64
	defaultK int
	store    embedding.Store
}

// WithSeed fixes the seed used by clustering and quiz sampling.
func WithSeed(seed int64) Option {
	return func(s *labSettings) {
		s.seed = seed
	}
}

// WithDefaultClusters sets the cluster count used by Projection.
func WithDefaultClusters(k int) Option {
	return func(s *labSettings) {
		s.defaultK = k
	}
}

// WithStore attaches a persistent embedding store to the cache.
func WithStore(store embedding.Store) Option {
	return func(s *labSettings) {
		s.store = store
	}
}

// New creates a Lab over the given embedding provider.
func New(provider embedding.Provider, opts ...Option) *Lab {
	settings := &labSettings{seed: cluster.DefaultSeed, defaultK: 3}
	for _, opt := range opts {
		opt(settings)
	}

	var cache *embedding.Cache
	if settings.store != nil {
		cache = embedding.NewCacheWithStore(provider, settings.store)
	} else {
		cache = embedding.NewCache(provider)
	}

	idx := index.New()
	return &Lab{
		cache:    cache,
		idx:      idx,
		builder:  index.NewBuilder(cache),
		engine:   search.New(cache, idx),
		kmeans:   cluster.New(cluster.WithSeed(settings.seed)),
		quizzes:  quiz.New(idx, quiz.WithSeed(settings.seed)),
		defaultK: settings.defaultK,
	}
}

// NewFromConfig builds a Lab from a loaded configuration: provider backend,
// optional persistent cache, seed and default cluster count.
func NewFromConfig(cfg *config.Config) (*Lab, error) {
	var provider embedding.Provider
	switch cfg.Provider {
	case config.ProviderOllama:
		provider = embedding.NewOllamaProvider(
			embedding.WithBaseURL(cfg.Ollama.BaseURL),
			embedding.WithModel(cfg.Ollama.Model),
			embedding.WithDimensions(cfg.Ollama.Dimensions),
			embedding.WithTimeout(time.Duration(cfg.Ollama.TimeoutSeconds)*time.Second),
			embedding.WithRateLimit(cfg.Ollama.RateLimit),
		)
	case config.ProviderOpenAI:
		var p *embedding.OpenAIProvider
		var err error
		if cfg.OpenAI.Model != "" {
			p, err = embedding.NewOpenAIProviderWithModel(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		} else {
			p, err = embedding.NewOpenAIProvider(cfg.OpenAI.APIKey)
		}
		if err != nil {
			return nil, fmt.Errorf("configuring openai provider: %w", err)
		}
		provider = p
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	opts := []Option{
		WithSeed(cfg.ClusterSeed),
		WithDefaultClusters(cfg.DefaultK),
	}
	if cfg.CachePath != "" {
		store, err := storage.OpenEmbeddingStore(cfg.CachePath, provider.ModelName())
		if err != nil {
			return nil, fmt.Errorf("opening embedding cache: %w", err)
		}
		opts = append(opts, WithStore(store))
	}

	return New(provider, opts...), nil
}

// Rebuild replaces the index contents from the concept feed. The embedding
// cache is invalidated first, then repopulated as the feed is resolved;
// readers of the old index keep working until the final atomic swap.
func (l *Lab) Rebuild(ctx context.Context, feed []ConceptInput) (*BuildReport, error) {
	if err := l.cache.Invalidate(); err != nil {
		return nil, fmt.Errorf("invalidating cache: %w", err)
	}

	sources := make([]index.Source, len(feed))
	for i, in := range feed {
		sources[i] = index.Source{
			Name:         in.Name,
			Type:         in.Type,
			SourceVideos: in.SourceVideos,
			Importance:   in.Importance,
		}
	}

	concepts, stats, err := l.builder.Build(ctx, sources)
	if err != nil {
		return nil, err
	}
	if err := l.idx.Rebuild(concepts); err != nil {
		return nil, err
	}

	return &BuildReport{
		Indexed:  stats.Indexed,
		Skipped:  stats.Skipped,
		Duration: stats.Duration,
	}, nil
}

// ListConcepts returns all indexed concepts in insertion order.
func (l *Lab) ListConcepts() []ConceptSummary {
	concepts := l.idx.All()
	out := make([]ConceptSummary, len(concepts))
	for i, c := range concepts {
		out[i] = ConceptSummary{Name: c.Name, Type: string(c.Type)}
	}
	return out
}

// Search ranks indexed concepts against the query text, best first.
func (l *Lab) Search(ctx context.Context, query string, topK int) ([]SearchHit, error) {
	if l.idx.Len() == 0 {
		return nil, fmt.Errorf("search: index %w", vecmath.ErrEmptyInput)
	}

	results, err := l.engine.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, len(results))
	for i, r := range results {
		hits[i] = SearchHit{Name: r.Concept.Name, Score: r.Score}
	}
	return hits, nil
}

// Similarity computes the cosine similarity between two indexed concepts
// using their stored vectors; no provider call is made.
func (l *Lab) Similarity(nameA, nameB string) (float64, error) {
	if l.idx.Len() == 0 {
		return 0, fmt.Errorf("similarity: index %w", vecmath.ErrEmptyInput)
	}

	a, err := l.idx.Get(nameA)
	if err != nil {
		return 0, err
	}
	b, err := l.idx.Get(nameB)
	if err != nil {
		return 0, err
	}
	return vecmath.Cosine(a.Embedding, b.Embedding)
}

// Clusters partitions the concept set into k groups.
func (l *Lab) Clusters(k int) ([]ClusterView, error) {
	concepts := l.idx.All()
	if len(concepts) == 0 {
		return nil, fmt.Errorf("clustering: index %w", vecmath.ErrEmptyInput)
	}

	clusters, err := l.kmeans.Partition(concepts, k)
	if err != nil {
		return nil, err
	}

	out := make([]ClusterView, len(clusters))
	for i, c := range clusters {
		out[i] = ClusterView{ClusterID: c.ID, Members: c.Members}
	}
	return out, nil
}

// Projection maps every concept to a 2D point, tagged with a cluster id
// from a default-k clustering so the caller can color the scatter plot.
func (l *Lab) Projection() ([]ProjectedPoint, error) {
	concepts := l.idx.All()
	if len(concepts) == 0 {
		return nil, fmt.Errorf("projection: index %w", vecmath.ErrEmptyInput)
	}

	points, err := projection.To2D(concepts)
	if err != nil {
		return nil, err
	}

	k := l.defaultK
	if k > len(concepts) {
		k = len(concepts)
	}
	clusters, err := l.kmeans.Partition(concepts, k)
	if err != nil {
		return nil, err
	}

	clusterOf := make(map[string]int, len(concepts))
	for _, c := range clusters {
		for _, m := range c.Members {
			clusterOf[m] = c.ID
		}
	}

	out := make([]ProjectedPoint, len(points))
	for i, p := range points {
		out[i] = ProjectedPoint{
			Name:      p.Name,
			X:         p.X,
			Y:         p.Y,
			ClusterID: clusterOf[p.Name],
		}
	}
	return out, nil
}

// NextQuiz generates a similarity question over the current concept set.
func (l *Lab) NextQuiz() (QuizView, error) {
	q, err := l.quizzes.Next()
	if err != nil {
		return QuizView{}, err
	}
	return QuizView{ID: q.ID, Prompt: q.Prompt, Options: q.Options}, nil
}

// CheckQuiz reports whether chosen is the nearest neighbor of the prompt.
func (l *Lab) CheckQuiz(prompt, chosen string) (bool, error) {
	correct, err := l.quizzes.Answer(prompt)
	if err != nil {
		return false, err
	}
	return chosen == correct, nil
}

// Verify checks that the embedding backend answers, reporting the model
// name and vector dimensionality from a test embedding.
func (l *Lab) Verify(ctx context.Context) (ModelStatus, error) {
	status := ModelStatus{Model: l.cache.ModelName()}

	vec, err := l.cache.Embed(ctx, "test")
	if err != nil {
		return status, err
	}
	status.Available = true
	status.Dimensions = len(vec)
	return status, nil
}
