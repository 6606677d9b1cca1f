package index

import (
	"context"
	"testing"

	"github.com/videomine/cartographer/internal/concept"
	"github.com/videomine/cartographer/internal/embedding"
)

func TestBuilder_Build(t *testing.T) {
	mock := embedding.NewMockProvider(8)
	b := NewBuilder(embedding.NewCache(mock))

	feed := []Source{
		{Name: "Python", Type: "language", SourceVideos: []string{"vid1", "vid2"}},
		{Name: "Flask", Type: "library", SourceVideos: []string{"vid1"}},
		{Name: "", Type: "tool"}, // extractor glitch, skipped
		{Name: "TDD", Type: "methodology"},
	}

	var last, total int
	b.SetProgressReporter(ProgressFunc(func(cur, tot int) {
		last, total = cur, tot
	}))

	concepts, stats, err := b.Build(context.Background(), feed)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if stats.Indexed != 3 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 3 indexed / 1 skipped", stats)
	}
	if last != 4 || total != 4 {
		t.Errorf("progress = %d/%d, want 4/4", last, total)
	}
	if len(concepts) != 3 {
		t.Fatalf("got %d concepts, want 3", len(concepts))
	}
	if concepts[0].Name != "Python" || concepts[0].Type != concept.TypeLanguage {
		t.Errorf("first concept = %+v", concepts[0])
	}
	if concepts[2].Type != concept.TypeMethodology {
		t.Errorf("TDD type = %q, want methodology", concepts[2].Type)
	}
	if concepts[0].Importance != concept.DefaultImportance {
		t.Errorf("importance = %v, want default", concepts[0].Importance)
	}
	if len(concepts[0].Embedding) != 8 {
		t.Errorf("embedding dims = %d, want 8", len(concepts[0].Embedding))
	}
}

func TestBuilder_BuildCancellation(t *testing.T) {
	mock := embedding.NewMockProvider(8)
	b := NewBuilder(mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := b.Build(ctx, []Source{{Name: "Python"}})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestBuilder_CacheReuseAcrossBuilds(t *testing.T) {
	mock := embedding.NewMockProvider(8)
	cache := embedding.NewCache(mock)
	b := NewBuilder(cache)

	feed := []Source{{Name: "Python"}, {Name: "Flask"}}

	if _, _, err := b.Build(context.Background(), feed); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, _, err := b.Build(context.Background(), feed); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if mock.Calls() != 2 {
		t.Errorf("expected 2 provider calls across both builds, got %d", mock.Calls())
	}
}
