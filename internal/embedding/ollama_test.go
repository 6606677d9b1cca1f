package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newOllamaTestServer returns a server that answers /api/embeddings with a
// fixed-dimension vector and /api/tags with the given models.
func newOllamaTestServer(t *testing.T, dims int, models ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case apiPathEmbeddings:
			var req ollamaEmbedRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			vec := make([]float32, dims)
			for i := range vec {
				vec[i] = float32(len(req.Prompt)+i) / 100
			}
			json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: vec})
		case apiPathTags:
			resp := ollamaTagsResponse{}
			for _, m := range models {
				resp.Models = append(resp.Models, ollamaModel{Name: m})
			}
			json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestNewOllamaProvider_Defaults(t *testing.T) {
	p := NewOllamaProvider()

	if p.baseURL != DefaultOllamaURL {
		t.Errorf("baseURL = %s, want %s", p.baseURL, DefaultOllamaURL)
	}
	if p.model != DefaultModel {
		t.Errorf("model = %s, want %s", p.model, DefaultModel)
	}
	if p.dimensions != DefaultDimensions {
		t.Errorf("dimensions = %d, want %d", p.dimensions, DefaultDimensions)
	}
}

func TestOllamaProvider_Embed(t *testing.T) {
	srv := newOllamaTestServer(t, 8)
	defer srv.Close()

	p := NewOllamaProvider(WithBaseURL(srv.URL), WithDimensions(8))

	vec, err := p.Embed(context.Background(), "Python")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != 8 {
		t.Errorf("got %d dimensions, want 8", len(vec))
	}
}

func TestOllamaProvider_Embed_DimensionCheck(t *testing.T) {
	srv := newOllamaTestServer(t, 4)
	defer srv.Close()

	p := NewOllamaProvider(WithBaseURL(srv.URL), WithDimensions(768))

	if _, err := p.Embed(context.Background(), "Python"); err == nil {
		t.Fatal("expected dimension error, got nil")
	}
}

func TestOllamaProvider_Embed_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOllamaProvider(WithBaseURL(srv.URL))

	_, err := p.Embed(context.Background(), "Python")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestOllamaProvider_Embed_ConnectionRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewOllamaProvider(WithBaseURL(url))

	_, err := p.Embed(context.Background(), "Python")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestOllamaProvider_Embed_Timeout(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer func() {
		close(blocked)
		srv.Close()
	}()

	p := NewOllamaProvider(WithBaseURL(srv.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Embed(ctx, "Python")
	if !errors.Is(err, ErrProviderTimeout) {
		t.Errorf("expected ErrProviderTimeout, got %v", err)
	}
}

func TestOllamaProvider_HasModel(t *testing.T) {
	srv := newOllamaTestServer(t, 8, "nomic-embed-text", "llama3")
	defer srv.Close()

	p := NewOllamaProvider(WithBaseURL(srv.URL))

	ok, err := p.HasModel(context.Background())
	if err != nil {
		t.Fatalf("HasModel failed: %v", err)
	}
	if !ok {
		t.Error("expected model to be present")
	}

	other := NewOllamaProvider(WithBaseURL(srv.URL), WithModel("missing-model"))
	ok, err = other.HasModel(context.Background())
	if err != nil {
		t.Fatalf("HasModel failed: %v", err)
	}
	if ok {
		t.Error("expected model to be absent")
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	srv := newOllamaTestServer(t, 8)
	p := NewOllamaProvider(WithBaseURL(srv.URL))

	if err := p.IsAvailable(context.Background()); err != nil {
		t.Errorf("IsAvailable failed: %v", err)
	}

	srv.Close()
	if err := p.IsAvailable(context.Background()); err == nil {
		t.Error("expected error after server shutdown")
	}
}
