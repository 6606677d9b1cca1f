package embedding

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// openAIDimensions maps supported OpenAI embedding models to their output
// dimensionality.
var openAIDimensions = map[openai.EmbeddingModel]int{
	openai.SmallEmbedding3: 1536,
	openai.LargeEmbedding3: 3072,
	openai.AdaEmbeddingV2:  1536,
}

// OpenAIProvider generates embeddings using OpenAI's embedding API. It is an
// alternative to the local Ollama backend for machines without a local
// inference service.
type OpenAIProvider struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates an OpenAI embedding provider using
// text-embedding-3-small (1536 dimensions).
func NewOpenAIProvider(apiKey string) (*OpenAIProvider, error) {
	return newOpenAIProvider(apiKey, openai.SmallEmbedding3)
}

// NewOpenAIProviderWithModel creates an OpenAI embedding provider with a
// custom model.
func NewOpenAIProviderWithModel(apiKey string, model string) (*OpenAIProvider, error) {
	return newOpenAIProvider(apiKey, openai.EmbeddingModel(model))
}

func newOpenAIProvider(apiKey string, model openai.EmbeddingModel) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	dims, ok := openAIDimensions[model]
	if !ok {
		return nil, fmt.Errorf("unsupported embedding model %q", model)
	}
	return &OpenAIProvider{
		client:     openai.NewClient(apiKey),
		model:      model,
		dimensions: dims,
	}, nil
}

// Embed generates an embedding vector for the given text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", ErrProviderUnavailable)
	}
	return resp.Data[0].Embedding, nil
}

// ModelName returns the name of the embedding model.
func (p *OpenAIProvider) ModelName() string {
	return string(p.model)
}

// Dimensions returns the expected vector dimensions.
func (p *OpenAIProvider) Dimensions() int {
	return p.dimensions
}
