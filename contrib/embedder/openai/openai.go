// Package openai embeds knowledge articles and ticket queries with the OpenAI
// embeddings endpoint.
package openai

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sweetpotato0/ticket-resolver/vector"
)

// DefaultBatchSize is the number of inputs sent per embeddings request.
const DefaultBatchSize = 256

// Embedder implements vector.Embedder.
type Embedder struct {
	client    openaisdk.Client
	model     openaisdk.EmbeddingModel
	dimension int
	batchSize int
}

// Option customises the embedder.
type Option func(*Embedder)

// WithBatchSize caps the inputs per request. Non-positive values are ignored.
func WithBatchSize(n int) Option {
	return func(e *Embedder) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// New builds an embedder for model. With a positive dimension every returned
// vector has exactly that many entries: longer ones are truncated, shorter ones
// zero-padded. An empty baseURL uses the public API.
func New(apiKey, baseURL string, model openaisdk.EmbeddingModel, dimension int, opts ...Option) *Embedder {
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if strings.TrimSpace(baseURL) != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	e := &Embedder{
		client:    openaisdk.NewClient(reqOpts...),
		model:     model,
		dimension: dimension,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ vector.Embedder = (*Embedder)(nil)

// Dimension reports the length of every returned vector.
func (e *Embedder) Dimension() int {
	return e.dimension
}

// Embed embeds a single query.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in order, splitting them into requests of at most
// the configured batch size.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))
		vecs, err := e.request(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed inputs %d-%d: %w", start, end-1, err)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *Embedder) request(ctx context.Context, texts []string) ([][]float32, error) {
	params := openaisdk.EmbeddingNewParams{
		Model: e.model,
		Input: openaisdk.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	}
	// Only the text-embedding-3 family accepts a requested size.
	if e.dimension > 0 && strings.HasPrefix(string(e.model), "text-embedding-3") {
		params.Dimensions = openaisdk.Int(int64(e.dimension))
	}

	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	vecs := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || int(item.Index) >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		vecs[item.Index] = resize(item.Embedding, e.dimension)
	}
	for i, v := range vecs {
		if v == nil {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}
	return vecs, nil
}

func resize(in []float64, dimension int) []float32 {
	if dimension <= 0 {
		dimension = len(in)
	}
	out := make([]float32, dimension)
	for i := 0; i < len(in) && i < dimension; i++ {
		out[i] = float32(in[i])
	}
	return out
}
