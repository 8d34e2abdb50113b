package embedder

import (
	"context"
	"fmt"

	"github.com/sweetpotato0/ticket-resolver/rag/document"
	"github.com/sweetpotato0/ticket-resolver/vector"
)

// Embedder exposes methods tailored for knowledge retrieval.
type Embedder interface {
	EmbedDocuments(ctx context.Context, docs []document.Document) ([][]float32, error)
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// VectorAdapter bridges the generic vector.Embedder interface into a rag Embedder.
type VectorAdapter struct {
	base vector.Embedder
}

// NewVectorAdapter creates a new adapter.
func NewVectorAdapter(base vector.Embedder) *VectorAdapter {
	return &VectorAdapter{base: base}
}

// EmbedDocuments embeds document contents in one batch.
func (v *VectorAdapter) EmbedDocuments(ctx context.Context, docs []document.Document) ([][]float32, error) {
	if v == nil || v.base == nil {
		return nil, fmt.Errorf("embedder not configured")
	}
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}
	vecs, err := v.base.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(docs) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(docs), len(vecs))
	}
	return vecs, nil
}

// EmbedQuery embeds the query string.
func (v *VectorAdapter) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if v == nil || v.base == nil {
		return nil, fmt.Errorf("embedder not configured")
	}
	return v.base.Embed(ctx, query)
}
