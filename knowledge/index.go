package knowledge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sweetpotato0/ticket-resolver/pkg/logging"
	"github.com/sweetpotato0/ticket-resolver/rag/chunking"
	"github.com/sweetpotato0/ticket-resolver/rag/document"
	"github.com/sweetpotato0/ticket-resolver/rag/embedder"
	"github.com/sweetpotato0/ticket-resolver/ticket"
	"github.com/sweetpotato0/ticket-resolver/vector"
)

// DefaultTopK is the number of snippets a semantic lookup returns.
const DefaultTopK = 5

// Index is a semantic knowledge base backed by a vector store. Retrieve is total:
// any backend problem is logged and answered from the static table.
type Index struct {
	store    vector.VectorStore
	embedder embedder.Embedder
	chunker  chunking.Chunker
	topK     int
	logger   *slog.Logger
}

// IndexOption customises an Index.
type IndexOption func(*Index)

// WithTopK sets how many snippets a lookup returns.
func WithTopK(k int) IndexOption {
	return func(i *Index) {
		if k > 0 {
			i.topK = k
		}
	}
}

// WithChunker splits documents before they are embedded. Without one, each
// document is indexed whole.
func WithChunker(c chunking.Chunker) IndexOption {
	return func(i *Index) { i.chunker = c }
}

// WithIndexLogger overrides the component logger.
func WithIndexLogger(l *slog.Logger) IndexOption {
	return func(i *Index) {
		if l != nil {
			i.logger = l
		}
	}
}

// NewIndex creates an index over store. Either argument may be nil, in which case
// every lookup falls back to the static table.
func NewIndex(store vector.VectorStore, emb embedder.Embedder, opts ...IndexOption) *Index {
	idx := &Index{
		store:    store,
		embedder: emb,
		topK:     DefaultTopK,
		logger:   logging.WithComponent("knowledge"),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IndexDocuments embeds and stores docs. The document category is stored as
// metadata so lookups can filter on it.
func (i *Index) IndexDocuments(ctx context.Context, docs []document.Document) error {
	if i == nil || i.store == nil || i.embedder == nil {
		return fmt.Errorf("knowledge index not configured")
	}
	if len(docs) == 0 {
		return nil
	}
	for j := range docs {
		document.EnsureDocumentID(&docs[j])
		if err := docs[j].Validate(); err != nil {
			return err
		}
	}
	if i.chunker != nil {
		var chunks []document.Document
		for _, doc := range docs {
			parts, err := i.chunker.Chunk(ctx, doc)
			if err != nil {
				return fmt.Errorf("chunk document %s: %w", doc.ID, err)
			}
			chunks = append(chunks, parts...)
		}
		docs = chunks
	}

	vecs, err := i.embedder.EmbedDocuments(ctx, docs)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	for j, doc := range docs {
		if err := i.store.AddEmbedding(ctx, &vector.Embedding{
			ID:       doc.ID,
			Text:     doc.Content,
			Vector:   vecs[j],
			Metadata: doc.IndexMetadata(),
		}); err != nil {
			return fmt.Errorf("store document %s: %w", doc.ID, err)
		}
	}
	i.logger.Info("indexed knowledge documents", "count", len(docs))
	return nil
}

// Retrieve returns snippets for the ticket, most relevant first. The query is the
// subject and description joined by a space; results are restricted to category.
func (i *Index) Retrieve(ctx context.Context, category ticket.Category, subject, description string) []string {
	snippets, err := i.search(ctx, category, subject+" "+description)
	if err != nil {
		fallbackCategory := category
		if fallbackCategory == "" {
			fallbackCategory = ticket.DefaultCategory
		}
		if i != nil {
			i.logger.Warn("semantic retrieval unavailable, using fallback table",
				"category", fallbackCategory, "error", err)
		}
		return EnhancedContext(fallbackCategory, subject, description)
	}
	return snippets
}

func (i *Index) search(ctx context.Context, category ticket.Category, query string) ([]string, error) {
	if i == nil || i.store == nil || i.embedder == nil {
		return nil, fmt.Errorf("knowledge index not configured")
	}
	count, err := i.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("knowledge index is empty")
	}

	queryVec, err := i.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var filter vector.Filter
	if category != "" {
		filter = vector.Filter{document.MetadataCategory: string(category)}
	}
	hits, err := i.store.Search(ctx, queryVec, i.topK, filter)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := make([]string, 0, len(hits))
	scores := make([]float32, 0, len(hits))
	for _, hit := range hits {
		out = append(out, hit.Text)
		scores = append(scores, hit.Score)
	}
	i.logger.Debug("semantic retrieval", "category", category, "items", len(out), "scores", scores)
	return out, nil
}

// Static serves only the fallback table with ticket-keyword enrichment.
type Static struct{}

// Retrieve implements the retrieval capability without a semantic backend.
func (Static) Retrieve(_ context.Context, category ticket.Category, subject, description string) []string {
	return EnhancedContext(category, subject, description)
}
