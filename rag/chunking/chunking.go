// Package chunking splits long knowledge articles into pieces small enough to be
// embedded and returned as individual snippets.
package chunking

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sweetpotato0/ticket-resolver/rag/document"
)

// Metadata keys set on every chunk produced from a split document.
const (
	MetadataParentID = "parent_id"
	MetadataOrdinal  = "chunk"
)

// Chunker splits a document into documents that can be embedded and indexed.
// Chunks inherit the category and metadata of their parent.
type Chunker interface {
	Chunk(ctx context.Context, doc document.Document) ([]document.Document, error)
}

type Options struct {
	ChunkSize int
	Overlap   int
	Separator string
}

// SimpleChunker splits documents by separator and enforces max rune lengths.
type SimpleChunker struct {
	size    int
	overlap int
	sep     string
}

// Option customizes the simple chunker.
type Option func(*Options)

// WithChunkSize overrides the default chunk size (runes).
func WithChunkSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.ChunkSize = size
		}
	}
}

// WithOverlap configures overlap (runes) between consecutive windows of one paragraph.
func WithOverlap(overlap int) Option {
	return func(o *Options) {
		if overlap >= 0 {
			o.Overlap = overlap
		}
	}
}

// WithSeparator sets the logical separator used before windowing.
func WithSeparator(sep string) Option {
	return func(o *Options) {
		if sep != "" {
			o.Separator = sep
		}
	}
}

// NewSimpleChunker constructs a chunker sized for support articles.
func NewSimpleChunker(opts ...Option) *SimpleChunker {
	cfg := &Options{
		ChunkSize: 800,
		Overlap:   120,
		Separator: "\n\n",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Overlap >= cfg.ChunkSize {
		cfg.Overlap = cfg.ChunkSize / 4
	}
	return &SimpleChunker{
		size:    cfg.ChunkSize,
		overlap: cfg.Overlap,
		sep:     cfg.Separator,
	}
}

// Chunk packs consecutive paragraphs into chunks of at most size runes. A single
// paragraph longer than size is cut into overlapping windows.
func (c *SimpleChunker) Chunk(ctx context.Context, doc document.Document) ([]document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	document.EnsureDocumentID(&doc)

	var pieces []string
	var current []rune
	flush := func() {
		if text := strings.TrimSpace(string(current)); text != "" {
			pieces = append(pieces, text)
		}
		current = current[:0]
	}

	for _, part := range strings.Split(doc.Content, c.sep) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		runes := []rune(part)
		if len(current) > 0 && len(current)+len(c.sep)+len(runes) > c.size {
			flush()
		}
		for len(runes) > c.size {
			flush()
			pieces = append(pieces, strings.TrimSpace(string(runes[:c.size])))
			runes = runes[c.size-c.overlap:]
		}
		if len(current) > 0 {
			current = append(current, []rune(c.sep)...)
		}
		current = append(current, runes...)
	}
	flush()

	return Split(doc, pieces), nil
}

// Split turns pieces of doc into chunk documents. A document that yields at most
// one piece is returned unchanged so its ID stays stable across re-indexing.
func Split(doc document.Document, pieces []string) []document.Document {
	if len(pieces) <= 1 {
		return []document.Document{doc}
	}
	chunks := make([]document.Document, 0, len(pieces))
	for i, piece := range pieces {
		meta := make(map[string]string, len(doc.Metadata)+2)
		for k, v := range doc.Metadata {
			meta[k] = v
		}
		meta[MetadataParentID] = doc.ID
		meta[MetadataOrdinal] = strconv.Itoa(i + 1)
		chunks = append(chunks, document.Document{
			ID:       fmt.Sprintf("%s#%d", doc.ID, i+1),
			Title:    doc.Title,
			Content:  piece,
			Category: doc.Category,
			Metadata: meta,
		})
	}
	return chunks
}
