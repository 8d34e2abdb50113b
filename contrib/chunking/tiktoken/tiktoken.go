// Package tiktoken chunks documents by model token count, so each snippet fits
// the embedding model's input window.
package tiktoken

import (
	"context"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sweetpotato0/ticket-resolver/rag/chunking"
	"github.com/sweetpotato0/ticket-resolver/rag/document"
)

// DefaultEncoding is used when the model name is unknown to tiktoken.
const DefaultEncoding = "cl100k_base"

// Chunker implements chunking.Chunker over a tiktoken encoding.
type Chunker struct {
	enc           *tiktoken.Tiktoken
	maxTokens     int
	overlapTokens int
}

// Option customises the token chunker.
type Option func(*Chunker)

// WithMaxTokens sets the maximum allowed tokens per chunk (default 256).
func WithMaxTokens(tokens int) Option {
	return func(c *Chunker) {
		if tokens > 0 {
			c.maxTokens = tokens
		}
	}
}

// WithOverlapTokens sets how many tokens are shared between consecutive chunks.
func WithOverlapTokens(tokens int) Option {
	return func(c *Chunker) {
		if tokens >= 0 {
			c.overlapTokens = tokens
		}
	}
}

// New loads the encoding for model (or an encoding name) and builds a chunker.
func New(model string, opts ...Option) (*Chunker, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		name := model
		if name == "" {
			name = DefaultEncoding
		}
		enc, err = tiktoken.GetEncoding(name)
		if err != nil {
			return nil, err
		}
	}
	c := &Chunker{enc: enc, maxTokens: 256, overlapTokens: 32}
	for _, opt := range opts {
		opt(c)
	}
	if c.overlapTokens >= c.maxTokens {
		c.overlapTokens = c.maxTokens / 4
	}
	return c, nil
}

// CountTokens returns the number of tokens in text.
func (c *Chunker) CountTokens(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// Chunk implements chunking.Chunker.
func (c *Chunker) Chunk(ctx context.Context, doc document.Document) ([]document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	document.EnsureDocumentID(&doc)

	ids := c.enc.Encode(doc.Content, nil, nil)
	if len(ids) <= c.maxTokens {
		return []document.Document{doc}, nil
	}

	var pieces []string
	for start := 0; start < len(ids); start += c.maxTokens - c.overlapTokens {
		end := min(start+c.maxTokens, len(ids))
		if text := strings.TrimSpace(c.enc.Decode(ids[start:end])); text != "" {
			pieces = append(pieces, text)
		}
		if end == len(ids) {
			break
		}
	}
	return chunking.Split(doc, pieces), nil
}
