package tiktoken

import (
	"context"
	"strings"
	"testing"

	"github.com/sweetpotato0/ticket-resolver/rag/chunking"
	"github.com/sweetpotato0/ticket-resolver/rag/document"
)

// newChunker skips when the BPE ranks cannot be loaded (they are fetched on
// first use and cached under TIKTOKEN_CACHE_DIR).
func newChunker(t *testing.T, opts ...Option) *Chunker {
	t.Helper()
	c, err := New("text-embedding-3-small", opts...)
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}
	return c
}

func TestChunkByTokens(t *testing.T) {
	c := newChunker(t, WithMaxTokens(16), WithOverlapTokens(4))
	doc := document.Document{
		ID:       "security_001",
		Category: "Security",
		Content:  strings.Repeat("Enable two-factor authentication for your account. ", 10),
	}

	chunks, err := c.Chunk(context.Background(), doc)
	if err != nil {
		t.Fatalf("chunk error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for _, ch := range chunks {
		// re-encoding a window cut mid-word can cost a token or two
		if n := c.CountTokens(ch.Content); n > 18 {
			t.Errorf("chunk %s has %d tokens", ch.ID, n)
		}
		if ch.Category != "Security" || ch.Metadata[chunking.MetadataParentID] != "security_001" {
			t.Errorf("chunk %s lost parent fields: %+v", ch.ID, ch)
		}
	}
}

func TestShortDocumentIsNotSplit(t *testing.T) {
	c := newChunker(t)
	doc := document.Document{ID: "general_001", Category: "General", Content: "Support hours are 9 to 6."}
	chunks, err := c.Chunk(context.Background(), doc)
	if err != nil {
		t.Fatalf("chunk error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].ID != "general_001" {
		t.Fatalf("unexpected chunks: %+v", chunks)
	}
}
