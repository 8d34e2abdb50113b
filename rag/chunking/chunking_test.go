package chunking

import (
	"context"
	"strings"
	"testing"

	"github.com/sweetpotato0/ticket-resolver/rag/document"
)

func TestSimpleChunkerKeepsShortDocumentsWhole(t *testing.T) {
	doc := document.Document{ID: "billing_001", Content: "Payments can be made by card.", Category: "Billing"}
	chunks, err := NewSimpleChunker().Chunk(context.Background(), doc)
	if err != nil {
		t.Fatalf("chunk error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].ID != "billing_001" {
		t.Fatalf("expected the document back unchanged, got %+v", chunks)
	}
}

func TestSimpleChunkerPacksParagraphs(t *testing.T) {
	ch := NewSimpleChunker(WithChunkSize(60), WithOverlap(10))
	doc := document.Document{
		ID:       "refunds",
		Category: "Billing",
		Metadata: map[string]string{"source": "kb"},
		Content: strings.Join([]string{
			"Refunds are reviewed case by case.",
			"Allow 5-7 business days.",
			"Partial refunds may apply to unused subscription time.",
		}, "\n\n"),
	}

	chunks, err := ch.Chunk(context.Background(), doc)
	if err != nil {
		t.Fatalf("chunk error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %+v", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0].Content, "Allow 5-7 business days.") {
		t.Errorf("short paragraphs should be packed together, got %q", chunks[0].Content)
	}
	for i, c := range chunks {
		if c.Category != "Billing" || c.Metadata["source"] != "kb" || c.Metadata[MetadataParentID] != "refunds" {
			t.Errorf("chunk %d lost parent fields: %+v", i, c)
		}
		if len([]rune(c.Content)) > 60 {
			t.Errorf("chunk %d exceeds size: %d runes", i, len([]rune(c.Content)))
		}
	}
	if chunks[1].ID != "refunds#2" || chunks[1].Metadata[MetadataOrdinal] != "2" {
		t.Errorf("unexpected chunk identity: %s %v", chunks[1].ID, chunks[1].Metadata)
	}
}

func TestSimpleChunkerWindowsLongParagraphs(t *testing.T) {
	ch := NewSimpleChunker(WithChunkSize(10), WithOverlap(2))
	doc := document.Document{ID: "long", Category: "General", Content: strings.Repeat("é", 25)}

	chunks, err := ch.Chunk(context.Background(), doc)
	if err != nil {
		t.Fatalf("chunk error: %v", err)
	}
	// windows start at 0, 8, 16; the tail of 9 runes fits in the last chunk
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if n := len([]rune(c.Content)); n > 10 {
			t.Errorf("chunk %s has %d runes", c.ID, n)
		}
	}
}
