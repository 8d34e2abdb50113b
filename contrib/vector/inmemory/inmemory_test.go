package inmemory

import (
	"context"
	"testing"

	"github.com/sweetpotato0/ticket-resolver/vector"
)

func TestInMemoryVectorStore(t *testing.T) {
	store := NewInMemoryVectorStore()
	ctx := context.Background()

	t.Run("rejects invalid embeddings", func(t *testing.T) {
		if err := store.AddEmbedding(ctx, nil); err == nil {
			t.Error("expected error for nil embedding")
		}
		if err := store.AddEmbedding(ctx, &vector.Embedding{Vector: []float32{1}}); err == nil {
			t.Error("expected error for empty ID")
		}
		if err := store.AddEmbedding(ctx, &vector.Embedding{ID: "x"}); err == nil {
			t.Error("expected error for empty vector")
		}
	})

	t.Run("search orders by similarity", func(t *testing.T) {
		store.Clear(ctx)

		embeddings := []*vector.Embedding{
			{ID: "emb1", Text: "apple", Vector: []float32{1.0, 0.0, 0.0}},
			{ID: "emb2", Text: "banana", Vector: []float32{0.7, 0.7, 0.0}},
			{ID: "emb3", Text: "orange", Vector: []float32{0.0, 0.0, 1.0}},
		}
		for _, emb := range embeddings {
			if err := store.AddEmbedding(ctx, emb); err != nil {
				t.Fatalf("AddEmbedding failed: %v", err)
			}
		}

		results, err := store.Search(ctx, []float32{1.0, 0.0, 0.0}, 2, nil)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(results))
		}
		if results[0].ID != "emb1" || results[1].ID != "emb2" {
			t.Errorf("unexpected order: %s, %s", results[0].ID, results[1].ID)
		}
		if results[0].Score < results[1].Score {
			t.Errorf("scores not descending: %f < %f", results[0].Score, results[1].Score)
		}
	})

	t.Run("search applies metadata filter", func(t *testing.T) {
		store.Clear(ctx)

		store.AddEmbedding(ctx, &vector.Embedding{ID: "b1", Text: "refunds", Vector: []float32{1, 0}, Metadata: map[string]string{"category": "Billing"}})
		store.AddEmbedding(ctx, &vector.Embedding{ID: "s1", Text: "2fa", Vector: []float32{1, 0}, Metadata: map[string]string{"category": "Security"}})

		results, err := store.Search(ctx, []float32{1, 0}, 5, vector.Filter{"category": "Security"})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 1 || results[0].ID != "s1" {
			t.Fatalf("expected only s1, got %v", results)
		}
	})

	t.Run("stored copy is isolated from caller", func(t *testing.T) {
		store.Clear(ctx)

		emb := &vector.Embedding{ID: "iso", Text: "t", Vector: []float32{1, 0}, Metadata: map[string]string{"category": "General"}}
		store.AddEmbedding(ctx, emb)
		emb.Metadata["category"] = "Billing"

		results, _ := store.Search(ctx, []float32{1, 0}, 1, vector.Filter{"category": "General"})
		if len(results) != 1 {
			t.Fatal("caller mutation leaked into the store")
		}
	})

	t.Run("count embeddings", func(t *testing.T) {
		store.Clear(ctx)

		count, err := store.Count(ctx)
		if err != nil {
			t.Errorf("Count failed: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected count 0, got %d", count)
		}

		store.AddEmbedding(ctx, &vector.Embedding{ID: "cnt1", Text: "count me", Vector: []float32{0.1, 0.2, 0.3}})

		count, err = store.Count(ctx)
		if err != nil {
			t.Errorf("Count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected count 1, got %d", count)
		}
	})
}
