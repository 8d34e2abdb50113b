package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/sweetpotato0/ticket-resolver/vector"
)

// PGVectorStore implements VectorStore using PostgreSQL with the pgvector extension.
type PGVectorStore struct {
	db        *sql.DB
	dimension int
	table     string
}

// PGVectorConfig holds pgvector configuration
type PGVectorConfig struct {
	DSN       string
	Dimension int    // Embedding dimension (default: 1536 for OpenAI)
	TableName string // Table name (default: knowledge_vectors)
}

// DefaultPGVectorConfig returns default pgvector configuration
func DefaultPGVectorConfig() *PGVectorConfig {
	return &PGVectorConfig{
		DSN:       "host=127.0.0.1 port=5432 user=postgres dbname=ticket_resolver sslmode=disable",
		Dimension: 1536,
		TableName: "knowledge_vectors",
	}
}

// NewPGVectorStore opens the database and prepares the table.
func NewPGVectorStore(ctx context.Context, config *PGVectorConfig) (*PGVectorStore, error) {
	if config == nil {
		config = DefaultPGVectorConfig()
	}
	if config.Dimension <= 0 {
		return nil, fmt.Errorf("dimension must be positive")
	}

	db, err := sql.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	table := config.TableName
	if table == "" {
		table = "knowledge_vectors"
	}
	store := &PGVectorStore{
		db:        db,
		dimension: config.Dimension,
		table:     pq.QuoteIdentifier(table),
	}
	if err := store.setup(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup pgvector: %w", err)
	}
	return store, nil
}

func (s *PGVectorStore) setup(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTableSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(255) PRIMARY KEY,
		text TEXT NOT NULL,
		metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
		embedding vector(%d) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, s.table, s.dimension)

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// AddEmbedding adds a new embedding to the store
func (s *PGVectorStore) AddEmbedding(ctx context.Context, embedding *vector.Embedding) error {
	if embedding == nil {
		return fmt.Errorf("embedding cannot be nil")
	}
	if embedding.ID == "" {
		return fmt.Errorf("embedding ID cannot be empty")
	}
	if len(embedding.Vector) != s.dimension {
		return fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.dimension, len(embedding.Vector))
	}

	meta, err := encodeMetadata(embedding.Metadata)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
	INSERT INTO %s (id, text, metadata, embedding)
	VALUES ($1, $2, $3::jsonb, $4::vector)
	ON CONFLICT (id) DO UPDATE SET
		text = EXCLUDED.text,
		metadata = EXCLUDED.metadata,
		embedding = EXCLUDED.embedding,
		created_at = CURRENT_TIMESTAMP
	`, s.table)

	if _, err := s.db.ExecContext(ctx, query, embedding.ID, embedding.Text, meta, VectorLiteral(embedding.Vector)); err != nil {
		return fmt.Errorf("failed to add embedding: %w", err)
	}
	return nil
}

// Search orders by cosine distance (`<=>`) and reports 1-distance as the score.
func (s *PGVectorStore) Search(ctx context.Context, queryVector []float32, topK int, filter vector.Filter) ([]*vector.Embedding, error) {
	if len(queryVector) != s.dimension {
		return nil, fmt.Errorf("query vector dimension mismatch: expected %d, got %d", s.dimension, len(queryVector))
	}
	if topK <= 0 {
		topK = 10
	}

	meta, err := encodeMetadata(filter)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
	SELECT id, text, metadata, 1 - (embedding <=> $1::vector) AS score
	FROM %s
	WHERE metadata @> $2::jsonb
	ORDER BY embedding <=> $1::vector, id
	LIMIT $3
	`, s.table)

	rows, err := s.db.QueryContext(ctx, query, VectorLiteral(queryVector), meta, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search embeddings: %w", err)
	}
	defer rows.Close()

	results := make([]*vector.Embedding, 0, topK)
	for rows.Next() {
		var (
			emb     vector.Embedding
			rawMeta []byte
		)
		if err := rows.Scan(&emb.ID, &emb.Text, &rawMeta, &emb.Score); err != nil {
			return nil, fmt.Errorf("failed to scan embedding: %w", err)
		}
		if err := json.Unmarshal(rawMeta, &emb.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", emb.ID, err)
		}
		results = append(results, &emb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating embeddings: %w", err)
	}
	return results, nil
}

// Clear removes all embeddings
func (s *PGVectorStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s", s.table)); err != nil {
		return fmt.Errorf("failed to clear embeddings: %w", err)
	}
	return nil
}

// Count returns the number of embeddings
func (s *PGVectorStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (s *PGVectorStore) Close() error {
	return s.db.Close()
}

// VectorLiteral renders a vector in pgvector's text input format: [1,2,3].
func VectorLiteral(vec []float32) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func encodeMetadata(m map[string]string) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(raw), nil
}
