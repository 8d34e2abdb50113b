package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/sweetpotato0/ticket-resolver/escalation"
)

// Store appends escalation records to a PostgreSQL table.
type Store struct {
	db    *sql.DB
	table string
}

// Config holds PostgreSQL connection configuration
type Config struct {
	DSN   string
	Table string
}

// DefaultConfig returns default PostgreSQL configuration
func DefaultConfig() *Config {
	return &Config{
		DSN:   "host=localhost port=5432 user=postgres dbname=ticket_resolver sslmode=disable",
		Table: "escalations",
	}
}

// New connects to PostgreSQL and creates the table if needed.
func New(ctx context.Context, config *Config) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}

	db, err := sql.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	table := config.Table
	if table == "" {
		table = "escalations"
	}
	store := &Store{db: db, table: pq.QuoteIdentifier(table)}
	if err := store.createTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return store, nil
}

func (s *Store) createTable(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(64) PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		ticket_subject TEXT NOT NULL,
		ticket_description TEXT NOT NULL,
		category VARCHAR(64) NOT NULL,
		draft_response TEXT NOT NULL,
		review_feedback TEXT NOT NULL,
		retry_count INTEGER NOT NULL
	)`, s.table)
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Append implements escalation.Store. Rows are only ever inserted.
func (s *Store) Append(ctx context.Context, rec escalation.Record) error {
	query := fmt.Sprintf(`
	INSERT INTO %s (id, created_at, ticket_subject, ticket_description, category, draft_response, review_feedback, retry_count)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, s.table)

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Timestamp, rec.TicketSubject, rec.TicketDescription,
		rec.Category, rec.DraftResponse, rec.ReviewFeedback, rec.RetryCount)
	if err != nil {
		return fmt.Errorf("failed to insert escalation: %w", err)
	}
	return nil
}

// List implements escalation.Lister, oldest first.
func (s *Store) List(ctx context.Context) ([]escalation.Record, error) {
	query := fmt.Sprintf(`
	SELECT id, created_at, ticket_subject, ticket_description, category, draft_response, review_feedback, retry_count
	FROM %s ORDER BY created_at ASC`, s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list escalations: %w", err)
	}
	defer rows.Close()

	var out []escalation.Record
	for rows.Next() {
		var rec escalation.Record
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.TicketSubject, &rec.TicketDescription,
			&rec.Category, &rec.DraftResponse, &rec.ReviewFeedback, &rec.RetryCount); err != nil {
			return nil, fmt.Errorf("failed to scan escalation: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating escalations: %w", err)
	}
	return out, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
