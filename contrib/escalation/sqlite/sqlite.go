// Package sqlite stores escalation records in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sweetpotato0/ticket-resolver/escalation"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS escalations (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	ticket_subject TEXT NOT NULL,
	ticket_description TEXT NOT NULL,
	category TEXT NOT NULL,
	draft_response TEXT NOT NULL,
	review_feedback TEXT NOT NULL,
	retry_count INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_escalations_created_at ON escalations(created_at);
`

// Store appends escalation records to a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer; a single connection keeps appends serialised.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Append implements escalation.Store.
func (s *Store) Append(ctx context.Context, rec escalation.Record) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO escalations (id, created_at, ticket_subject, ticket_description, category, draft_response, review_feedback, retry_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp.UTC().Format(time.RFC3339Nano), rec.TicketSubject, rec.TicketDescription,
		rec.Category, rec.DraftResponse, rec.ReviewFeedback, rec.RetryCount)
	if err != nil {
		return fmt.Errorf("insert escalation: %w", err)
	}
	return nil
}

// List implements escalation.Lister, oldest first.
func (s *Store) List(ctx context.Context) ([]escalation.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, created_at, ticket_subject, ticket_description, category, draft_response, review_feedback, retry_count
	FROM escalations ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list escalations: %w", err)
	}
	defer rows.Close()

	var out []escalation.Record
	for rows.Next() {
		var (
			rec escalation.Record
			ts  string
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.TicketSubject, &rec.TicketDescription,
			&rec.Category, &rec.DraftResponse, &rec.ReviewFeedback, &rec.RetryCount); err != nil {
			return nil, fmt.Errorf("scan escalation: %w", err)
		}
		if rec.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse timestamp of %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
