// Package redis appends escalation records to a Redis stream.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sweetpotato0/ticket-resolver/escalation"
)

// DefaultStream is the stream key used when none is configured.
const DefaultStream = "ticket-resolver:escalations"

// Config holds Redis configuration
type Config struct {
	Addr     string // Redis server address (e.g., "localhost:6379")
	Password string
	DB       int
	Stream   string
	// MaxLen approximately caps the stream length; 0 keeps every entry.
	MaxLen int64
}

// Store implements escalation.Store with XADD.
type Store struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

// New creates a store with its own client.
func New(config *Config) *Store {
	if config == nil {
		config = &Config{Addr: "localhost:6379"}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	return NewWithClient(client, config.Stream, config.MaxLen)
}

// NewWithClient wraps an existing client.
func NewWithClient(client redis.UniversalClient, stream string, maxLen int64) *Store {
	if stream == "" {
		stream = DefaultStream
	}
	return &Store{client: client, stream: stream, maxLen: maxLen}
}

// Append implements escalation.Store.
func (s *Store) Append(ctx context.Context, rec escalation.Record) error {
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: rec.Fields(),
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to append escalation to Redis stream: %w", err)
	}
	return nil
}

// List implements escalation.Lister, oldest first.
func (s *Store) List(ctx context.Context) ([]escalation.Record, error) {
	entries, err := s.client.XRange(ctx, s.stream, "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read escalation stream: %w", err)
	}

	out := make([]escalation.Record, 0, len(entries))
	for _, entry := range entries {
		rec, err := decode(entry.Values)
		if err != nil {
			return nil, fmt.Errorf("stream entry %s: %w", entry.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func decode(values map[string]any) (escalation.Record, error) {
	str := func(key string) string {
		v, _ := values[key].(string)
		return v
	}
	ts, err := time.Parse(time.RFC3339Nano, str("timestamp"))
	if err != nil {
		return escalation.Record{}, fmt.Errorf("timestamp: %w", err)
	}
	retries, err := strconv.Atoi(str("retry_count"))
	if err != nil {
		return escalation.Record{}, fmt.Errorf("retry_count: %w", err)
	}
	return escalation.Record{
		ID:                str("id"),
		Timestamp:         ts,
		TicketSubject:     str("ticket_subject"),
		TicketDescription: str("ticket_description"),
		Category:          str("category"),
		DraftResponse:     str("draft_response"),
		ReviewFeedback:    str("review_feedback"),
		RetryCount:        retries,
	}, nil
}
