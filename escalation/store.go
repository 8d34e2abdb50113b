package escalation

import (
	"context"
	"errors"
	"sync"
)

// Store is an append-only escalation sink. Implementations must be safe for
// concurrent use; the entries of concurrent appends must not interleave.
type Store interface {
	Append(ctx context.Context, rec Record) error
}

// Lister is implemented by stores that can read their entries back.
type Lister interface {
	List(ctx context.Context) ([]Record, error)
}

// Multi fans every record out to all stores. All stores are attempted; the
// failures are joined.
type Multi []Store

// Append implements Store.
func (m Multi) Append(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Append(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Memory keeps records in process. It is the store used when nothing durable is
// configured, and in tests.
type Memory struct {
	mu      sync.Mutex
	records []Record
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{}
}

// Append implements Store.
func (m *Memory) Append(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// List implements Lister.
func (m *Memory) List(_ context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Record(nil), m.records...), nil
}
