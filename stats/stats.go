// Package stats aggregates run outcomes for the operations dashboard.
package stats

import (
	"context"
	"math"
	"sync"
	"time"
)

// RecentLimit caps how many entries a snapshot keeps, newest first.
const RecentLimit = 50

// Entry describes one finished run.
type Entry struct {
	Timestamp      time.Time     `json:"timestamp"`
	RunID          string        `json:"run_id"`
	Subject        string        `json:"subject"`
	Category       string        `json:"category"`
	Status         string        `json:"status"`
	RetryCount     int           `json:"retry_count"`
	ResponseLength int           `json:"response_length"`
	Duration       time.Duration `json:"duration"`
}

// Snapshot is the aggregate view served to the dashboard.
type Snapshot struct {
	TicketsProcessed  int64            `json:"tickets_processed"`
	ByCategory        map[string]int64 `json:"by_category"`
	ByStatus          map[string]int64 `json:"by_status"`
	SuccessRate       float64          `json:"success_rate"`
	AvgProcessingTime time.Duration    `json:"avg_processing_time"`
	Recent            []Entry          `json:"recent_tickets"`
}

// Recorder accumulates run outcomes. Implementations must be safe for concurrent use.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
	Snapshot(ctx context.Context) (Snapshot, error)
}

// SuccessRate is approved/processed as a percentage rounded to two places; an
// idle system reports 100.
func SuccessRate(approved, processed int64) float64 {
	if processed <= 0 {
		return 100
	}
	return math.Round(float64(approved)/float64(processed)*100*100) / 100
}

// Memory is an in-process Recorder.
type Memory struct {
	mu            sync.Mutex
	processed     int64
	totalDuration time.Duration
	byCategory    map[string]int64
	byStatus      map[string]int64
	recent        []Entry
}

// NewMemory creates an empty recorder.
func NewMemory() *Memory {
	return &Memory{
		byCategory: make(map[string]int64),
		byStatus:   make(map[string]int64),
	}
}

// Record implements Recorder.
func (m *Memory) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed++
	m.totalDuration += e.Duration
	m.byCategory[e.Category]++
	m.byStatus[e.Status]++

	m.recent = append([]Entry{e}, m.recent...)
	if len(m.recent) > RecentLimit {
		m.recent = m.recent[:RecentLimit]
	}
	return nil
}

// Snapshot implements Recorder.
func (m *Memory) Snapshot(_ context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		TicketsProcessed: m.processed,
		ByCategory:       make(map[string]int64, len(m.byCategory)),
		ByStatus:         make(map[string]int64, len(m.byStatus)),
		SuccessRate:      SuccessRate(m.byStatus["approved"], m.processed),
		Recent:           append([]Entry(nil), m.recent...),
	}
	for k, v := range m.byCategory {
		snap.ByCategory[k] = v
	}
	for k, v := range m.byStatus {
		snap.ByStatus[k] = v
	}
	if m.processed > 0 {
		snap.AvgProcessingTime = m.totalDuration / time.Duration(m.processed)
	}
	return snap, nil
}
