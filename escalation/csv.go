package escalation

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"
)

// DefaultCSVPath is where escalations are logged when no path is configured.
const DefaultCSVPath = "escalation_log.csv"

// CSVStore appends records to a CSV file. The header row is written only when
// the file is created (or found empty).
type CSVStore struct {
	mu   sync.Mutex
	path string
}

// NewCSVStore returns a store writing to path.
func NewCSVStore(path string) *CSVStore {
	if path == "" {
		path = DefaultCSVPath
	}
	return &CSVStore{path: path}
}

// Path returns the file the store writes to.
func (s *CSVStore) Path() string {
	return s.path
}

// Append implements Store.
func (s *CSVStore) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open escalation log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat escalation log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Columns); err != nil {
			return fmt.Errorf("write escalation header: %w", err)
		}
	}
	if err := w.Write(rec.Row()); err != nil {
		return fmt.Errorf("write escalation record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush escalation log: %w", err)
	}
	return nil
}

// List implements Lister. A missing file yields no records.
func (s *CSVStore) List(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open escalation log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Columns)

	var records []Record
	for line := 0; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read escalation log: %w", err)
		}
		if line == 0 {
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("escalation log line %d: %w", line+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (Record, error) {
	ts, err := time.Parse(time.RFC3339Nano, row[0])
	if err != nil {
		return Record{}, fmt.Errorf("timestamp: %w", err)
	}
	retries, err := strconv.Atoi(row[6])
	if err != nil {
		return Record{}, fmt.Errorf("retry_count: %w", err)
	}
	return Record{
		Timestamp:         ts,
		TicketSubject:     row[1],
		TicketDescription: row[2],
		Category:          row[3],
		DraftResponse:     row[4],
		ReviewFeedback:    row[5],
		RetryCount:        retries,
	}, nil
}
