package escalation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordTruncatesAndSubstitutes(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	long := strings.Repeat("é", 1200)

	rec := NewRecord("Refund", long, "Billing", "", "", 2, at)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, 500, len([]rune(rec.TicketDescription)))
	assert.Equal(t, NoDraft, rec.DraftResponse)
	assert.Equal(t, NoFeedback, rec.ReviewFeedback)
	assert.Equal(t, 2, rec.RetryCount)

	rec = NewRecord("Refund", "short", "Billing", long, long, 2, at)
	assert.Equal(t, 1000, len([]rune(rec.DraftResponse)))
	assert.Equal(t, 500, len([]rune(rec.ReviewFeedback)))
	assert.Equal(t, "short", rec.TicketDescription)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "日本", Truncate("日本語", 2))
}

func TestRowFollowsColumns(t *testing.T) {
	rec := NewRecord("s", "d", "Security", "draft", "fb", 1, time.Unix(0, 0).UTC())
	row := rec.Row()
	require.Len(t, row, len(Columns))
	assert.Equal(t, "s", row[1])
	assert.Equal(t, "Security", row[3])
	assert.Equal(t, "1", row[6])

	fields := rec.Fields()
	assert.Equal(t, rec.ID, fields["id"])
	assert.Equal(t, "fb", fields["review_feedback"])
}

func TestCSVStoreWritesHeaderOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "escalations.csv")
	store := NewCSVStore(path)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, NewRecord("First", "line one\nline two", "Billing", "draft, with comma", "feedback", 2, at)))
	require.NoError(t, store.Append(ctx, NewRecord("Second", "d", "General", "", "", 2, at)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(raw), strings.Join(Columns, ",")))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "First", records[0].TicketSubject)
	assert.Equal(t, "line one\nline two", records[0].TicketDescription)
	assert.Equal(t, "draft, with comma", records[0].DraftResponse)
	assert.True(t, at.Equal(records[0].Timestamp))
	assert.Equal(t, NoDraft, records[1].DraftResponse)
}

func TestCSVStoreConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	store := NewCSVStore(filepath.Join(t.TempDir(), "escalations.csv"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Append(ctx, NewRecord("s", "d", "General", "x", "y", 2, time.Now())))
		}()
	}
	wg.Wait()

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 20)
}

func TestCSVStoreFailure(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "missing", "dir", "log.csv"))
	err := store.Append(context.Background(), NewRecord("s", "d", "General", "", "", 2, time.Now()))
	assert.Error(t, err)

	records, err := store.List(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, records)
}

type failingStore struct{ err error }

func (f failingStore) Append(context.Context, Record) error { return f.err }

func TestMultiAttemptsEveryStore(t *testing.T) {
	mem := NewMemory()
	boom := errors.New("disk full")
	multi := Multi{failingStore{boom}, nil, mem}

	err := multi.Append(context.Background(), NewRecord("s", "d", "General", "", "", 2, time.Now()))
	assert.ErrorIs(t, err, boom)

	records, _ := mem.List(context.Background())
	assert.Len(t, records, 1)
}
