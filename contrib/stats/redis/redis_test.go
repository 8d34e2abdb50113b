package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweetpotato0/ticket-resolver/stats"
)

func newRecorder(t *testing.T) *Recorder {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, "")
}

func TestRecorderEmptySnapshot(t *testing.T) {
	snap, err := newRecorder(t).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snap.TicketsProcessed)
	assert.Equal(t, 100.0, snap.SuccessRate)
	assert.Empty(t, snap.Recent)
}

func TestRecorderAggregates(t *testing.T) {
	ctx := context.Background()
	r := newRecorder(t)

	require.NoError(t, r.Record(ctx, stats.Entry{Subject: "a", Category: "Billing", Status: "approved", Duration: time.Second}))
	require.NoError(t, r.Record(ctx, stats.Entry{Subject: "b", Category: "Billing", Status: "escalated", RetryCount: 2, Duration: 3 * time.Second}))

	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.TicketsProcessed)
	assert.Equal(t, int64(2), snap.ByCategory["Billing"])
	assert.Equal(t, int64(1), snap.ByStatus["approved"])
	assert.Equal(t, 50.0, snap.SuccessRate)
	assert.Equal(t, 2*time.Second, snap.AvgProcessingTime)
	require.Len(t, snap.Recent, 2)
	assert.Equal(t, "b", snap.Recent[0].Subject)
	assert.Equal(t, 2, snap.Recent[0].RetryCount)
}

func TestRecorderCapsRecent(t *testing.T) {
	ctx := context.Background()
	r := newRecorder(t)
	for i := 0; i < stats.RecentLimit+5; i++ {
		require.NoError(t, r.Record(ctx, stats.Entry{Category: "General", Status: "approved"}))
	}
	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Recent, stats.RecentLimit)
	assert.Equal(t, int64(stats.RecentLimit+5), snap.TicketsProcessed)
}
