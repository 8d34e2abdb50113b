package stats

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessRate(t *testing.T) {
	assert.Equal(t, 100.0, SuccessRate(0, 0))
	assert.Equal(t, 66.67, SuccessRate(2, 3))
	assert.Equal(t, 0.0, SuccessRate(0, 4))
	assert.Equal(t, 100.0, SuccessRate(5, 5))
}

func TestMemoryRecorder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	empty, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, empty.SuccessRate)
	assert.Zero(t, empty.TicketsProcessed)

	require.NoError(t, m.Record(ctx, Entry{Subject: "a", Category: "Billing", Status: "approved", Duration: time.Second}))
	require.NoError(t, m.Record(ctx, Entry{Subject: "b", Category: "Billing", Status: "escalated", RetryCount: 2, Duration: 3 * time.Second}))
	require.NoError(t, m.Record(ctx, Entry{Subject: "c", Category: "Security", Status: "approved", Duration: 2 * time.Second}))

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.TicketsProcessed)
	assert.Equal(t, int64(2), snap.ByCategory["Billing"])
	assert.Equal(t, int64(1), snap.ByStatus["escalated"])
	assert.Equal(t, 66.67, snap.SuccessRate)
	assert.Equal(t, 2*time.Second, snap.AvgProcessingTime)
	require.Len(t, snap.Recent, 3)
	assert.Equal(t, "c", snap.Recent[0].Subject, "newest first")

	snap.ByCategory["Billing"] = 99
	again, _ := m.Snapshot(ctx)
	assert.Equal(t, int64(2), again.ByCategory["Billing"], "snapshot must be a copy")
}

func TestMemoryRecentIsCapped(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < RecentLimit+10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Record(ctx, Entry{Subject: fmt.Sprint(i), Category: "General", Status: "approved"})
		}(i)
	}
	wg.Wait()

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(RecentLimit+10), snap.TicketsProcessed)
	assert.Len(t, snap.Recent, RecentLimit)
}
