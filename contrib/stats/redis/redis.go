// Package redis keeps dashboard counters in Redis so several resolver processes
// can share one view.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sweetpotato0/ticket-resolver/stats"
)

// DefaultPrefix namespaces the recorder's keys.
const DefaultPrefix = "ticket-resolver:stats:"

// Recorder implements stats.Recorder. Each Record is one MULTI/EXEC transaction.
type Recorder struct {
	client redis.UniversalClient
	prefix string
}

// New wraps client; prefix defaults to DefaultPrefix.
func New(client redis.UniversalClient, prefix string) *Recorder {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Recorder{client: client, prefix: prefix}
}

func (r *Recorder) key(name string) string { return r.prefix + name }

// Record implements stats.Recorder.
func (r *Recorder) Record(ctx context.Context, e stats.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode stats entry: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.key("processed"))
		pipe.IncrBy(ctx, r.key("duration_ns"), int64(e.Duration))
		pipe.HIncrBy(ctx, r.key("by_category"), e.Category, 1)
		pipe.HIncrBy(ctx, r.key("by_status"), e.Status, 1)
		pipe.LPush(ctx, r.key("recent"), data)
		pipe.LTrim(ctx, r.key("recent"), 0, stats.RecentLimit-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record stats in Redis: %w", err)
	}
	return nil
}

// Snapshot implements stats.Recorder.
func (r *Recorder) Snapshot(ctx context.Context) (stats.Snapshot, error) {
	var (
		processed  *redis.StringCmd
		duration   *redis.StringCmd
		byCategory *redis.MapStringStringCmd
		byStatus   *redis.MapStringStringCmd
		recent     *redis.StringSliceCmd
	)
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		processed = pipe.Get(ctx, r.key("processed"))
		duration = pipe.Get(ctx, r.key("duration_ns"))
		byCategory = pipe.HGetAll(ctx, r.key("by_category"))
		byStatus = pipe.HGetAll(ctx, r.key("by_status"))
		recent = pipe.LRange(ctx, r.key("recent"), 0, stats.RecentLimit-1)
		return nil
	})
	if err != nil && err != redis.Nil {
		return stats.Snapshot{}, fmt.Errorf("read stats from Redis: %w", err)
	}

	snap := stats.Snapshot{}
	if snap.TicketsProcessed, err = int64OrZero(processed); err != nil {
		return stats.Snapshot{}, err
	}
	totalNs, err := int64OrZero(duration)
	if err != nil {
		return stats.Snapshot{}, err
	}
	if snap.ByCategory, err = counts(byCategory.Val()); err != nil {
		return stats.Snapshot{}, err
	}
	if snap.ByStatus, err = counts(byStatus.Val()); err != nil {
		return stats.Snapshot{}, err
	}
	snap.SuccessRate = stats.SuccessRate(snap.ByStatus["approved"], snap.TicketsProcessed)
	if snap.TicketsProcessed > 0 {
		snap.AvgProcessingTime = time.Duration(totalNs / snap.TicketsProcessed)
	}

	for _, raw := range recent.Val() {
		var e stats.Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return stats.Snapshot{}, fmt.Errorf("decode recent entry: %w", err)
		}
		snap.Recent = append(snap.Recent, e)
	}
	return snap, nil
}

func int64OrZero(cmd *redis.StringCmd) (int64, error) {
	v, err := cmd.Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", cmd.Args()[1], err)
	}
	return v, nil
}

func counts(raw map[string]string) (map[string]int64, error) {
	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse counter %s: %w", k, err)
		}
		out[k] = n
	}
	return out, nil
}
