package agent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweetpotato0/ticket-resolver/message"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		Timeout:        time.Second,
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func TestRetryingRecoversFromTransientFailure(t *testing.T) {
	var calls atomic.Int32
	client := ClientFunc(func(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("503 upstream")
		}
		return &GenerateResponse{Message: message.NewMessage(message.RoleAssistant, "ok")}, nil
	})

	resp, err := Retrying(client, fastRetry(3)).Generate(context.Background(), &GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text())
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetryingStopsAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("connection refused")
	client := ClientFunc(func(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
		calls.Add(1)
		return nil, boom
	})

	_, err := Retrying(client, fastRetry(2)).Generate(context.Background(), &GenerateRequest{})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetryingAppliesPerAttemptTimeout(t *testing.T) {
	client := ClientFunc(func(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cfg := fastRetry(1)
	cfg.Timeout = 5 * time.Millisecond

	_, err := Retrying(client, cfg).Generate(context.Background(), &GenerateRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
}

func TestRetryingRejectsNilRequest(t *testing.T) {
	client := ClientFunc(func(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
		return nil, nil
	})
	_, err := Retrying(client, fastRetry(1)).Generate(context.Background(), nil)
	assert.Error(t, err)
}
