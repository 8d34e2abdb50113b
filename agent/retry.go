package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sweetpotato0/ticket-resolver/pkg/logging"
	"golang.org/x/time/rate"
)

// RetryConfig bounds a single capability call at the transport level. It is
// unrelated to the workflow's own retry counter.
type RetryConfig struct {
	Timeout           time.Duration // Per attempt; 0 disables
	MaxAttempts       int           // Total attempts including the first
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	RequestsPerSecond float64 // 0 disables pacing
}

// DefaultRetryConfig is a 30s timeout with 3 attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Timeout:        30 * time.Second,
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
	}
}

type retryingClient struct {
	next    LLMClient
	cfg     RetryConfig
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Retrying wraps client with per-attempt timeouts, bounded exponential backoff and
// optional request pacing. When every attempt fails, the last error is returned.
func Retrying(client LLMClient, cfg RetryConfig) LLMClient {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	rc := &retryingClient{
		next:   client,
		cfg:    cfg,
		logger: logging.WithComponent("llm_transport"),
	}
	if cfg.RequestsPerSecond > 0 {
		rc.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return rc
}

func (c *retryingClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("generate request cannot be nil")
	}

	policy := backoff.NewExponentialBackOff()
	if c.cfg.InitialBackoff > 0 {
		policy.InitialInterval = c.cfg.InitialBackoff
	}
	if c.cfg.MaxBackoff > 0 {
		policy.MaxInterval = c.cfg.MaxBackoff
	}

	attempt := 0
	op := func() (*GenerateResponse, error) {
		attempt++
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, backoff.Permanent(err)
			}
		}
		resp, err := c.once(ctx, req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		c.logger.Warn("llm call failed", "attempt", attempt, "max_attempts", c.cfg.MaxAttempts, "error", err)
		return nil, err
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.cfg.MaxAttempts)),
	)
}

func (c *retryingClient) once(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if c.cfg.Timeout <= 0 {
		return c.next.Generate(ctx, req)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	resp, err := c.next.Generate(attemptCtx, req)
	if err != nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, fmt.Errorf("llm call timed out after %s: %w", c.cfg.Timeout, err)
	}
	return resp, err
}
