package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryConfig tunes the retry decorator.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryConfig is tuned for interactive generation: a few quick
// attempts, capped under half a minute total.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 4,
	BaseDelay:   500 * time.Millisecond,
	MaxDelay:    8 * time.Second,
}

type retryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps a Provider with exponential backoff and jitter for
// transient failures. Invalid-JSON responses get exactly one retry.
func WithRetry(inner Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig
	}
	return &retryProvider{inner: inner, cfg: cfg}
}

func (r *retryProvider) ModelID() string {
	return r.inner.ModelID()
}

func (r *retryProvider) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	var lastErr error
	invalidRetried := false

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		out, err := r.inner.Generate(ctx, req)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !r.shouldRetry(err, &invalidRetried) {
			return nil, err
		}
		if attempt == r.cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}

	return nil, lastErr
}

func (r *retryProvider) shouldRetry(err error, invalidRetried *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var invalid *InvalidResponseError
	if errors.As(err, &invalid) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable)
}

func (r *retryProvider) backoff(attempt int) time.Duration {
	delay := time.Duration(float64(r.cfg.BaseDelay) * math.Pow(2, float64(attempt)))
	if delay > r.cfg.MaxDelay {
		delay = r.cfg.MaxDelay
	}
	// Full jitter keeps concurrent generations from synchronizing.
	return time.Duration(rand.Int63n(int64(delay) + 1))
}
