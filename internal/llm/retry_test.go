package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 4,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()
	payload := json.RawMessage(`{"ok":true}`)

	t.Run("SucceedsFirstTry", func(t *testing.T) {
		mock := NewMockProvider(MockResponse{Content: payload})
		provider := WithRetry(mock, fastRetryConfig())

		out, err := provider.Generate(ctx, Request{Prompt: "p"})
		assert.NoError(t, err)
		assert.Equal(t, payload, out)
		assert.Len(t, mock.Calls, 1)
	})

	t.Run("RetriesRateLimit", func(t *testing.T) {
		mock := NewMockProvider(
			MockResponse{Err: ErrRateLimited},
			MockResponse{Err: ErrUnavailable},
			MockResponse{Content: payload},
		)
		provider := WithRetry(mock, fastRetryConfig())

		out, err := provider.Generate(ctx, Request{Prompt: "p"})
		assert.NoError(t, err)
		assert.Equal(t, payload, out)
		assert.Len(t, mock.Calls, 3)
	})

	t.Run("GivesUpAfterMaxAttempts", func(t *testing.T) {
		mock := NewMockProvider(
			MockResponse{Err: ErrRateLimited},
			MockResponse{Err: ErrRateLimited},
			MockResponse{Err: ErrRateLimited},
			MockResponse{Err: ErrRateLimited},
		)
		provider := WithRetry(mock, fastRetryConfig())

		_, err := provider.Generate(ctx, Request{Prompt: "p"})
		assert.ErrorIs(t, err, ErrRateLimited)
		assert.Len(t, mock.Calls, 4)
	})

	t.Run("InvalidResponseGetsSingleRetry", func(t *testing.T) {
		mock := NewMockProvider(
			MockResponse{Err: &InvalidResponseError{Reason: "not json"}},
			MockResponse{Err: &InvalidResponseError{Reason: "still not json"}},
			MockResponse{Content: payload},
		)
		provider := WithRetry(mock, fastRetryConfig())

		_, err := provider.Generate(ctx, Request{Prompt: "p"})
		var invalid *InvalidResponseError
		assert.ErrorAs(t, err, &invalid)
		assert.Equal(t, "still not json", invalid.Reason)
		assert.Len(t, mock.Calls, 2)
	})

	t.Run("InvalidResponseRecoversOnRetry", func(t *testing.T) {
		mock := NewMockProvider(
			MockResponse{Err: &InvalidResponseError{Reason: "truncated"}},
			MockResponse{Content: payload},
		)
		provider := WithRetry(mock, fastRetryConfig())

		out, err := provider.Generate(ctx, Request{Prompt: "p"})
		assert.NoError(t, err)
		assert.Equal(t, payload, out)
	})

	t.Run("NonRetryableErrorSurfacesImmediately", func(t *testing.T) {
		permanent := errors.New("bad request")
		mock := NewMockProvider(MockResponse{Err: permanent})
		provider := WithRetry(mock, fastRetryConfig())

		_, err := provider.Generate(ctx, Request{Prompt: "p"})
		assert.ErrorIs(t, err, permanent)
		assert.Len(t, mock.Calls, 1)
	})

	t.Run("StopsOnCancelledContext", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		mock := NewMockProvider(
			MockResponse{Err: ErrRateLimited},
			MockResponse{Content: payload},
		)
		provider := WithRetry(mock, fastRetryConfig())

		_, err := provider.Generate(cancelled, Request{Prompt: "p"})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Len(t, mock.Calls, 1)
	})

	t.Run("ZeroConfigFallsBackToDefault", func(t *testing.T) {
		mock := NewMockProvider(MockResponse{Content: payload})
		provider := WithRetry(mock, RetryConfig{})

		out, err := provider.Generate(ctx, Request{Prompt: "p"})
		assert.NoError(t, err)
		assert.Equal(t, payload, out)
		assert.Equal(t, "mock", provider.ModelID())
	})
}
