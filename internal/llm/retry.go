package llm

import (
	"context"
	"errors"
	"time"
)

// RetryingProvider wraps a Provider with bounded retry and exponential
// backoff. Context cancellation is never retried; any other error is treated
// as transient until the attempt budget is exhausted.
type RetryingProvider struct {
	provider    Provider
	maxAttempts int
	baseDelay   time.Duration
}

// NewRetryingProvider wraps the given provider. maxAttempts includes the
// first try; values below 1 are treated as 1. baseDelay doubles after each
// failed attempt.
func NewRetryingProvider(provider Provider, maxAttempts int, baseDelay time.Duration) Provider {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return &RetryingProvider{
		provider:    provider,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
	}
}

func (r *RetryingProvider) Name() string {
	return r.provider.Name()
}

func (r *RetryingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var lastErr error
	delay := r.baseDelay

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		resp, err := r.provider.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}
