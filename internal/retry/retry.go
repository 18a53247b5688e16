package retry

import (
	"context"
	"errors"
	"time"
)

// Config controls the retry budget for a single operation.
type Config struct {
	MaxAttempts    int           // total attempts, including the first
	InitialDelay   time.Duration // delay before the second attempt; doubles each retry
	RetryableCodes []string      // error codes considered transient
}

// coder is satisfied by provider error types carrying a machine-readable
// code. smithy.APIError satisfies it too, so AWS SDK errors classify without
// any glue.
type coder interface {
	ErrorCode() string
}

// Do invokes op, retrying on errors whose code is in cfg.RetryableCodes with
// exponential backoff (InitialDelay, 2*InitialDelay, 4*InitialDelay, ...).
// Non-retryable errors propagate immediately; a retryable error propagates
// after the attempt budget is exhausted. The returned error is always the one
// from the last attempt. Backoff sleeps abort on context cancellation.
func Do[T any](ctx context.Context, cfg Config, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			delay := cfg.InitialDelay << (i - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !retryable(err, cfg.RetryableCodes) {
			return zero, err
		}
	}
	return zero, lastErr
}

func retryable(err error, codes []string) bool {
	var c coder
	if !errors.As(err, &c) {
		return false
	}
	for _, code := range codes {
		if c.ErrorCode() == code {
			return true
		}
	}
	return false
}
