package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// codedError mimics a provider error carrying a machine-readable code.
type codedError struct {
	code string
}

func (e *codedError) Error() string     { return "provider error: " + e.code }
func (e *codedError) ErrorCode() string { return e.code }

func testConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialDelay:   time.Millisecond,
		RetryableCodes: []string{"timeout", "connection_reset"},
	}
}

func TestDo_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	out, err := Do(context.Background(), testConfig(3), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" {
		t.Fatalf("unexpected result: %q", out)
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 invocation, got %d", calls)
	}
}

func TestDo_RetryableExhaustsBudget(t *testing.T) {
	for _, attempts := range []int{1, 2, 4} {
		calls := 0
		want := &codedError{code: "timeout"}
		_, err := Do(context.Background(), testConfig(attempts), func(ctx context.Context) (string, error) {
			calls++
			return "", want
		})
		if calls != attempts {
			t.Fatalf("attempts=%d: expected %d invocations, got %d", attempts, attempts, calls)
		}
		if !errors.Is(err, want) {
			t.Fatalf("attempts=%d: expected last attempt's error, got %v", attempts, err)
		}
	}
}

func TestDo_NonRetryableInvokedOnce(t *testing.T) {
	for _, attempts := range []int{1, 3, 5} {
		calls := 0
		_, err := Do(context.Background(), testConfig(attempts), func(ctx context.Context) (string, error) {
			calls++
			return "", &codedError{code: "card_declined"}
		})
		if calls != 1 {
			t.Fatalf("attempts=%d: expected 1 invocation, got %d", attempts, calls)
		}
		if err == nil {
			t.Fatalf("attempts=%d: expected error, got nil", attempts)
		}
	}
}

func TestDo_PlainErrorNotRetried(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), testConfig(3), func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("no code attached")
	})
	if calls != 1 {
		t.Fatalf("expected 1 invocation, got %d", calls)
	}
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestDo_EventualSuccess(t *testing.T) {
	calls := 0
	out, err := Do(context.Background(), testConfig(3), func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, &codedError{code: "connection_reset"}
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != 42 || calls != 3 {
		t.Fatalf("expected success on third call, got out=%d calls=%d", out, calls)
	}
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	cfg := Config{MaxAttempts: 3, InitialDelay: time.Minute, RetryableCodes: []string{"timeout"}}
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := Do(ctx, cfg, func(ctx context.Context) (string, error) {
		calls++
		return "", &codedError{code: "timeout"}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 invocation before cancellation, got %d", calls)
	}
}
