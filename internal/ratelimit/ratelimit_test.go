package ratelimit

import (
	"testing"
	"time"
)

func TestCheckLimit_BudgetEnforced(t *testing.T) {
	l := NewLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		res := l.CheckLimit("client-1")
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if res.Remaining != 10-(i+1) {
			t.Fatalf("request %d: expected remaining %d, got %d", i+1, 10-(i+1), res.Remaining)
		}
	}

	// 11th request within the window is rejected
	res := l.CheckLimit("client-1")
	if res.Allowed {
		t.Fatal("11th request should be rejected")
	}
	if res.Remaining != 0 {
		t.Fatalf("expected remaining 0, got %d", res.Remaining)
	}
	if res.Limit != 10 {
		t.Fatalf("expected limit 10, got %d", res.Limit)
	}

	// a different identifier has its own window
	if res := l.CheckLimit("client-2"); !res.Allowed {
		t.Fatal("separate identifier should be allowed")
	}
}

func TestCheckLimit_WindowReset(t *testing.T) {
	now := time.Now()
	l := NewLimiter(2, time.Minute)
	l.nowFunc = func() time.Time { return now }

	l.CheckLimit("c")
	l.CheckLimit("c")
	if res := l.CheckLimit("c"); res.Allowed {
		t.Fatal("third request should be rejected")
	}

	// advance past the window: count resets to 1 and the request is allowed
	now = now.Add(time.Minute + time.Second)
	res := l.CheckLimit("c")
	if !res.Allowed {
		t.Fatal("request after window expiry should be allowed")
	}
	if res.Remaining != 1 {
		t.Fatalf("expected remaining 1 after reset, got %d", res.Remaining)
	}
}

func TestSweep_DropsExpiredEntries(t *testing.T) {
	now := time.Now()
	l := NewLimiter(5, time.Minute)
	l.nowFunc = func() time.Time { return now }

	l.CheckLimit("old")
	now = now.Add(2 * time.Minute)
	l.CheckLimit("fresh")

	l.sweep()

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries["old"]; ok {
		t.Fatal("expired entry should be swept")
	}
	if _, ok := l.entries["fresh"]; !ok {
		t.Fatal("live entry should survive the sweep")
	}
}
