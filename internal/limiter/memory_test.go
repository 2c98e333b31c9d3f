package limiter

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryLimiter_Allow(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(Config{Limit: 2, Window: time.Minute})
	l.now = func() time.Time { return current }

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow(ctx, "10.0.0.1"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if ok, _ := l.Allow(ctx, "10.0.0.1"); ok {
		t.Error("third request in window should be rejected")
	}

	if ok, _ := l.Allow(ctx, "10.0.0.2"); !ok {
		t.Error("other clients have their own window")
	}

	current = current.Add(time.Minute)
	if ok, _ := l.Allow(ctx, "10.0.0.1"); !ok {
		t.Error("request in a new window should be allowed")
	}
}

func TestMemoryLimiter_Prune(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(Config{Limit: 1, Window: time.Second})
	l.now = func() time.Time { return current }

	_, _ = l.Allow(context.Background(), "a")
	current = current.Add(2 * time.Second)
	_, _ = l.Allow(context.Background(), "b")

	l.Prune()

	if _, ok := l.buckets["a"]; ok {
		t.Error("expired bucket should be pruned")
	}
	if _, ok := l.buckets["b"]; !ok {
		t.Error("live bucket should be kept")
	}
}

func TestMemoryLimiter_Concurrent(t *testing.T) {
	const limit = 25
	l := NewMemoryLimiter(Config{Limit: limit, Window: time.Hour})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow(context.Background(), "same"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != limit {
		t.Errorf("expected %d allowed requests, got %d", limit, allowed)
	}
}
