package limiter

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	count int
	start time.Time
}

// MemoryLimiter keeps per-key counters in process memory. It is only
// accurate for a single instance.
type MemoryLimiter struct {
	cfg     Config
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*bucket
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:     cfg,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok || now.Sub(b.start) >= m.cfg.Window {
		b = &bucket{start: now}
		m.buckets[key] = b
	}

	if b.count >= m.cfg.Limit {
		return false, nil
	}

	b.count++
	return true, nil
}

// Prune drops buckets whose window has expired.
func (m *MemoryLimiter) Prune() {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, b := range m.buckets {
		if now.Sub(b.start) >= m.cfg.Window {
			delete(m.buckets, key)
		}
	}
}

// RunPruner calls Prune once per window until ctx is done.
func (m *MemoryLimiter) RunPruner(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.Window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Prune()
		case <-ctx.Done():
			return
		}
	}
}
