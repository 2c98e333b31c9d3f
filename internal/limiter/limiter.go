// Package limiter implements fixed-window request limiting keyed by client.
package limiter

import (
	"context"
	"time"
)

// Limiter decides whether another request for key fits in the current
// window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Config struct {
	Limit  int
	Window time.Duration
}
