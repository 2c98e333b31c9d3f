package limiter

import (
	"context"

	"github.com/redis/rueidis"
)

// RedisLimiter shares counters between instances through Redis. Each key is
// an INCR counter that expires when its window closes.
type RedisLimiter struct {
	client rueidis.Client
	prefix string
	cfg    Config
}

func NewRedisLimiter(client rueidis.Client, prefix string, cfg Config) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		cfg:    cfg,
	}
}

// Allow increments the client's counter. PEXPIRE NX is sent with every
// increment, so a key whose expiry was never set gets one on the next call
// while a running window keeps its original deadline.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	fullKey := r.prefix + ":" + key

	resps := r.client.DoMulti(ctx,
		r.client.B().Incr().Key(fullKey).Build(),
		r.client.B().Pexpire().Key(fullKey).Milliseconds(r.cfg.Window.Milliseconds()).Nx().Build(),
	)

	count, err := resps[0].AsInt64()
	if err != nil {
		return false, err
	}
	if err := resps[1].Error(); err != nil {
		return false, err
	}

	return count <= int64(r.cfg.Limit), nil
}
