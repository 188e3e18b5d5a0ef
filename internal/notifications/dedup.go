package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDeduper implements the dedup window with SET NX EX keys: the first
// writer within the window claims the key, later identical events see it.
type RedisDeduper struct {
	client *redis.Client
}

// NewRedisDeduper creates a Redis-backed deduper.
func NewRedisDeduper(client *redis.Client) *RedisDeduper {
	return &RedisDeduper{client: client}
}

// Seen claims key for the window and reports whether it was already claimed.
func (d *RedisDeduper) Seen(ctx context.Context, key string, window time.Duration) (bool, error) {
	claimed, err := d.client.SetNX(ctx, key, 1, window).Result()
	if err != nil {
		return false, err
	}
	return !claimed, nil
}

// MemoryDeduper is the in-process equivalent, used in tests and in
// deployments without Redis.
type MemoryDeduper struct {
	clock func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time // key -> expiry
}

// NewMemoryDeduper creates an in-memory deduper.
func NewMemoryDeduper() *MemoryDeduper {
	return NewMemoryDeduperWithClock(time.Now)
}

// NewMemoryDeduperWithClock allows deterministic window expiry in tests.
func NewMemoryDeduperWithClock(clock func() time.Time) *MemoryDeduper {
	return &MemoryDeduper{clock: clock, seen: make(map[string]time.Time)}
}

// Seen claims key for the window and reports whether it was already claimed.
func (d *MemoryDeduper) Seen(_ context.Context, key string, window time.Duration) (bool, error) {
	now := d.clock()

	d.mu.Lock()
	defer d.mu.Unlock()

	for k, expiry := range d.seen {
		if !expiry.After(now) {
			delete(d.seen, k)
		}
	}
	if expiry, ok := d.seen[key]; ok && expiry.After(now) {
		return true, nil
	}
	d.seen[key] = now.Add(window)
	return false, nil
}
