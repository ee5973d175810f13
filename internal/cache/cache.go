package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Cache is the small key/value surface the services need. A miss is
// reported with ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// Incr increments key and starts its ttl when the key is created
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Enabled() bool
}

const opTimeout = 2 * time.Second

// Remember is a read-through helper: a hit is decoded into T, a miss calls
// load and stores the result. Cache failures are logged and bypassed.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if c == nil || !c.Enabled() {
		return load()
	}

	getCtx, cancel := context.WithTimeout(ctx, opTimeout)
	raw, ok, err := c.Get(getCtx, key)
	cancel()
	if err != nil {
		log.Printf("cache: get %s: %v", key, err)
	}
	if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	setCtx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := c.Set(setCtx, key, encoded, ttl); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
	return value, nil
}

// Forget deletes keys, logging instead of failing the caller
func Forget(ctx context.Context, c Cache, keys ...string) {
	if c == nil || !c.Enabled() || len(keys) == 0 {
		return
	}
	delCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := c.Delete(delCtx, keys...); err != nil {
		log.Printf("cache: delete %v: %v", keys, err)
	}
}

// Nop is used when no cache backend is configured
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Delete(context.Context, ...string) error { return nil }
func (Nop) Incr(context.Context, string, time.Duration) (int64, error) { return 0, nil }
func (Nop) Enabled() bool { return false }
