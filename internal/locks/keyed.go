package locks

import (
	"context"
	"errors"
	"time"
)

type keyedStore interface {
	redisStore
	LockKey(scope, id string) string
}

// Keyed hands out one RedisLock per id within a scope, e.g. one submit lock per
// product.
type Keyed struct {
	store keyedStore
	scope string
	ttl   time.Duration
}

func NewKeyed(store keyedStore, scope string, ttl time.Duration) (*Keyed, error) {
	if store == nil {
		return nil, errors.New("redis client required for lock")
	}
	if scope == "" {
		return nil, errors.New("lock scope is required")
	}
	return &Keyed{store: store, scope: scope, ttl: ttl}, nil
}

// Acquire tries to take the lock for id. When ok is false another holder owns
// it and the returned Lock is nil.
func (k *Keyed) Acquire(ctx context.Context, id string) (Lock, bool, error) {
	lock, err := NewRedisLock(k.store, k.store.LockKey(k.scope, id), k.ttl)
	if err != nil {
		return nil, false, err
	}
	ok, err := lock.Acquire(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	return lock, true, nil
}
