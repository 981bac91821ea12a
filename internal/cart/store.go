package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(cartID string) string
}

// Store keeps a cart as the JSON array of its lines under one key. Nothing but
// the items is persisted.
type Store struct {
	kv  kvStore
	ttl time.Duration
}

func NewStore(kv kvStore, ttl time.Duration) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("cart kv store required")
	}
	return &Store{kv: kv, ttl: ttl}, nil
}

// Load returns the stored lines, or an empty list for an unknown cart.
func (s *Store) Load(ctx context.Context, cartID string) ([]Line, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(cartID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Line{}, nil
		}
		return nil, fmt.Errorf("read cart: %w", err)
	}
	lines := []Line{}
	if raw == "" {
		return lines, nil
	}
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

// Save overwrites the stored lines and refreshes the TTL.
func (s *Store) Save(ctx context.Context, cartID string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(cartID), string(payload), s.ttl); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, cartID string) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(cartID)); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
