package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/fuyileeperez18-source/walmer-store/internal/cart"
)

// RedisStore implements CartStore on a Redis key/value record per shopper.
// The cart is stored as one JSON document under cart:<shopper_id> with no
// TTL: a cart persists indefinitely until it is cleared on order
// finalization or by an explicit clear.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context, shopperID string) (*cart.Cart, error) {
	key := cartKey(shopperID)

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		// A corrupt record must never block the shopper; treat it as absent.
		log.Printf("corrupt cart record for shopper %s, starting empty: %v", shopperID, err)
		return nil, ErrCartNotFound
	}
	if c.SchemaVersion != cart.SchemaVersion {
		log.Printf("cart record for shopper %s has unknown schema version %d, starting empty", shopperID, c.SchemaVersion)
		return nil, ErrCartNotFound
	}

	return &c, nil
}

func (s *RedisStore) Save(ctx context.Context, c *cart.Cart) error {
	key := cartKey(c.ShopperID)
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, shopperID string) error {
	if err := s.client.Del(ctx, cartKey(shopperID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(shopperID string) string {
	return fmt.Sprintf("cart:%s", shopperID)
}
