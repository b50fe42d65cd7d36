package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"kedai/internal/models"
)

const keyPrefix = "cart:"

// RedisStore persists carts as JSON blobs in Redis with a rolling TTL, so
// abandoned carts eventually disappear on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. A zero ttl keeps carts forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) key(cartID string) string {
	return keyPrefix + cartID
}

func (s *RedisStore) read(ctx context.Context, cartID string) ([]models.CartItem, error) {
	raw, err := s.client.Get(ctx, s.key(cartID)).Result()
	if err == redis.Nil {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart %s: %w", cartID, err)
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart %s: %w", cartID, err)
	}
	return items, nil
}

func (s *RedisStore) write(ctx context.Context, cartID string, items []models.CartItem) error {
	body, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart %s: %w", cartID, err)
	}
	if err := s.client.Set(ctx, s.key(cartID), body, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart %s: %w", cartID, err)
	}
	return nil
}

// Get returns the items of a cart.
func (s *RedisStore) Get(ctx context.Context, cartID string) ([]models.CartItem, error) {
	return s.read(ctx, cartID)
}

// Add aggregates qty units of a product into the cart.
func (s *RedisStore) Add(ctx context.Context, cartID, productID string, qty int) error {
	items, err := s.read(ctx, cartID)
	if err != nil {
		return err
	}
	return s.write(ctx, cartID, addItem(items, productID, qty))
}

// SetQuantity replaces the quantity of an existing line.
func (s *RedisStore) SetQuantity(ctx context.Context, cartID, productID string, qty int) error {
	items, err := s.read(ctx, cartID)
	if err != nil {
		return err
	}
	return s.write(ctx, cartID, setItemQty(items, productID, qty))
}

// Remove drops a product line from the cart.
func (s *RedisStore) Remove(ctx context.Context, cartID, productID string) error {
	items, err := s.read(ctx, cartID)
	if err != nil {
		return err
	}
	return s.write(ctx, cartID, removeItem(items, productID))
}

// Clear empties the cart.
func (s *RedisStore) Clear(ctx context.Context, cartID string) error {
	if err := s.client.Del(ctx, s.key(cartID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}

// Count returns the total number of units across all lines.
func (s *RedisStore) Count(ctx context.Context, cartID string) (int, error) {
	items, err := s.read(ctx, cartID)
	if err != nil {
		return 0, err
	}
	return countItems(items), nil
}
