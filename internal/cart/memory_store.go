package cart

import (
	"context"
	"sync"

	"kedai/internal/models"
)

// MemoryStore is an in-memory implementation of Store, used in tests and
// when no Redis address is configured.
type MemoryStore struct {
	carts map[string][]models.CartItem
	mu    sync.RWMutex
}

// NewMemoryStore creates a new instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string][]models.CartItem),
	}
}

// Get returns a copy of the items of a cart.
func (s *MemoryStore) Get(ctx context.Context, cartID string) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.CartItem, len(s.carts[cartID]))
	copy(items, s.carts[cartID])
	return items, nil
}

// Add aggregates qty units of a product into the cart.
func (s *MemoryStore) Add(ctx context.Context, cartID, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cartID] = addItem(s.carts[cartID], productID, qty)
	return nil
}

// SetQuantity replaces the quantity of an existing line.
func (s *MemoryStore) SetQuantity(ctx context.Context, cartID, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cartID] = setItemQty(s.carts[cartID], productID, qty)
	return nil
}

// Remove drops a product line from the cart.
func (s *MemoryStore) Remove(ctx context.Context, cartID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cartID] = removeItem(s.carts[cartID], productID)
	return nil
}

// Clear empties the cart.
func (s *MemoryStore) Clear(ctx context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, cartID)
	return nil
}

// Count returns the total number of units across all lines.
func (s *MemoryStore) Count(ctx context.Context, cartID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return countItems(s.carts[cartID]), nil
}
