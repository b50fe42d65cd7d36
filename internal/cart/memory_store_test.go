package cart_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"kedai/internal/cart"
)

func TestMemoryStore_AddAggregatesQuantity(t *testing.T) {
	store := cart.NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, store.Add(ctx, "c1", "p1", 1))
	assert.NoError(t, store.Add(ctx, "c1", "p1", 2))
	assert.NoError(t, store.Add(ctx, "c1", "p2", 1))

	items, err := store.Get(ctx, "c1")
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)

	count, err := store.Count(ctx, "c1")
	assert.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestMemoryStore_AddClampsQuantity(t *testing.T) {
	store := cart.NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, store.Add(ctx, "c1", "p1", 0))
	assert.NoError(t, store.Add(ctx, "c1", "p2", -5))

	count, err := store.Count(ctx, "c1")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryStore_SetQuantity(t *testing.T) {
	store := cart.NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, store.Add(ctx, "c1", "p1", 2))
	assert.NoError(t, store.SetQuantity(ctx, "c1", "p1", 5))

	items, _ := store.Get(ctx, "c1")
	assert.Equal(t, 5, items[0].Quantity)

	// Quantities below 1 clamp to 1.
	assert.NoError(t, store.SetQuantity(ctx, "c1", "p1", 0))
	items, _ = store.Get(ctx, "c1")
	assert.Equal(t, 1, items[0].Quantity)

	// Unknown products are ignored.
	assert.NoError(t, store.SetQuantity(ctx, "c1", "missing", 9))
	items, _ = store.Get(ctx, "c1")
	assert.Len(t, items, 1)
}

func TestMemoryStore_RemoveAndClear(t *testing.T) {
	store := cart.NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, store.Add(ctx, "c1", "p1", 1))
	assert.NoError(t, store.Add(ctx, "c1", "p2", 1))

	assert.NoError(t, store.Remove(ctx, "c1", "p1"))
	items, _ := store.Get(ctx, "c1")
	assert.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)

	assert.NoError(t, store.Clear(ctx, "c1"))
	count, _ := store.Count(ctx, "c1")
	assert.Equal(t, 0, count)
}

func TestMemoryStore_UnknownCartIsEmpty(t *testing.T) {
	store := cart.NewMemoryStore()
	ctx := context.Background()

	items, err := store.Get(ctx, "nope")
	assert.NoError(t, err)
	assert.Empty(t, items)

	count, err := store.Count(ctx, "nope")
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}
