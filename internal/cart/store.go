// Package cart is the server-side replacement for the storefront's
// browser-local cart: a key-value store of line items keyed by an opaque
// cart id. The checkout flow takes a snapshot of a cart as an explicit
// input; nothing in this package is ambient state.
package cart

import (
	"context"

	"kedai/internal/models"
)

// Store holds shopping intent between requests. An unknown cart id behaves
// like an empty cart, mirroring how a fresh browser session starts empty.
type Store interface {
	// Get returns the items of a cart. Unknown carts return an empty slice.
	Get(ctx context.Context, cartID string) ([]models.CartItem, error)
	// Add puts qty units of a product into the cart, aggregating with any
	// existing line for the same product. Quantities below 1 count as 1.
	Add(ctx context.Context, cartID, productID string, qty int) error
	// SetQuantity replaces the quantity of an existing line, clamped to a
	// minimum of 1. Unknown products are ignored.
	SetQuantity(ctx context.Context, cartID, productID string, qty int) error
	// Remove drops a product line from the cart.
	Remove(ctx context.Context, cartID, productID string) error
	// Clear empties the cart.
	Clear(ctx context.Context, cartID string) error
	// Count returns the total number of units across all lines.
	Count(ctx context.Context, cartID string) (int, error)
}

func clampQty(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}

func addItem(items []models.CartItem, productID string, qty int) []models.CartItem {
	qty = clampQty(qty)
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += qty
			return items
		}
	}
	return append(items, models.CartItem{ProductID: productID, Quantity: qty})
}

func setItemQty(items []models.CartItem, productID string, qty int) []models.CartItem {
	qty = clampQty(qty)
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = qty
		}
	}
	return items
}

func removeItem(items []models.CartItem, productID string) []models.CartItem {
	next := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			next = append(next, item)
		}
	}
	return next
}

func countItems(items []models.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
