package models

// CartItem is one line of a shopper's cart: a product reference plus the
// desired quantity. Prices are intentionally absent; they are resolved from
// the catalog when the cart is turned into an order, so a stale client can
// never dictate what gets charged.
type CartItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}
