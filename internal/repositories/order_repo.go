package repositories

import (
	"kedai/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	// SetPaymentSession records the provider session id on the order and
	// moves it to checkout_created. Retrying an already-started checkout
	// overwrites the session id with the latest one.
	SetPaymentSession(id, sessionID string) error
	// SetPaymentOutcome writes a verification outcome. An order already in
	// the paid status is never downgraded; such a call is a no-op.
	SetPaymentOutcome(id string, status models.OrderStatus, providerStatus string) error
}
