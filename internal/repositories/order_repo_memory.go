package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"kedai/internal/models"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
type MemoryOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetAll returns all orders.
func (r *MemoryOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return &order, nil
}

// Create adds a new order.
func (r *MemoryOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// SetPaymentSession records the provider session id and moves the order to
// checkout_created.
func (r *MemoryOrderRepository) SetPaymentSession(id, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	order.PaymentSessionID = sessionID
	order.Status = models.StatusCheckoutCreated
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// SetPaymentOutcome writes the verification outcome, keeping paid sticky.
func (r *MemoryOrderRepository) SetPaymentOutcome(id string, status models.OrderStatus, providerStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	if order.Status == models.StatusPaid {
		// Never downgrade a settled order.
		return nil
	}
	order.Status = status
	order.PaymentStatus = providerStatus
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}
