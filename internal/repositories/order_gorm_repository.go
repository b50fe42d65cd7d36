package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kedai/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders, newest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create persists a new order.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// SetPaymentSession records the provider session id and moves the order to
// checkout_created in a single write.
func (r *GORMOrderRepository) SetPaymentSession(id, sessionID string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"payment_session_id": sessionID,
		"status":             models.StatusCheckoutCreated,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to set payment session for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return nil
}

// SetPaymentOutcome writes the verification outcome. The WHERE guard keeps
// paid sticky: a row that already reached paid is left untouched, which also
// makes two racing verification calls safe without row locking.
func (r *GORMOrderRepository) SetPaymentOutcome(id string, status models.OrderStatus, providerStatus string) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status <> ?", id, models.StatusPaid).
		Updates(map[string]interface{}{
			"status":         status,
			"payment_status": providerStatus,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to set payment outcome for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the order is missing or it is already paid.
		var count int64
		if err := r.db.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check order %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
		}
	}
	return nil
}
