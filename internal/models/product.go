package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item. BasePrice is the wholesale cost the
// store pays; the customer-facing sell price is derived from it via the
// pricing rule and is never stored.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Category    string          `json:"category" validate:"omitempty,max=100"`
	ImageURL    string          `json:"image_url" validate:"omitempty,max=255"`
	BasePrice   decimal.Decimal `json:"base_price" gorm:"type:numeric" validate:"required"`
	gorm.Model                  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
