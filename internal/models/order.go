package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enumerates the checkout lifecycle of an order.
type OrderStatus string

const (
	StatusPendingPayment  OrderStatus = "pending_payment"
	StatusCheckoutCreated OrderStatus = "checkout_created"
	StatusPaymentPending  OrderStatus = "payment_pending"
	StatusPaid            OrderStatus = "paid"
)

// CanTransitionTo reports whether moving from s to next is a legal step.
// The lifecycle only moves forward: pending_payment -> checkout_created ->
// {paid | payment_pending}. Re-entering checkout_created covers a shopper
// retrying session creation, and payment_pending may be re-verified until
// the provider reports paid. paid is terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case StatusPendingPayment:
		return next == StatusCheckoutCreated
	case StatusCheckoutCreated:
		return next == StatusCheckoutCreated || next == StatusPaid || next == StatusPaymentPending
	case StatusPaymentPending:
		return next == StatusPaymentPending || next == StatusPaid
	case StatusPaid:
		return false
	}
	return false
}

// LineItem is an immutable snapshot of one purchased product, copied by
// value at order submission. Later catalog edits must never change it.
type LineItem struct {
	ProductID     string          `json:"product_id"`
	Title         string          `json:"title"`
	UnitBasePrice decimal.Decimal `json:"unit_base_price"`
	Quantity      int             `json:"quantity"`
}

// Customer holds the contact details captured at checkout.
type Customer struct {
	FullName string `json:"full_name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=5,max=32"`
}

// ShippingAddress holds the delivery address captured at checkout.
type ShippingAddress struct {
	Address  string `json:"address" validate:"required,min=3,max=255"`
	Address2 string `json:"address2" validate:"omitempty,max=255"`
	City     string `json:"city" validate:"omitempty,max=100"`
	State    string `json:"state" validate:"omitempty,max=50"`
	Zip      string `json:"zip" validate:"omitempty,max=20"`
}

// Order is a persisted record of one checkout attempt, from submission
// through payment resolution. Customer, shipping and line items are frozen
// at creation; only the status and payment-session fields mutate afterwards.
type Order struct {
	ID               string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Status           OrderStatus     `json:"status" gorm:"type:varchar(32);index"`
	Customer         Customer        `json:"customer" gorm:"serializer:json"`
	Shipping         ShippingAddress `json:"shipping" gorm:"serializer:json"`
	LineItems        []LineItem      `json:"line_items" gorm:"serializer:json"`
	BaseTotal        decimal.Decimal `json:"base_total" gorm:"type:numeric"`
	SellTotal        decimal.Decimal `json:"sell_total" gorm:"type:numeric"`
	PaymentSessionID string          `json:"payment_session_id,omitempty" gorm:"type:varchar(128)"`
	PaymentStatus    string          `json:"payment_status,omitempty" gorm:"type:varchar(32)"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ProfitEstimate is derived from the stored totals rather than persisted,
// so the totals stay the single source of truth.
func (o *Order) ProfitEstimate() decimal.Decimal {
	return o.SellTotal.Sub(o.BaseTotal)
}
