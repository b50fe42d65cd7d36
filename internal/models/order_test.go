package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"kedai/internal/models"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{models.StatusPendingPayment, models.StatusCheckoutCreated, true},
		{models.StatusPendingPayment, models.StatusPaid, false},
		{models.StatusPendingPayment, models.StatusPaymentPending, false},
		{models.StatusCheckoutCreated, models.StatusPaid, true},
		{models.StatusCheckoutCreated, models.StatusPaymentPending, true},
		// A shopper retrying session creation stays in checkout_created.
		{models.StatusCheckoutCreated, models.StatusCheckoutCreated, true},
		{models.StatusCheckoutCreated, models.StatusPendingPayment, false},
		{models.StatusPaymentPending, models.StatusPaid, true},
		{models.StatusPaymentPending, models.StatusPaymentPending, true},
		{models.StatusPaymentPending, models.StatusPendingPayment, false},
		// paid is terminal.
		{models.StatusPaid, models.StatusPaymentPending, false},
		{models.StatusPaid, models.StatusCheckoutCreated, false},
		{models.StatusPaid, models.StatusPendingPayment, false},
		{models.StatusPaid, models.StatusPaid, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"transition %s -> %s", tc.from, tc.to)
	}
}

func TestOrder_ProfitEstimate(t *testing.T) {
	order := &models.Order{
		BaseTotal: decimal.RequireFromString("200.00"),
		SellTotal: decimal.RequireFromString("300.00"),
	}
	assert.Equal(t, "100.00", order.ProfitEstimate().StringFixed(2))
}
