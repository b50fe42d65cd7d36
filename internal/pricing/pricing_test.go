package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"kedai/internal/models"
	"kedai/internal/pricing"
)

func TestSellPrice(t *testing.T) {
	cases := []struct {
		name string
		base string
		want string
	}{
		{"whole amount", "100", "150.00"},
		{"zero", "0", "0.00"},
		{"half cent rounds up", "76.49", "114.74"}, // 76.49 * 1.5 = 114.735
		{"catalog price", "19.99", "29.99"},        // 29.985 rounds up
		{"exact cents", "12.50", "18.75"},
		{"sub dollar", "0.10", "0.15"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := decimal.RequireFromString(tc.base)
			assert.Equal(t, tc.want, pricing.SellPrice(base).StringFixed(2))
		})
	}
}

func TestSellPrice_NeverBelowBase(t *testing.T) {
	bases := []string{"0", "0.01", "0.99", "1.33", "19.99", "76.49", "100", "1200.00"}
	for _, b := range bases {
		base := decimal.RequireFromString(b)
		sell := pricing.SellPrice(base)
		assert.True(t, sell.GreaterThanOrEqual(base), "sell price %s fell below base %s", sell, base)
	}
}

func TestTotals(t *testing.T) {
	items := []models.LineItem{
		{ProductID: "p1", Title: "Brazilian Dark Roast", UnitBasePrice: decimal.RequireFromString("100"), Quantity: 2},
	}

	baseTotal, sellTotal := pricing.Totals(items)
	assert.Equal(t, "200.00", baseTotal.StringFixed(2))
	assert.Equal(t, "300.00", sellTotal.StringFixed(2))
}

func TestTotals_MarginAppliedPerUnit(t *testing.T) {
	// The unit sell price is rounded before multiplying by quantity, so the
	// order total is always a whole number of cents times the quantity.
	items := []models.LineItem{
		{ProductID: "p1", UnitBasePrice: decimal.RequireFromString("19.99"), Quantity: 3},
	}

	baseTotal, sellTotal := pricing.Totals(items)
	assert.Equal(t, "59.97", baseTotal.StringFixed(2))
	assert.Equal(t, "89.97", sellTotal.StringFixed(2)) // 29.99 * 3
}

func TestTotals_Empty(t *testing.T) {
	baseTotal, sellTotal := pricing.Totals(nil)
	assert.True(t, baseTotal.IsZero())
	assert.True(t, sellTotal.IsZero())
}

func TestAmountCents(t *testing.T) {
	assert.Equal(t, int64(30000), pricing.AmountCents(decimal.RequireFromString("300.00")))
	assert.Equal(t, int64(11474), pricing.AmountCents(decimal.RequireFromString("114.74")))
	assert.Equal(t, int64(0), pricing.AmountCents(decimal.Zero))
}
