// Package pricing holds the storefront's single markup rule: every
// customer-facing price is the wholesale base price times 1.5, rounded to
// two decimal places. Both the display path and the charge path must go
// through this package so the amount shown is always the amount charged.
package pricing

import (
	"github.com/shopspring/decimal"

	"kedai/internal/models"
)

// MarkupFactor is the fixed wholesale-to-retail multiplier.
var MarkupFactor = decimal.NewFromFloat(1.5)

var hundred = decimal.NewFromInt(100)

// SellPrice returns the customer-facing price for a base (wholesale) price,
// rounded half-up to cents. Callers must reject negative base prices before
// calling.
func SellPrice(base decimal.Decimal) decimal.Decimal {
	return base.Mul(MarkupFactor).Round(2)
}

// Totals computes order totals from line-item snapshots. The base total is
// the plain wholesale sum; the sell total applies the markup per unit before
// multiplying by quantity, matching how unit prices are displayed.
func Totals(items []models.LineItem) (baseTotal, sellTotal decimal.Decimal) {
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		baseTotal = baseTotal.Add(item.UnitBasePrice.Mul(qty))
		sellTotal = sellTotal.Add(SellPrice(item.UnitBasePrice).Mul(qty))
	}
	return baseTotal.Round(2), sellTotal.Round(2)
}

// AmountCents converts an amount already rounded to cents into minor
// currency units for the payment provider.
func AmountCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).IntPart()
}
