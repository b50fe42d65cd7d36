// Package payment wraps the hosted payment provider behind a small port so
// the checkout workflow can be exercised without network access.
package payment

import "context"

// StatusPaid is the provider payment status that marks a session as
// settled. Every other status means the shopper has not (yet) paid.
const StatusPaid = "paid"

// SessionParams describes the hosted checkout session to create. The
// amount is in minor currency units and is always computed server-side from
// the order's stored line items.
type SessionParams struct {
	AmountCents int64
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
	OrderID     string
}

// Session is the provider's view of a hosted checkout session.
type Session struct {
	ID            string
	URL           string
	PaymentStatus string
}

// Provider is the boundary to the hosted payment system.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, params SessionParams) (*Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)
}
