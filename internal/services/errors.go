package services

import "errors"

// Sentinel errors for the checkout workflow. Handlers map these onto HTTP
// status codes with errors.Is; repositories contribute their own not-found
// sentinels.
var (
	ErrInvalidOrderState = errors.New("order is not awaiting checkout")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrMissingParameter  = errors.New("missing required parameter")
	ErrInvalidLineItem   = errors.New("invalid line item")
	ErrNegativePrice     = errors.New("base price must not be negative")
	ErrProvider          = errors.New("payment provider request failed")
	ErrPersistence       = errors.New("order store write failed")
)
