package repositories

import "errors"

// Sentinel errors shared by all repository implementations so callers can
// classify failures with errors.Is instead of matching message strings.
var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
)
