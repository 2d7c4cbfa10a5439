package earnings

import "errors"

// Rejection reasons surfaced to callers. None of these are retried
// automatically; a failed operation leaves the wallet untouched.
var (
	// ErrInvalidAmount means the amount is non-positive or not a well-formed
	// monetary value (more than two decimal places).
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientBalance means a debit exceeds the wallet balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrChannelMismatch means the withdrawal redeem type does not match the
	// channel required for the amount.
	ErrChannelMismatch = errors.New("redeem type does not match amount")
)
