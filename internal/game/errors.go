package game

import "errors"

// Validation errors returned by engine operations. They are expected,
// recoverable, and never leave the engine in a partial state; callers test
// with errors.Is and carry on.
var (
	// ErrInvalidState is returned when an operation is attempted outside the
	// state it is valid in.
	ErrInvalidState = errors.New("operation not valid in current state")

	// ErrInvalidBet is returned when a bet falls outside the table limits.
	ErrInvalidBet = errors.New("bet outside table limits")

	// ErrInsufficientFunds is returned when the balance cannot cover a wager.
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrRuleViolation is returned when a play is not permitted for the
	// current hand (e.g. doubling a three-card hand).
	ErrRuleViolation = errors.New("play not permitted")
)
