package repository

import "errors"

// Sentinel errors for invariant violations detected inside transactional
// repository methods. Services translate these into API-level errors.
var (
	ErrInvalidTransition      = errors.New("status transition not allowed")
	ErrActiveAssignmentExists = errors.New("order already has an active delivery assignment")
	ErrPromoExhausted         = errors.New("promotion usage limit reached")
	ErrPromoUserLimitReached  = errors.New("promotion per-user limit reached")
	ErrPayoutAlreadyFinal     = errors.New("payout already in a final state")
)
