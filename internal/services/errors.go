package services

import (
	"errors"

	"casino-engine-backend/internal/games"
)

// Rejected-input errors: reported to the caller, no side effects, safe to
// retry with corrected input. Handlers match these with errors.Is.
var (
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrRateLimited       = errors.New("rate limit exceeded")
	ErrInvalidTransition = errors.New("action not valid in current round phase")
	ErrRoundNotActive    = errors.New("round already settled")
	ErrNotOwner          = errors.New("bet belongs to another user")
	ErrNothingToCashOut  = errors.New("nothing to cash out")
	ErrSeedInUse         = errors.New("seed cannot change while a round is active")
	ErrSeedNotRevealed   = errors.New("server seed not revealed until the pair is rotated")
)

// ErrInvalidParams is shared with the calculators so parameter rejection
// happens before any randomness is drawn.
var ErrInvalidParams = games.ErrInvalidParams

// ErrIntegrity marks states that must never occur: nonce reuse, a ledger
// that no longer replays to the cached balances, a half-applied
// settlement. Never "fixed up" silently; the enclosing transaction aborts
// and the error is logged in full.
var ErrIntegrity = errors.New("integrity violation")

// ErrDuplicateInFlight is returned when a duplicate request arrives while
// the original is still executing and does not finish within the wait
// window.
var ErrDuplicateInFlight = errors.New("duplicate request still in flight")
