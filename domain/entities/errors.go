package entities

import "errors"

// Error taxonomy for the wagering engine. Services wrap these with context;
// callers test with errors.Is.
var (
	// ErrInsufficientFunds means a debit was rejected; the bet was never placed.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidBet means a stake, selection, or round-state rule was violated.
	ErrInvalidBet = errors.New("invalid bet")

	// ErrConcurrentModification means an account version advanced between read
	// and write. The wallet service retries a bounded number of times before
	// surfacing it.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrRngUnavailable means the randomness source failed. Fatal for the
	// in-flight round only: it is voided and all stakes refunded.
	ErrRngUnavailable = errors.New("rng unavailable")

	// ErrPersistenceFailure means a ledger write to the backing store failed.
	// Settlement is retried with the same idempotency key.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrRoundClosed means the round no longer accepts the requested action.
	ErrRoundClosed = errors.New("round closed")

	// ErrAccountNotFound means the referenced account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrRoundNotFound means the referenced round does not exist.
	ErrRoundNotFound = errors.New("round not found")
)
