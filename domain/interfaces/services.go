package interfaces

import (
	"context"

	"casino/domain/entities"
	"casino/domain/events"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish publishes an event
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding database
// transaction resolves
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all pending events after a successful commit
	Flush(ctx context.Context) error

	// Discard drops all pending events on rollback
	Discard()
}

// WalletService is the single synchronization point for balances. No game
// logic touches an account directly; every mutation goes through a debit or
// credit here, guarded by per-account optimistic-concurrency tokens.
type WalletService interface {
	// GetOrCreateAccount retrieves an account, seeding it with the configured
	// starting balance (and a deposit ledger entry) on first sight
	GetOrCreateAccount(ctx context.Context, accountID string) (*entities.Account, error)

	// GetBalance returns the current balance and version token
	GetBalance(ctx context.Context, accountID string) (balance int64, version int64, err error)

	// Debit atomically removes a stake. Returns entities.ErrInsufficientFunds
	// without side effects when the balance does not cover the amount.
	Debit(ctx context.Context, accountID string, amount int64, roundID, ticketID string) error

	// Credit atomically adds a payout or refund, idempotent by
	// (roundID, accountID, reason). Returns whether the credit was applied;
	// false means the same settlement was already recorded.
	Credit(ctx context.Context, accountID string, amount int64, reason entities.EntryReason, roundID string) (bool, error)

	// RefundTicket returns a cancelled ticket's full stake, idempotent by
	// the ticket itself so it never collides with a later round-level refund.
	RefundTicket(ctx context.Context, ticket *entities.BetTicket) (bool, error)
}

// BetRequest is a player's attempt to stake on a round.
type BetRequest struct {
	AccountID  string
	Selections map[string]int64
}

// BettingService validates and accepts bet tickets.
type BettingService interface {
	// PlaceBet validates the request against the round's state and the
	// game's table, then debits the total stake. Validation failures return
	// entities.ErrInvalidBet with no side effects.
	PlaceBet(ctx context.Context, round *entities.GameRound, req BetRequest) (*entities.BetTicket, error)

	// CancelTicket refunds a ticket while its round is still accepting bets.
	CancelTicket(ctx context.Context, round *entities.GameRound, ticketID string) error

	// DoubleStake debits the original stake again and doubles the ticket
	// (blackjack double down).
	DoubleStake(ctx context.Context, round *entities.GameRound, ticket *entities.BetTicket) error
}
