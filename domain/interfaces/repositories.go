package interfaces

import (
	"context"

	"casino/domain/entities"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account, or nil if it does not exist
	GetByID(ctx context.Context, accountID string) (*entities.Account, error)

	// Create creates a new account with the given starting balance
	Create(ctx context.Context, accountID string, initialBalance int64) (*entities.Account, error)

	// UpdateBalance writes a new balance guarded by the expected version.
	// Returns entities.ErrConcurrentModification if the version advanced.
	UpdateBalance(ctx context.Context, accountID string, newBalance, expectedVersion int64) error
}

// LedgerRepository defines the interface for the append-only transaction log
type LedgerRepository interface {
	// Record appends an entry. Credits are protected by a unique
	// (round, account, reason, ticket) index as a backstop against replays.
	Record(ctx context.Context, entry *entities.LedgerEntry) error

	// Exists reports whether a credit with the given idempotency key was
	// already recorded. ticketID is nil for round-level settlement credits.
	Exists(ctx context.Context, roundID, accountID string, reason entities.EntryReason, ticketID *string) (bool, error)

	// GetByAccount returns the most recent entries for an account
	GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.LedgerEntry, error)

	// SumByAccount returns the sum of all deltas for an account
	SumByAccount(ctx context.Context, accountID string) (int64, error)

	// GetByRound returns all entries produced by a round
	GetByRound(ctx context.Context, roundID string) ([]*entities.LedgerEntry, error)
}

// RoundRepository defines the interface for game round data access
type RoundRepository interface {
	// Create persists a newly opened round
	Create(ctx context.Context, round *entities.GameRound) error

	// GetByID retrieves a round, or nil if it does not exist
	GetByID(ctx context.Context, roundID string) (*entities.GameRound, error)

	// GetByIDForUpdate retrieves a round and locks its row for the rest of
	// the transaction, serializing bet acceptance against betting close
	GetByIDForUpdate(ctx context.Context, roundID string) (*entities.GameRound, error)

	// Update persists state, sub-state, progress, outcome and timestamps
	Update(ctx context.Context, round *entities.GameRound) error

	// GetActiveByGameType returns the non-terminal round of a shared table,
	// or nil if none is open
	GetActiveByGameType(ctx context.Context, gameType entities.GameType) (*entities.GameRound, error)
}

// TicketRepository defines the interface for bet ticket data access
type TicketRepository interface {
	// Create persists an accepted ticket
	Create(ctx context.Context, ticket *entities.BetTicket) error

	// GetByID retrieves a ticket, or nil if it does not exist
	GetByID(ctx context.Context, ticketID string) (*entities.BetTicket, error)

	// GetByRound returns all tickets of a round
	GetByRound(ctx context.Context, roundID string) ([]*entities.BetTicket, error)

	// GetOpenByRound returns the round's tickets still awaiting settlement
	GetOpenByRound(ctx context.Context, roundID string) ([]*entities.BetTicket, error)

	// Update persists selections, stake and status changes
	Update(ctx context.Context, ticket *entities.BetTicket) error
}
