package application

import (
	"context"
	"time"

	"casino/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() interfaces.AccountRepository
	LedgerRepository() interfaces.LedgerRepository
	RoundRepository() interfaces.RoundRepository
	TicketRepository() interfaces.TicketRepository

	// EventBus returns the transactional event publisher; events publish on
	// commit and are discarded on rollback
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// Clock is the engine's only tick source. Timed betting windows wait on it;
// outcome computation never reads it. Tests inject a fake.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now().UTC() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// NewSystemClock returns the wall-clock implementation.
func NewSystemClock() Clock {
	return systemClock{}
}
