package events

import (
	"casino/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange    EventType = "balance_change"
	EventTypeAccountCreated   EventType = "account_created"
	EventTypeRoundStateChange EventType = "round_state_change"
	EventTypeRoundSettled     EventType = "round_settled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	AccountID    string
	OldBalance   int64
	NewBalance   int64
	ChangeAmount int64
	Reason       entities.EntryReason
	RoundID      string
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a new account creation
type AccountCreatedEvent struct {
	AccountID      string
	InitialBalance int64
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// RoundStateChangeEvent represents a round state transition
type RoundStateChangeEvent struct {
	RoundID  string
	GameType entities.GameType
	OldState entities.RoundState
	NewState entities.RoundState
	SubState string
}

func (e RoundStateChangeEvent) Type() EventType {
	return EventTypeRoundStateChange
}

// RoundSettledEvent is emitted once per account credited (or refunded) by a
// settled or voided round. The consumer renders it; the engine never waits
// on it.
type RoundSettledEvent struct {
	RoundID   string
	GameType  entities.GameType
	AccountID string
	Delta     int64
	Reason    entities.EntryReason
	Outcome   string
}

func (e RoundSettledEvent) Type() EventType {
	return EventTypeRoundSettled
}
