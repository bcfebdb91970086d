package entities

import (
	"time"
)

// TicketStatus represents the lifecycle of a bet ticket.
type TicketStatus string

const (
	TicketStatusOpen    TicketStatus = "open"
	TicketStatusSettled TicketStatus = "settled"
	TicketStatusVoid    TicketStatus = "void"
)

// BetTicket is a player's accepted stake on a round. Selections map a
// game-defined selection key (e.g. "banker", "straight:7", "fish") to the
// amount staked on it. A ticket is mutated only by settlement; once settled
// it is read-only history.
type BetTicket struct {
	ID         string           `db:"id"`
	AccountID  string           `db:"account_id"`
	RoundID    string           `db:"round_id"`
	Selections map[string]int64 `db:"selections"`
	TotalStake int64            `db:"total_stake"`
	Status     TicketStatus     `db:"status"`
	PlacedAt   time.Time        `db:"placed_at"`
	SettledAt  *time.Time       `db:"settled_at"`
}

// IsOpen checks if the ticket is still awaiting settlement.
func (t *BetTicket) IsOpen() bool {
	return t.Status == TicketStatusOpen
}

// StakeOn returns the amount staked on a selection key.
func (t *BetTicket) StakeOn(selection string) int64 {
	return t.Selections[selection]
}

// SumSelections recomputes the total from the selection map.
func (t *BetTicket) SumSelections() int64 {
	var total int64
	for _, stake := range t.Selections {
		total += stake
	}
	return total
}
