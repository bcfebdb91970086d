package entities

import (
	"errors"
	"time"
)

// EntryReason classifies a ledger entry.
type EntryReason string

const (
	// EntryReasonBet is a stake debit when a ticket is accepted.
	EntryReasonBet EntryReason = "bet"
	// EntryReasonPayout is a settlement credit for a winning or pushed ticket.
	EntryReasonPayout EntryReason = "payout"
	// EntryReasonRefund is a credit returning stakes of a cancelled ticket or
	// voided round.
	EntryReasonRefund EntryReason = "refund"
	// EntryReasonDeposit seeds an account's starting balance so that the
	// balance always equals the sum of its entries.
	EntryReasonDeposit EntryReason = "deposit"
)

// IsCredit returns true for reasons that increase the balance.
func (r EntryReason) IsCredit() bool {
	return r == EntryReasonPayout || r == EntryReasonRefund || r == EntryReasonDeposit
}

// String returns the string representation of the reason.
func (r EntryReason) String() string {
	return string(r)
}

// LedgerEntry is one append-only balance change. The sum of an account's
// entries equals its current balance at every observation point.
//
// Credits carry a (RoundID, AccountID, Reason) idempotency key; debits are
// keyed by TicketID. Replaying a settlement credit therefore never double-pays.
type LedgerEntry struct {
	ID            int64       `db:"id"`
	AccountID     string      `db:"account_id"`
	Delta         int64       `db:"delta"`
	Reason        EntryReason `db:"reason"`
	RoundID       *string     `db:"round_id"`
	TicketID      *string     `db:"ticket_id"`
	BalanceBefore int64       `db:"balance_before"`
	BalanceAfter  int64       `db:"balance_after"`
	CreatedAt     time.Time   `db:"created_at"`
}

// Validate performs basic consistency checks before the entry is recorded.
func (e *LedgerEntry) Validate() error {
	if e.Delta == 0 {
		return errors.New("delta cannot be zero")
	}
	if e.Reason.IsCredit() != (e.Delta > 0) {
		return errors.New("delta sign does not match reason")
	}
	if e.BalanceAfter != e.BalanceBefore+e.Delta {
		return errors.New("balance calculation is inconsistent")
	}
	if e.BalanceAfter < 0 {
		return errors.New("balance cannot go negative")
	}
	return nil
}
