package entities

import (
	"errors"
	"time"
)

// Account holds a player's point balance. Balances are mutated only by the
// wallet service; Version is the optimistic-concurrency token checked on
// every write.
type Account struct {
	ID        string    `db:"id"`
	Balance   int64     `db:"balance"`
	Version   int64     `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanAfford checks if the account has sufficient balance for an amount.
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// ValidateStake checks if an amount is a legal stake for this account.
func (a *Account) ValidateStake(amount int64) error {
	if amount <= 0 {
		return errors.New("stake must be positive")
	}
	if !a.CanAfford(amount) {
		return errors.New("insufficient balance")
	}
	return nil
}
