package testutil

import (
	"time"

	"github.com/google/uuid"

	"casino/domain/entities"
)

// CreateTestRound creates a betting-state round with default values
func CreateTestRound(gameType entities.GameType) *entities.GameRound {
	return &entities.GameRound{
		ID:       uuid.New().String(),
		GameType: gameType,
		State:    entities.RoundStateBetting,
		OpenedAt: time.Now().UTC(),
	}
}

// CreateTestTicket creates an open ticket on a round
func CreateTestTicket(accountID, roundID string, selections map[string]int64) *entities.BetTicket {
	ticket := &entities.BetTicket{
		ID:         uuid.New().String(),
		AccountID:  accountID,
		RoundID:    roundID,
		Selections: selections,
		Status:     entities.TicketStatusOpen,
		PlacedAt:   time.Now().UTC(),
	}
	ticket.TotalStake = ticket.SumSelections()
	return ticket
}

// CreateTestLedgerEntry creates a consistent ledger entry for an account
func CreateTestLedgerEntry(accountID string, delta int64, reason entities.EntryReason, balanceBefore int64) *entities.LedgerEntry {
	return &entities.LedgerEntry{
		AccountID:     accountID,
		Delta:         delta,
		Reason:        reason,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceBefore + delta,
	}
}
