package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedgerEntry_Validate(t *testing.T) {
	valid := &LedgerEntry{
		AccountID:     "acct",
		Delta:         -100,
		Reason:        EntryReasonBet,
		BalanceBefore: 500,
		BalanceAfter:  400,
	}
	assert.NoError(t, valid.Validate())

	zero := *valid
	zero.Delta = 0
	zero.BalanceAfter = 500
	assert.Error(t, zero.Validate())

	wrongSign := *valid
	wrongSign.Reason = EntryReasonPayout
	assert.Error(t, wrongSign.Validate(), "a payout cannot carry a negative delta")

	inconsistent := *valid
	inconsistent.BalanceAfter = 450
	assert.Error(t, inconsistent.Validate())

	negative := &LedgerEntry{
		AccountID:     "acct",
		Delta:         -600,
		Reason:        EntryReasonBet,
		BalanceBefore: 500,
		BalanceAfter:  -100,
	}
	assert.Error(t, negative.Validate())
}

func TestEntryReason_IsCredit(t *testing.T) {
	assert.False(t, EntryReasonBet.IsCredit())
	assert.True(t, EntryReasonPayout.IsCredit())
	assert.True(t, EntryReasonRefund.IsCredit())
	assert.True(t, EntryReasonDeposit.IsCredit())
}

func TestBetTicket_SumSelections(t *testing.T) {
	ticket := &BetTicket{
		Selections: map[string]int64{"player": 300, "tie": 50},
		Status:     TicketStatusOpen,
	}
	assert.Equal(t, int64(350), ticket.SumSelections())
	assert.Equal(t, int64(300), ticket.StakeOn("player"))
	assert.Equal(t, int64(0), ticket.StakeOn("banker"))
	assert.True(t, ticket.IsOpen())
}

func TestAccount_ValidateStake(t *testing.T) {
	account := &Account{ID: "acct", Balance: 100}

	assert.NoError(t, account.ValidateStake(100))
	assert.Error(t, account.ValidateStake(0))
	assert.Error(t, account.ValidateStake(-5))
	assert.Error(t, account.ValidateStake(101))
}
