package services

import (
	"math"
	"sort"

	"casino/domain/entities"
	"casino/domain/games"
)

// ComputeSettlement is the payout calculator: a pure function from an
// outcome and a ticket set to the credits they earn. Given the same inputs
// it always produces the same output; nothing here touches a clock, the
// RNG, or storage.
//
// A winning selection pays stake + stake*multiplier; a banker-style win is
// reduced by the table commission on the whole payout; a push returns the
// stake; a loss pays nothing (the stake was debited at ticket acceptance).
// Credits are aggregated to one settlement per account so the idempotency
// key (round, account, reason) covers a whole round.
func ComputeSettlement(game games.Game, outcome games.Outcome, tickets []*entities.BetTicket) []entities.Settlement {
	totals := make(map[string]int64)

	for _, ticket := range tickets {
		if !ticket.IsOpen() {
			continue
		}
		for selection, stake := range ticket.Selections {
			judgment := game.Judge(outcome, selection)
			switch judgment.Result {
			case games.ResultWin:
				payout := float64(stake) * (1 + judgment.Multiplier)
				if judgment.Commission > 0 {
					payout *= 1 - judgment.Commission
				}
				totals[ticket.AccountID] += int64(math.Floor(payout))
			case games.ResultPush:
				totals[ticket.AccountID] += stake
			}
		}
	}

	return toSettlements(totals, entities.EntryReasonPayout)
}

// ComputeRefunds returns every open ticket's full stake, used when a round
// is voided. No payout rule is applied.
func ComputeRefunds(tickets []*entities.BetTicket) []entities.Settlement {
	totals := make(map[string]int64)
	for _, ticket := range tickets {
		if !ticket.IsOpen() {
			continue
		}
		totals[ticket.AccountID] += ticket.TotalStake
	}
	return toSettlements(totals, entities.EntryReasonRefund)
}

// toSettlements flattens the per-account totals in deterministic order.
func toSettlements(totals map[string]int64, reason entities.EntryReason) []entities.Settlement {
	accounts := make([]string, 0, len(totals))
	for accountID, amount := range totals {
		if amount > 0 {
			accounts = append(accounts, accountID)
		}
	}
	sort.Strings(accounts)

	settlements := make([]entities.Settlement, 0, len(accounts))
	for _, accountID := range accounts {
		settlements = append(settlements, entities.Settlement{
			AccountID: accountID,
			Amount:    totals[accountID],
			Reason:    reason,
		})
	}
	return settlements
}
