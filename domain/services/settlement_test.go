package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino/domain/entities"
	"casino/domain/games"
)

func openTicket(id, accountID string, selections map[string]int64) *entities.BetTicket {
	ticket := &entities.BetTicket{
		ID:         id,
		AccountID:  accountID,
		RoundID:    "round-1",
		Selections: selections,
		Status:     entities.TicketStatusOpen,
	}
	ticket.TotalStake = ticket.SumSelections()
	return ticket
}

func TestComputeSettlement_RouletteStraightWin(t *testing.T) {
	g := games.NewRoulette()
	outcome := &games.RouletteOutcome{Pocket: 7}

	tickets := []*entities.BetTicket{
		openTicket("t1", "alice", map[string]int64{"straight:7": 10, "black": 20}),
		openTicket("t2", "bob", map[string]int64{"straight:8": 50}),
	}

	settlements := ComputeSettlement(g, outcome, tickets)
	require.Len(t, settlements, 1)

	// straight pays 35:1 so 10 returns 360; pocket 7 is red so black loses.
	assert.Equal(t, "alice", settlements[0].AccountID)
	assert.Equal(t, int64(360), settlements[0].Amount)
	assert.Equal(t, entities.EntryReasonPayout, settlements[0].Reason)
}

func TestComputeSettlement_BankerCommissionFloors(t *testing.T) {
	g := games.NewBaccarat()
	bankerWin := &games.BaccaratOutcome{
		Player: []games.Card{{Rank: "2", Suit: games.SuitSpades}, {Rank: "3", Suit: games.SuitHearts}},   // 5
		Banker: []games.Card{{Rank: "4", Suit: games.SuitDiamonds}, {Rank: "4", Suit: games.SuitClubs}}, // 8
	}

	tickets := []*entities.BetTicket{
		openTicket("t1", "alice", map[string]int64{"banker": 100}),
	}

	settlements := ComputeSettlement(g, bankerWin, tickets)
	require.Len(t, settlements, 1)

	// 100 * 2 * 0.95 = 190; the 5% commission comes off the whole payout.
	assert.Equal(t, int64(190), settlements[0].Amount)
}

func TestComputeSettlement_PushReturnsStake(t *testing.T) {
	g := games.NewBaccarat()
	tie := &games.BaccaratOutcome{
		Player: []games.Card{{Rank: "4", Suit: games.SuitSpades}, {Rank: "3", Suit: games.SuitHearts}},   // 7
		Banker: []games.Card{{Rank: "5", Suit: games.SuitDiamonds}, {Rank: "2", Suit: games.SuitClubs}}, // 7
	}

	tickets := []*entities.BetTicket{
		openTicket("t1", "alice", map[string]int64{"player": 100}),
		openTicket("t2", "bob", map[string]int64{"tie": 20}),
	}

	settlements := ComputeSettlement(g, tie, tickets)
	require.Len(t, settlements, 2)

	// Player and banker bets push on a tie; the tie bet pays 8:1.
	assert.Equal(t, "alice", settlements[0].AccountID)
	assert.Equal(t, int64(100), settlements[0].Amount)
	assert.Equal(t, "bob", settlements[1].AccountID)
	assert.Equal(t, int64(180), settlements[1].Amount)
}

func TestComputeSettlement_AggregatesPerAccount(t *testing.T) {
	g := games.NewRoulette()
	outcome := &games.RouletteOutcome{Pocket: 18}

	tickets := []*entities.BetTicket{
		openTicket("t1", "alice", map[string]int64{"red": 100}),
		openTicket("t2", "alice", map[string]int64{"even": 50}),
	}

	settlements := ComputeSettlement(g, outcome, tickets)
	require.Len(t, settlements, 1)
	assert.Equal(t, int64(300), settlements[0].Amount)
}

func TestComputeSettlement_SkipsNonOpenTickets(t *testing.T) {
	g := games.NewRoulette()
	outcome := &games.RouletteOutcome{Pocket: 7}

	cancelled := openTicket("t1", "alice", map[string]int64{"straight:7": 10})
	cancelled.Status = entities.TicketStatusVoid

	settlements := ComputeSettlement(g, outcome, []*entities.BetTicket{cancelled})
	assert.Empty(t, settlements)
}

func TestComputeSettlement_Deterministic(t *testing.T) {
	g := games.NewRoulette()
	outcome := &games.RouletteOutcome{Pocket: 0}

	tickets := []*entities.BetTicket{
		openTicket("t1", "carol", map[string]int64{"straight:0": 10}),
		openTicket("t2", "alice", map[string]int64{"straight:0": 20}),
		openTicket("t3", "bob", map[string]int64{"red": 100}),
	}

	first := ComputeSettlement(g, outcome, tickets)
	second := ComputeSettlement(g, outcome, tickets)
	assert.Equal(t, first, second)

	// Output is ordered by account, not by ticket arrival.
	require.Len(t, first, 2)
	assert.Equal(t, "alice", first[0].AccountID)
	assert.Equal(t, "carol", first[1].AccountID)
}

func TestComputeRefunds(t *testing.T) {
	settled := openTicket("t3", "carol", map[string]int64{"red": 500})
	settled.Status = entities.TicketStatusSettled

	tickets := []*entities.BetTicket{
		openTicket("t1", "alice", map[string]int64{"red": 100, "straight:7": 25}),
		openTicket("t2", "alice", map[string]int64{"black": 75}),
		settled,
	}

	refunds := ComputeRefunds(tickets)
	require.Len(t, refunds, 1)
	assert.Equal(t, "alice", refunds[0].AccountID)
	assert.Equal(t, int64(200), refunds[0].Amount)
	assert.Equal(t, entities.EntryReasonRefund, refunds[0].Reason)
}

func TestSettlement_ConservationBound(t *testing.T) {
	// Whatever the pocket, the house never credits more than the table's
	// worst-case exposure: total payout over all pockets is bounded by the
	// fixed odds, so sweeping every pocket must keep each payout within
	// stake * (1 + max multiplier).
	g := games.NewRoulette()
	tickets := []*entities.BetTicket{
		openTicket("t1", "alice", map[string]int64{"straight:17": 10, "red": 40, "low": 30}),
	}
	totalStaked := tickets[0].TotalStake

	for pocket := 0; pocket < 38; pocket++ {
		settlements := ComputeSettlement(g, &games.RouletteOutcome{Pocket: pocket}, tickets)
		assert.LessOrEqual(t, entities.TotalSettled(settlements), totalStaked*36)
	}
}
