package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(rank string) Card {
	return Card{Rank: rank, Suit: SuitSpades}
}

func TestBlackjackScore_SoftAces(t *testing.T) {
	tests := []struct {
		name  string
		hand  []Card
		score int
	}{
		{"ace counts eleven", []Card{card("A"), card("7")}, 18},
		{"ace drops to one on bust", []Card{card("A"), card("7"), card("9")}, 17},
		{"two aces and nine is twenty one", []Card{card("A"), card("A"), card("9")}, 21},
		{"faces count ten", []Card{card("K"), card("Q")}, 20},
		{"five card hand", []Card{card("2"), card("3"), card("4"), card("5"), card("6")}, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.score, BlackjackScore(tt.hand))
		})
	}
}

func TestBlackjack_DealerDrawsToSeventeen(t *testing.T) {
	s := &BlackjackSession{
		Shoe:   &Shoe{Cards: []Card{card("2"), card("5"), card("9")}},
		Player: []Card{card("10"), card("8")},
		Dealer: []Card{card("10"), card("5")},
		Stage:  SubStatePlayerTurn,
	}

	require.NoError(t, s.Apply(ActionStand))

	assert.True(t, s.Finished())
	assert.Equal(t, 17, BlackjackScore(s.Dealer))
	assert.Len(t, s.Dealer, 3)
}

func TestBlackjack_HitBustEndsRound(t *testing.T) {
	s := &BlackjackSession{
		Shoe:   &Shoe{Cards: []Card{card("K")}},
		Player: []Card{card("10"), card("8")},
		Dealer: []Card{card("10"), card("7")},
		Stage:  SubStatePlayerTurn,
	}

	require.NoError(t, s.Apply(ActionHit))

	assert.True(t, s.Finished())
	// The dealer does not draw against a busted player.
	assert.Len(t, s.Dealer, 2)
}

func TestBlackjack_FiveCardLimitForcesStand(t *testing.T) {
	s := &BlackjackSession{
		Shoe:   &Shoe{Cards: []Card{card("2"), card("2"), card("9")}},
		Player: []Card{card("2"), card("3"), card("4")},
		Dealer: []Card{card("10"), card("8")},
		Stage:  SubStatePlayerTurn,
	}

	require.NoError(t, s.Apply(ActionHit))
	require.NoError(t, s.Apply(ActionHit))

	assert.Len(t, s.Player, 5)
	assert.True(t, s.Finished())
}

func TestBlackjack_DoubleOnlyOnFirstAction(t *testing.T) {
	s := &BlackjackSession{
		Shoe:   &Shoe{Cards: []Card{card("2"), card("2"), card("9")}},
		Player: []Card{card("5"), card("6")},
		Dealer: []Card{card("10"), card("8")},
		Stage:  SubStatePlayerTurn,
	}

	require.NoError(t, s.Apply(ActionHit))
	err := s.Apply(ActionDouble)
	assert.Error(t, err)
}

func TestBlackjack_DoubleDrawsOneCardThenDealerPlays(t *testing.T) {
	s := &BlackjackSession{
		Shoe:   &Shoe{Cards: []Card{card("9"), card("10")}},
		Player: []Card{card("5"), card("6")},
		Dealer: []Card{card("10"), card("7")},
		Stage:  SubStatePlayerTurn,
	}

	require.NoError(t, s.Apply(ActionDouble))

	assert.True(t, s.Doubled)
	assert.Len(t, s.Player, 3)
	assert.True(t, s.Finished())
}

func TestBlackjack_NaturalResolvesWithoutActions(t *testing.T) {
	g := NewBlackjack()

	// Scan seeds for one that deals the player a natural.
	for i := 0; i < 256; i++ {
		seed := make([]byte, SeedSize)
		seed[0] = byte(i)
		session, err := g.Begin(seed)
		require.NoError(t, err)

		bs := session.(*BlackjackSession)
		if isNatural(bs.Player) {
			assert.True(t, session.Finished(), "a natural should end the round with no player action")
			return
		}
	}
	t.Fatal("no natural found in seed scan")
}

func TestBlackjack_ProgressRoundTripResumesIdentically(t *testing.T) {
	g := NewBlackjack()
	seed := make([]byte, SeedSize)
	seed[0] = 7

	session, err := g.Begin(seed)
	require.NoError(t, err)
	if session.Finished() {
		t.Skip("seed dealt a natural")
	}

	progress, err := session.MarshalProgress()
	require.NoError(t, err)

	restored, err := g.Restore(progress)
	require.NoError(t, err)

	// Play both sessions identically; the deck must yield the same cards.
	require.NoError(t, session.(*BlackjackSession).Apply(ActionStand))
	require.NoError(t, restored.(*BlackjackSession).Apply(ActionStand))

	orig, err := session.Outcome().MarshalOutcome()
	require.NoError(t, err)
	resumed, err := restored.Outcome().MarshalOutcome()
	require.NoError(t, err)
	assert.JSONEq(t, string(orig), string(resumed))
}

func TestBlackjack_Judge(t *testing.T) {
	g := NewBlackjack()

	tests := []struct {
		name       string
		player     []Card
		dealer     []Card
		result     Result
		multiplier float64
	}{
		{"player bust loses", []Card{card("10"), card("8"), card("9")}, []Card{card("10"), card("7")}, ResultLose, 0},
		{"natural pays three to two", []Card{card("A"), card("K")}, []Card{card("10"), card("9")}, ResultWin, 1.5},
		{"dealer natural beats twenty one in three", []Card{card("7"), card("7"), card("7")}, []Card{card("A"), card("K")}, ResultLose, 0},
		{"both naturals push", []Card{card("A"), card("K")}, []Card{card("A"), card("Q")}, ResultPush, 0},
		{"dealer bust pays even", []Card{card("10"), card("8")}, []Card{card("10"), card("6"), card("K")}, ResultWin, 1},
		{"higher score wins", []Card{card("10"), card("9")}, []Card{card("10"), card("8")}, ResultWin, 1},
		{"equal scores push", []Card{card("10"), card("8")}, []Card{card("9"), card("9")}, ResultPush, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := g.Judge(&BlackjackOutcome{Player: tt.player, Dealer: tt.dealer}, SelectionHand)
			assert.Equal(t, tt.result, j.Result)
			if tt.result == ResultWin {
				assert.Equal(t, tt.multiplier, j.Multiplier)
			}
		})
	}
}
