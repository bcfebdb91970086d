package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaccaratTotal_ModTen(t *testing.T) {
	assert.Equal(t, 5, BaccaratTotal([]Card{card("7"), card("8")}))
	assert.Equal(t, 0, BaccaratTotal([]Card{card("K"), card("10")}))
	assert.Equal(t, 9, BaccaratTotal([]Card{card("4"), card("5")}))
	assert.Equal(t, 1, BaccaratTotal([]Card{card("A"), card("Q")}))
}

func TestBankerDraws_PlayerStood(t *testing.T) {
	// When the player stands, the banker draws on 0-5 and stands on 6-7.
	for total := 0; total <= 5; total++ {
		assert.True(t, bankerDraws(total, -1), "banker total %d", total)
	}
	for total := 6; total <= 7; total++ {
		assert.False(t, bankerDraws(total, -1), "banker total %d", total)
	}
}

func TestBankerDraws_Tableau(t *testing.T) {
	tests := []struct {
		bankerTotal int
		playerThird int
		draws       bool
	}{
		{2, 9, true},
		{3, 8, false},
		{3, 9, true},
		{4, 1, false},
		{4, 2, true},
		{4, 7, true},
		{4, 8, false},
		{5, 3, false},
		{5, 4, true},
		{5, 7, true},
		{6, 5, false},
		{6, 6, true},
		{6, 7, true},
		{7, 6, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.draws, bankerDraws(tt.bankerTotal, tt.playerThird),
			"banker %d vs player third %d", tt.bankerTotal, tt.playerThird)
	}
}

func TestBaccarat_BeginFinishesImmediately(t *testing.T) {
	g := NewBaccarat()
	seed := make([]byte, SeedSize)

	session, err := g.Begin(seed)
	require.NoError(t, err)

	assert.True(t, session.Finished())
	o := session.Outcome().(*BaccaratOutcome)
	assert.GreaterOrEqual(t, len(o.Player), 2)
	assert.LessOrEqual(t, len(o.Player), 3)
	assert.GreaterOrEqual(t, len(o.Banker), 2)
	assert.LessOrEqual(t, len(o.Banker), 3)
}

func TestBaccarat_SubStateTracksThirdCard(t *testing.T) {
	g := NewBaccarat()

	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		seed := make([]byte, SeedSize)
		seed[0] = byte(i)
		session, err := g.Begin(seed)
		require.NoError(t, err)

		o := session.Outcome().(*BaccaratOutcome)
		if len(o.Player) > 2 || len(o.Banker) > 2 {
			assert.Equal(t, SubStateThirdCard, session.SubState())
		} else {
			assert.Equal(t, SubStateDeal, session.SubState())
		}
		seen[session.SubState()] = true
	}

	// 64 shoes reach both the two-card stand and the third-card draw.
	assert.True(t, seen[SubStateDeal])
	assert.True(t, seen[SubStateThirdCard])
}

func TestBaccarat_SameSeedSameOutcome(t *testing.T) {
	g := NewBaccarat()
	seed := []byte("baccarat-determinism-seed-000000")

	a, err := g.Begin(seed)
	require.NoError(t, err)
	b, err := g.Begin(seed)
	require.NoError(t, err)

	aj, err := a.Outcome().MarshalOutcome()
	require.NoError(t, err)
	bj, err := b.Outcome().MarshalOutcome()
	require.NoError(t, err)
	assert.JSONEq(t, string(aj), string(bj))
}

func TestBaccarat_Judge(t *testing.T) {
	g := NewBaccarat()

	playerWin := &BaccaratOutcome{
		Player: []Card{card("4"), card("5")}, // 9
		Banker: []Card{card("3"), card("4")}, // 7
	}
	bankerWin := &BaccaratOutcome{
		Player: []Card{card("2"), card("3")}, // 5
		Banker: []Card{card("4"), card("4")}, // 8
	}
	tie := &BaccaratOutcome{
		Player: []Card{card("3"), card("4")}, // 7
		Banker: []Card{card("K"), card("7")}, // 7
	}

	j := g.Judge(playerWin, SelectionPlayer)
	assert.Equal(t, ResultWin, j.Result)
	assert.Zero(t, j.Commission)

	j = g.Judge(bankerWin, SelectionBanker)
	assert.Equal(t, ResultWin, j.Result)
	assert.Equal(t, 0.05, j.Commission)

	j = g.Judge(tie, SelectionTie)
	assert.Equal(t, ResultWin, j.Result)
	assert.Equal(t, float64(8), j.Multiplier)

	// Player and banker stakes push on a tie.
	assert.Equal(t, ResultPush, g.Judge(tie, SelectionPlayer).Result)
	assert.Equal(t, ResultPush, g.Judge(tie, SelectionBanker).Result)

	assert.Equal(t, ResultLose, g.Judge(playerWin, SelectionBanker).Result)
	assert.Equal(t, ResultLose, g.Judge(playerWin, SelectionTie).Result)
}
