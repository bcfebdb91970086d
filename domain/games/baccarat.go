package games

import (
	"encoding/json"
	"fmt"

	"casino/domain/entities"
)

// Baccarat sub-states inside resolving.
const (
	SubStateDeal      = "deal"
	SubStateThirdCard = "third_card"
)

// Baccarat selections.
const (
	SelectionPlayer = "player"
	SelectionBanker = "banker"
	SelectionTie    = "tie"
)

const baccaratShoeDecks = 8

// Baccarat is the punto banco engine. Both hands auto-play from an
// eight-deck shoe; the third-card tableau is fixed, so the whole resolution
// is deterministic once the shoe is shuffled.
type Baccarat struct {
	table *PayoutTable
}

// NewBaccarat creates the baccarat engine with its default table:
// even money on both hands, 5% commission on banker wins, 8:1 on tie.
func NewBaccarat() *Baccarat {
	return &Baccarat{
		table: &PayoutTable{
			MinStake: 10,
			MaxStake: 100000,
			Multipliers: map[string]float64{
				SelectionPlayer: 1,
				SelectionBanker: 1,
				SelectionTie:    8,
			},
			Commission: 0.05,
		},
	}
}

func (g *Baccarat) Type() entities.GameType { return entities.GameTypeBaccarat }
func (g *Baccarat) Table() *PayoutTable     { return g.table }

func (g *Baccarat) ValidSelection(key string) bool {
	_, ok := g.table.Multipliers[key]
	return ok
}

// BaccaratTotal is the hand value: sum of card values mod 10.
func BaccaratTotal(hand []Card) int {
	total := 0
	for _, c := range hand {
		total += c.BaccaratValue()
	}
	return total % 10
}

// BaccaratOutcome is the fixed result of a baccarat round.
type BaccaratOutcome struct {
	Player []Card `json:"player"`
	Banker []Card `json:"banker"`
}

func (o *BaccaratOutcome) MarshalOutcome() ([]byte, error) {
	return json.Marshal(o)
}

func (o *BaccaratOutcome) Describe() string {
	return fmt.Sprintf("player %d vs banker %d", BaccaratTotal(o.Player), BaccaratTotal(o.Banker))
}

type baccaratSession struct {
	outcome *BaccaratOutcome
}

// Begin shuffles the shoe and runs the full tableau.
func (g *Baccarat) Begin(seed []byte) (Session, error) {
	shoe := ShuffledShoe(baccaratShoeDecks, NewStream(seed))

	var player, banker []Card
	for i := 0; i < 2; i++ {
		for _, hand := range []*[]Card{&player, &banker} {
			c, err := shoe.Draw()
			if err != nil {
				return nil, fmt.Errorf("dealing baccarat: %w", err)
			}
			*hand = append(*hand, c)
		}
	}

	// Naturals on either side stop play.
	if BaccaratTotal(player) < 8 && BaccaratTotal(banker) < 8 {
		playerThird := -1
		if BaccaratTotal(player) <= 5 {
			c, err := shoe.Draw()
			if err != nil {
				return nil, fmt.Errorf("drawing player third card: %w", err)
			}
			player = append(player, c)
			playerThird = c.BaccaratValue()
		}
		if bankerDraws(BaccaratTotal(banker[:2]), playerThird) {
			c, err := shoe.Draw()
			if err != nil {
				return nil, fmt.Errorf("drawing banker third card: %w", err)
			}
			banker = append(banker, c)
		}
	}

	return &baccaratSession{outcome: &BaccaratOutcome{Player: player, Banker: banker}}, nil
}

// bankerDraws implements the standard tableau, keyed by the banker's
// two-card total and the player's third-card value (-1 when the player
// stood, in which case the banker plays like the player).
func bankerDraws(bankerTotal, playerThird int) bool {
	if playerThird < 0 {
		return bankerTotal <= 5
	}
	switch bankerTotal {
	case 0, 1, 2:
		return true
	case 3:
		return playerThird != 8
	case 4:
		return playerThird >= 2 && playerThird <= 7
	case 5:
		return playerThird >= 4 && playerThird <= 7
	case 6:
		return playerThird >= 6 && playerThird <= 7
	default:
		return false
	}
}

func (g *Baccarat) Restore(progress []byte) (Session, error) {
	return nil, fmt.Errorf("baccarat rounds resolve in one step and have no in-flight session")
}

func (g *Baccarat) ParseOutcome(data []byte) (Outcome, error) {
	var o BaccaratOutcome
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse baccarat outcome: %w", err)
	}
	return &o, nil
}

// SubState reports which phase of the tableau produced the outcome: deal
// when both hands stood on two cards, third_card when the tableau drew.
func (s *baccaratSession) SubState() string {
	if len(s.outcome.Player) > 2 || len(s.outcome.Banker) > 2 {
		return SubStateThirdCard
	}
	return SubStateDeal
}

func (s *baccaratSession) Finished() bool                   { return true }
func (s *baccaratSession) Outcome() Outcome                 { return s.outcome }
func (s *baccaratSession) MarshalProgress() ([]byte, error) { return nil, nil }

// Judge settles one selection. On a tie, player and banker stakes push;
// winning banker bets pay the table commission.
func (g *Baccarat) Judge(outcome Outcome, selection string) Judgment {
	o, ok := outcome.(*BaccaratOutcome)
	if !ok {
		return Judgment{Result: ResultLose}
	}
	player := BaccaratTotal(o.Player)
	banker := BaccaratTotal(o.Banker)

	switch selection {
	case SelectionTie:
		if player == banker {
			return Judgment{Result: ResultWin, Multiplier: g.table.Multipliers[SelectionTie]}
		}
		return Judgment{Result: ResultLose}
	case SelectionPlayer:
		switch {
		case player == banker:
			return Judgment{Result: ResultPush}
		case player > banker:
			return Judgment{Result: ResultWin, Multiplier: g.table.Multipliers[SelectionPlayer]}
		default:
			return Judgment{Result: ResultLose}
		}
	case SelectionBanker:
		switch {
		case player == banker:
			return Judgment{Result: ResultPush}
		case banker > player:
			return Judgment{
				Result:     ResultWin,
				Multiplier: g.table.Multipliers[SelectionBanker],
				Commission: g.table.Commission,
			}
		default:
			return Judgment{Result: ResultLose}
		}
	default:
		return Judgment{Result: ResultLose}
	}
}
