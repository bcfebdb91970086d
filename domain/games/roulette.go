package games

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"casino/domain/entities"
)

// SubStateSpinning covers roulette wheel and slot reel resolution.
const SubStateSpinning = "spinning"

// Roulette outside selections.
const (
	SelectionRed   = "red"
	SelectionBlack = "black"
	SelectionOdd   = "odd"
	SelectionEven  = "even"
	SelectionLow   = "low"  // 1-18
	SelectionHigh  = "high" // 19-36
)

const roulettePockets = 37

// selectionStraightPrefix prefixes a single-number bet, e.g. "straight:7".
const selectionStraightPrefix = "straight:"

// rouletteRed is the fixed pocket→color map of the single-zero wheel.
var rouletteRed = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// Roulette is the single-zero European wheel: 37 pockets, straight bets at
// 35:1, even-money outside bets that all lose to zero.
type Roulette struct {
	table *PayoutTable
}

// NewRoulette creates the roulette engine with its default table. The
// "straight" multiplier applies to every straight:<n> selection.
func NewRoulette() *Roulette {
	return &Roulette{
		table: &PayoutTable{
			MinStake: 10,
			MaxStake: 50000,
			Multipliers: map[string]float64{
				"straight":     35,
				SelectionRed:   1,
				SelectionBlack: 1,
				SelectionOdd:   1,
				SelectionEven:  1,
				SelectionLow:   1,
				SelectionHigh:  1,
			},
		},
	}
}

func (g *Roulette) Type() entities.GameType { return entities.GameTypeRoulette }
func (g *Roulette) Table() *PayoutTable     { return g.table }

func (g *Roulette) ValidSelection(key string) bool {
	if n, ok := parseStraight(key); ok {
		return n >= 0 && n < roulettePockets
	}
	switch key {
	case SelectionRed, SelectionBlack, SelectionOdd, SelectionEven, SelectionLow, SelectionHigh:
		return true
	}
	return false
}

func parseStraight(key string) (int, bool) {
	if !strings.HasPrefix(key, selectionStraightPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(key, selectionStraightPrefix))
	if err != nil {
		return 0, false
	}
	return n, true
}

// RouletteOutcome is the pocket the ball landed in.
type RouletteOutcome struct {
	Pocket int `json:"pocket"`
}

func (o *RouletteOutcome) MarshalOutcome() ([]byte, error) {
	return json.Marshal(o)
}

func (o *RouletteOutcome) Describe() string {
	color := "green"
	if rouletteRed[o.Pocket] {
		color = "red"
	} else if o.Pocket != 0 {
		color = "black"
	}
	return fmt.Sprintf("%d %s", o.Pocket, color)
}

type rouletteSession struct {
	outcome *RouletteOutcome
}

// Begin spins the wheel: one uniform draw over 37 pockets.
func (g *Roulette) Begin(seed []byte) (Session, error) {
	pocket := NewStream(seed).Draw(roulettePockets)
	return &rouletteSession{outcome: &RouletteOutcome{Pocket: pocket}}, nil
}

func (g *Roulette) Restore(progress []byte) (Session, error) {
	return nil, fmt.Errorf("roulette rounds resolve in one step and have no in-flight session")
}

func (g *Roulette) ParseOutcome(data []byte) (Outcome, error) {
	var o RouletteOutcome
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse roulette outcome: %w", err)
	}
	return &o, nil
}

func (s *rouletteSession) SubState() string                 { return SubStateSpinning }
func (s *rouletteSession) Finished() bool                   { return true }
func (s *rouletteSession) Outcome() Outcome                 { return s.outcome }
func (s *rouletteSession) MarshalProgress() ([]byte, error) { return nil, nil }

// Judge settles one selection against the pocket. Straight bets pay only on
// the exact number; zero defeats every outside bet.
func (g *Roulette) Judge(outcome Outcome, selection string) Judgment {
	o, ok := outcome.(*RouletteOutcome)
	if !ok {
		return Judgment{Result: ResultLose}
	}
	p := o.Pocket

	if n, isStraight := parseStraight(selection); isStraight {
		if n == p {
			return Judgment{Result: ResultWin, Multiplier: g.table.Multipliers["straight"]}
		}
		return Judgment{Result: ResultLose}
	}

	if p == 0 {
		return Judgment{Result: ResultLose}
	}

	won := false
	switch selection {
	case SelectionRed:
		won = rouletteRed[p]
	case SelectionBlack:
		won = !rouletteRed[p]
	case SelectionOdd:
		won = p%2 == 1
	case SelectionEven:
		won = p%2 == 0
	case SelectionLow:
		won = p <= 18
	case SelectionHigh:
		won = p >= 19
	}
	if won {
		return Judgment{Result: ResultWin, Multiplier: g.table.Multipliers[selection]}
	}
	return Judgment{Result: ResultLose}
}
