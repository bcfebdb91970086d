package games

import (
	"encoding/json"
	"fmt"
	"strings"

	"casino/domain/entities"
)

// SubStateRolling is the fish-prawn-crab dice roll.
const SubStateRolling = "rolling"

// FPCSymbol is one face of a fish-prawn-crab die.
type FPCSymbol string

const (
	FPCFish    FPCSymbol = "fish"
	FPCPrawn   FPCSymbol = "prawn"
	FPCCrab    FPCSymbol = "crab"
	FPCRooster FPCSymbol = "rooster"
	FPCGourd   FPCSymbol = "gourd"
	FPCStag    FPCSymbol = "stag"
)

var fpcSymbols = []FPCSymbol{FPCFish, FPCPrawn, FPCCrab, FPCRooster, FPCGourd, FPCStag}

// FishPrawnCrab is the three-dice engine: each die is a uniform draw over
// the six symbols, and a staked symbol pays its stake times the number of
// dice showing it.
type FishPrawnCrab struct {
	table *PayoutTable
}

// NewFishPrawnCrab creates the engine with its default table. The listed
// multiplier is per matching die.
func NewFishPrawnCrab() *FishPrawnCrab {
	mult := make(map[string]float64, len(fpcSymbols))
	for _, s := range fpcSymbols {
		mult[string(s)] = 1
	}
	return &FishPrawnCrab{
		table: &PayoutTable{
			MinStake:    10,
			MaxStake:    50000,
			Multipliers: mult,
		},
	}
}

func (g *FishPrawnCrab) Type() entities.GameType { return entities.GameTypeFishPrawnCrab }
func (g *FishPrawnCrab) Table() *PayoutTable     { return g.table }

func (g *FishPrawnCrab) ValidSelection(key string) bool {
	_, ok := g.table.Multipliers[key]
	return ok
}

// FPCOutcome is the three rolled symbols.
type FPCOutcome struct {
	Dice [3]FPCSymbol `json:"dice"`
}

func (o *FPCOutcome) MarshalOutcome() ([]byte, error) {
	return json.Marshal(o)
}

func (o *FPCOutcome) Describe() string {
	faces := make([]string, len(o.Dice))
	for i, d := range o.Dice {
		faces[i] = string(d)
	}
	return strings.Join(faces, " ")
}

// Matches counts the dice showing a symbol.
func (o *FPCOutcome) Matches(symbol string) int {
	n := 0
	for _, d := range o.Dice {
		if string(d) == symbol {
			n++
		}
	}
	return n
}

type fpcSession struct {
	outcome *FPCOutcome
}

// Begin rolls the three dice.
func (g *FishPrawnCrab) Begin(seed []byte) (Session, error) {
	stream := NewStream(seed)
	var o FPCOutcome
	for i := range o.Dice {
		o.Dice[i] = fpcSymbols[stream.Draw(len(fpcSymbols))]
	}
	return &fpcSession{outcome: &o}, nil
}

func (g *FishPrawnCrab) Restore(progress []byte) (Session, error) {
	return nil, fmt.Errorf("fish-prawn-crab rounds resolve in one step and have no in-flight session")
}

func (g *FishPrawnCrab) ParseOutcome(data []byte) (Outcome, error) {
	var o FPCOutcome
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse fish-prawn-crab outcome: %w", err)
	}
	return &o, nil
}

func (s *fpcSession) SubState() string                 { return SubStateRolling }
func (s *fpcSession) Finished() bool                   { return true }
func (s *fpcSession) Outcome() Outcome                 { return s.outcome }
func (s *fpcSession) MarshalProgress() ([]byte, error) { return nil, nil }

// Judge settles one symbol stake: n matching dice multiply the per-die
// multiplier by n, zero matches lose.
func (g *FishPrawnCrab) Judge(outcome Outcome, selection string) Judgment {
	o, ok := outcome.(*FPCOutcome)
	if !ok {
		return Judgment{Result: ResultLose}
	}
	matches := o.Matches(selection)
	if matches == 0 {
		return Judgment{Result: ResultLose}
	}
	return Judgment{
		Result:     ResultWin,
		Multiplier: g.table.Multipliers[selection] * float64(matches),
	}
}
