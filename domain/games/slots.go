package games

import (
	"encoding/json"
	"fmt"
	"strings"

	"casino/domain/entities"
)

// SelectionSpin is the single selection of a slots round.
const SelectionSpin = "spin"

// SlotSymbol is one reel symbol.
type SlotSymbol string

const (
	SymbolCherry SlotSymbol = "cherry"
	SymbolLemon  SlotSymbol = "lemon"
	SymbolOrange SlotSymbol = "orange"
	SymbolBell   SlotSymbol = "bell"
	SymbolBar    SlotSymbol = "bar"
	SymbolSeven  SlotSymbol = "seven"
)

// slotWeight is the weighted distribution each grid cell is drawn from;
// slotLineMultiplier pays a line of three identical symbols.
var (
	slotSymbols = []SlotSymbol{SymbolCherry, SymbolLemon, SymbolOrange, SymbolBell, SymbolBar, SymbolSeven}

	slotWeight = map[SlotSymbol]int{
		SymbolCherry: 30,
		SymbolLemon:  25,
		SymbolOrange: 20,
		SymbolBell:   12,
		SymbolBar:    8,
		SymbolSeven:  5,
	}

	slotLineMultiplier = map[SlotSymbol]float64{
		SymbolCherry: 2,
		SymbolLemon:  3,
		SymbolOrange: 5,
		SymbolBell:   10,
		SymbolBar:    20,
		SymbolSeven:  50,
	}
)

// slotLines are the paylines of the 3×3 grid: three rows and two diagonals.
var slotLines = [][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Slots is the 3×3 grid engine. Every cell is an independent draw from the
// weighted symbol distribution; the spin's effective multiplier is the sum
// of all matched payline multipliers.
type Slots struct {
	table *PayoutTable
}

// NewSlots creates the slots engine with its default table. The spin
// multiplier is outcome-determined, so the table only carries limits.
func NewSlots() *Slots {
	return &Slots{
		table: &PayoutTable{
			MinStake: 10,
			MaxStake: 20000,
			Multipliers: map[string]float64{
				SelectionSpin: 0,
			},
		},
	}
}

func (g *Slots) Type() entities.GameType { return entities.GameTypeSlots }
func (g *Slots) Table() *PayoutTable     { return g.table }

func (g *Slots) ValidSelection(key string) bool {
	return key == SelectionSpin
}

// SlotsOutcome is the drawn 3×3 grid, rows first.
type SlotsOutcome struct {
	Grid [3][3]SlotSymbol `json:"grid"`
}

func (o *SlotsOutcome) MarshalOutcome() ([]byte, error) {
	return json.Marshal(o)
}

func (o *SlotsOutcome) Describe() string {
	mid := make([]string, 3)
	for i, s := range o.Grid[1] {
		mid[i] = string(s)
	}
	return strings.Join(mid, " | ")
}

// LineMultiplier sums the multipliers of every matched payline.
func (o *SlotsOutcome) LineMultiplier() float64 {
	total := 0.0
	for _, line := range slotLines {
		first := o.Grid[line[0][0]][line[0][1]]
		if o.Grid[line[1][0]][line[1][1]] == first && o.Grid[line[2][0]][line[2][1]] == first {
			total += slotLineMultiplier[first]
		}
	}
	return total
}

type slotsSession struct {
	outcome *SlotsOutcome
}

// Begin draws all nine cells from the weighted distribution.
func (g *Slots) Begin(seed []byte) (Session, error) {
	stream := NewStream(seed)
	var o SlotsOutcome
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			o.Grid[row][col] = drawWeightedSymbol(stream)
		}
	}
	return &slotsSession{outcome: &o}, nil
}

func drawWeightedSymbol(stream *Stream) SlotSymbol {
	total := 0
	for _, s := range slotSymbols {
		total += slotWeight[s]
	}
	v := stream.Draw(total)
	for _, s := range slotSymbols {
		v -= slotWeight[s]
		if v < 0 {
			return s
		}
	}
	// Unreachable: weights cover the full draw range.
	return slotSymbols[len(slotSymbols)-1]
}

func (g *Slots) Restore(progress []byte) (Session, error) {
	return nil, fmt.Errorf("slots rounds resolve in one step and have no in-flight session")
}

func (g *Slots) ParseOutcome(data []byte) (Outcome, error) {
	var o SlotsOutcome
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse slots outcome: %w", err)
	}
	return &o, nil
}

func (s *slotsSession) SubState() string                 { return SubStateSpinning }
func (s *slotsSession) Finished() bool                   { return true }
func (s *slotsSession) Outcome() Outcome                 { return s.outcome }
func (s *slotsSession) MarshalProgress() ([]byte, error) { return nil, nil }

// Judge settles the spin: the multiplier is the sum of matched payline
// multipliers, zero matches lose the stake.
func (g *Slots) Judge(outcome Outcome, selection string) Judgment {
	o, ok := outcome.(*SlotsOutcome)
	if !ok || selection != SelectionSpin {
		return Judgment{Result: ResultLose}
	}
	mult := o.LineMultiplier()
	if mult <= 0 {
		return Judgment{Result: ResultLose}
	}
	return Judgment{Result: ResultWin, Multiplier: mult}
}
