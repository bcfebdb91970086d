package games

import (
	"fmt"

	"casino/domain/entities"
)

// Result of a single selection against an outcome.
type Result string

const (
	ResultWin  Result = "win"
	ResultLose Result = "lose"
	ResultPush Result = "push"
)

// Judgment is the settlement verdict for one selection. Multiplier is the
// profit multiplier for a win (payout = stake + stake*multiplier, then
// reduced by Commission when non-zero). Pushes return the stake unchanged.
type Judgment struct {
	Result     Result
	Multiplier float64
	Commission float64
}

// PayoutTable is the immutable per-game odds and limits configuration,
// loaded once at startup.
type PayoutTable struct {
	MinStake    int64
	MaxStake    int64
	Multipliers map[string]float64
	// Commission is deducted from winning banker payouts (baccarat only).
	Commission float64
}

// Session is the in-progress resolution of one round. All randomness is
// consumed when the session begins (shuffles and draws come from the round
// seed), so later steps are deterministic and a persisted session resumes to
// the identical outcome. Non-interactive games finish immediately.
type Session interface {
	// SubState names the current resolving sub-state, e.g. "player_turn".
	SubState() string

	// Finished reports whether the outcome is fully constructed.
	Finished() bool

	// Outcome returns the constructed outcome; only valid once finished.
	Outcome() Outcome

	// MarshalProgress serializes the in-flight state for persistence.
	MarshalProgress() ([]byte, error)
}

// Action is a player move in an interactive session.
type Action string

const (
	ActionHit    Action = "hit"
	ActionStand  Action = "stand"
	ActionDouble Action = "double"
)

// InteractiveSession is a session advanced by player actions (blackjack).
type InteractiveSession interface {
	Session

	// Apply performs a player action.
	Apply(action Action) error
}

// Outcome is a fully determined game result. It is constructed before any
// payout is computed and is independent of presentation timing.
type Outcome interface {
	// MarshalOutcome serializes the outcome for the round record.
	MarshalOutcome() ([]byte, error)

	// Describe returns a short human-readable summary for notifications.
	Describe() string
}

// Game defines one casino game: its payout table, its legal selections, and
// how rounds resolve. Implementations are stateless; per-round state lives
// in the Session.
type Game interface {
	// Type identifies the game.
	Type() entities.GameType

	// Table returns the game's payout table.
	Table() *PayoutTable

	// ValidSelection reports whether key is a stakeable selection.
	ValidSelection(key string) bool

	// Begin starts resolving a round, consuming all randomness from seed.
	Begin(seed []byte) (Session, error)

	// Restore rebuilds an in-flight session from persisted progress.
	Restore(progress []byte) (Session, error)

	// ParseOutcome deserializes a stored outcome.
	ParseOutcome(data []byte) (Outcome, error)

	// Judge returns the verdict for one selection against an outcome.
	Judge(outcome Outcome, selection string) Judgment
}

// Registry maps game types to their engines.
type Registry struct {
	games map[entities.GameType]Game
}

// NewRegistry builds a registry with all supported games and their default
// payout tables.
func NewRegistry() *Registry {
	r := &Registry{games: make(map[entities.GameType]Game)}
	for _, g := range []Game{
		NewBlackjack(),
		NewBaccarat(),
		NewRoulette(),
		NewSlots(),
		NewFishPrawnCrab(),
	} {
		r.games[g.Type()] = g
	}
	return r
}

// Get returns the engine for a game type.
func (r *Registry) Get(gameType entities.GameType) (Game, error) {
	g, ok := r.games[gameType]
	if !ok {
		return nil, fmt.Errorf("unknown game type %q", gameType)
	}
	return g, nil
}

// All returns every registered game.
func (r *Registry) All() []Game {
	all := make([]Game, 0, len(r.games))
	for _, g := range r.games {
		all = append(all, g)
	}
	return all
}
