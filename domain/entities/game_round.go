package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// GameType identifies one of the supported casino games.
type GameType string

const (
	GameTypeBlackjack     GameType = "blackjack"
	GameTypeBaccarat      GameType = "baccarat"
	GameTypeRoulette      GameType = "roulette"
	GameTypeSlots         GameType = "slots"
	GameTypeFishPrawnCrab GameType = "fish_prawn_crab"
)

// String returns the string representation of the game type.
func (g GameType) String() string {
	return string(g)
}

// RoundState represents the lifecycle state of a game round.
type RoundState string

const (
	// RoundStateBetting accepts tickets.
	RoundStateBetting RoundState = "betting"
	// RoundStateResolving constructs the outcome; no bet or cancellation is
	// permitted once it begins.
	RoundStateResolving RoundState = "resolving"
	// RoundStateSettled is terminal; payouts have been applied exactly once.
	RoundStateSettled RoundState = "settled"
	// RoundStateVoid is the absorbing failure state; all stakes are refunded.
	RoundStateVoid RoundState = "void"
)

// GameRound is the authoritative instance of one round at one table.
// It owns its tickets for its lifetime; after settlement they are history.
//
// RngSeed is drawn once when resolution starts and fully determines the
// outcome, so a round reconstructed from storage resumes to an identical
// settlement. Progress holds the serialized in-flight session (shoe
// remainder, hands, sub-state) for interactive games; Outcome is set exactly
// once on the transition out of resolving.
type GameRound struct {
	ID        string          `db:"id"`
	GameType  GameType        `db:"game_type"`
	State     RoundState      `db:"state"`
	SubState  string          `db:"sub_state"`
	RngSeed   []byte          `db:"rng_seed"`
	Progress  json.RawMessage `db:"progress"`
	Outcome   json.RawMessage `db:"outcome"`
	OpenedAt  time.Time       `db:"opened_at"`
	ClosedAt  *time.Time      `db:"closed_at"`
	SettledAt *time.Time      `db:"settled_at"`
}

// IsBetting checks if the round still accepts tickets.
func (r *GameRound) IsBetting() bool {
	return r.State == RoundStateBetting
}

// IsTerminal checks if the round reached settled or void.
func (r *GameRound) IsTerminal() bool {
	return r.State == RoundStateSettled || r.State == RoundStateVoid
}

// BeginResolving closes betting and moves the round forward. The caller has
// already debited every accepted ticket; the RNG draw happens after this
// transition.
func (r *GameRound) BeginResolving(seed []byte, subState string, now time.Time) error {
	if r.State != RoundStateBetting {
		return fmt.Errorf("cannot begin resolving from state %s: %w", r.State, ErrRoundClosed)
	}
	r.State = RoundStateResolving
	r.SubState = subState
	r.RngSeed = seed
	r.ClosedAt = &now
	return nil
}

// FixOutcome records the fully constructed outcome. It may be called only
// while resolving, and only once.
func (r *GameRound) FixOutcome(outcome json.RawMessage) error {
	if r.State != RoundStateResolving {
		return fmt.Errorf("cannot fix outcome in state %s", r.State)
	}
	if len(r.Outcome) != 0 {
		return fmt.Errorf("outcome already fixed for round %s", r.ID)
	}
	r.Outcome = outcome
	r.Progress = nil
	return nil
}

// MarkSettled transitions the round to its terminal settled state.
func (r *GameRound) MarkSettled(now time.Time) error {
	if r.State != RoundStateResolving {
		return fmt.Errorf("cannot settle from state %s", r.State)
	}
	if len(r.Outcome) == 0 {
		return fmt.Errorf("cannot settle round %s without an outcome", r.ID)
	}
	r.State = RoundStateSettled
	r.SubState = ""
	r.SettledAt = &now
	return nil
}

// MarkVoid forces the round into the absorbing void state. Valid from any
// non-terminal state; the caller refunds every open ticket.
func (r *GameRound) MarkVoid(now time.Time) error {
	if r.IsTerminal() {
		return fmt.Errorf("cannot void round %s in terminal state %s", r.ID, r.State)
	}
	r.State = RoundStateVoid
	r.SubState = ""
	r.Outcome = nil
	r.Progress = nil
	r.SettledAt = &now
	return nil
}
