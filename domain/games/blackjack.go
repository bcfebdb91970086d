package games

import (
	"encoding/json"
	"fmt"

	"casino/domain/entities"
)

// Blackjack sub-states inside resolving.
const (
	SubStatePlayerTurn = "player_turn"
	SubStateDealerTurn = "dealer_turn"
)

// SelectionHand is the single selection of a blackjack round: the player's
// wager on their own hand.
const SelectionHand = "hand"

const (
	blackjackDealerStand = 17
	blackjackMaxHandSize = 5
)

// Blackjack is the single-deck blackjack engine. The round's only random
// step is the deck shuffle at the start of resolving; every later draw pops
// deterministically, so hit/stand pacing can never change the cards.
type Blackjack struct {
	table *PayoutTable
}

// NewBlackjack creates the blackjack engine with its default table.
func NewBlackjack() *Blackjack {
	return &Blackjack{
		table: &PayoutTable{
			MinStake: 10,
			MaxStake: 100000,
			Multipliers: map[string]float64{
				SelectionHand: 1,
			},
		},
	}
}

func (g *Blackjack) Type() entities.GameType { return entities.GameTypeBlackjack }
func (g *Blackjack) Table() *PayoutTable     { return g.table }

func (g *Blackjack) ValidSelection(key string) bool {
	return key == SelectionHand
}

// BlackjackScore scores a hand: ace 11 and faces 10, then 10 subtracted per
// ace while the total busts (soft-ace reduction).
func BlackjackScore(hand []Card) int {
	score := 0
	aces := 0
	for _, c := range hand {
		v := c.BlackjackValue()
		if v == 11 {
			aces++
		}
		score += v
	}
	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}
	return score
}

// isNatural reports a two-card 21.
func isNatural(hand []Card) bool {
	return len(hand) == 2 && BlackjackScore(hand) == 21
}

// BlackjackOutcome is the fixed result of a blackjack round.
type BlackjackOutcome struct {
	Player []Card `json:"player"`
	Dealer []Card `json:"dealer"`
}

func (o *BlackjackOutcome) MarshalOutcome() ([]byte, error) {
	return json.Marshal(o)
}

func (o *BlackjackOutcome) Describe() string {
	return fmt.Sprintf("player %d vs dealer %d", BlackjackScore(o.Player), BlackjackScore(o.Dealer))
}

// BlackjackSession is the interactive resolution of one blackjack round.
type BlackjackSession struct {
	Shoe    *Shoe  `json:"shoe"`
	Player  []Card `json:"player"`
	Dealer  []Card `json:"dealer"`
	Doubled bool   `json:"doubled"`
	Stage   string `json:"stage"`
}

// Begin shuffles the deck and deals two cards each.
func (g *Blackjack) Begin(seed []byte) (Session, error) {
	shoe := ShuffledShoe(1, NewStream(seed))
	s := &BlackjackSession{Shoe: shoe, Stage: SubStatePlayerTurn}
	for i := 0; i < 2; i++ {
		for _, hand := range []*[]Card{&s.Player, &s.Dealer} {
			c, err := shoe.Draw()
			if err != nil {
				return nil, fmt.Errorf("dealing blackjack: %w", err)
			}
			*hand = append(*hand, c)
		}
	}
	// A natural ends the player's turn before any action.
	if isNatural(s.Player) {
		if err := s.playDealer(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (g *Blackjack) Restore(progress []byte) (Session, error) {
	var s BlackjackSession
	if err := json.Unmarshal(progress, &s); err != nil {
		return nil, fmt.Errorf("failed to restore blackjack session: %w", err)
	}
	return &s, nil
}

func (g *Blackjack) ParseOutcome(data []byte) (Outcome, error) {
	var o BlackjackOutcome
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse blackjack outcome: %w", err)
	}
	return &o, nil
}

func (s *BlackjackSession) SubState() string { return s.Stage }
func (s *BlackjackSession) Finished() bool   { return s.Stage == "" }

func (s *BlackjackSession) Outcome() Outcome {
	return &BlackjackOutcome{Player: s.Player, Dealer: s.Dealer}
}

func (s *BlackjackSession) MarshalProgress() ([]byte, error) {
	return json.Marshal(s)
}

// Apply advances the session with a player action.
func (s *BlackjackSession) Apply(action Action) error {
	if s.Stage != SubStatePlayerTurn {
		return fmt.Errorf("no player action possible in stage %q: %w", s.Stage, entities.ErrRoundClosed)
	}
	switch action {
	case ActionHit:
		if err := s.drawPlayer(); err != nil {
			return err
		}
		if BlackjackScore(s.Player) > 21 {
			// Bust; the dealer does not play.
			s.Stage = ""
			return nil
		}
		if len(s.Player) >= blackjackMaxHandSize {
			return s.playDealer()
		}
		return nil
	case ActionDouble:
		if len(s.Player) != 2 {
			return fmt.Errorf("double only allowed on the first action: %w", entities.ErrInvalidBet)
		}
		s.Doubled = true
		if err := s.drawPlayer(); err != nil {
			return err
		}
		if BlackjackScore(s.Player) > 21 {
			s.Stage = ""
			return nil
		}
		return s.playDealer()
	case ActionStand:
		return s.playDealer()
	default:
		return fmt.Errorf("unknown blackjack action %q: %w", action, entities.ErrInvalidBet)
	}
}

func (s *BlackjackSession) drawPlayer() error {
	c, err := s.Shoe.Draw()
	if err != nil {
		return fmt.Errorf("drawing player card: %w", err)
	}
	s.Player = append(s.Player, c)
	return nil
}

// playDealer runs the deterministic dealer auto-play: draw below 17.
func (s *BlackjackSession) playDealer() error {
	s.Stage = SubStateDealerTurn
	for BlackjackScore(s.Dealer) < blackjackDealerStand {
		c, err := s.Shoe.Draw()
		if err != nil {
			return fmt.Errorf("drawing dealer card: %w", err)
		}
		s.Dealer = append(s.Dealer, c)
	}
	s.Stage = ""
	return nil
}

// Judge settles the hand wager. A natural win pays 3:2; any other win pays
// even money; equal scores push.
func (g *Blackjack) Judge(outcome Outcome, selection string) Judgment {
	o, ok := outcome.(*BlackjackOutcome)
	if !ok || selection != SelectionHand {
		return Judgment{Result: ResultLose}
	}
	player := BlackjackScore(o.Player)
	dealer := BlackjackScore(o.Dealer)
	even := g.table.Multipliers[SelectionHand]

	switch {
	case player > 21:
		return Judgment{Result: ResultLose}
	case isNatural(o.Player) && !isNatural(o.Dealer):
		return Judgment{Result: ResultWin, Multiplier: 1.5}
	case isNatural(o.Dealer) && !isNatural(o.Player):
		return Judgment{Result: ResultLose}
	case dealer > 21:
		return Judgment{Result: ResultWin, Multiplier: even}
	case player > dealer:
		return Judgment{Result: ResultWin, Multiplier: even}
	case player < dealer:
		return Judgment{Result: ResultLose}
	default:
		return Judgment{Result: ResultPush}
	}
}
