package games

import "fmt"

// Suit is a playing card suit.
type Suit string

const (
	SuitSpades   Suit = "S"
	SuitHearts   Suit = "H"
	SuitDiamonds Suit = "D"
	SuitClubs    Suit = "C"
)

var allSuits = []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}

// allRanks in deal order; index+1 is the rank number (A=1 .. K=13).
var allRanks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Card is a single playing card.
type Card struct {
	Rank string `json:"rank"`
	Suit Suit   `json:"suit"`
}

// String formats the card as rank+suit, e.g. "AS" or "10H".
func (c Card) String() string {
	return c.Rank + string(c.Suit)
}

// rankNumber returns 1 for aces through 13 for kings.
func (c Card) rankNumber() int {
	for i, r := range allRanks {
		if r == c.Rank {
			return i + 1
		}
	}
	panic(fmt.Sprintf("unknown card rank %q", c.Rank))
}

// BlackjackValue scores the card for blackjack: ace 11, faces 10.
func (c Card) BlackjackValue() int {
	n := c.rankNumber()
	switch {
	case n == 1:
		return 11
	case n >= 10:
		return 10
	default:
		return n
	}
}

// BaccaratValue scores the card for baccarat: ace 1, 10 and faces 0.
func (c Card) BaccaratValue() int {
	n := c.rankNumber()
	if n >= 10 {
		return 0
	}
	return n
}

// Shoe is a pool of cards drawn without replacement. One deck for blackjack,
// eight for baccarat.
type Shoe struct {
	Cards []Card `json:"cards"`
	Next  int    `json:"next"`
}

// NewShoe builds an unshuffled shoe of the given number of 52-card decks.
func NewShoe(decks int) *Shoe {
	cards := make([]Card, 0, decks*52)
	for d := 0; d < decks; d++ {
		for _, suit := range allSuits {
			for _, rank := range allRanks {
				cards = append(cards, Card{Rank: rank, Suit: suit})
			}
		}
	}
	return &Shoe{Cards: cards}
}

// ShuffledShoe builds a shoe and shuffles it with the stream.
func ShuffledShoe(decks int, stream *Stream) *Shoe {
	shoe := NewShoe(decks)
	stream.Shuffle(len(shoe.Cards), func(i, j int) {
		shoe.Cards[i], shoe.Cards[j] = shoe.Cards[j], shoe.Cards[i]
	})
	return shoe
}

// Remaining returns how many cards are left to draw.
func (s *Shoe) Remaining() int {
	return len(s.Cards) - s.Next
}

// Draw removes and returns the next card.
func (s *Shoe) Draw() (Card, error) {
	if s.Next >= len(s.Cards) {
		return Card{}, fmt.Errorf("shoe exhausted after %d cards", len(s.Cards))
	}
	c := s.Cards[s.Next]
	s.Next++
	return c, nil
}
