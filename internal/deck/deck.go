package deck

import (
	"fmt"
	"math/rand"
)

// Suit is one of the four french suits, identified by its initial.
type Suit byte

const (
	Hearts   Suit = 'H'
	Spades   Suit = 'S'
	Clubs    Suit = 'C'
	Diamonds Suit = 'D'
)

var Suits = [4]Suit{Hearts, Spades, Clubs, Diamonds}

// Ranks run 2..14 with J=11, Q=12, K=13, A=14.
const (
	Jack  = 11
	Queen = 12
	King  = 13
	Ace   = 14
)

// Card is an immutable rank/suit pair.
type Card struct {
	Rank int  `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string {
	var r string
	switch c.Rank {
	case Jack:
		r = "J"
	case Queen:
		r = "Q"
	case King:
		r = "K"
	case Ace:
		r = "A"
	default:
		r = fmt.Sprintf("%d", c.Rank)
	}
	return fmt.Sprintf("%s%c", r, c.Suit)
}

// Deck is an ordered sequence of cards consumed by dealing.
type Deck struct {
	cards []Card
}

// New returns the 52-card reference deck in canonical order:
// rank-major, suit-minor.
func New() *Deck {
	cards := make([]Card, 0, 52)
	for rank := 2; rank <= Ace; rank++ {
		for _, suit := range Suits {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	return &Deck{cards: cards}
}

// Shuffled returns a uniformly shuffled working copy. The receiver is
// left untouched so it can serve as the reference set.
func (d *Deck) Shuffled(rng *rand.Rand) *Deck {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

// Draw removes and returns the top card. Drawing from an empty deck is a
// programming error, not a user-facing condition.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		panic("deck: draw from empty deck")
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c
}

func (d *Deck) Len() int { return len(d.cards) }
