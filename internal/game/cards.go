package game

import (
	"errors"
	"math/rand"
	"strconv"
	"time"
)

type Suit int

type Rank int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

// NumericValue is the blackjack value of the rank. Aces count as 11 here;
// demotion to 1 happens in HandValue.
func (r Rank) NumericValue() int {
	if r == Ace {
		return 11
	}
	if r > Ten {
		return 10
	}
	return int(r)
}

func (r Rank) Label() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return strconv.Itoa(int(r))
	}
}

func (s Suit) String() string {
	switch s {
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	default:
		return "spades"
	}
}

type Card struct {
	Rank Rank
	Suit Suit
}

// String is the compact form used in history records: "As", "Td".
func (c Card) String() string {
	label := c.Rank.Label()
	if c.Rank == Ten {
		label = "T"
	}
	return label + c.Suit.String()[:1]
}

var ErrDeckExhausted = errors.New("deck_exhausted")

// Deck is a single 52-card deck. It is owned by exactly one Round and is
// never reused once the round ends.
type Deck struct {
	cards []Card
}

func NewShuffledDeck() *Deck {
	cards := make([]Card, 0, 52)
	for s := Hearts; s <= Spades; s++ {
		for r := Two; r <= Ace; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	d := &Deck{cards: cards}
	d.shuffle()
	return d
}

// NewDeckFromCards builds an unshuffled deck. Draw pops from the end, so the
// last card listed is the first one dealt. Tests use this to rig deals.
func NewDeckFromCards(cards []Card) *Deck {
	return &Deck{cards: append([]Card{}, cards...)}
}

// Fisher-Yates.
func (d *Deck) shuffle() {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	rnd.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the last card. An empty deck is a precondition
// violation: table limits cap a round at far fewer draws than 52.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, nil
}

func (d *Deck) Len() int {
	return len(d.cards)
}
