package deck

import (
	rand "math/rand/v2"
)

// StandardSize is the number of cards in a single standard deck.
const StandardSize = 52

// Deck is a draw pile. Cards are drawn from the front.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a standard 52-card deck in suit/rank order and shuffles it
// with the provided random source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, StandardSize),
		rng:   rng,
	}
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	d.Shuffle()
	return d
}

// NewStackedDeck creates a deck holding exactly the given cards in the given
// order. The slice is copied. Useful for tests and replays.
func NewStackedDeck(rng *rand.Rand, cards []Card) *Deck {
	return &Deck{
		cards: append([]Card(nil), cards...),
		rng:   rng,
	}
}

// Shuffle randomizes the order of the remaining cards (Fisher-Yates).
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the front card of the deck.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DrawN draws up to n cards from the front of the deck.
func (d *Deck) DrawN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}

	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

// Refill replaces the contents of the deck with the given cards and shuffles
// them. The slice is copied.
func (d *Deck) Refill(cards []Card) {
	d.cards = append(make([]Card, 0, len(cards)), cards...)
	d.Shuffle()
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Peek returns the front card without removing it from the deck
func (d *Deck) Peek() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	return d.cards[0], true
}
