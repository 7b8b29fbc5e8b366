package rummy

import (
	"slices"

	"github.com/lox/cardsim/internal/deck"
)

// DiscardPile is the face-up pile. The top is the most recently added card.
type DiscardPile struct {
	cards []deck.Card
}

// Push adds a card on top of the pile.
func (p *DiscardPile) Push(card deck.Card) {
	p.cards = append(p.cards, card)
}

// Top returns the top card without removing it.
func (p *DiscardPile) Top() (deck.Card, bool) {
	if len(p.cards) == 0 {
		return deck.Card{}, false
	}
	return p.cards[len(p.cards)-1], true
}

// TakeTop removes and returns the top card.
func (p *DiscardPile) TakeTop() (deck.Card, bool) {
	card, ok := p.Top()
	if ok {
		p.cards = p.cards[:len(p.cards)-1]
	}
	return card, ok
}

// Len returns the number of cards in the pile.
func (p *DiscardPile) Len() int {
	return len(p.cards)
}

// Cards returns a copy of the pile, bottom first.
func (p *DiscardPile) Cards() []deck.Card {
	return slices.Clone(p.cards)
}

// Table holds the shared resources of one round: the draw pile and the
// discard pile. A table must not be shared between rounds.
type Table struct {
	Deck    *deck.Deck
	Discard *DiscardPile
}

// NewTable wraps a deck with an empty discard pile.
func NewTable(d *deck.Deck) *Table {
	return &Table{Deck: d, Discard: &DiscardPile{}}
}

// CardCount is the number of cards held by the deck and the discard pile.
func (t *Table) CardCount() int {
	return t.Deck.Remaining() + t.Discard.Len()
}

// recycle turns the discard pile, minus its top card, into a fresh shuffled
// deck. It reports false when the pile has one card or fewer.
func (t *Table) recycle() bool {
	if t.Discard.Len() <= 1 {
		return false
	}
	top, _ := t.Discard.TakeTop()
	rest := t.Discard.cards
	t.Discard.cards = []deck.Card{top}
	t.Deck.Refill(rest)
	return true
}
