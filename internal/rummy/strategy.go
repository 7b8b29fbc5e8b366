package rummy

import (
	"fmt"

	"github.com/lox/cardsim/internal/deck"
)

// DrawDecision chooses the draw source: true draws from the deck, false takes
// the top of the discard pile.
type DrawDecision func(hand []deck.Card, topDiscard deck.Card) bool

// DiscardDecision returns the index of the hand card to discard. Indices
// outside the hand are replaced with 0 by the engine.
type DiscardDecision func(hand []deck.Card) int

// DeclareDecision asks whether to go out with the analysed hand. The engine
// only honours it when the analysis can go out.
type DeclareDecision func(analysis HandAnalysis) bool

// Strategy bundles the three per-turn decisions of a participant. The
// functions receive copies of engine state and may keep their own state
// between calls.
type Strategy struct {
	Name          string
	DrawFromDeck  DrawDecision
	SelectDiscard DiscardDecision
	ShouldDeclare DeclareDecision
}

// Validate checks that every decision function is present.
func (s Strategy) Validate() error {
	switch {
	case s.DrawFromDeck == nil:
		return fmt.Errorf("%w: %q has no draw decision", ErrMissingDecision, s.Name)
	case s.SelectDiscard == nil:
		return fmt.Errorf("%w: %q has no discard decision", ErrMissingDecision, s.Name)
	case s.ShouldDeclare == nil:
		return fmt.Errorf("%w: %q has no declare decision", ErrMissingDecision, s.Name)
	}
	return nil
}

// Participant is one seat of a round.
type Participant struct {
	Name     string
	Strategy Strategy
	Hand     []deck.Card
}

// NewParticipant creates a participant after validating its strategy.
func NewParticipant(name string, strategy Strategy) (*Participant, error) {
	if err := strategy.Validate(); err != nil {
		return nil, fmt.Errorf("participant %s: %w", name, err)
	}
	return &Participant{Name: name, Strategy: strategy}, nil
}

func (p *Participant) receive(card deck.Card) {
	p.Hand = append(p.Hand, card)
}

func (p *Participant) discard(index int) deck.Card {
	card := p.Hand[index]
	p.Hand = append(p.Hand[:index], p.Hand[index+1:]...)
	return card
}
