package rummy

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/cardsim/internal/deck"
)

// Phase is a state of the round state machine.
type Phase int

const (
	PhaseDealing Phase = iota
	PhaseTurnLoop
	PhaseDeclared
	PhaseMaxTurnsReached
	PhaseDeckExhausted
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseDealing:
		return "dealing"
	case PhaseTurnLoop:
		return "turn-loop"
	case PhaseDeclared:
		return "declared"
	case PhaseMaxTurnsReached:
		return "max-turns"
	case PhaseDeckExhausted:
		return "deck-exhausted"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the phase ends the turn loop.
func (p Phase) IsTerminal() bool {
	return p == PhaseDeclared || p == PhaseMaxTurnsReached || p == PhaseDeckExhausted
}

// Rules are the per-round parameters.
type Rules struct {
	HandSize int
	MaxTurns int
}

// DefaultRules deals seven cards and stops after ten passes.
func DefaultRules() Rules {
	return Rules{HandSize: 7, MaxTurns: 10}
}

// Validate checks that the rules can be played by the given number of
// participants from a deck of deckSize cards.
func (r Rules) Validate(participants, deckSize int) error {
	if participants <= 0 {
		return ErrNoParticipants
	}
	if r.HandSize <= 0 {
		return fmt.Errorf("hand size must be positive, got %d", r.HandSize)
	}
	if r.MaxTurns < 0 {
		return fmt.Errorf("max turns must not be negative, got %d", r.MaxTurns)
	}
	if need := participants*r.HandSize + 1; need > deckSize {
		return fmt.Errorf("%w: %d participants with %d cards each need %d, deck has %d",
			ErrNotEnoughCards, participants, r.HandSize, need, deckSize)
	}
	return nil
}

// RoundState is the shared bookkeeping of a round.
type RoundState struct {
	TurnNumber int
	MaxTurns   int
	// Declared is the seat of the participant who went out, or -1.
	Declared int
	// Analyses holds the latest analysis per seat.
	Analyses []HandAnalysis
}

// HasDeclared reports whether a participant has gone out.
func (s RoundState) HasDeclared() bool {
	return s.Declared >= 0
}

// Round drives one round of rummy from the deal to resolution. It owns the
// table for its lifetime.
type Round struct {
	table  *Table
	seats  []*Participant
	rules  Rules
	engine *TurnEngine
	logger *log.Logger

	phase       Phase
	termination Phase
	state       RoundState
	turns       []TurnRecord
	resolution  Resolution

	dealt  [][]deck.Card
	upCard deck.Card
}

// NewRound prepares a round. Participants keep their seat order for the
// whole round and that order is the final tie-break.
func NewRound(table *Table, participants []*Participant, rules Rules, logger *log.Logger) (*Round, error) {
	if err := rules.Validate(len(participants), table.CardCount()); err != nil {
		return nil, err
	}
	for _, p := range participants {
		if err := p.Strategy.Validate(); err != nil {
			return nil, fmt.Errorf("participant %s: %w", p.Name, err)
		}
	}

	return &Round{
		table:  table,
		seats:  participants,
		rules:  rules,
		engine: NewTurnEngine(logger),
		logger: logger,
		phase:  PhaseDealing,
		state: RoundState{
			MaxTurns: rules.MaxTurns,
			Declared: -1,
			Analyses: make([]HandAnalysis, len(participants)),
		},
	}, nil
}

// Phase returns the current phase.
func (r *Round) Phase() Phase {
	return r.phase
}

// Termination returns the terminal phase the turn loop ended in. It is
// PhaseDealing until the round has been played.
func (r *Round) Termination() Phase {
	return r.termination
}

// State returns a copy of the round state.
func (r *Round) State() RoundState {
	s := r.state
	s.Analyses = append([]HandAnalysis(nil), r.state.Analyses...)
	return s
}

// Turns returns the turn records in play order.
func (r *Round) Turns() []TurnRecord {
	return append([]TurnRecord(nil), r.turns...)
}

// Dealt returns each seat's hand as dealt, before any turn. It is empty until
// the round has been played.
func (r *Round) Dealt() [][]deck.Card {
	out := make([][]deck.Card, len(r.dealt))
	for i, h := range r.dealt {
		out[i] = slices.Clone(h)
	}
	return out
}

// UpCard returns the card turned up to start the discard pile.
func (r *Round) UpCard() deck.Card {
	return r.upCard
}

// Participants returns the seats in play order.
func (r *Round) Participants() []*Participant {
	return r.seats
}

// Play runs the round to completion and resolves it.
func (r *Round) Play() (Resolution, error) {
	if r.phase != PhaseDealing {
		return Resolution{}, ErrRoundFinished
	}

	r.deal()

	for r.phase == PhaseTurnLoop {
		if err := r.playPass(); err != nil {
			return Resolution{}, err
		}
	}

	r.termination = r.phase
	r.resolution = Resolve(r.state)
	r.phase = PhaseResolved

	r.logger.Debug("Round resolved",
		"termination", r.termination,
		"turns", r.state.TurnNumber,
		"winner", r.winnerName())

	return r.resolution, nil
}

func (r *Round) deal() {
	r.dealt = make([][]deck.Card, len(r.seats))
	for seat, p := range r.seats {
		p.Hand = r.table.Deck.DrawN(r.rules.HandSize)
		r.dealt[seat] = slices.Clone(p.Hand)
	}
	// Validate guaranteed a card is left for the discard pile.
	up, _ := r.table.Deck.Draw()
	r.table.Discard.Push(up)
	r.upCard = up

	for seat, p := range r.seats {
		r.state.Analyses[seat] = Analyze(p.Hand)
	}

	r.logger.Debug("Dealt round", "players", len(r.seats), "handSize", r.rules.HandSize, "upCard", up)
	r.phase = PhaseTurnLoop
}

// playPass gives every seat one turn, stopping early on a declaration or
// deck exhaustion.
func (r *Round) playPass() error {
	if r.state.TurnNumber >= r.state.MaxTurns {
		r.phase = PhaseMaxTurnsReached
		return nil
	}
	r.state.TurnNumber++

	for seat, p := range r.seats {
		rec, err := r.engine.PlayTurn(seat, p, r.table, &r.state)
		if err != nil {
			return fmt.Errorf("turn %d, %s: %w", r.state.TurnNumber, p.Name, err)
		}
		r.turns = append(r.turns, rec)

		switch {
		case rec.Exhausted:
			r.phase = PhaseDeckExhausted
			return nil
		case rec.Declared:
			r.phase = PhaseDeclared
			return nil
		}
	}
	return nil
}

func (r *Round) winnerName() string {
	if r.resolution.Winner < 0 {
		return ""
	}
	return r.seats[r.resolution.Winner].Name
}
