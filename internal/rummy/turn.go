package rummy

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/cardsim/internal/deck"
)

// DrawSource identifies where a turn's card came from.
type DrawSource int

const (
	FromDeck DrawSource = iota
	FromDiscard
)

func (s DrawSource) String() string {
	switch s {
	case FromDeck:
		return "deck"
	case FromDiscard:
		return "discard"
	default:
		return "unknown"
	}
}

// TurnRecord describes what happened during one participant's turn.
type TurnRecord struct {
	Turn        int
	Seat        int
	Participant string

	Source   DrawSource
	Drawn    deck.Card
	Recycled bool
	// Exhausted is set when a deck draw was needed but neither the deck nor
	// the discard pile could supply a card. No card moved.
	Exhausted bool

	Declared       bool
	DeclareIgnored bool

	RequestedDiscard int
	DiscardIndex     int
	Discarded        deck.Card
	Substituted      bool

	// Analysis is the participant's analysis at the end of the turn.
	Analysis HandAnalysis
}

// Discarding reports whether the turn ended with a discard.
func (r TurnRecord) Discarding() bool {
	return !r.Exhausted && !r.Declared
}

// TurnEngine plays single turns against a table.
type TurnEngine struct {
	logger *log.Logger
}

// NewTurnEngine creates a turn engine.
func NewTurnEngine(logger *log.Logger) *TurnEngine {
	return &TurnEngine{logger: logger}
}

// PlayTurn runs the draw, declare and discard phases for the participant in
// the given seat. The participant's cached analysis in state is refreshed
// after the draw and after the discard, and state.Declared is set when a
// declaration is honoured. The returned error is only non-nil for contract
// violations; deck exhaustion is reported through TurnRecord.Exhausted.
func (e *TurnEngine) PlayTurn(seat int, p *Participant, table *Table, state *RoundState) (TurnRecord, error) {
	if err := p.Strategy.Validate(); err != nil {
		return TurnRecord{}, err
	}

	rec := TurnRecord{
		Turn:        state.TurnNumber,
		Seat:        seat,
		Participant: p.Name,
		Source:      FromDeck,
	}

	if top, ok := table.Discard.Top(); ok && !p.Strategy.DrawFromDeck(slices.Clone(p.Hand), top) {
		rec.Source = FromDiscard
	}

	switch rec.Source {
	case FromDiscard:
		rec.Drawn, _ = table.Discard.TakeTop()
	case FromDeck:
		if table.Deck.IsEmpty() {
			if !table.recycle() {
				rec.Exhausted = true
				rec.Analysis = state.Analyses[seat]
				e.logger.Debug("Deck exhausted", "turn", rec.Turn, "player", p.Name, "discard", table.Discard.Len())
				return rec, nil
			}
			rec.Recycled = true
			e.logger.Debug("Recycled discard pile", "turn", rec.Turn, "deck", table.Deck.Remaining())
		}
		rec.Drawn, _ = table.Deck.Draw()
	}
	p.receive(rec.Drawn)

	analysis := Analyze(p.Hand)
	state.Analyses[seat] = analysis

	if p.Strategy.ShouldDeclare(analysis) {
		if analysis.CanGoOut() {
			rec.Declared = true
			rec.Analysis = analysis
			state.Declared = seat
			e.logger.Debug("Player declared",
				"turn", rec.Turn,
				"player", p.Name,
				"sets", len(analysis.Sets),
				"runs", len(analysis.Runs))
			return rec, nil
		}
		rec.DeclareIgnored = true
	}

	rec.RequestedDiscard = p.Strategy.SelectDiscard(slices.Clone(p.Hand))
	rec.DiscardIndex = rec.RequestedDiscard
	if rec.DiscardIndex < 0 || rec.DiscardIndex >= len(p.Hand) {
		rec.DiscardIndex = 0
		rec.Substituted = true
		e.logger.Debug("Discard index out of range, using 0",
			"player", p.Name,
			"requested", rec.RequestedDiscard,
			"hand", len(p.Hand))
	}

	rec.Discarded = p.discard(rec.DiscardIndex)
	table.Discard.Push(rec.Discarded)

	rec.Analysis = Analyze(p.Hand)
	state.Analyses[seat] = rec.Analysis

	e.logger.Debug("Turn played",
		"turn", rec.Turn,
		"player", p.Name,
		"source", rec.Source,
		"drawn", rec.Drawn,
		"discarded", rec.Discarded,
		"unmatched", rec.Analysis.UnmatchedPoints())

	return rec, nil
}

func (r TurnRecord) String() string {
	switch {
	case r.Exhausted:
		return fmt.Sprintf("turn %d: %s could not draw, deck exhausted", r.Turn, r.Participant)
	case r.Declared:
		return fmt.Sprintf("turn %d: %s drew %s from the %s and went out", r.Turn, r.Participant, r.Drawn, r.Source)
	default:
		return fmt.Sprintf("turn %d: %s drew %s from the %s, discarded %s", r.Turn, r.Participant, r.Drawn, r.Source, r.Discarded)
	}
}
