// Package history records played rounds as TOML so they can be inspected or
// diffed between runs.
package history

import (
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/lox/cardsim/internal/deck"
	"github.com/lox/cardsim/internal/rummy"
)

// FromRound builds the transcript of a resolved round. result must be the
// round's own RoundResult.
func FromRound(round *rummy.Round, result rummy.RoundResult, seed int64, rules rummy.Rules) *Transcript {
	t := &Transcript{
		Round:       result.RoundNumber,
		Seed:        seed,
		HandSize:    rules.HandSize,
		MaxTurns:    rules.MaxTurns,
		Termination: result.Termination.String(),
		Passes:      result.Turns,
		UpCard:      round.UpCard().Code(),
	}

	dealt := round.Dealt()
	for seat, p := range round.Participants() {
		o := result.Outcomes[seat]
		player := Player{
			Seat:            seat,
			Name:            p.Name,
			Strategy:        o.StrategyName,
			Final:           deck.Codes(p.Hand),
			Result:          o.Result.String(),
			UnmatchedPoints: o.UnmatchedPoints,
			Combinations:    o.CombinationsCount,
			WentOut:         o.WentOut,
		}
		if seat < len(dealt) {
			player.Dealt = deck.Codes(dealt[seat])
		}
		t.Players = append(t.Players, player)
	}

	for _, rec := range round.Turns() {
		turn := Turn{
			Pass:      rec.Turn,
			Seat:      rec.Seat,
			Source:    rec.Source.String(),
			Exhausted: rec.Exhausted,
			Declared:  rec.Declared,
			Requested: rec.RequestedDiscard,
		}
		if !rec.Exhausted {
			turn.Drawn = rec.Drawn.Code()
			turn.Recycled = rec.Recycled
		}
		if rec.Discarding() {
			turn.Discarded = rec.Discarded.Code()
			turn.Substituted = rec.Substituted
		}
		t.Turns = append(t.Turns, turn)
	}

	return t
}

// Encode writes a single transcript as a one-round history document.
func Encode(w io.Writer, t *Transcript) error {
	if t == nil {
		return errors.New("history: transcript is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(Log{Rounds: []Transcript{*t}})
}

// Writer appends transcripts to a stream. Each call emits one [[round]]
// table, so the concatenated output is itself a valid history document. A
// Writer is not safe for concurrent use.
type Writer struct {
	w      io.Writer
	run    string
	rounds int
}

// NewWriter returns a Writer that stamps every transcript with run.
func NewWriter(w io.Writer, run string) *Writer {
	return &Writer{w: w, run: run}
}

// Write appends one transcript.
func (w *Writer) Write(t *Transcript) error {
	if t.Run == "" {
		t.Run = w.run
	}
	if err := Encode(w.w, t); err != nil {
		return fmt.Errorf("history: round %d: %w", t.Round, err)
	}
	w.rounds++
	return nil
}

// Rounds returns how many transcripts have been written.
func (w *Writer) Rounds() int {
	return w.rounds
}

// Decode reads a history document.
func Decode(r io.Reader) (*Log, error) {
	var log Log
	if _, err := toml.NewDecoder(r).Decode(&log); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return &log, nil
}

// Cards parses a list of card codes back into cards.
func Cards(codes []string) ([]deck.Card, error) {
	out := make([]deck.Card, 0, len(codes))
	for _, code := range codes {
		c, err := deck.ParseCard(code)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
