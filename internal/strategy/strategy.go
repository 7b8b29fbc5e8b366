// Package strategy provides the built-in rummy players. Each constructor
// returns a rummy.Strategy whose decisions are plain closures, so a strategy
// can be composed from any mix of draw, discard and declare rules.
package strategy

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/cardsim/internal/deck"
	"github.com/lox/cardsim/internal/rummy"
)

// ErrUnknownStrategy is returned by New for names that are not registered.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Factory builds a strategy. rng is only used by strategies that make random
// choices; it must not be shared between goroutines.
type Factory func(rng *rand.Rand, logger *log.Logger) rummy.Strategy

var registry = map[string]Factory{
	"set-focus": func(_ *rand.Rand, logger *log.Logger) rummy.Strategy { return NewSetFocus(logger) },
	"run-focus": func(_ *rand.Rand, logger *log.Logger) rummy.Strategy { return NewRunFocus(logger) },
	"balanced":  func(_ *rand.Rand, logger *log.Logger) rummy.Strategy { return NewBalanced(logger) },
	"low-point": func(_ *rand.Rand, logger *log.Logger) rummy.Strategy { return NewLowPoint(logger) },
	"random":    NewRandom,
}

// Names returns the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Exists reports whether name is a registered strategy.
func Exists(name string) bool {
	_, ok := registry[strings.ToLower(name)]
	return ok
}

// New builds the named strategy. Names are case insensitive.
func New(name string, rng *rand.Rand, logger *log.Logger) (rummy.Strategy, error) {
	factory, ok := registry[strings.ToLower(name)]
	if !ok {
		return rummy.Strategy{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownStrategy, name, strings.Join(Names(), ", "))
	}
	return factory(rng, logger), nil
}

// rankCount returns how many cards in hand share rank.
func rankCount(hand []deck.Card, rank deck.Rank) int {
	n := 0
	for _, c := range hand {
		if c.Rank == rank {
			n++
		}
	}
	return n
}

// extendsSet reports whether card would join a pair or a lone card of the
// same rank.
func extendsSet(hand []deck.Card, card deck.Card) bool {
	n := rankCount(hand, card.Rank)
	return n >= 1 && n < 3
}

// adjacent reports whether a and b are neighbours in a run.
func adjacent(a, b deck.Card) bool {
	if a.Suit != b.Suit {
		return false
	}
	d := a.SequenceValue() - b.SequenceValue()
	return d == 1 || d == -1
}

// extendsRun reports whether card is adjacent to any card in hand.
func extendsRun(hand []deck.Card, card deck.Card) bool {
	return slices.ContainsFunc(hand, func(c deck.Card) bool { return adjacent(c, card) })
}

// highestUnmatched returns the hand index of the unmatched card with the
// highest point value, the first one in hand order on ties. It returns 0 when
// every card is melded.
func highestUnmatched(hand []deck.Card) int {
	a := rummy.Analyze(hand)
	if len(a.Unmatched) == 0 {
		return 0
	}
	best := a.Unmatched[0]
	for _, c := range a.Unmatched[1:] {
		if c.PointValue() > best.PointValue() {
			best = c
		}
	}
	return slices.Index(hand, best)
}

// highestSequence returns the index of the first card with the highest
// sequence value among the candidates, or -1 when no card qualifies.
func highestSequence(hand []deck.Card, candidate func(deck.Card) bool) int {
	best := -1
	for i, c := range hand {
		if !candidate(c) {
			continue
		}
		if best < 0 || c.SequenceValue() > hand[best].SequenceValue() {
			best = i
		}
	}
	return best
}

func canGoOut(a rummy.HandAnalysis) bool {
	return a.CanGoOut()
}
