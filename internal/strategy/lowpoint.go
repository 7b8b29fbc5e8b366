package strategy

import (
	"github.com/charmbracelet/log"
	"github.com/lox/cardsim/internal/deck"
	"github.com/lox/cardsim/internal/rummy"
)

const (
	// lowPointMaxTake is the most a discard may be worth before the
	// low-point player refuses it outright.
	lowPointMaxTake = 5
	// lowPointFreeTake is the value at or below which a discard is taken
	// even when it does not help a meld.
	lowPointFreeTake = 3
	// lowPointDeclare is the unmatched total at which the low-point player
	// asks to go out.
	lowPointDeclare = 10
)

// NewLowPoint builds a player that keeps its unmatched total small. It asks to
// declare as soon as its unmatched points drop to ten; the engine only honours
// that request when the hand can actually go out.
func NewLowPoint(logger *log.Logger) rummy.Strategy {
	logger = logger.WithPrefix("low-point")

	return rummy.Strategy{
		Name: "Low Point",
		DrawFromDeck: func(hand []deck.Card, top deck.Card) bool {
			value := top.PointValue()
			switch {
			case value > lowPointMaxTake:
				return true
			case rankCount(hand, top.Rank) >= 1, extendsRun(hand, top):
				logger.Debug("Taking discard for meld", "card", top)
				return false
			case value <= lowPointFreeTake:
				logger.Debug("Taking cheap discard", "card", top, "points", value)
				return false
			}
			return true
		},
		SelectDiscard: highestUnmatched,
		ShouldDeclare: func(a rummy.HandAnalysis) bool {
			return a.CanGoOut() || a.UnmatchedPoints() <= lowPointDeclare
		},
	}
}
