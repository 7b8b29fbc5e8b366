package strategy

import (
	"github.com/charmbracelet/log"
	"github.com/lox/cardsim/internal/deck"
	"github.com/lox/cardsim/internal/rummy"
)

// NewSetFocus builds a player that collects cards of the same rank. It takes
// the discard whenever it already holds one or two of that rank and throws
// away its highest singleton.
func NewSetFocus(logger *log.Logger) rummy.Strategy {
	logger = logger.WithPrefix("set-focus")

	return rummy.Strategy{
		Name: "Set Focus",
		DrawFromDeck: func(hand []deck.Card, top deck.Card) bool {
			if extendsSet(hand, top) {
				logger.Debug("Taking discard for set", "card", top, "held", rankCount(hand, top.Rank))
				return false
			}
			return true
		},
		SelectDiscard: func(hand []deck.Card) int {
			if len(rummy.Analyze(hand).Unmatched) == 0 {
				return 0
			}
			singleton := highestSequence(hand, func(c deck.Card) bool {
				return rankCount(hand, c.Rank) == 1
			})
			if singleton >= 0 {
				return singleton
			}
			return highestSequence(hand, func(deck.Card) bool { return true })
		},
		ShouldDeclare: canGoOut,
	}
}
