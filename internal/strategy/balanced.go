package strategy

import (
	"github.com/charmbracelet/log"
	"github.com/lox/cardsim/internal/deck"
	"github.com/lox/cardsim/internal/rummy"
)

// NewBalanced builds a player that takes the discard for either kind of
// meld and sheds its most expensive unmatched card.
func NewBalanced(logger *log.Logger) rummy.Strategy {
	logger = logger.WithPrefix("balanced")

	return rummy.Strategy{
		Name: "Balanced",
		DrawFromDeck: func(hand []deck.Card, top deck.Card) bool {
			switch {
			case extendsSet(hand, top):
				logger.Debug("Taking discard for set", "card", top)
				return false
			case extendsRun(hand, top):
				logger.Debug("Taking discard for run", "card", top)
				return false
			}
			return true
		},
		SelectDiscard: highestUnmatched,
		ShouldDeclare: canGoOut,
	}
}
