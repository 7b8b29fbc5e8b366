package strategy

import (
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/cardsim/internal/deck"
	"github.com/lox/cardsim/internal/rummy"
)

// NewRunFocus builds a player that chases same-suit sequences. It only goes
// out when at least one of its melds is a run.
func NewRunFocus(logger *log.Logger) rummy.Strategy {
	logger = logger.WithPrefix("run-focus")

	return rummy.Strategy{
		Name: "Run Focus",
		DrawFromDeck: func(hand []deck.Card, top deck.Card) bool {
			if extendsRun(hand, top) {
				logger.Debug("Taking discard for run", "card", top)
				return false
			}
			return true
		},
		SelectDiscard: func(hand []deck.Card) int {
			if len(rummy.Analyze(hand).Unmatched) == 0 {
				return 0
			}
			for i, c := range hand {
				isolated := !slices.ContainsFunc(hand, func(other deck.Card) bool {
					return adjacent(c, other)
				})
				if isolated {
					return i
				}
			}
			return highestUnmatched(hand)
		},
		ShouldDeclare: func(a rummy.HandAnalysis) bool {
			return a.CanGoOut() && len(a.Runs) > 0
		},
	}
}
