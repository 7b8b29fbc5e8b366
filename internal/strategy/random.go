package strategy

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/cardsim/internal/deck"
	"github.com/lox/cardsim/internal/rummy"
)

// NewRandom builds a baseline player that flips a coin for the draw source and
// discards a uniformly random card. It still goes out whenever it can.
func NewRandom(rng *rand.Rand, logger *log.Logger) rummy.Strategy {
	logger = logger.WithPrefix("random")

	return rummy.Strategy{
		Name: "Random",
		DrawFromDeck: func(_ []deck.Card, top deck.Card) bool {
			fromDeck := rng.IntN(2) == 0
			if !fromDeck {
				logger.Debug("Taking discard", "card", top)
			}
			return fromDeck
		},
		SelectDiscard: func(hand []deck.Card) int {
			if len(hand) == 0 {
				return 0
			}
			return rng.IntN(len(hand))
		},
		ShouldDeclare: canGoOut,
	}
}
