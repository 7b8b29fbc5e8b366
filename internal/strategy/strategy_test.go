package strategy

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/cardsim/internal/deck"
	"github.com/lox/cardsim/internal/randutil"
	"github.com/lox/cardsim/internal/rummy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func card(s string) deck.Card {
	c, err := deck.ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"balanced", "low-point", "random", "run-focus", "set-focus"}, Names())

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := New(name, randutil.New(1), testLogger())
			require.NoError(t, err)
			assert.NoError(t, s.Validate())
			assert.NotEmpty(t, s.Name)
		})
	}

	assert.True(t, Exists("Set-Focus"))
	_, err := New("shark", randutil.New(1), testLogger())
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestSetFocus(t *testing.T) {
	s := NewSetFocus(testLogger())

	t.Run("draw", func(t *testing.T) {
		assert.False(t, s.DrawFromDeck(deck.MustParseCards("9s2h"), card("9d")), "one held")
		assert.False(t, s.DrawFromDeck(deck.MustParseCards("9s9h2c"), card("9d")), "pair held")
		assert.True(t, s.DrawFromDeck(deck.MustParseCards("9s9h9c"), card("9d")), "set already made")
		assert.True(t, s.DrawFromDeck(deck.MustParseCards("2s3h"), card("9d")))
	})

	t.Run("discard", func(t *testing.T) {
		assert.Equal(t, 3, s.SelectDiscard(deck.MustParseCards("9s9h4cKd2c")), "highest singleton")
		assert.Equal(t, 2, s.SelectDiscard(deck.MustParseCards("9s9hKdKc")), "no singletons, highest card")
		assert.Equal(t, 3, s.SelectDiscard(deck.MustParseCards("9s9h9cKd")), "lone king")
		assert.Equal(t, 0, s.SelectDiscard(deck.MustParseCards("4s4h4c5d6d7d")), "nothing unmatched")
	})

	t.Run("declare", func(t *testing.T) {
		assert.True(t, s.ShouldDeclare(rummy.Analyze(deck.MustParseCards("4s4h4c"))))
		assert.False(t, s.ShouldDeclare(rummy.Analyze(deck.MustParseCards("4s4h4c9d"))))
	})
}

func TestRunFocus(t *testing.T) {
	s := NewRunFocus(testLogger())

	t.Run("draw", func(t *testing.T) {
		assert.False(t, s.DrawFromDeck(deck.MustParseCards("5h9c"), card("6h")))
		assert.False(t, s.DrawFromDeck(deck.MustParseCards("2d9c"), card("Ad")), "ace is low")
		assert.True(t, s.DrawFromDeck(deck.MustParseCards("5c9c"), card("6h")), "wrong suit")
		assert.True(t, s.DrawFromDeck(deck.MustParseCards("Kd"), card("Ad")), "ace does not follow king")
	})

	t.Run("discard", func(t *testing.T) {
		assert.Equal(t, 2, s.SelectDiscard(deck.MustParseCards("5h6hKc7dQd")), "first isolated card")
		assert.Equal(t, 0, s.SelectDiscard(deck.MustParseCards("5h6h7h")), "nothing unmatched")
		// every card has a neighbour, so the highest unmatched card goes
		assert.Equal(t, 2, s.SelectDiscard(deck.MustParseCards("2h3hJsQs")))
	})

	t.Run("declare", func(t *testing.T) {
		assert.True(t, s.ShouldDeclare(rummy.Analyze(deck.MustParseCards("5h6h7h"))))
		assert.False(t, s.ShouldDeclare(rummy.Analyze(deck.MustParseCards("5h5d5c"))), "sets only")
	})
}

func TestBalanced(t *testing.T) {
	s := NewBalanced(testLogger())

	assert.False(t, s.DrawFromDeck(deck.MustParseCards("9s2h"), card("9d")))
	assert.False(t, s.DrawFromDeck(deck.MustParseCards("5h9c"), card("6h")))
	assert.True(t, s.DrawFromDeck(deck.MustParseCards("5h9c"), card("Kd")))

	assert.Equal(t, 4, s.SelectDiscard(deck.MustParseCards("4s4h4c2dQd9s")), "highest unmatched points")
	assert.Equal(t, 0, s.SelectDiscard(deck.MustParseCards("JsKd")), "first on equal points")
	assert.Equal(t, 0, s.SelectDiscard(deck.MustParseCards("4s4h4c")))
}

func TestLowPoint(t *testing.T) {
	s := NewLowPoint(testLogger())

	t.Run("draw", func(t *testing.T) {
		assert.True(t, s.DrawFromDeck(deck.MustParseCards("9s9h"), card("9d")), "too expensive even for a set")
		assert.False(t, s.DrawFromDeck(deck.MustParseCards("5s"), card("5d")), "rank match")
		assert.False(t, s.DrawFromDeck(deck.MustParseCards("4d"), card("5d")), "run adjacency")
		assert.False(t, s.DrawFromDeck(deck.MustParseCards("Ks"), card("2d")), "cheap")
		assert.True(t, s.DrawFromDeck(deck.MustParseCards("Ks"), card("4d")))
	})

	t.Run("declare", func(t *testing.T) {
		assert.True(t, s.ShouldDeclare(rummy.Analyze(deck.MustParseCards("5h6h7h"))))
		assert.True(t, s.ShouldDeclare(rummy.Analyze(deck.MustParseCards("5h6h7h2c3d"))), "requests with ten or less")
		assert.False(t, s.ShouldDeclare(rummy.Analyze(deck.MustParseCards("5h6h7hKcJc"))))
	})
}

func TestRandomIsSeeded(t *testing.T) {
	hand := deck.MustParseCards("2s3s4s5s6s7s8s9s")
	decisions := func(seed int64) []int {
		s := NewRandom(randutil.New(seed), testLogger())
		var out []int
		for range 20 {
			d := s.SelectDiscard(hand)
			require.GreaterOrEqual(t, d, 0)
			require.Less(t, d, len(hand))
			out = append(out, d)
			if s.DrawFromDeck(hand, card("Kd")) {
				out = append(out, -1)
			}
		}
		return out
	}
	assert.Equal(t, decisions(9), decisions(9))
	assert.NotEqual(t, decisions(9), decisions(10))
}

func TestStrategiesPlayFullRounds(t *testing.T) {
	for seed := int64(1); seed <= 100; seed++ {
		rng := randutil.New(seed)
		var participants []*rummy.Participant
		for _, name := range Names() {
			s, err := New(name, rng, testLogger())
			require.NoError(t, err)
			p, err := rummy.NewParticipant(name, s)
			require.NoError(t, err)
			participants = append(participants, p)
		}

		round, err := rummy.NewRound(rummy.NewTable(deck.NewDeck(rng)), participants, rummy.DefaultRules(), testLogger())
		require.NoError(t, err)
		res, err := round.Play()
		require.NoError(t, err)

		require.GreaterOrEqual(t, res.Winner, 0, "seed %d", seed)
		for _, rec := range round.Turns() {
			assert.False(t, rec.Substituted, "seed %d: %s picked an invalid discard", seed, rec.Participant)
		}
	}
}
