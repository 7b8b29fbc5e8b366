package deck

import (
	"testing"

	"github.com/lox/cardsim/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHasEveryCardOnce(t *testing.T) {
	d := NewDeck(randutil.New(1))
	require.Equal(t, StandardSize, d.Remaining())

	seen := make(map[Card]bool)
	for !d.IsEmpty() {
		card, ok := d.Draw()
		require.True(t, ok)
		assert.False(t, seen[card], "duplicate card %s", card)
		seen[card] = true
	}
	assert.Len(t, seen, StandardSize)

	_, ok := d.Draw()
	assert.False(t, ok, "draw from empty deck should fail")
}

func TestDeckShuffleIsSeeded(t *testing.T) {
	a := NewDeck(randutil.New(42)).DrawN(StandardSize)
	b := NewDeck(randutil.New(42)).DrawN(StandardSize)
	c := NewDeck(randutil.New(43)).DrawN(StandardSize)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestStackedDeckDrawsFromFront(t *testing.T) {
	cards := MustParseCards("2s3s4s")
	d := NewStackedDeck(randutil.New(1), cards)

	card, ok := d.Peek()
	require.True(t, ok)
	assert.Equal(t, cards[0], card)

	card, _ = d.Draw()
	assert.Equal(t, cards[0], card)
	assert.Equal(t, cards[1:], d.DrawN(5))
	assert.True(t, d.IsEmpty())

	// the source slice is not aliased
	assert.Equal(t, "2♠ 3♠ 4♠", FormatCards(cards))
}

func TestDeckRefill(t *testing.T) {
	d := NewStackedDeck(randutil.New(7), nil)
	require.True(t, d.IsEmpty())

	cards := MustParseCards("2s3s4s5s6s7s")
	d.Refill(cards)
	assert.Equal(t, len(cards), d.Remaining())
	assert.ElementsMatch(t, cards, d.DrawN(len(cards)))
}
