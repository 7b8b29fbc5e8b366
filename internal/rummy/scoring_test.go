package rummy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateOf(declared int, hands ...string) RoundState {
	s := RoundState{Declared: declared}
	for _, h := range hands {
		s.Analyses = append(s.Analyses, Analyze(cards(h)))
	}
	return s
}

func TestResolveCombinationsBreakPointTie(t *testing.T) {
	state := stateOf(-1,
		"9s9h9d8c",       // one meld, 8 points
		"3s3h3d4c5c6c8h", // two melds, 8 points
	)
	require.Equal(t, 8, state.Analyses[0].UnmatchedPoints())
	require.Equal(t, 8, state.Analyses[1].UnmatchedPoints())

	res := Resolve(state)
	assert.Equal(t, 1, res.Winner)
	assert.False(t, res.Results[0].IsWinner)
	assert.True(t, res.Results[1].IsWinner)
	assert.Equal(t, 2, res.Results[1].CombinationsCount)
}

func TestResolveLowestPointsWin(t *testing.T) {
	res := Resolve(stateOf(-1, "KsQhJd", "2s3h4d", "9s9h9dKc"))
	assert.Equal(t, 1, res.Winner)
	assert.Equal(t, []int{30, 9, 10}, []int{
		res.Results[0].UnmatchedPoints,
		res.Results[1].UnmatchedPoints,
		res.Results[2].UnmatchedPoints,
	})
}

func TestResolveFullTieGoesToEarliestSeat(t *testing.T) {
	res := Resolve(stateOf(-1, "KsQh", "5s5h5d2c2h", "Kd", "KhQs"))
	// seat 1 scores 4, seat 2 scores 10; seats 0 and 3 tie on 20 and 0 melds
	assert.Equal(t, 1, res.Winner)

	res = Resolve(stateOf(-1, "KsQh", "KhQs"))
	assert.Equal(t, 0, res.Winner)
}

func TestResolveDeclaredWins(t *testing.T) {
	// a declaration wins even over a lower cached score
	state := stateOf(1, "2s", "KsQd")
	res := Resolve(state)

	assert.Equal(t, 1, res.Winner)
	assert.True(t, res.Results[1].WentOut)
	assert.True(t, res.Results[1].IsWinner)
	assert.Equal(t, 0, res.Results[1].UnmatchedPoints)
	assert.False(t, res.Results[0].WentOut)
	assert.Equal(t, 2, res.Results[0].UnmatchedPoints)
}

func TestResolveExactlyOneWinner(t *testing.T) {
	hands := []string{"As", "2s", "3s", "4s", "Ah"}
	res := Resolve(stateOf(-1, hands...))

	winners := 0
	for _, r := range res.Results {
		if r.IsWinner {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 0, res.Winner)
}

func TestResolveNoParticipants(t *testing.T) {
	res := Resolve(RoundState{Declared: -1})
	assert.Equal(t, -1, res.Winner)
	assert.Empty(t, res.Results)
}
