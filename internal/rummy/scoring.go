package rummy

// ParticipantResult is the scored outcome for one seat.
type ParticipantResult struct {
	Seat              int
	WentOut           bool
	IsWinner          bool
	UnmatchedPoints   int
	CombinationsCount int
}

// Resolution is the outcome of a round. Winner is a seat index, or -1 when
// there were no participants.
type Resolution struct {
	Winner  int
	Results []ParticipantResult
}

// Resolve picks the winner from the final analyses. A declared participant
// always wins. Otherwise the lowest unmatched points win; ties go to the
// most melds and then to the earliest seat.
func Resolve(state RoundState) Resolution {
	res := Resolution{
		Winner:  -1,
		Results: make([]ParticipantResult, len(state.Analyses)),
	}

	if state.HasDeclared() {
		res.Winner = state.Declared
	} else {
		res.Winner = lowestScore(state.Analyses)
	}

	for seat, a := range state.Analyses {
		r := ParticipantResult{
			Seat:              seat,
			WentOut:           seat == state.Declared,
			IsWinner:          seat == res.Winner,
			UnmatchedPoints:   a.UnmatchedPoints(),
			CombinationsCount: a.CombinationsCount(),
		}
		if r.WentOut {
			r.UnmatchedPoints = 0
		}
		res.Results[seat] = r
	}
	return res
}

func lowestScore(analyses []HandAnalysis) int {
	best := -1
	for seat, a := range analyses {
		if best < 0 {
			best = seat
			continue
		}
		points, bestPoints := a.UnmatchedPoints(), analyses[best].UnmatchedPoints()
		switch {
		case points < bestPoints:
			best = seat
		case points == bestPoints && a.CombinationsCount() > analyses[best].CombinationsCount():
			best = seat
		}
	}
	return best
}
