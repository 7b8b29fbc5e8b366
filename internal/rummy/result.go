package rummy

// Result is a participant's outcome as seen by the simulation harness.
type Result int

const (
	Win Result = iota
	Loss
	Push
)

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Push:
		return "push"
	default:
		return "unknown"
	}
}

// Outcome is one participant's line in a RoundResult.
type Outcome struct {
	ParticipantName   string
	StrategyName      string
	Result            Result
	UnmatchedPoints   int
	WentOut           bool
	CombinationsCount int
}

// RoundResult is the record handed to the simulation harness after a round.
type RoundResult struct {
	RoundNumber int
	Termination Phase
	Turns       int
	Outcomes    []Outcome
}

// Winner returns the winning outcome, if any.
func (r RoundResult) Winner() (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Result == Win {
			return o, true
		}
	}
	return Outcome{}, false
}

// RoundResult builds the harness record for this round. Every seat gets an
// outcome; seats that never took a turn are scored from their analysis at
// the deal. Calling it before Play resolves the current state.
func (r *Round) RoundResult(roundNumber int) RoundResult {
	res := r.resolution
	if r.phase != PhaseResolved {
		res = Resolve(r.state)
	}

	out := RoundResult{
		RoundNumber: roundNumber,
		Termination: r.termination,
		Turns:       r.state.TurnNumber,
		Outcomes:    make([]Outcome, len(r.seats)),
	}
	for seat, p := range r.seats {
		pr := res.Results[seat]
		result := Loss
		switch {
		case pr.IsWinner:
			result = Win
		case res.Winner < 0:
			result = Push
		}
		out.Outcomes[seat] = Outcome{
			ParticipantName:   p.Name,
			StrategyName:      p.Strategy.Name,
			Result:            result,
			UnmatchedPoints:   pr.UnmatchedPoints,
			WentOut:           pr.WentOut,
			CombinationsCount: pr.CombinationsCount,
		}
	}
	return out
}
