package statistics

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/lox/cardsim/internal/rummy"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// StrategyStats tracks the results of every participant that played a
// strategy. Two seats with the same strategy share one tally.
type StrategyStats struct {
	Name string

	Games   int
	Wins    int
	Losses  int
	Pushes  int
	WentOut int

	// DeclaredWins counts wins by going out; the rest were won on points.
	DeclaredWins int

	SumCombinations int
	// Unmatched holds the unmatched points of every game, in round order.
	Unmatched []float64
}

// WinRate returns the fraction of games won.
func (s *StrategyStats) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

// WentOutRate returns the fraction of games in which the strategy declared.
func (s *StrategyStats) WentOutRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.WentOut) / float64(s.Games)
}

// WinRateInterval95 returns the 95% confidence interval of the win rate using
// the normal approximation, clamped to [0, 1].
func (s *StrategyStats) WinRateInterval95() (float64, float64) {
	if s.Games == 0 {
		return 0, 0
	}
	p := s.WinRate()
	z := distuv.UnitNormal.Quantile(0.975)
	margin := z * math.Sqrt(p*(1-p)/float64(s.Games))
	return math.Max(0, p-margin), math.Min(1, p+margin)
}

// MeanUnmatchedPoints returns the average unmatched points per game.
func (s *StrategyStats) MeanUnmatchedPoints() float64 {
	if len(s.Unmatched) == 0 {
		return 0
	}
	return stat.Mean(s.Unmatched, nil)
}

// StdDevUnmatchedPoints returns the sample standard deviation of the
// unmatched points.
func (s *StrategyStats) StdDevUnmatchedPoints() float64 {
	if len(s.Unmatched) < 2 {
		return 0
	}
	_, std := stat.MeanStdDev(s.Unmatched, nil)
	return std
}

// UnmatchedPercentile returns the unmatched points at percentile p (0.0 to 1.0).
func (s *StrategyStats) UnmatchedPercentile(p float64) float64 {
	if len(s.Unmatched) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Unmatched)
	slices.Sort(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// MeanCombinations returns the average number of melds held at the end of a
// game.
func (s *StrategyStats) MeanCombinations() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.SumCombinations) / float64(s.Games)
}

// Statistics aggregates round results across a simulation.
type Statistics struct {
	Rounds     int
	TotalTurns int

	// Termination counts, one per round.
	Declared      int
	MaxTurns      int
	DeckExhausted int

	// SeatWins counts wins by seat index.
	SeatWins []int

	strategies map[string]*StrategyStats
}

// New returns empty statistics.
func New() *Statistics {
	return &Statistics{strategies: make(map[string]*StrategyStats)}
}

// Add incorporates one round.
func (s *Statistics) Add(r rummy.RoundResult) {
	if s.strategies == nil {
		s.strategies = make(map[string]*StrategyStats)
	}

	s.Rounds++
	s.TotalTurns += r.Turns

	switch r.Termination {
	case rummy.PhaseDeclared:
		s.Declared++
	case rummy.PhaseMaxTurnsReached:
		s.MaxTurns++
	case rummy.PhaseDeckExhausted:
		s.DeckExhausted++
	}

	for seat, o := range r.Outcomes {
		st := s.strategies[o.StrategyName]
		if st == nil {
			st = &StrategyStats{Name: o.StrategyName}
			s.strategies[o.StrategyName] = st
		}

		st.Games++
		st.SumCombinations += o.CombinationsCount
		st.Unmatched = append(st.Unmatched, float64(o.UnmatchedPoints))
		if o.WentOut {
			st.WentOut++
		}

		switch o.Result {
		case rummy.Win:
			st.Wins++
			if o.WentOut {
				st.DeclaredWins++
			}
			for len(s.SeatWins) <= seat {
				s.SeatWins = append(s.SeatWins, 0)
			}
			s.SeatWins[seat]++
		case rummy.Loss:
			st.Losses++
		case rummy.Push:
			st.Pushes++
		}
	}
}

// Strategy returns the tally for a strategy name, or nil if it never played.
func (s *Statistics) Strategy(name string) *StrategyStats {
	return s.strategies[name]
}

// Strategies returns every tally ordered by win rate, best first. Equal win
// rates are ordered by name.
func (s *Statistics) Strategies() []*StrategyStats {
	out := make([]*StrategyStats, 0, len(s.strategies))
	for _, st := range s.strategies {
		out = append(out, st)
	}
	slices.SortFunc(out, func(a, b *StrategyStats) int {
		if c := cmp.Compare(b.WinRate(), a.WinRate()); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// MeanTurns returns the average number of passes per round.
func (s *Statistics) MeanTurns() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.TotalTurns) / float64(s.Rounds)
}

// Validate checks that the tallies are consistent with each other.
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if terminated := s.Declared + s.MaxTurns + s.DeckExhausted; terminated != s.Rounds {
		return fmt.Errorf("termination total (%d) does not match rounds (%d)", terminated, s.Rounds)
	}

	totalWins := 0
	for _, st := range s.strategies {
		if sum := st.Wins + st.Losses + st.Pushes; sum != st.Games {
			return fmt.Errorf("%s: wins+losses+pushes (%d) does not match games (%d)", st.Name, sum, st.Games)
		}
		if len(st.Unmatched) != st.Games {
			return fmt.Errorf("%s: unmatched values (%d) do not match games (%d)", st.Name, len(st.Unmatched), st.Games)
		}
		if st.DeclaredWins > st.Wins {
			return fmt.Errorf("%s: declared wins (%d) exceed wins (%d)", st.Name, st.DeclaredWins, st.Wins)
		}
		totalWins += st.Wins
	}
	if totalWins > s.Rounds {
		return fmt.Errorf("total wins (%d) exceeds rounds (%d)", totalWins, s.Rounds)
	}
	if s.Declared > totalWins {
		return fmt.Errorf("declared rounds (%d) exceed wins (%d)", s.Declared, totalWins)
	}

	seatWins := 0
	for _, n := range s.SeatWins {
		seatWins += n
	}
	if seatWins != totalWins {
		return fmt.Errorf("seat wins total (%d) does not match total wins (%d)", seatWins, totalWins)
	}

	return nil
}
