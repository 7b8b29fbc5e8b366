package simulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/cardsim/internal/deck"
	"github.com/lox/cardsim/internal/history"
	"github.com/lox/cardsim/internal/randutil"
	"github.com/lox/cardsim/internal/rummy"
	"github.com/lox/cardsim/internal/statistics"
	"github.com/lox/cardsim/internal/strategy"
	"golang.org/x/sync/errgroup"
)

const defaultBatchSize = 256

// PlayerSpec seats a named player with a registered strategy.
type PlayerSpec struct {
	Name     string
	Strategy string
}

// Config holds configuration for running simulations
type Config struct {
	// Rounds is the number of rounds to play. It is ignored when Duration is
	// set.
	Rounds   int
	Duration time.Duration
	Seed     int64
	Workers  int
	// BatchSize is the number of rounds handed to the workers at a time.
	// Time-based runs check the clock between batches.
	BatchSize int
	// RotateSeats moves every player one seat along each round so that no
	// strategy keeps the first seat, which wins ties.
	RotateSeats bool

	Players []PlayerSpec
	Rules   rummy.Rules

	Logger *log.Logger
	Clock  quartz.Clock

	// OnRound is called once per round, in round order, from the goroutine
	// that called Run.
	OnRound func(rummy.RoundResult)
	// History receives a transcript of every round when set.
	History *history.Writer
}

// Report is the outcome of a simulation run.
type Report struct {
	RunID    string
	Seed     int64
	Rounds   int
	Players  []PlayerSpec
	Rules    rummy.Rules
	Started  time.Time
	Finished time.Time
	Stats    *statistics.Statistics
}

// Elapsed returns the wall time of the run.
func (r *Report) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Played is a single simulated round.
type Played struct {
	Round  *rummy.Round
	Result rummy.RoundResult
	Seed   int64
}

// Simulator runs batches of rummy rounds
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	if config.Logger == nil {
		return nil, errors.New("simulator: logger is required")
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.BatchSize < 1 {
		config.BatchSize = defaultBatchSize
	}
	if config.Duration < 0 {
		return nil, fmt.Errorf("simulator: negative duration %s", config.Duration)
	}
	if config.Duration == 0 && config.Rounds < 1 {
		return nil, fmt.Errorf("simulator: rounds must be positive, got %d", config.Rounds)
	}
	for _, p := range config.Players {
		if !strategy.Exists(p.Strategy) {
			return nil, fmt.Errorf("simulator: player %s: %w: %q", p.Name, strategy.ErrUnknownStrategy, p.Strategy)
		}
	}
	if err := config.Rules.Validate(len(config.Players), deck.StandardSize); err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}

	return &Simulator{
		config: config,
		logger: config.Logger.WithPrefix("simulator"),
	}, nil
}

// Run plays rounds until the round count or the time budget is used up.
// When a round fails or ctx is cancelled the report covers every round that
// completed before it, and the error is returned alongside.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	clock := s.config.Clock
	report := &Report{
		RunID:   uuid.NewString(),
		Seed:    s.config.Seed,
		Players: s.config.Players,
		Rules:   s.config.Rules,
		Started: clock.Now(),
		Stats:   statistics.New(),
	}

	s.logger.Info("Starting simulation",
		"run", report.RunID,
		"seed", s.config.Seed,
		"rounds", s.config.Rounds,
		"duration", s.config.Duration,
		"workers", s.config.Workers,
		"players", len(s.config.Players))

	next := 1
	var err error
	for s.more(next, report.Started) {
		size := s.config.BatchSize
		if s.config.Duration == 0 {
			size = min(size, s.config.Rounds-next+1)
		}

		var batch []Played
		batch, err = s.playBatch(ctx, next, size)
		if err == nil {
			err = s.collect(report, batch)
		}
		if err != nil {
			break
		}
		next += size
	}

	report.Finished = clock.Now()
	report.Rounds = report.Stats.Rounds

	if err != nil {
		s.logger.Warn("Simulation stopped early", "run", report.RunID, "rounds", report.Rounds, "error", err)
		return report, err
	}
	if verr := report.Stats.Validate(); verr != nil {
		return report, fmt.Errorf("statistics validation failed: %w", verr)
	}

	s.logger.Info("Simulation finished", "run", report.RunID, "rounds", report.Rounds, "elapsed", report.Elapsed())
	return report, nil
}

func (s *Simulator) more(next int, started time.Time) bool {
	if s.config.Duration > 0 {
		return s.config.Clock.Since(started) < s.config.Duration
	}
	return next <= s.config.Rounds
}

// playBatch plays rounds first..first+size-1 across the worker pool. Results
// are returned in round order regardless of which worker finished first.
func (s *Simulator) playBatch(ctx context.Context, first, size int) ([]Played, error) {
	results := make([]Played, size)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range size {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			played, err := s.PlayRound(first + i)
			if err != nil {
				return err
			}
			results[i] = played
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Simulator) collect(report *Report, batch []Played) error {
	for _, played := range batch {
		report.Stats.Add(played.Result)
		if s.config.History != nil {
			t := history.FromRound(played.Round, played.Result, played.Seed, s.config.Rules)
			t.Run = report.RunID
			if err := s.config.History.Write(t); err != nil {
				return err
			}
		}
		if s.config.OnRound != nil {
			s.config.OnRound(played.Result)
		}
	}
	return nil
}

// PlayRound plays round number n (starting at 1). The round is fully
// determined by the configured seed and n.
func (s *Simulator) PlayRound(n int) (Played, error) {
	seed := randutil.Derive(s.config.Seed, n)
	rng := randutil.New(seed)
	logger := s.config.Logger.WithPrefix("rummy")

	table := rummy.NewTable(deck.NewDeck(rng))

	participants := make([]*rummy.Participant, len(s.config.Players))
	for i, spec := range s.seatOrder(n) {
		strat, err := strategy.New(spec.Strategy, rng, logger)
		if err != nil {
			return Played{}, err
		}
		p, err := rummy.NewParticipant(spec.Name, strat)
		if err != nil {
			return Played{}, err
		}
		participants[i] = p
	}

	round, err := rummy.NewRound(table, participants, s.config.Rules, logger)
	if err != nil {
		return Played{}, fmt.Errorf("round %d: %w", n, err)
	}
	if _, err := round.Play(); err != nil {
		return Played{}, fmt.Errorf("round %d (seed %d): %w", n, seed, err)
	}

	return Played{Round: round, Result: round.RoundResult(n), Seed: seed}, nil
}

func (s *Simulator) seatOrder(n int) []PlayerSpec {
	players := s.config.Players
	if !s.config.RotateSeats || len(players) == 0 {
		return players
	}
	shift := (n - 1) % len(players)
	out := make([]PlayerSpec, 0, len(players))
	out = append(out, players[shift:]...)
	return append(out, players[:shift]...)
}
