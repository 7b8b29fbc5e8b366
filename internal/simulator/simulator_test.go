package simulator

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/cardsim/internal/history"
	"github.com/lox/cardsim/internal/rummy"
	"github.com/lox/cardsim/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayers() []PlayerSpec {
	return []PlayerSpec{
		{Name: "alice", Strategy: "set-focus"},
		{Name: "bob", Strategy: "balanced"},
		{Name: "carol", Strategy: "random"},
	}
}

func testConfig() Config {
	return Config{
		Rounds:  40,
		Seed:    12345,
		Workers: 4,
		Players: testPlayers(),
		Rules:   rummy.DefaultRules(),
		Logger:  log.New(io.Discard),
	}
}

func TestNew(t *testing.T) {
	sim, err := New(testConfig())
	require.NoError(t, err)
	assert.Equal(t, defaultBatchSize, sim.config.BatchSize)
	assert.NotNil(t, sim.config.Clock)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no logger", func(c *Config) { c.Logger = nil }},
		{"no rounds", func(c *Config) { c.Rounds = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -time.Second }},
		{"unknown strategy", func(c *Config) { c.Players[0].Strategy = "shark" }},
		{"no players", func(c *Config) { c.Players = nil }},
		{"too many cards", func(c *Config) { c.Rules.HandSize = 20 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestRunFixedRounds(t *testing.T) {
	cfg := testConfig()
	var seen []int
	cfg.OnRound = func(r rummy.RoundResult) {
		seen = append(seen, r.RoundNumber)
		assert.Len(t, r.Outcomes, 3)
	}
	cfg.BatchSize = 7

	sim, err := New(cfg)
	require.NoError(t, err)

	report, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 40, report.Rounds)
	assert.Equal(t, 40, report.Stats.Rounds)
	require.NoError(t, report.Stats.Validate())
	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err)

	require.Len(t, seen, 40)
	for i, n := range seen {
		assert.Equal(t, i+1, n, "rounds are reported in order")
	}

	games := 0
	for _, st := range report.Stats.Strategies() {
		games += st.Games
	}
	assert.Equal(t, 120, games)
}

func TestRunIsDeterministicAcrossWorkers(t *testing.T) {
	run := func(workers, batch int) ([]rummy.RoundResult, *Report) {
		cfg := testConfig()
		cfg.Workers = workers
		cfg.BatchSize = batch
		var results []rummy.RoundResult
		cfg.OnRound = func(r rummy.RoundResult) { results = append(results, r) }

		sim, err := New(cfg)
		require.NoError(t, err)
		report, err := sim.Run(context.Background())
		require.NoError(t, err)
		return results, report
	}

	serial, serialReport := run(1, 1)
	parallel, parallelReport := run(8, 16)

	assert.Equal(t, serial, parallel)
	for _, st := range serialReport.Stats.Strategies() {
		other := parallelReport.Stats.Strategy(st.Name)
		require.NotNil(t, other)
		assert.Equal(t, st, other)
	}
}

func TestPlayRoundIsDeterministic(t *testing.T) {
	sim, err := New(testConfig())
	require.NoError(t, err)

	a, err := sim.PlayRound(17)
	require.NoError(t, err)
	b, err := sim.PlayRound(17)
	require.NoError(t, err)

	assert.Equal(t, a.Seed, b.Seed)
	assert.Equal(t, a.Result, b.Result)
	assert.Equal(t, a.Round.Turns(), b.Round.Turns())
}

func TestRotateSeats(t *testing.T) {
	cfg := testConfig()
	cfg.RotateSeats = true
	var firstSeat []string
	cfg.OnRound = func(r rummy.RoundResult) { firstSeat = append(firstSeat, r.Outcomes[0].ParticipantName) }
	cfg.Rounds = 6

	sim, err := New(cfg)
	require.NoError(t, err)
	_, err = sim.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob", "carol", "alice", "bob", "carol"}, firstSeat)
}

func TestSeatOrderWithoutRotation(t *testing.T) {
	sim, err := New(testConfig())
	require.NoError(t, err)
	assert.Equal(t, testPlayers(), sim.seatOrder(2))
}

func TestRunForDuration(t *testing.T) {
	ctx := context.Background()
	mClock := quartz.NewMock(t)

	cfg := testConfig()
	cfg.Rounds = 0
	cfg.Duration = 10 * time.Second
	cfg.BatchSize = 5
	cfg.Clock = mClock
	cfg.OnRound = func(rummy.RoundResult) {
		mClock.Advance(time.Second).MustWait(ctx)
	}

	sim, err := New(cfg)
	require.NoError(t, err)
	report, err := sim.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 10, report.Rounds, "the clock is checked between batches")
	assert.Equal(t, 10*time.Second, report.Elapsed())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig()
	cfg.BatchSize = 5
	cfg.OnRound = func(r rummy.RoundResult) {
		if r.RoundNumber == 3 {
			cancel()
		}
	}

	sim, err := New(cfg)
	require.NoError(t, err)
	report, err := sim.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, 5, report.Rounds, "the batch in flight is kept")
}

func TestRunWritesHistory(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.Rounds = 3
	cfg.History = history.NewWriter(&buf, "")

	sim, err := New(cfg)
	require.NoError(t, err)
	report, err := sim.Run(context.Background())
	require.NoError(t, err)

	decoded, err := history.Decode(&buf)
	require.NoError(t, err)
	require.Len(t, decoded.Rounds, 3)
	for i, tr := range decoded.Rounds {
		assert.Equal(t, i+1, tr.Round)
		assert.Equal(t, report.RunID, tr.Run)
		assert.Len(t, tr.Players, 3)
	}
}

func TestEveryStrategyCanBeSimulated(t *testing.T) {
	cfg := testConfig()
	cfg.Players = nil
	for _, name := range strategy.Names() {
		cfg.Players = append(cfg.Players, PlayerSpec{Name: name, Strategy: name})
	}
	cfg.Rounds = 25

	sim, err := New(cfg)
	require.NoError(t, err)
	report, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Stats.Strategies(), len(strategy.Names()))
}
