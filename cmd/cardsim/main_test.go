package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/lox/cardsim/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "error", true)
	assert.Equal(t, log.ErrorLevel, logger.GetLevel())

	logger.Error("boom", "round", 3)
	assert.Contains(t, buf.String(), `"msg":"boom"`)
	assert.Contains(t, buf.String(), `"round":3`)

	assert.Equal(t, log.DebugLevel, newLogger(io.Discard, "DEBUG", false).GetLevel())
	assert.Equal(t, log.InfoLevel, newLogger(io.Discard, "nonsense", false).GetLevel())
}

func TestParseCommands(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"--no-color", "simulate", "--rounds", "50", "--seed", "7", "--duration", "2s", "--rotate-seats"})
	require.NoError(t, err)
	assert.Equal(t, "simulate", ctx.Command())
	assert.Equal(t, 50, cli.Simulate.Rounds)
	assert.Equal(t, int64(7), cli.Simulate.Seed)
	assert.Equal(t, 2*time.Second, cli.Simulate.Duration)
	assert.True(t, cli.Simulate.RotateSeats)
	assert.True(t, cli.NoColor)

	ctx, err = parser.Parse([]string{"play", "--strategies", "random,low-point,run-focus"})
	require.NoError(t, err)
	assert.Equal(t, "play", ctx.Command())
	assert.Equal(t, []string{"random", "low-point", "run-focus"}, cli.Play.Strategies)

	ctx, err = parser.Parse([]string{"analyze", "3s3h3d9c"})
	require.NoError(t, err)
	assert.Equal(t, "analyze <cards>", ctx.Command())
	assert.Equal(t, "3s3h3d9c", cli.Analyze.Cards)
}

func TestSimulatorConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardsim.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
simulation {
  rounds  = 10
  seed    = 5
  workers = 2
}
rules {
  hand_size = 5
  max_turns = 4
}
player "alice" { strategy = "set-focus" }
player "bob"   { strategy = "random" }
`), 0o644))

	cmd := &SimulateCmd{Config: path, Rounds: 20, Workers: 3}
	cfg, err := cmd.simulatorConfig(log.New(io.Discard))
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Rounds)
	assert.Equal(t, int64(5), cfg.Seed)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 5, cfg.Rules.HandSize)
	assert.Equal(t, 4, cfg.Rules.MaxTurns)
	require.Len(t, cfg.Players, 2)
	assert.Equal(t, "alice", cfg.Players[0].Name)
	assert.Equal(t, "random", cfg.Players[1].Strategy)
}

func TestSimulatorConfigPicksSeed(t *testing.T) {
	cmd := &SimulateCmd{Config: filepath.Join(t.TempDir(), "missing.hcl"), Rounds: 5}
	cfg, err := cmd.simulatorConfig(log.New(io.Discard))
	require.NoError(t, err)
	assert.NotZero(t, cfg.Seed)
	assert.Equal(t, 5, cfg.Rounds)
}

func TestSimulatorConfigRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardsim.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`player "solo" { strategy = "set-focus" }`), 0o644))

	cmd := &SimulateCmd{Config: path}
	_, err := cmd.simulatorConfig(log.New(io.Discard))
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestPlayWritesHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "round.toml")
	cmd := &PlayCmd{Seed: 11, Strategies: []string{"balanced", "low-point"}, HandSize: 7, MaxTurns: 10, History: path}
	require.NoError(t, cmd.Run(log.New(io.Discard)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	hlog, err := history.Decode(f)
	require.NoError(t, err)
	require.Len(t, hlog.Rounds, 1)
	assert.Equal(t, 1, hlog.Rounds[0].Round)
	assert.NotEmpty(t, hlog.Rounds[0].Run)
	assert.Len(t, hlog.Rounds[0].Players, 2)

	require.NoError(t, (&HistoryCmd{File: path}).Run())
	assert.Error(t, (&HistoryCmd{File: path, Round: 9}).Run())
}

func TestAnalyzeRejectsBadHand(t *testing.T) {
	assert.Error(t, (&AnalyzeCmd{Cards: "Zz"}).Run())
	assert.Error(t, (&AnalyzeCmd{Cards: ""}).Run())
	assert.NoError(t, (&AnalyzeCmd{Cards: "3s3h3d9c"}).Run())
}
