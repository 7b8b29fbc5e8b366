package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/cardsim/internal/config"
	"github.com/lox/cardsim/internal/display"
	"github.com/lox/cardsim/internal/fileutil"
	"github.com/lox/cardsim/internal/history"
	"github.com/lox/cardsim/internal/rummy"
	"github.com/lox/cardsim/internal/simulator"
	"github.com/lox/cardsim/internal/tui"
)

// SimulateCmd runs a batch simulation.
type SimulateCmd struct {
	Config      string        `short:"c" default:"cardsim.hcl" help:"Path to HCL configuration file"`
	Rounds      int           `short:"n" help:"Number of rounds to play (overrides config)"`
	Seed        int64         `short:"s" help:"RNG seed, 0 for random (overrides config)"`
	Workers     int           `short:"w" help:"Parallel workers (overrides config)"`
	Duration    time.Duration `short:"d" help:"Play for this long instead of a fixed round count"`
	RotateSeats bool          `help:"Move every player one seat along each round"`
	TUI         bool          `name:"tui" help:"Show a live progress view"`
	History     string        `help:"Write a TOML transcript of every round to this file"`
}

func (cmd *SimulateCmd) simulatorConfig(logger *log.Logger) (simulator.Config, error) {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return simulator.Config{}, err
	}

	if cmd.Rounds > 0 {
		cfg.Simulation.Rounds = cmd.Rounds
	}
	if cmd.Seed != 0 {
		cfg.Simulation.Seed = cmd.Seed
	}
	if cmd.Workers > 0 {
		cfg.Simulation.Workers = cmd.Workers
	}
	if cmd.Duration > 0 {
		cfg.Simulation.Duration = cmd.Duration.String()
	}
	if cmd.RotateSeats {
		cfg.Simulation.RotateSeats = true
	}
	if err := cfg.Validate(); err != nil {
		return simulator.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	duration, err := cfg.Duration()
	if err != nil {
		return simulator.Config{}, err
	}
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	players := make([]simulator.PlayerSpec, len(cfg.Players))
	for i, p := range cfg.Players {
		players[i] = simulator.PlayerSpec{Name: p.Name, Strategy: p.Strategy}
	}

	return simulator.Config{
		Rounds:      cfg.Simulation.Rounds,
		Duration:    duration,
		Seed:        seed,
		Workers:     cfg.Simulation.Workers,
		RotateSeats: cfg.Simulation.RotateSeats,
		Players:     players,
		Rules:       cfg.RoundRules(),
		Logger:      logger,
	}, nil
}

func (cmd *SimulateCmd) Run(logger *log.Logger) error {
	simConfig, err := cmd.simulatorConfig(logger)
	if err != nil {
		return err
	}

	var historyFile *fileutil.AtomicFile
	if cmd.History != "" {
		historyFile, err = fileutil.CreateAtomic(cmd.History, 0o644)
		if err != nil {
			return fmt.Errorf("failed to create history file: %w", err)
		}
		defer historyFile.Abort()
		simConfig.History = history.NewWriter(historyFile, "")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var report *simulator.Report
	if cmd.TUI {
		report, err = runWithProgress(ctx, simConfig)
	} else {
		report, err = runPlain(ctx, simConfig)
	}
	if report != nil && report.Rounds > 0 {
		display.Summary(os.Stdout, report)
		if historyFile != nil {
			if cerr := historyFile.Commit(); cerr != nil {
				return cerr
			}
			logger.Info("Wrote history", "file", cmd.History, "rounds", simConfig.History.Rounds())
		}
	}
	if errors.Is(err, context.Canceled) && report != nil {
		logger.Warn("Simulation interrupted", "rounds", report.Rounds)
		return nil
	}
	return err
}

func runPlain(ctx context.Context, simConfig simulator.Config) (*simulator.Report, error) {
	sim, err := simulator.New(simConfig)
	if err != nil {
		return nil, err
	}
	return sim.Run(ctx)
}

func runWithProgress(ctx context.Context, simConfig simulator.Config) (*simulator.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	total := simConfig.Rounds
	if simConfig.Duration > 0 {
		total = 0
	}
	model := tui.NewProgressModel(total, cancel)
	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(os.Stderr))

	simConfig.OnRound = func(r rummy.RoundResult) {
		program.Send(tui.RoundMsg{Result: r})
	}
	sim, err := simulator.New(simConfig)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	var report *simulator.Report
	var runErr error
	go func() {
		defer close(done)
		report, runErr = sim.Run(ctx)
		program.Send(tui.DoneMsg{Report: report, Err: runErr})
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		cancel()
		<-done
		return report, fmt.Errorf("progress view: %w", err)
	}
	<-done
	return report, runErr
}
