package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lox/cardsim/internal/display"
	"github.com/lox/cardsim/internal/fileutil"
	"github.com/lox/cardsim/internal/history"
	"github.com/lox/cardsim/internal/rummy"
	"github.com/lox/cardsim/internal/simulator"
)

// PlayCmd plays one round and prints every turn.
type PlayCmd struct {
	Seed       int64    `short:"s" help:"RNG seed, 0 for random"`
	Strategies []string `default:"set-focus,balanced" sep:"," help:"Strategies to seat, in seat order"`
	HandSize   int      `default:"7" help:"Cards dealt to each player"`
	MaxTurns   int      `default:"10" help:"Passes around the table before the round ends"`
	History    string   `help:"Write the round's TOML transcript to this file"`
}

func (cmd *PlayCmd) Run(logger *log.Logger) error {
	seed := cmd.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	players := make([]simulator.PlayerSpec, len(cmd.Strategies))
	for i, name := range cmd.Strategies {
		players[i] = simulator.PlayerSpec{Name: fmt.Sprintf("%s-%d", name, i+1), Strategy: name}
	}
	rules := rummy.Rules{HandSize: cmd.HandSize, MaxTurns: cmd.MaxTurns}

	sim, err := simulator.New(simulator.Config{
		Rounds:  1,
		Seed:    seed,
		Players: players,
		Rules:   rules,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	played, err := sim.PlayRound(1)
	if err != nil {
		return err
	}

	display.Round(os.Stdout, played.Round, played.Result)
	fmt.Fprintln(os.Stdout, display.InfoStyle.Render(fmt.Sprintf("Replay with --seed %d", seed)))

	if cmd.History == "" {
		return nil
	}
	t := history.FromRound(played.Round, played.Result, played.Seed, rules)
	t.Run = uuid.NewString()
	var buf bytes.Buffer
	if err := history.Encode(&buf, t); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(cmd.History, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	logger.Info("Wrote history", "file", cmd.History, "run", t.Run)
	return nil
}
