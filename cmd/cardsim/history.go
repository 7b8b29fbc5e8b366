package main

import (
	"fmt"
	"os"

	"github.com/lox/cardsim/internal/display"
	"github.com/lox/cardsim/internal/history"
)

// HistoryCmd renders rounds from a history file.
type HistoryCmd struct {
	File  string `arg:"" name:"file" help:"Path to a history file written by simulate or play"`
	Round int    `help:"Only render this round number"`
	Limit int    `help:"Maximum number of rounds to render (0 = all)"`
}

func (cmd *HistoryCmd) Run() error {
	f, err := os.Open(cmd.File)
	if err != nil {
		return err
	}
	defer f.Close()

	log, err := history.Decode(f)
	if err != nil {
		return err
	}
	if len(log.Rounds) == 0 {
		return fmt.Errorf("no rounds found in %s", cmd.File)
	}

	rendered := 0
	for _, t := range log.Rounds {
		if cmd.Round > 0 && t.Round != cmd.Round {
			continue
		}
		if cmd.Limit > 0 && rendered >= cmd.Limit {
			break
		}
		if err := display.Transcript(os.Stdout, t); err != nil {
			return fmt.Errorf("rendering round %d: %w", t.Round, err)
		}
		fmt.Fprintln(os.Stdout)
		rendered++
	}
	if rendered == 0 {
		return fmt.Errorf("round %d not found in %s", cmd.Round, cmd.File)
	}
	return nil
}
