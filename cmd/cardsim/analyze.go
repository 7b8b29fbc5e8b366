package main

import (
	"fmt"
	"os"

	"github.com/lox/cardsim/internal/deck"
	"github.com/lox/cardsim/internal/display"
	"github.com/lox/cardsim/internal/rummy"
)

// AnalyzeCmd groups a hand into melds.
type AnalyzeCmd struct {
	Cards string `arg:"" help:"Cards to analyse, e.g. 3s3h3d9c"`
}

func (cmd *AnalyzeCmd) Run() error {
	hand, err := deck.ParseCards(cmd.Cards)
	if err != nil {
		return fmt.Errorf("invalid hand: %w", err)
	}
	if len(hand) == 0 {
		return fmt.Errorf("no cards given")
	}
	display.Analysis(os.Stdout, hand, rummy.Analyze(hand))
	return nil
}
