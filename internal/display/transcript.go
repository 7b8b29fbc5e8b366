package display

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/cardsim/internal/history"
)

func codes(list []string) (string, error) {
	cards, err := history.Cards(list)
	if err != nil {
		return "", err
	}
	return FormatCards(cards), nil
}

func code(c string) string {
	out, err := codes([]string{c})
	if err != nil {
		return c
	}
	return out
}

// Transcript writes a recorded round read back from a history file.
func Transcript(w io.Writer, t history.Transcript) error {
	fmt.Fprintln(w, HeaderStyle.Render(fmt.Sprintf("Round %d", t.Round)))
	fmt.Fprintln(w, InfoStyle.Render(fmt.Sprintf("seed %d, hand size %d, max turns %d", t.Seed, t.HandSize, t.MaxTurns)))

	names := make(map[int]string, len(t.Players))
	for _, p := range t.Players {
		names[p.Seat] = p.Name
		dealt, err := codes(p.Dealt)
		if err != nil {
			return fmt.Errorf("player %s: %w", p.Name, err)
		}
		fmt.Fprintf(w, "%-12s %s\n", p.Name, dealt)
	}
	if t.UpCard != "" {
		up, err := codes([]string{t.UpCard})
		if err != nil {
			return fmt.Errorf("up card: %w", err)
		}
		fmt.Fprintf(w, "%-12s %s\n", "up card", up)
	}
	fmt.Fprintln(w)

	for _, turn := range t.Turns {
		name := names[turn.Seat]
		switch {
		case turn.Exhausted:
			fmt.Fprintln(w, WarningStyle.Render(fmt.Sprintf("turn %d: %s could not draw, deck exhausted", turn.Pass, name)))
		case turn.Declared:
			fmt.Fprintln(w, SuccessStyle.Render(fmt.Sprintf("turn %d: %s drew %s from the %s and went out", turn.Pass, name, code(turn.Drawn), turn.Source)))
		default:
			line := fmt.Sprintf("turn %d: %s drew %s from the %s, discarded %s", turn.Pass, name, code(turn.Drawn), turn.Source, code(turn.Discarded))
			if turn.Recycled {
				line += InfoStyle.Render(" (discard pile recycled)")
			}
			if turn.Substituted {
				line += InfoStyle.Render(fmt.Sprintf(" (index %d replaced with 0)", turn.Requested))
			}
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(t.Players))
	for _, p := range t.Players {
		final, err := codes(p.Final)
		if err != nil {
			return fmt.Errorf("player %s: %w", p.Name, err)
		}
		rows = append(rows, []string{p.Name, p.Strategy, final, strconv.Itoa(p.UnmatchedPoints), p.Result})
	}
	tbl := newTable("Player", "Strategy", "Final hand", "Unmatched", "Result").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if row >= 0 && row < len(t.Players) && t.Players[row].Result == "win" {
				return LeaderStyle
			}
			return CellStyle
		})
	fmt.Fprintln(w, tbl.String())
	fmt.Fprintf(w, "Ended by %s after %d passes\n", t.Termination, t.Passes)
	return nil
}
