// Package display renders simulation reports and single rounds for the
// terminal.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/cardsim/internal/deck"
	"github.com/lox/cardsim/internal/rummy"
	"github.com/lox/cardsim/internal/simulator"
	"github.com/lox/cardsim/internal/statistics"
	"github.com/muesli/termenv"
)

// ConfigureColor turns styling off when noColor is set. Otherwise the
// terminal's detected profile is used.
func ConfigureColor(noColor bool) {
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// FormatCards renders cards with red suits highlighted.
func FormatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.IsRed() {
			parts[i] = RedCardStyle.Render(c.String())
		} else {
			parts[i] = BlackCardStyle.Render(c.String())
		}
	}
	return strings.Join(parts, " ")
}

func percent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(BorderStyle).
		Headers(headers...)
}

// Summary writes the results of a simulation run.
func Summary(w io.Writer, report *simulator.Report) {
	stats := report.Stats

	fmt.Fprintln(w, HeaderStyle.Render("Simulation "+report.RunID))
	fmt.Fprintf(w, "%d rounds, seed %d, %d players, hand size %d, max turns %d, %s\n\n",
		report.Rounds, report.Seed, len(report.Players), report.Rules.HandSize, report.Rules.MaxTurns,
		report.Elapsed().Round(time.Millisecond))

	fmt.Fprintln(w, StrategyTable(stats))
	fmt.Fprintln(w, TerminationTable(stats))

	if len(stats.SeatWins) > 0 {
		seats := make([]string, len(stats.SeatWins))
		for i, n := range stats.SeatWins {
			seats[i] = fmt.Sprintf("seat %d: %d", i+1, n)
		}
		fmt.Fprintln(w, InfoStyle.Render("Wins by seat: "+strings.Join(seats, ", ")))
	}
	fmt.Fprintln(w, InfoStyle.Render(fmt.Sprintf("Average passes per round: %.2f", stats.MeanTurns())))
}

// StrategyTable renders one row per strategy, best win rate first.
func StrategyTable(stats *statistics.Statistics) string {
	rows := [][]string{}
	for _, st := range stats.Strategies() {
		lo, hi := st.WinRateInterval95()
		rows = append(rows, []string{
			st.Name,
			strconv.Itoa(st.Games),
			strconv.Itoa(st.Wins),
			strconv.Itoa(st.Losses),
			strconv.Itoa(st.Pushes),
			percent(st.WinRate()),
			fmt.Sprintf("%s-%s", percent(lo), percent(hi)),
			percent(st.WentOutRate()),
			strconv.FormatFloat(st.MeanUnmatchedPoints(), 'f', 2, 64),
		})
	}

	t := newTable("Strategy", "Games", "Wins", "Losses", "Pushes", "Win %", "95% CI", "Went out", "Avg unmatched").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case row == 0:
				return LeaderStyle
			default:
				return CellStyle
			}
		})
	return t.String()
}

// TerminationTable renders how rounds ended.
func TerminationTable(stats *statistics.Statistics) string {
	share := func(n int) string {
		if stats.Rounds == 0 {
			return percent(0)
		}
		return percent(float64(n) / float64(stats.Rounds))
	}

	t := newTable("Ended by", "Rounds", "Share").
		Rows(
			[]string{rummy.PhaseDeclared.String(), strconv.Itoa(stats.Declared), share(stats.Declared)},
			[]string{rummy.PhaseMaxTurnsReached.String(), strconv.Itoa(stats.MaxTurns), share(stats.MaxTurns)},
			[]string{rummy.PhaseDeckExhausted.String(), strconv.Itoa(stats.DeckExhausted), share(stats.DeckExhausted)},
		).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return CellStyle
		})
	return t.String()
}

// Round writes a turn-by-turn account of a played round.
func Round(w io.Writer, round *rummy.Round, result rummy.RoundResult) {
	fmt.Fprintln(w, HeaderStyle.Render(fmt.Sprintf("Round %d", result.RoundNumber)))

	dealt := round.Dealt()
	for seat, p := range round.Participants() {
		if seat < len(dealt) {
			fmt.Fprintf(w, "%-12s %s\n", p.Name, FormatCards(dealt[seat]))
		}
	}
	fmt.Fprintf(w, "%-12s %s\n\n", "up card", FormatCards([]deck.Card{round.UpCard()}))

	for _, rec := range round.Turns() {
		line := rec.String()
		switch {
		case rec.Declared:
			line = SuccessStyle.Render(line)
		case rec.Exhausted:
			line = WarningStyle.Render(line)
		case rec.Recycled:
			line += InfoStyle.Render(" (discard pile recycled)")
		}
		if rec.Substituted {
			line += InfoStyle.Render(fmt.Sprintf(" (index %d replaced with 0)", rec.RequestedDiscard))
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	state := round.State()
	rows := [][]string{}
	for seat, p := range round.Participants() {
		o := result.Outcomes[seat]
		rows = append(rows, []string{
			p.Name,
			o.StrategyName,
			melds(state.Analyses[seat]),
			strconv.Itoa(o.UnmatchedPoints),
			o.Result.String(),
		})
	}
	t := newTable("Player", "Strategy", "Melds", "Unmatched", "Result").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if row >= 0 && row < len(result.Outcomes) && result.Outcomes[row].Result == rummy.Win {
				return LeaderStyle
			}
			return CellStyle
		})
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "Ended by %s after %d passes\n", result.Termination, result.Turns)
}

func melds(a rummy.HandAnalysis) string {
	var parts []string
	for _, s := range a.Sets {
		parts = append(parts, s.String())
	}
	for _, r := range a.Runs {
		parts = append(parts, r.String())
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " | ")
}

// Analysis writes how a hand groups into melds.
func Analysis(w io.Writer, hand []deck.Card, a rummy.HandAnalysis) {
	fmt.Fprintf(w, "Hand:      %s\n", FormatCards(hand))
	for _, s := range a.Sets {
		fmt.Fprintf(w, "Set:       %s\n", FormatCards(s.Cards))
	}
	for _, r := range a.Runs {
		fmt.Fprintf(w, "Run:       %s\n", FormatCards(r.Cards))
	}
	if len(a.Unmatched) > 0 {
		fmt.Fprintf(w, "Unmatched: %s\n", FormatCards(a.Unmatched))
	}
	fmt.Fprintf(w, "Points:    %d\n", a.UnmatchedPoints())
	if a.CanGoOut() {
		fmt.Fprintln(w, SuccessStyle.Render("Can go out"))
	} else {
		fmt.Fprintln(w, InfoStyle.Render("Cannot go out"))
	}
}
