package rummy

import (
	"fmt"
	"sort"

	"github.com/lox/cardsim/internal/deck"
)

const (
	minMeldSize = 3
	maxSetSize  = 4
)

// Set is 3 or 4 cards sharing one rank.
type Set struct {
	Cards []deck.Card
}

// Rank returns the rank shared by the set's cards.
func (s Set) Rank() deck.Rank {
	if len(s.Cards) == 0 {
		return 0
	}
	return s.Cards[0].Rank
}

// IsValid reports whether the set holds 3-4 cards of a single rank.
func (s Set) IsValid() bool {
	if len(s.Cards) < minMeldSize || len(s.Cards) > maxSetSize {
		return false
	}
	for _, c := range s.Cards {
		if c.Rank != s.Rank() {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	return fmt.Sprintf("set of %ss: %s", s.Rank(), deck.FormatCards(s.Cards))
}

// Run is three or more cards of one suit with consecutive sequence values.
// Cards are stored in ascending sequence order.
type Run struct {
	Cards []deck.Card
}

// Suit returns the suit shared by the run's cards.
func (r Run) Suit() deck.Suit {
	if len(r.Cards) == 0 {
		return 0
	}
	return r.Cards[0].Suit
}

// IsValid reports whether the run has at least three cards of one suit whose
// sorted sequence values have no gaps.
func (r Run) IsValid() bool {
	if len(r.Cards) < minMeldSize {
		return false
	}
	values := make([]int, len(r.Cards))
	for i, c := range r.Cards {
		if c.Suit != r.Suit() {
			return false
		}
		values[i] = c.SequenceValue()
	}
	sort.Ints(values)
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			return false
		}
	}
	return true
}

func (r Run) String() string {
	return fmt.Sprintf("run of %s: %s", r.Suit(), deck.FormatCards(r.Cards))
}

// HandAnalysis partitions a hand into sets, runs and unmatched cards. Every
// card of the analysed hand appears in exactly one of the three groups.
type HandAnalysis struct {
	Sets      []Set
	Runs      []Run
	Unmatched []deck.Card
}

// UnmatchedPoints is the sum of point values of the unmatched cards.
func (a HandAnalysis) UnmatchedPoints() int {
	total := 0
	for _, c := range a.Unmatched {
		total += c.PointValue()
	}
	return total
}

// CombinationsCount is the number of melds (sets plus runs).
func (a HandAnalysis) CombinationsCount() int {
	return len(a.Sets) + len(a.Runs)
}

// CanGoOut reports whether the whole hand is melded: no unmatched cards and
// at least one set or run.
func (a HandAnalysis) CanGoOut() bool {
	return len(a.Unmatched) == 0 && a.CombinationsCount() > 0
}

// CardCount returns the number of cards covered by the analysis.
func (a HandAnalysis) CardCount() int {
	n := len(a.Unmatched)
	for _, s := range a.Sets {
		n += len(s.Cards)
	}
	for _, r := range a.Runs {
		n += len(r.Cards)
	}
	return n
}

type rankGroup struct {
	rank    deck.Rank
	indices []int
}

// Analyze groups a hand into melds using a fixed greedy order. Sets are
// taken first, largest rank group first (ties in order of first appearance),
// then runs are scanned per suit in ascending sequence order. The result is
// not an optimal meld search: a hand that could be split into different runs
// is split the way the greedy scan finds first.
func Analyze(hand []deck.Card) HandAnalysis {
	var analysis HandAnalysis
	used := make([]bool, len(hand))

	// Sets.
	var groups []rankGroup
	groupOf := make(map[deck.Rank]int)
	for i, c := range hand {
		g, ok := groupOf[c.Rank]
		if !ok {
			g = len(groups)
			groupOf[c.Rank] = g
			groups = append(groups, rankGroup{rank: c.Rank})
		}
		groups[g].indices = append(groups[g].indices, i)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].indices) > len(groups[j].indices)
	})
	for _, g := range groups {
		if len(g.indices) < minMeldSize {
			break
		}
		take := g.indices[:min(len(g.indices), maxSetSize)]
		set := Set{Cards: make([]deck.Card, 0, len(take))}
		for _, i := range take {
			used[i] = true
			set.Cards = append(set.Cards, hand[i])
		}
		analysis.Sets = append(analysis.Sets, set)
	}

	// Runs.
	var suitOrder []deck.Suit
	bySuit := make(map[deck.Suit][]int)
	for i, c := range hand {
		if used[i] {
			continue
		}
		if _, ok := bySuit[c.Suit]; !ok {
			suitOrder = append(suitOrder, c.Suit)
		}
		bySuit[c.Suit] = append(bySuit[c.Suit], i)
	}
	for _, suit := range suitOrder {
		indices := bySuit[suit]
		sort.SliceStable(indices, func(i, j int) bool {
			return hand[indices[i]].SequenceValue() < hand[indices[j]].SequenceValue()
		})

		for i := 0; i < len(indices); i++ {
			span := []int{indices[i]}
			current := hand[indices[i]].SequenceValue()

			j := i + 1
			for ; j < len(indices); j++ {
				next := hand[indices[j]].SequenceValue()
				if next == current+1 {
					span = append(span, indices[j])
					current = next
				} else if next > current+1 {
					break
				}
			}

			if len(span) < minMeldSize {
				continue
			}
			run := Run{Cards: make([]deck.Card, 0, len(span))}
			for _, idx := range span {
				used[idx] = true
				run.Cards = append(run.Cards, hand[idx])
			}
			analysis.Runs = append(analysis.Runs, run)
			i = j - 1
		}
	}

	for i, c := range hand {
		if !used[i] {
			analysis.Unmatched = append(analysis.Unmatched, c)
		}
	}

	return analysis
}
