package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists the four suits in deck construction order.
var Suits = [...]Suit{Spades, Hearts, Diamonds, Clubs}

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Letter returns the ASCII suit letter used by ParseCard.
func (s Suit) Letter() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return string(rune('0' + int(r)))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Card represents a playing card. Cards are compared by value.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Code returns the two character ASCII form of the card (e.g., "As"), the
// inverse of ParseCard.
func (c Card) Code() string {
	return c.Rank.String() + c.Suit.Letter()
}

// Codes returns the ASCII form of each card.
func Codes(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Code()
	}
	return out
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// IsFaceCard returns true if the card is a face card (J, Q, K)
func (c Card) IsFaceCard() bool {
	return c.Rank >= Jack && c.Rank <= King
}

// SequenceValue is the value used to detect runs: Ace is low (1), Jack 11,
// Queen 12, King 13, numeric cards their face value.
func (c Card) SequenceValue() int {
	if c.Rank == Ace {
		return 1
	}
	return int(c.Rank)
}

// PointValue is the scoring value of the card: Ace 1, face cards 10,
// numeric cards their face value.
func (c Card) PointValue() int {
	switch {
	case c.Rank == Ace:
		return 1
	case c.IsFaceCard():
		return 10
	default:
		return int(c.Rank)
	}
}

// FormatCards joins cards with a single space.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// ParseCards parses a compact card string such as "AsKdTc9h". Each card is
// a rank character (2-9, T, J, Q, K, A) followed by a suit character
// (s, h, d, c). Parsing is case insensitive; spaces and commas are ignored.
func ParseCards(s string) ([]Card, error) {
	s = strings.NewReplacer(" ", "", ",", "").Replace(s)
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("card string %q has odd length", s)
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// ParseCard parses a single two character card such as "Qh".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}

	var rank Rank
	switch r := strings.ToUpper(s[:1]); r {
	case "T":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		if r[0] < '2' || r[0] > '9' {
			return Card{}, fmt.Errorf("invalid rank %q in card %q", r, s)
		}
		rank = Rank(r[0] - '0')
	}

	var suit Suit
	switch strings.ToLower(s[1:]) {
	case "s":
		suit = Spades
	case "h":
		suit = Hearts
	case "d":
		suit = Diamonds
	case "c":
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit %q in card %q", s[1:], s)
	}

	return NewCard(suit, rank), nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
