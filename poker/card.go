package poker

import (
	"encoding/json"
	"fmt"
)

// Suit represents a card suit.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// String returns the single-letter suit code ("c", "d", "h", "s").
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "c"
	case Diamonds:
		return "d"
	case Hearts:
		return "h"
	case Spades:
		return "s"
	default:
		return "?"
	}
}

// Rank represents a card rank. Aces are high (14); the evaluator treats
// them as low only when completing the A-2-3-4-5 straight.
type Rank uint8

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

var rankChars = map[Rank]byte{
	Two: '2', Three: '3', Four: '4', Five: '5', Six: '6', Seven: '7',
	Eight: '8', Nine: '9', Ten: 'T', Jack: 'J', Queen: 'Q', King: 'K', Ace: 'A',
}

// String returns the single-character rank code (2-9, T, J, Q, K, A).
func (r Rank) String() string {
	if c, ok := rankChars[r]; ok {
		return string(c)
	}
	return "?"
}

// Card is a single playing card.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a card from a rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the two-character card code, e.g. "As" or "Td".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// ParseCard parses a two-character card code such as "As", "Td" or "9h".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}

	var rank Rank
	found := false
	for r, ch := range rankChars {
		if ch == s[0] {
			rank = r
			found = true
			break
		}
	}
	if !found {
		return Card{}, fmt.Errorf("invalid rank in card %q", s)
	}

	var suit Suit
	switch s[1] {
	case 'c':
		suit = Clubs
	case 'd':
		suit = Diamonds
	case 'h':
		suit = Hearts
	case 's':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid suit in card %q", s)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// MustParseCard is ParseCard that panics on error. Intended for tests
// and hard-coded card literals.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCards parses a space-separated list of card codes.
func ParseCards(s string) ([]Card, error) {
	var cards []Card
	start := -1
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ' ' {
			if start >= 0 {
				c, err := ParseCard(s[start:i])
				if err != nil {
					return nil, err
				}
				cards = append(cards, c)
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	return cards, nil
}

// MarshalJSON encodes the card as its two-character code.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a card from its two-character code.
func (c *Card) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	card, err := ParseCard(s)
	if err != nil {
		return err
	}
	*c = card
	return nil
}
