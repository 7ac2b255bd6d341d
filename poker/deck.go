package poker

import (
	rand "math/rand/v2"
)

// Deck is a shuffled 52-card sequence that deals without replacement.
// The remaining cards are exported so a Deck can ride along inside a
// serialized game state and resume dealing after a reload.
type Deck struct {
	Cards []Card `json:"cards"`
}

// NewDeck creates a freshly shuffled deck using the provided RNG.
// The RNG is required so that shuffles are reproducible from a seed.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{Cards: make([]Card, 0, 52)}
	for suit := Suit(0); suit < 4; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.Cards = append(d.Cards, NewCard(rank, suit))
		}
	}
	d.shuffle(rng)
	return d
}

// shuffle performs a Fisher-Yates shuffle over the remaining cards.
func (d *Deck) shuffle(rng *rand.Rand) {
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Draw removes and returns the top n cards. It returns nil if fewer
// than n cards remain.
func (d *Deck) Draw(n int) []Card {
	if n > len(d.Cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.Cards[:n])
	d.Cards = d.Cards[n:]
	return cards
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.Cards)
}
