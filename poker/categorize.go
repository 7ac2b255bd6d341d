package poker

// HoleCardCategory buckets starting hands by preflop strength. Used by
// the built-in bot drivers; the engine itself never consults it.
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
)

// CategorizeHoleCards provides a simple preflop hand categorization.
// Premium (JJ+, AK), Strong (TT, AQ/AJ), Medium (77-99, suited broadway),
// Weak (small pairs, suited connectors), Trash (everything else).
func CategorizeHoleCards(card1, card2 Card) HoleCardCategory {
	small, big := card1.Rank, card2.Rank
	if small > big {
		small, big = big, small
	}
	suited := card1.Suit == card2.Suit
	isPair := small == big

	if isPair && small >= Jack {
		return CategoryPremium
	}
	if small == King && big == Ace {
		return CategoryPremium
	}

	if isPair && small == Ten {
		return CategoryStrong
	}
	if big == Ace && (small == Queen || small == Jack) {
		return CategoryStrong
	}

	if isPair && small >= Seven && small <= Nine {
		return CategoryMedium
	}
	if suited && small >= Ten {
		return CategoryMedium
	}

	if isPair {
		return CategoryWeak
	}
	if suited && big-small <= 2 {
		return CategoryWeak
	}

	return CategoryTrash
}
