package poker

import "sort"

// Category enumerates hand categories ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns the display name for a hand category.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandRank encodes the strength of a 5-card hand. Higher values are
// stronger. The category occupies the top bits and up to five 4-bit
// tiebreak ranks follow in comparison order, so two ranks compare
// exactly as the hands they describe.
type HandRank uint32

// Category returns the hand category a rank belongs to.
func (hr HandRank) Category() Category {
	return Category(hr >> 20)
}

// String returns the display name of the rank's category.
func (hr HandRank) String() string {
	return hr.Category().String()
}

// CompareHands returns 1 if a beats b, -1 if b beats a, 0 on a tie.
func CompareHands(a, b HandRank) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

func packRank(cat Category, tiebreaks ...Rank) HandRank {
	hr := HandRank(cat) << 20
	shift := 16
	for _, t := range tiebreaks {
		hr |= HandRank(t) << shift
		shift -= 4
	}
	return hr
}

// Evaluate5 ranks exactly five cards.
func Evaluate5(cards []Card) HandRank {
	if len(cards) != 5 {
		return 0
	}

	ranks := make([]Rank, 5)
	for i, c := range cards {
		ranks[i] = c.Rank
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })

	flush := true
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	straightHigh := straightHighCard(ranks)

	switch {
	case flush && straightHigh != 0:
		return packRank(StraightFlush, straightHigh)
	case flush:
		return packRank(Flush, ranks...)
	case straightHigh != 0:
		return packRank(Straight, straightHigh)
	}

	// Group ranks by multiplicity, then order groups by count and rank
	// so quads/trips/pairs surface ahead of their kickers.
	counts := map[Rank]int{}
	for _, r := range ranks {
		counts[r]++
	}
	groups := make([]Rank, 0, len(counts))
	for r := range counts {
		groups = append(groups, r)
	}
	sort.Slice(groups, func(i, j int) bool {
		if counts[groups[i]] != counts[groups[j]] {
			return counts[groups[i]] > counts[groups[j]]
		}
		return groups[i] > groups[j]
	})

	ordered := make([]Rank, 0, 5)
	for _, g := range groups {
		for n := 0; n < counts[g]; n++ {
			ordered = append(ordered, g)
		}
	}

	switch {
	case counts[groups[0]] == 4:
		return packRank(FourOfAKind, groups[0], groups[1])
	case counts[groups[0]] == 3 && counts[groups[1]] == 2:
		return packRank(FullHouse, groups[0], groups[1])
	case counts[groups[0]] == 3:
		return packRank(ThreeOfAKind, groups[0], groups[1], groups[2])
	case counts[groups[0]] == 2 && counts[groups[1]] == 2:
		return packRank(TwoPair, groups[0], groups[1], groups[2])
	case counts[groups[0]] == 2:
		return packRank(Pair, groups[0], groups[1], groups[2], groups[3])
	default:
		return packRank(HighCard, ordered...)
	}
}

// straightHighCard returns the high card of a straight formed by the
// given descending ranks, or 0 when they do not form one. The wheel
// (A-2-3-4-5) counts as a five-high straight.
func straightHighCard(desc []Rank) Rank {
	distinct := true
	for i := 1; i < len(desc); i++ {
		if desc[i] == desc[i-1] {
			distinct = false
			break
		}
	}
	if !distinct {
		return 0
	}

	if desc[0]-desc[4] == 4 {
		return desc[0]
	}

	// Wheel: ace plays low below the five.
	if desc[0] == Ace && desc[1] == Five && desc[1]-desc[4] == 3 {
		return Five
	}

	return 0
}

// EvaluateBest ranks the best 5-card hand from five, six or seven cards
// by scanning every 5-card combination (21 for the full 2+5 case).
func EvaluateBest(cards []Card) HandRank {
	n := len(cards)
	if n < 5 {
		return 0
	}
	if n == 5 {
		return Evaluate5(cards)
	}

	var best HandRank
	combo := make([]Card, 5)
	idx := make([]int, 5)
	for i := range idx {
		idx[i] = i
	}
	for {
		for i, j := range idx {
			combo[i] = cards[j]
		}
		if hr := Evaluate5(combo); hr > best {
			best = hr
		}

		// Advance to the next 5-combination in lexicographic order.
		i := 4
		for i >= 0 && idx[i] == n-5+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < 5; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return best
}
