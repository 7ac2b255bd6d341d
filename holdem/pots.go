package holdem

import "sort"

// Pot is a main or side pot. Eligible holds the ids of the non-folded
// players who can win it, in seat order. Folded players' chips still
// count toward Amount (dead money) but never appear in Eligible.
type Pot struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
}

// rebuildPots recomputes the pot partition from scratch. It runs after
// every change to any player's TotalContributed, not only at hand end,
// so views always show the live main/side pot split.
//
// Contribution thresholds come from the non-folded contributors; each
// tier collects, from every player, the slice of their contribution
// that falls inside the tier. Eligibility for a tier requires having
// contributed up to its threshold without folding, so eligible sets
// only ever shrink as thresholds rise.
func (g *GameState) rebuildPots() {
	thresholds := make([]int, 0, len(g.Players))
	seen := map[int]bool{}
	for _, p := range g.Players {
		if !p.Folded && p.TotalContributed > 0 && !seen[p.TotalContributed] {
			seen[p.TotalContributed] = true
			thresholds = append(thresholds, p.TotalContributed)
		}
	}
	sort.Ints(thresholds)

	if len(thresholds) == 0 {
		// Only dead money (everyone who contributed has folded);
		// keep it in a single pot for the eventual survivor.
		total := 0
		for _, p := range g.Players {
			total += p.TotalContributed
		}
		if total > 0 {
			g.Pots = []Pot{{Amount: total, Eligible: g.eligibleIDs(0)}}
		} else {
			g.Pots = nil
		}
		return
	}

	pots := make([]Pot, 0, len(thresholds))
	prev := 0
	for _, threshold := range thresholds {
		amount := 0
		for _, p := range g.Players {
			amount += min(p.TotalContributed, threshold) - min(p.TotalContributed, prev)
		}
		if amount > 0 {
			pots = append(pots, Pot{Amount: amount, Eligible: g.eligibleIDs(threshold)})
		}
		prev = threshold
	}

	// A folded player can have contributed beyond the deepest live
	// stack; that excess is dead money for the last pot.
	excess := 0
	for _, p := range g.Players {
		if p.TotalContributed > prev {
			excess += p.TotalContributed - prev
		}
	}
	if excess > 0 && len(pots) > 0 {
		pots[len(pots)-1].Amount += excess
	}

	g.Pots = pots
}

// eligibleIDs returns the ids of non-folded players who contributed at
// least threshold, in seat order.
func (g *GameState) eligibleIDs(threshold int) []string {
	var ids []string
	for _, p := range g.Players {
		if !p.Folded && p.TotalContributed >= threshold {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// potTotal returns the chips across all pots.
func (g *GameState) potTotal() int {
	total := 0
	for _, pot := range g.Pots {
		total += pot.Amount
	}
	return total
}
