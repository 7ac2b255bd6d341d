package holdem

import (
	"sort"

	"github.com/feltops/holdem/poker"
)

// settleShowdown evaluates every remaining hand, resolves each pot in
// creation order, splits ties evenly and credits winnings to stacks.
// An indivisible remainder chip goes to the first winning player seated
// clockwise from the dealer.
func (g *GameState) settleShowdown() {
	g.Phase = Showdown
	g.ActivePlayerSeat = -1

	ranks := make(map[string]poker.HandRank)
	for _, p := range g.Players {
		if p.Folded {
			continue
		}
		hr := poker.EvaluateBest(append(append([]poker.Card{}, p.HoleCards...), g.CommunityCards...))
		ranks[p.ID] = hr
		g.ShowdownHands = append(g.ShowdownHands, ShowdownHand{
			Seat:     p.Seat,
			HandName: hr.String(),
			Cards:    append([]poker.Card{}, p.HoleCards...),
		})
	}

	winnings := map[int]int{}
	names := map[int]string{}

	for _, pot := range g.Pots {
		var best poker.HandRank
		var winners []*PlayerState
		for _, id := range pot.Eligible {
			p := g.playerByID(id)
			if p == nil || p.Folded {
				continue
			}
			switch poker.CompareHands(ranks[id], best) {
			case 1:
				best = ranks[id]
				winners = []*PlayerState{p}
			case 0:
				winners = append(winners, p)
			}
		}
		if len(winners) == 0 {
			continue
		}

		// Clockwise from the dealer so the odd chip lands on a fixed,
		// documented seat.
		sort.Slice(winners, func(i, j int) bool {
			return g.clockwiseFromDealer(winners[i].Seat) < g.clockwiseFromDealer(winners[j].Seat)
		})

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for i, w := range winners {
			amount := share
			if i == 0 {
				amount += remainder
			}
			w.Stack += amount
			winnings[w.Seat] += amount
			names[w.Seat] = ranks[w.ID].String()
		}
	}

	g.recordWinners(winnings, names)
}

// settleFoldWin ends the hand when folds leave a single contender. No
// cards are revealed: ShowdownHands stays empty and the survivor simply
// collects every pot.
func (g *GameState) settleFoldWin() {
	g.Phase = Showdown
	g.ActivePlayerSeat = -1

	survivor := g.contenders()[0]
	total := g.potTotal()
	survivor.Stack += total

	g.Winners = []Winner{{Seat: survivor.Seat, Amount: total}}
}

// clockwiseFromDealer orders a seat by its distance clockwise from the
// seat after the dealer.
func (g *GameState) clockwiseFromDealer(seat int) int {
	n := len(g.Players)
	return ((seat - g.DealerSeat - 1) % n + n) % n
}

// recordWinners flattens per-seat winnings into the Winners list,
// ordered by seat.
func (g *GameState) recordWinners(winnings map[int]int, names map[int]string) {
	seats := make([]int, 0, len(winnings))
	for seat := range winnings {
		seats = append(seats, seat)
	}
	sort.Ints(seats)
	for _, seat := range seats {
		g.Winners = append(g.Winners, Winner{
			Seat:     seat,
			Amount:   winnings[seat],
			HandName: names[seat],
		})
	}
}
