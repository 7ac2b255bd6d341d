package bot

import (
	"github.com/feltops/holdem/holdem"
	"github.com/feltops/holdem/poker"
)

// ChartBot plays a fixed preflop chart: it raises premium hands, calls
// with playable ones and folds the rest, then check-calls after the
// flop. Crude, but it folds often enough to exercise fold-win and
// dead-money paths that CallBot never reaches.
type ChartBot struct{}

func (ChartBot) Name() string { return "chart" }

func (ChartBot) Act(view holdem.PlayerGameView) holdem.Action {
	if view.Phase == "preflop" && len(view.HoleCards) == 2 {
		return preflopAction(view)
	}
	// Postflop: passive check-call.
	if findValid(view, holdem.ActionCheck) != nil {
		return holdem.Action{Type: holdem.ActionCheck}
	}
	if findValid(view, holdem.ActionCall) != nil {
		return holdem.Action{Type: holdem.ActionCall}
	}
	return holdem.Action{Type: holdem.ActionFold}
}

func preflopAction(view holdem.PlayerGameView) holdem.Action {
	category := poker.CategorizeHoleCards(view.HoleCards[0], view.HoleCards[1])

	switch category {
	case poker.CategoryPremium:
		// Open or 3-bet for three big blinds over the current price.
		if raise := findValid(view, holdem.ActionRaise); raise != nil {
			amount := min(view.CurrentBet+3*view.BigBlind, raise.MaxAmount)
			if amount < raise.MinAmount {
				amount = raise.MinAmount
			}
			return holdem.Action{Type: holdem.ActionRaise, Amount: amount}
		}
		if bet := findValid(view, holdem.ActionBet); bet != nil {
			return holdem.Action{Type: holdem.ActionBet, Amount: min(3*view.BigBlind, bet.MaxAmount)}
		}
		if findValid(view, holdem.ActionCall) != nil {
			return holdem.Action{Type: holdem.ActionCall}
		}
		if findValid(view, holdem.ActionAllIn) != nil {
			return holdem.Action{Type: holdem.ActionAllIn}
		}

	case poker.CategoryStrong, poker.CategoryMedium, poker.CategoryWeak:
		if findValid(view, holdem.ActionCheck) != nil {
			return holdem.Action{Type: holdem.ActionCheck}
		}
		// Call a single raise but not more.
		if call := findValid(view, holdem.ActionCall); call != nil && call.MinAmount <= 3*view.BigBlind {
			return holdem.Action{Type: holdem.ActionCall}
		}
	}

	if findValid(view, holdem.ActionCheck) != nil {
		return holdem.Action{Type: holdem.ActionCheck}
	}
	return holdem.Action{Type: holdem.ActionFold}
}
