package holdem

// ActionType identifies a betting action.
type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
	ActionAllIn ActionType = "all_in"
)

// Action is a player's chosen move. Amount is required for bet and
// raise, where it means the player's total commitment on this street.
// Fold, check, call and all_in ignore Amount: the engine computes the
// chips itself.
type Action struct {
	Type   ActionType `json:"type"`
	Amount int        `json:"amount,omitempty"`
}

// ValidAction is one legal move for the active player. MinAmount and
// MaxAmount bound Amount for sizeable actions; for call and all_in they
// both carry the computed chip cost for display.
type ValidAction struct {
	Type      ActionType `json:"type"`
	MinAmount int        `json:"minAmount,omitempty"`
	MaxAmount int        `json:"maxAmount,omitempty"`
}

// ValidActions returns the legal moves for the given player. It
// returns nil unless that player is the one whose turn it is and they
// can still act.
func (g *GameState) ValidActions(playerID string) []ValidAction {
	if !g.Phase.betting() || g.ActivePlayerSeat < 0 {
		return nil
	}
	p := g.Players[g.ActivePlayerSeat]
	if p.ID != playerID || p.Folded || p.AllIn {
		return nil
	}

	actions := []ValidAction{{Type: ActionFold}}
	toCall := g.CurrentBet - p.CurrentBet

	if toCall == 0 {
		actions = append(actions, ValidAction{Type: ActionCheck})
	}

	if toCall > 0 && p.Stack > 0 {
		amount := min(toCall, p.Stack)
		actions = append(actions, ValidAction{Type: ActionCall, MinAmount: amount, MaxAmount: amount})
	}

	if g.CurrentBet == 0 && p.Stack >= g.BigBlind {
		actions = append(actions, ValidAction{Type: ActionBet, MinAmount: g.BigBlind, MaxAmount: p.Stack})
	}

	// A raise is only offered when the player can cover a full
	// min-raise after calling; otherwise all_in stands in for it.
	if g.CurrentBet > 0 && p.Stack > toCall {
		minTo := g.CurrentBet + g.MinRaise
		maxTo := p.CurrentBet + p.Stack
		if maxTo >= minTo {
			actions = append(actions, ValidAction{Type: ActionRaise, MinAmount: minTo, MaxAmount: maxTo})
		}
	}

	if p.Stack > 0 {
		total := p.CurrentBet + p.Stack
		actions = append(actions, ValidAction{Type: ActionAllIn, MinAmount: total, MaxAmount: total})
	}

	return actions
}

// ExecuteAction validates and applies one action. It returns false with
// no mutation when the hand is not in a betting phase, the player is
// out of turn, the action type is not currently legal, or a sized
// amount falls outside its bounds. On success the turn advances, the
// street closes when betting is settled, and pots are recomputed.
func (g *GameState) ExecuteAction(playerID string, action Action) bool {
	valid := g.ValidActions(playerID)
	var match *ValidAction
	for i := range valid {
		if valid[i].Type == action.Type {
			match = &valid[i]
			break
		}
	}
	if match == nil {
		return false
	}

	p := g.Players[g.ActivePlayerSeat]

	switch action.Type {
	case ActionFold:
		p.Folded = true
		p.ActedThisStreet = true

	case ActionCheck:
		p.ActedThisStreet = true

	case ActionCall:
		g.commit(p, min(g.CurrentBet-p.CurrentBet, p.Stack))
		p.ActedThisStreet = true

	case ActionBet, ActionRaise:
		if action.Amount < match.MinAmount || action.Amount > match.MaxAmount {
			return false
		}
		g.commit(p, action.Amount-p.CurrentBet)
		g.reopenBetting(p)

	case ActionAllIn:
		wasBehind := p.CurrentBet+p.Stack <= g.CurrentBet
		g.commit(p, p.Stack)
		if wasBehind {
			// Short all-in call: does not reopen the action.
			p.ActedThisStreet = true
		} else {
			g.reopenBetting(p)
		}

	default:
		return false
	}

	g.rebuildPots()

	if len(g.contenders()) == 1 {
		g.settleFoldWin()
		return true
	}

	next := g.nextActorSeat(g.ActivePlayerSeat + 1)
	if next == -1 || g.streetClosed() {
		g.advanceStreet()
	} else {
		g.ActivePlayerSeat = next
	}
	return true
}

// commit moves chips from the player's stack into their street bet.
func (g *GameState) commit(p *PlayerState, chips int) {
	p.Stack -= chips
	p.CurrentBet += chips
	p.TotalContributed += chips
	if p.Stack == 0 {
		p.AllIn = true
	}
}

// reopenBetting records a bet or raise: the raise size becomes the new
// minimum, and everyone else must act again.
func (g *GameState) reopenBetting(raiser *PlayerState) {
	// A short all-in can raise by less than a big blind; the next
	// min-raise is still floored at one big blind.
	g.MinRaise = max(raiser.CurrentBet-g.CurrentBet, g.BigBlind)
	g.CurrentBet = raiser.CurrentBet
	for _, p := range g.Players {
		p.ActedThisStreet = false
	}
	raiser.ActedThisStreet = true
}

// streetClosed reports whether betting on this street is settled:
// every player who can still act has matched the current bet and has
// acted since the last raise. Posted blinds do not count as actions,
// which is what grants the big blind its preflop option.
func (g *GameState) streetClosed() bool {
	for _, p := range g.Players {
		if p.Folded || p.AllIn {
			continue
		}
		if p.CurrentBet != g.CurrentBet || !p.ActedThisStreet {
			return false
		}
	}
	return true
}

// advanceStreet closes the current street: per-street bets reset, the
// next community cards are dealt, and the first eligible player after
// the dealer becomes active. When nobody can act but two or more
// contenders remain, the remaining streets are dealt out in one step
// straight to showdown.
func (g *GameState) advanceStreet() {
	g.CurrentBet = 0
	g.MinRaise = g.BigBlind
	for _, p := range g.Players {
		p.CurrentBet = 0
		p.ActedThisStreet = false
	}

	switch g.Phase {
	case Preflop:
		g.Phase = Flop
		g.CommunityCards = append(g.CommunityCards, g.Deck.Draw(3)...)
	case Flop:
		g.Phase = Turn
		g.CommunityCards = append(g.CommunityCards, g.Deck.Draw(1)...)
	case Turn:
		g.Phase = River
		g.CommunityCards = append(g.CommunityCards, g.Deck.Draw(1)...)
	case River:
		g.settleShowdown()
		return
	default:
		return
	}

	g.ActivePlayerSeat = g.nextActorSeat(g.DealerSeat + 1)

	// Count the players who could still bet; with fewer than two the
	// remaining board runs out with no further action.
	actors := 0
	for _, p := range g.Players {
		if !p.Folded && !p.AllIn {
			actors++
		}
	}
	if actors < 2 {
		g.ActivePlayerSeat = -1
		g.advanceStreet()
	}
}
