// Package bot provides the built-in table-filling bots. A bot sees
// exactly what a remote player sees: its own redacted PlayerGameView,
// including the valid actions when it is its turn. There is no
// privileged path into the engine.
package bot

import (
	"fmt"
	"math/rand/v2"

	"github.com/feltops/holdem/holdem"
	"github.com/feltops/holdem/internal/randutil"
)

// Strategy decides one action from the bot's view of the table. Act is
// only called when the view carries at least one valid action.
type Strategy interface {
	Name() string
	Act(view holdem.PlayerGameView) holdem.Action
}

// New builds a strategy by name. Seed feeds the randomized strategies;
// deterministic ones ignore it.
func New(strategy string, seed int64) (Strategy, error) {
	switch strategy {
	case "call":
		return CallBot{}, nil
	case "fold":
		return FoldBot{}, nil
	case "rand":
		return &RandBot{rng: randutil.New(seed)}, nil
	case "chart":
		return ChartBot{}, nil
	default:
		return nil, fmt.Errorf("bot: unknown strategy %q", strategy)
	}
}

// Strategies lists the valid strategy names for config validation.
func Strategies() []string {
	return []string{"call", "fold", "rand", "chart"}
}

func findValid(view holdem.PlayerGameView, t holdem.ActionType) *holdem.ValidAction {
	for i := range view.ValidActions {
		if view.ValidActions[i].Type == t {
			return &view.ValidActions[i]
		}
	}
	return nil
}

// CallBot checks when it can, calls when it must.
type CallBot struct{}

func (CallBot) Name() string { return "call" }

func (CallBot) Act(view holdem.PlayerGameView) holdem.Action {
	if findValid(view, holdem.ActionCheck) != nil {
		return holdem.Action{Type: holdem.ActionCheck}
	}
	if findValid(view, holdem.ActionCall) != nil {
		return holdem.Action{Type: holdem.ActionCall}
	}
	return holdem.Action{Type: holdem.ActionFold}
}

// FoldBot surrenders every hand it cannot check down.
type FoldBot struct{}

func (FoldBot) Name() string { return "fold" }

func (FoldBot) Act(view holdem.PlayerGameView) holdem.Action {
	if findValid(view, holdem.ActionCheck) != nil {
		return holdem.Action{Type: holdem.ActionCheck}
	}
	return holdem.Action{Type: holdem.ActionFold}
}

// RandBot picks uniformly among its valid actions, with uniform sizing
// for bets and raises. Useful for fuzzing the engine under real play.
type RandBot struct {
	rng *rand.Rand
}

func NewRandBot(rng *rand.Rand) *RandBot { return &RandBot{rng: rng} }

func (b *RandBot) Name() string { return "rand" }

func (b *RandBot) Act(view holdem.PlayerGameView) holdem.Action {
	choice := view.ValidActions[b.rng.IntN(len(view.ValidActions))]
	action := holdem.Action{Type: choice.Type}
	if choice.Type == holdem.ActionBet || choice.Type == holdem.ActionRaise {
		action.Amount = choice.MinAmount + b.rng.IntN(choice.MaxAmount-choice.MinAmount+1)
	}
	return action
}
