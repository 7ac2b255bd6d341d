package simulator

import (
	"context"
	"testing"
)

func TestSimulatorRunsRequestedHands(t *testing.T) {
	t.Parallel()

	sim := New(Config{Hands: 60, Players: 4, Workers: 3, Seed: 11, Strategy: "rand"})
	result, err := sim.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Hands != 60 {
		t.Errorf("played %d hands, want 60", result.Hands)
	}
	if result.Showdowns+result.FoldWins != result.Hands {
		t.Errorf("outcome counts %d+%d do not sum to %d",
			result.Showdowns, result.FoldWins, result.Hands)
	}
}

func TestSimulatorStrategies(t *testing.T) {
	t.Parallel()

	for _, strategy := range []string{"call", "fold", "chart"} {
		strategy := strategy
		t.Run(strategy, func(t *testing.T) {
			t.Parallel()
			sim := New(Config{Hands: 20, Players: 3, Workers: 1, Seed: 5, Strategy: strategy})
			result, err := sim.Run(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if result.Hands != 20 {
				t.Errorf("played %d hands, want 20", result.Hands)
			}
		})
	}
}

func TestSimulatorUnknownStrategy(t *testing.T) {
	t.Parallel()

	sim := New(Config{Hands: 1, Players: 2, Strategy: "wizard"})
	if _, err := sim.Run(context.Background()); err == nil {
		t.Error("expected an error for an unknown strategy")
	}
}

func TestSimulatorCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sim := New(Config{Hands: 1000000, Players: 6, Workers: 2, Seed: 1, Strategy: "rand"})
	if _, err := sim.Run(ctx); err == nil {
		t.Error("a cancelled context should abort the run")
	}
}
