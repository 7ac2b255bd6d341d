package holdem

import (
	"reflect"
	"testing"
)

func TestSidePotsThreeWayAllIn(t *testing.T) {
	t.Parallel()

	// Stacks 50/150/1000 all-in preflop: exactly two pots, the 50-stack
	// excluded from the second.
	g := newTestGame(t, 50, 150, 1000)
	g.StartHand()
	// Dealer Alice(50), SB Bob(150), BB Charlie(1000).
	if !g.ExecuteAction("Alice", Action{Type: ActionAllIn}) {
		t.Fatal("Alice all_in rejected")
	}
	if !g.ExecuteAction("Bob", Action{Type: ActionAllIn}) {
		t.Fatal("Bob all_in rejected")
	}
	if !g.ExecuteAction("Charlie", Action{Type: ActionCall}) {
		t.Fatal("Charlie call rejected")
	}

	// The live thresholds are 50 and 150; Charlie only matched 150.
	if len(g.Pots) != 2 {
		t.Fatalf("expected 2 pots, got %d: %+v", len(g.Pots), g.Pots)
	}
	if g.Pots[0].Amount != 150 {
		t.Errorf("main pot should hold 3x50=150, got %d", g.Pots[0].Amount)
	}
	if g.Pots[1].Amount != 200 {
		t.Errorf("side pot should hold 2x100=200, got %d", g.Pots[1].Amount)
	}
	if got := g.Pots[0].Eligible; !reflect.DeepEqual(got, []string{"Alice", "Bob", "Charlie"}) {
		t.Errorf("main pot eligible = %v", got)
	}
	if got := g.Pots[1].Eligible; !reflect.DeepEqual(got, []string{"Bob", "Charlie"}) {
		t.Errorf("side pot must exclude the 50-stack, got %v", got)
	}
	if g.potTotal() != 350 {
		t.Errorf("pots sum to %d, want 350", g.potTotal())
	}
}

func TestPotsCarryDeadMoneyFromFolds(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 1000, 1000, 1000, 1000)
	g.StartHand()
	// Dana (UTG) raises and folds to a re-raise; her 40 stays in the pot
	// but she is eligible for nothing.
	g.ExecuteAction("Dana", Action{Type: ActionRaise, Amount: 40})
	g.ExecuteAction("Alice", Action{Type: ActionRaise, Amount: 120})
	g.ExecuteAction("Bob", Action{Type: ActionFold})
	g.ExecuteAction("Charlie", Action{Type: ActionCall})
	g.ExecuteAction("Dana", Action{Type: ActionFold})

	if len(g.Pots) != 1 {
		t.Fatalf("expected a single pot, got %+v", g.Pots)
	}
	// 120 + 120 live, plus Dana's 40 and Bob's small blind 5 dead.
	if g.Pots[0].Amount != 285 {
		t.Errorf("pot should hold 285, got %d", g.Pots[0].Amount)
	}
	if got := g.Pots[0].Eligible; !reflect.DeepEqual(got, []string{"Alice", "Charlie"}) {
		t.Errorf("folded players must not be eligible, got %v", got)
	}
}

func TestPotsAccumulateAcrossStreets(t *testing.T) {
	t.Parallel()

	// Alice is all-in preflop for 50; Bob and Charlie keep betting on
	// the flop, and Bob's fold at 300 total leaves his chips behind as
	// dead money.
	g := newTestGame(t, 50, 1000, 1000)
	g.StartHand()
	g.ExecuteAction("Alice", Action{Type: ActionAllIn}) // 50
	g.ExecuteAction("Bob", Action{Type: ActionRaise, Amount: 200})
	g.ExecuteAction("Charlie", Action{Type: ActionCall}) // 200
	if g.Phase != Flop {
		t.Fatalf("expected flop, got %s", g.Phase)
	}
	g.ExecuteAction("Bob", Action{Type: ActionBet, Amount: 100})
	g.ExecuteAction("Charlie", Action{Type: ActionRaise, Amount: 300})
	g.ExecuteAction("Bob", Action{Type: ActionFold})

	// Alice (all-in) and Charlie remain; the board runs out.
	if !g.HandComplete() {
		t.Fatalf("expected showdown, phase=%s", g.Phase)
	}

	// Live thresholds 50 (Alice) and 500 (Charlie). The first pot holds
	// 50 from each of the three contributors; everything above 50,
	// including Bob's dead 250, is Charlie-only.
	if len(g.Pots) != 2 {
		t.Fatalf("expected 2 pots, got %+v", g.Pots)
	}
	if g.Pots[0].Amount != 150 || !reflect.DeepEqual(g.Pots[0].Eligible, []string{"Alice", "Charlie"}) {
		t.Errorf("main pot = %+v, want 150 for Alice/Charlie", g.Pots[0])
	}
	if g.Pots[1].Amount != 700 || !reflect.DeepEqual(g.Pots[1].Eligible, []string{"Charlie"}) {
		t.Errorf("side pot = %+v, want 700 for Charlie", g.Pots[1])
	}

	sum := 0
	for _, p := range g.Players {
		sum += p.Stack
	}
	if sum != 2050 {
		t.Errorf("chips leaked: stacks sum to %d, want 2050", sum)
	}
}

func TestPotRebuildMidStreet(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 1000, 1000, 1000)
	g.StartHand()

	// Pots track contributions live, before the street closes.
	if g.potTotal() != 15 {
		t.Errorf("blinds should already be potted, got %d", g.potTotal())
	}
	g.ExecuteAction("Alice", Action{Type: ActionRaise, Amount: 60})
	if g.potTotal() != 75 {
		t.Errorf("pot should track the raise immediately, got %d", g.potTotal())
	}
}

func TestPotsEligibleSetsOnlyShrink(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 100, 300, 1000, 1000)
	g.StartHand()
	g.ExecuteAction("Dana", Action{Type: ActionAllIn})  // 1000
	g.ExecuteAction("Alice", Action{Type: ActionAllIn}) // 100
	g.ExecuteAction("Bob", Action{Type: ActionAllIn})   // 300
	g.ExecuteAction("Charlie", Action{Type: ActionCall})

	if !g.HandComplete() {
		t.Fatalf("four-way all-in should run out, phase=%s", g.Phase)
	}

	// Pots were rebuilt before settlement; re-derive them to check the
	// tier structure.
	g.rebuildPots()
	if len(g.Pots) != 3 {
		t.Fatalf("expected 3 pots, got %+v", g.Pots)
	}
	for i := 1; i < len(g.Pots); i++ {
		prev := map[string]bool{}
		for _, id := range g.Pots[i-1].Eligible {
			prev[id] = true
		}
		if len(g.Pots[i].Eligible) > len(g.Pots[i-1].Eligible) {
			t.Errorf("pot %d eligible set grew", i)
		}
		for _, id := range g.Pots[i].Eligible {
			if !prev[id] {
				t.Errorf("pot %d gained eligibility for %s", i, id)
			}
		}
	}
	if !reflect.DeepEqual(g.Pots[2].Eligible, []string{"Charlie", "Dana"}) {
		t.Errorf("deepest pot should be Charlie and Dana only, got %v", g.Pots[2].Eligible)
	}
}
