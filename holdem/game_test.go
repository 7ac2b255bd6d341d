package holdem

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/feltops/holdem/poker"
)

// newTestGame builds a table with seats p0..pN, blinds 5/10, seed 42.
func newTestGame(t *testing.T, stacks ...int) *GameState {
	t.Helper()
	players := make([]PlayerConfig, len(stacks))
	names := []string{"Alice", "Bob", "Charlie", "Dana", "Eve", "Frank", "Grace", "Henry", "Ivy"}
	for i, stack := range stacks {
		players[i] = PlayerConfig{ID: names[i], Name: names[i], Stack: stack}
	}
	g, err := NewGame(Config{ID: "t1", SmallBlind: 5, BigBlind: 10, Seed: 42, Players: players})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// startRigged starts a hand with a stacked deck. Cards are dealt two at
// a time per seat in seat order, then flop/turn/river off the top.
func startRigged(t *testing.T, g *GameState, cards string) {
	t.Helper()
	parsed, err := poker.ParseCards(cards)
	if err != nil {
		t.Fatal(err)
	}
	if !g.CanStartHand() {
		t.Fatal("cannot start hand")
	}
	g.startHand(&poker.Deck{Cards: parsed})
}

func TestNewGameValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no id", Config{SmallBlind: 5, BigBlind: 10, Players: []PlayerConfig{{ID: "a", Stack: 100}, {ID: "b", Stack: 100}}}},
		{"one player", Config{ID: "t", SmallBlind: 5, BigBlind: 10, Players: []PlayerConfig{{ID: "a", Stack: 100}}}},
		{"zero small blind", Config{ID: "t", SmallBlind: 0, BigBlind: 10, Players: []PlayerConfig{{ID: "a", Stack: 100}, {ID: "b", Stack: 100}}}},
		{"big not above small", Config{ID: "t", SmallBlind: 10, BigBlind: 10, Players: []PlayerConfig{{ID: "a", Stack: 100}, {ID: "b", Stack: 100}}}},
		{"duplicate ids", Config{ID: "t", SmallBlind: 5, BigBlind: 10, Players: []PlayerConfig{{ID: "a", Stack: 100}, {ID: "a", Stack: 100}}}},
		{"negative stack", Config{ID: "t", SmallBlind: 5, BigBlind: 10, Players: []PlayerConfig{{ID: "a", Stack: -1}, {ID: "b", Stack: 100}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewGame(tc.cfg); err == nil {
				t.Error("expected construction error")
			}
		})
	}
}

func TestNewGameDrawsSeedWhenUnset(t *testing.T) {
	t.Parallel()

	cfg := Config{ID: "t", SmallBlind: 5, BigBlind: 10, Players: []PlayerConfig{{ID: "a", Stack: 100}, {ID: "b", Stack: 100}}}
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if g.Seed == 0 {
		t.Error("expected a CSPRNG-drawn seed")
	}
}

// Scenario A from the engine contract: 6-max, 1000 stacks, blinds 5/10.
func TestStartHandSixMax(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 1000, 1000, 1000, 1000, 1000, 1000)
	if !g.StartHand() {
		t.Fatal("StartHand failed")
	}

	if g.Phase != Preflop {
		t.Errorf("phase should be preflop, got %s", g.Phase)
	}
	if g.DealerSeat != 0 {
		t.Errorf("first hand dealer should be seat 0, got %d", g.DealerSeat)
	}

	sb, bb := g.Players[1], g.Players[2]
	if sb.CurrentBet != 5 || sb.Stack != 995 {
		t.Errorf("SB: bet=%d stack=%d, want 5/995", sb.CurrentBet, sb.Stack)
	}
	if bb.CurrentBet != 10 || bb.Stack != 990 {
		t.Errorf("BB: bet=%d stack=%d, want 10/990", bb.CurrentBet, bb.Stack)
	}

	for _, p := range g.Players {
		if len(p.HoleCards) != 2 {
			t.Errorf("player %s has %d hole cards, want 2", p.ID, len(p.HoleCards))
		}
	}

	// UTG (seat 3) acts first at 6-max.
	if g.ActivePlayerSeat != 3 {
		t.Errorf("active seat should be 3, got %d", g.ActivePlayerSeat)
	}
	if g.CurrentBet != 10 || g.MinRaise != 10 {
		t.Errorf("currentBet/minRaise = %d/%d, want 10/10", g.CurrentBet, g.MinRaise)
	}
	if total := g.potTotal(); total != 15 {
		t.Errorf("pot should hold the blinds (15), got %d", total)
	}
	if g.HandNumber != 1 {
		t.Errorf("hand number should be 1, got %d", g.HandNumber)
	}
}

func TestStartHandHeadsUpDealerPostsSmallBlind(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 500, 500)
	if !g.StartHand() {
		t.Fatal("StartHand failed")
	}

	dealer := g.Players[g.DealerSeat]
	other := g.Players[(g.DealerSeat+1)%2]
	if dealer.CurrentBet != 5 {
		t.Errorf("dealer should post SB 5, posted %d", dealer.CurrentBet)
	}
	if other.CurrentBet != 10 {
		t.Errorf("non-dealer should post BB 10, posted %d", other.CurrentBet)
	}
	// Dealer acts first preflop heads-up.
	if g.ActivePlayerSeat != g.DealerSeat {
		t.Errorf("dealer should act first, active=%d dealer=%d", g.ActivePlayerSeat, g.DealerSeat)
	}
}

func TestCanStartHandRequiresTwoFundedPlayers(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 100, 0, 0)
	if g.CanStartHand() {
		t.Error("one funded player should not be enough")
	}
	if g.StartHand() {
		t.Error("StartHand should refuse")
	}
	if g.Phase != Waiting || g.HandNumber != 0 {
		t.Error("refused StartHand must not mutate state")
	}
}

func TestStartHandRefusedMidHand(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 1000, 1000, 1000)
	g.StartHand()
	if g.StartHand() {
		t.Error("StartHand must fail while a hand is in flight")
	}
}

func TestDealerRotatesAndSkipsBustedSeats(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 1000, 1000, 1000)
	g.StartHand()
	if g.DealerSeat != 0 {
		t.Fatalf("first dealer should be 0, got %d", g.DealerSeat)
	}
	finishHandByFolds(t, g)

	// Bust seat 1 before the next hand.
	g.Players[1].Stack = 0
	g.StartHand()
	if g.DealerSeat != 2 {
		t.Errorf("dealer should skip busted seat 1, got %d", g.DealerSeat)
	}
	if !g.Players[1].Folded {
		t.Error("busted seat should sit out")
	}
	if len(g.Players[1].HoleCards) != 0 {
		t.Error("busted seat must not be dealt cards")
	}
}

// finishHandByFolds folds every player until the hand completes.
func finishHandByFolds(t *testing.T, g *GameState) {
	t.Helper()
	for !g.HandComplete() {
		id := g.ActivePlayerID()
		if id == "" {
			t.Fatal("no active player but hand incomplete")
		}
		if !g.ExecuteAction(id, Action{Type: ActionFold}) {
			t.Fatalf("fold rejected for %s", id)
		}
	}
}

func TestStartHandResetsTransientState(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 1000, 1000, 1000)
	g.StartHand()
	finishHandByFolds(t, g)

	if len(g.Winners) == 0 {
		t.Fatal("fold-out should produce a winner")
	}

	g.StartHand()
	if g.HandNumber != 2 {
		t.Errorf("hand number should be 2, got %d", g.HandNumber)
	}
	if g.Winners != nil || g.ShowdownHands != nil {
		t.Error("winners/showdown hands should reset")
	}
	if len(g.CommunityCards) != 0 {
		t.Error("community cards should reset")
	}
	for _, p := range g.Players {
		if p.TotalContributed > 10 {
			t.Errorf("per-hand contributions should reset, got %d", p.TotalContributed)
		}
	}
}

func TestDeterminism(t *testing.T) {
	t.Parallel()

	run := func() *GameState {
		g := newTestGame(t, 1000, 1000, 1000)
		g.StartHand()
		// A fixed sequence: UTG raises, SB folds, BB calls, then both
		// check every street.
		g.ExecuteAction("Alice", Action{Type: ActionRaise, Amount: 30})
		g.ExecuteAction("Bob", Action{Type: ActionFold})
		g.ExecuteAction("Charlie", Action{Type: ActionCall})
		for !g.HandComplete() {
			if !g.ExecuteAction(g.ActivePlayerID(), Action{Type: ActionCheck}) {
				t.Fatal("check rejected")
			}
		}
		return g
	}

	a, b := run(), run()
	aj, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	bj, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(aj) != string(bj) {
		t.Error("identical seed and actions must produce identical states")
	}
}

func TestGameStateJSONRoundTrip(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 1000, 400, 1000)
	g.StartHand()
	g.ExecuteAction("Alice", Action{Type: ActionRaise, Amount: 40})
	g.ExecuteAction("Bob", Action{Type: ActionCall})
	g.ExecuteAction("Charlie", Action{Type: ActionCall})

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}

	var loaded GameState
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(g, &loaded) {
		t.Error("GameState did not survive a JSON round trip")
	}

	// The reloaded value must keep playing identically.
	if loaded.ActivePlayerID() != g.ActivePlayerID() {
		t.Error("active player diverged after reload")
	}
}

func TestSetBlinds(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 1000, 1000)
	if !g.SetBlinds(10, 20) {
		t.Fatal("blind update should succeed between hands")
	}

	g.StartHand()
	if g.SetBlinds(25, 50) {
		t.Error("blind update must be refused mid-hand")
	}
	if g.CurrentBet != 20 {
		t.Errorf("big blind 20 should be posted, currentBet=%d", g.CurrentBet)
	}
}

func TestActivePlayerID(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 1000, 1000, 1000)
	if g.ActivePlayerID() != "" {
		t.Error("no active player before a hand starts")
	}
	g.StartHand()
	if g.ActivePlayerID() != "Alice" {
		t.Errorf("UTG Alice should act first, got %s", g.ActivePlayerID())
	}
	finishHandByFolds(t, g)
	if g.ActivePlayerID() != "" {
		t.Error("no active player after the hand completes")
	}
}
