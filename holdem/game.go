package holdem

import (
	"fmt"

	"github.com/feltops/holdem/internal/randutil"
	"github.com/feltops/holdem/poker"
)

// PlayerConfig describes one seat at table creation.
type PlayerConfig struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stack int    `json:"stack"`
	IsBot bool   `json:"isBot,omitempty"`
}

// Config describes a new table. A zero Seed draws one from the system
// CSPRNG; a fixed Seed makes every shuffle reproducible.
type Config struct {
	ID         string         `json:"id"`
	SmallBlind int            `json:"smallBlind"`
	BigBlind   int            `json:"bigBlind"`
	Seed       int64          `json:"seed,omitempty"`
	Players    []PlayerConfig `json:"players"`
}

// PlayerState is one player's state within the table. CurrentBet is the
// chips committed on the current street, TotalContributed across the
// whole hand. ActedThisStreet is cleared on every street open and on
// every raise, which is what gives the big blind its preflop option.
type PlayerState struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Seat             int          `json:"seat"`
	Stack            int          `json:"stack"`
	HoleCards        []poker.Card `json:"holeCards,omitempty"`
	CurrentBet       int          `json:"currentBet"`
	TotalContributed int          `json:"totalContributed"`
	Folded           bool         `json:"folded"`
	AllIn            bool         `json:"allIn"`
	ActedThisStreet  bool         `json:"actedThisStreet"`
	IsBot            bool         `json:"isBot,omitempty"`
}

// Winner records one player's share of the settled pots.
type Winner struct {
	Seat     int    `json:"seat"`
	Amount   int    `json:"amount"`
	HandName string `json:"handName,omitempty"`
}

// ShowdownHand is a hand revealed at showdown, visible to all viewers.
type ShowdownHand struct {
	Seat     int          `json:"seat"`
	HandName string       `json:"handName"`
	Cards    []poker.Card `json:"cards"`
}

// GameState is the complete state of one table. It is a plain
// JSON-serializable value: a persistence layer can store and reload it
// between calls, and the engine mutates it in place with no internal
// locking. Callers must serialize access per table (one in-flight
// mutation at a time).
//
// Deck and Seed are part of the persisted state so a hand can resume
// after a reload, but they are never exposed through PlayerView.
type GameState struct {
	ID               string         `json:"id"`
	Phase            Phase          `json:"phase"`
	DealerSeat       int            `json:"dealerSeat"`
	ActivePlayerSeat int            `json:"activePlayerSeat"` // -1 when no player may act
	CurrentBet       int            `json:"currentBet"`
	MinRaise         int            `json:"minRaise"`
	SmallBlind       int            `json:"smallBlind"`
	BigBlind         int            `json:"bigBlind"`
	CommunityCards   []poker.Card   `json:"communityCards"`
	Pots             []Pot          `json:"pots"`
	HandNumber       int            `json:"handNumber"`
	Players          []*PlayerState `json:"players"`
	Winners          []Winner       `json:"winners,omitempty"`
	ShowdownHands    []ShowdownHand `json:"showdownHands,omitempty"`
	Seed             int64          `json:"seed"`
	Deck             *poker.Deck    `json:"deck,omitempty"`
}

// NewGame creates a table from a config. Malformed setup is the one
// non-recoverable error category: it is rejected here, before any hand
// can start.
func NewGame(cfg Config) (*GameState, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("holdem: table id is required")
	}
	if len(cfg.Players) < 2 {
		return nil, fmt.Errorf("holdem: at least 2 players required, got %d", len(cfg.Players))
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind <= cfg.SmallBlind {
		return nil, fmt.Errorf("holdem: blinds must satisfy 0 < small < big, got %d/%d", cfg.SmallBlind, cfg.BigBlind)
	}

	seen := make(map[string]bool, len(cfg.Players))
	players := make([]*PlayerState, len(cfg.Players))
	for i, pc := range cfg.Players {
		if pc.ID == "" {
			return nil, fmt.Errorf("holdem: player %d has no id", i)
		}
		if seen[pc.ID] {
			return nil, fmt.Errorf("holdem: duplicate player id %q", pc.ID)
		}
		if pc.Stack < 0 {
			return nil, fmt.Errorf("holdem: player %q has negative stack", pc.ID)
		}
		seen[pc.ID] = true
		players[i] = &PlayerState{
			ID:    pc.ID,
			Name:  pc.Name,
			Seat:  i,
			Stack: pc.Stack,
			IsBot: pc.IsBot,
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = randutil.CryptoSeed()
	}

	return &GameState{
		ID:               cfg.ID,
		Phase:            Waiting,
		DealerSeat:       -1, // first StartHand picks the first funded seat
		ActivePlayerSeat: -1,
		SmallBlind:       cfg.SmallBlind,
		BigBlind:         cfg.BigBlind,
		Players:          players,
		Seed:             seed,
	}, nil
}

// CanStartHand reports whether a new hand may begin: no hand in flight
// and at least two players with chips.
func (g *GameState) CanStartHand() bool {
	if g.Phase != Waiting && g.Phase != Showdown {
		return false
	}
	funded := 0
	for _, p := range g.Players {
		if p.Stack > 0 {
			funded++
		}
	}
	return funded >= 2
}

// StartHand resets all per-hand state, advances the button, reshuffles,
// posts blinds and deals hole cards. It returns false (no mutation)
// when CanStartHand is false.
func (g *GameState) StartHand() bool {
	if !g.CanStartHand() {
		return false
	}
	g.startHand(poker.NewDeck(randutil.ForHand(g.Seed, g.HandNumber+1)))
	return true
}

// startHand runs the hand setup against an already-shuffled deck.
// Split out so tests can stack the deck.
func (g *GameState) startHand(deck *poker.Deck) {
	g.HandNumber++
	g.CurrentBet = 0
	g.MinRaise = g.BigBlind
	g.CommunityCards = nil
	g.Pots = nil
	g.Winners = nil
	g.ShowdownHands = nil

	for _, p := range g.Players {
		p.HoleCards = nil
		p.CurrentBet = 0
		p.TotalContributed = 0
		p.AllIn = false
		p.ActedThisStreet = false
		// Busted players sit the hand out; a folded seat never enters
		// any eligible set.
		p.Folded = p.Stack == 0
	}

	g.Deck = deck
	g.DealerSeat = g.nextFundedSeat(g.DealerSeat + 1)

	sbSeat, bbSeat := g.blindSeats()
	g.postBlind(g.Players[sbSeat], g.SmallBlind)
	g.postBlind(g.Players[bbSeat], g.BigBlind)
	g.CurrentBet = g.BigBlind

	for _, p := range g.Players {
		if !p.Folded {
			p.HoleCards = g.Deck.Draw(2)
		}
	}

	g.Phase = Preflop
	g.rebuildPots()

	if g.headsUp() {
		// Heads-up the dealer posts the small blind and acts first.
		g.ActivePlayerSeat = g.nextActorSeat(g.DealerSeat)
	} else {
		g.ActivePlayerSeat = g.nextActorSeat(bbSeat + 1)
	}

	// Blinds can put everyone all-in; run the board out immediately.
	if g.ActivePlayerSeat == -1 {
		g.advanceStreet()
	}
}

// HandComplete reports whether the hand has reached its terminal phase.
func (g *GameState) HandComplete() bool {
	return g.Phase == Showdown
}

// ActivePlayerID returns the id of the player who must act, or "" when
// no action is pending.
func (g *GameState) ActivePlayerID() string {
	if g.ActivePlayerSeat < 0 || g.ActivePlayerSeat >= len(g.Players) {
		return ""
	}
	return g.Players[g.ActivePlayerSeat].ID
}

// SetBlinds updates the stakes for subsequent hands. It has no effect
// mid-hand; a tournament scheduler calls this between hands only.
func (g *GameState) SetBlinds(small, big int) bool {
	if g.Phase.betting() || small <= 0 || big <= small {
		return false
	}
	g.SmallBlind = small
	g.BigBlind = big
	return true
}

// headsUp reports whether exactly two seats were dealt into this hand.
func (g *GameState) headsUp() bool {
	dealt := 0
	for _, p := range g.Players {
		if !p.Folded || p.TotalContributed > 0 {
			dealt++
		}
	}
	return dealt == 2
}

// blindSeats returns the small and big blind seats for this hand.
// Heads-up the dealer posts the small blind.
func (g *GameState) blindSeats() (sb, bb int) {
	if g.headsUp() {
		sb = g.DealerSeat
		bb = g.nextFundedSeat(g.DealerSeat + 1)
		return sb, bb
	}
	sb = g.nextFundedSeat(g.DealerSeat + 1)
	bb = g.nextFundedSeat(sb + 1)
	return sb, bb
}

func (g *GameState) postBlind(p *PlayerState, amount int) {
	paid := min(amount, p.Stack)
	p.Stack -= paid
	p.CurrentBet += paid
	p.TotalContributed += paid
	if p.Stack == 0 {
		p.AllIn = true
	}
}

// nextFundedSeat finds the next seat clockwise from `from` (inclusive)
// whose player entered this hand with chips.
func (g *GameState) nextFundedSeat(from int) int {
	n := len(g.Players)
	for i := 0; i < n; i++ {
		seat := ((from + i) % n + n) % n
		p := g.Players[seat]
		if p.Stack > 0 || p.AllIn || p.TotalContributed > 0 {
			return seat
		}
	}
	return -1
}

// nextActorSeat finds the next seat clockwise from `from` (inclusive)
// whose player may still act: dealt in, not folded, not all-in.
func (g *GameState) nextActorSeat(from int) int {
	n := len(g.Players)
	for i := 0; i < n; i++ {
		seat := ((from + i) % n + n) % n
		p := g.Players[seat]
		if !p.Folded && !p.AllIn {
			return seat
		}
	}
	return -1
}

// contenders returns the players still in the hand (not folded).
func (g *GameState) contenders() []*PlayerState {
	var out []*PlayerState
	for _, p := range g.Players {
		if !p.Folded {
			out = append(out, p)
		}
	}
	return out
}

// playerByID returns the player with the given id, or nil.
func (g *GameState) playerByID(id string) *PlayerState {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}
