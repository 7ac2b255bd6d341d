package holdem

import "github.com/feltops/holdem/poker"

// PlayerGameView is a per-viewer snapshot of the table. It carries no
// hidden information: the deck, the seed, and other players' hole cards
// are never present. Cards revealed at showdown surface only inside
// ShowdownHands, which every viewer sees.
type PlayerGameView struct {
	ID               string         `json:"id"`
	ViewerID         string         `json:"viewerId"`
	Phase            string         `json:"phase"`
	DealerSeat       int            `json:"dealerSeat"`
	ActivePlayerSeat int            `json:"activePlayerSeat"`
	CurrentBet       int            `json:"currentBet"`
	MinRaise         int            `json:"minRaise"`
	SmallBlind       int            `json:"smallBlind"`
	BigBlind         int            `json:"bigBlind"`
	CommunityCards   []poker.Card   `json:"communityCards"`
	Pots             []Pot          `json:"pots"`
	HandNumber       int            `json:"handNumber"`
	Players          []PlayerView   `json:"players"`
	Winners          []Winner       `json:"winners,omitempty"`
	ShowdownHands    []ShowdownHand `json:"showdownHands,omitempty"`
	HoleCards        []poker.Card   `json:"holeCards,omitempty"`
	ValidActions     []ValidAction  `json:"validActions,omitempty"`
}

// PlayerView is the public projection of one seat.
type PlayerView struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Seat             int    `json:"seat"`
	Stack            int    `json:"stack"`
	CurrentBet       int    `json:"currentBet"`
	TotalContributed int    `json:"totalContributed"`
	Folded           bool   `json:"folded"`
	AllIn            bool   `json:"allIn"`
	IsBot            bool   `json:"isBot,omitempty"`
}

// PlayerView builds the redacted snapshot for one viewer. The viewer's
// own hole cards are always included; ValidActions is populated only
// when the viewer is the player who must act.
func (g *GameState) PlayerView(viewerID string) PlayerGameView {
	view := PlayerGameView{
		ID:               g.ID,
		ViewerID:         viewerID,
		Phase:            g.Phase.String(),
		DealerSeat:       g.DealerSeat,
		ActivePlayerSeat: g.ActivePlayerSeat,
		CurrentBet:       g.CurrentBet,
		MinRaise:         g.MinRaise,
		SmallBlind:       g.SmallBlind,
		BigBlind:         g.BigBlind,
		CommunityCards:   append([]poker.Card{}, g.CommunityCards...),
		HandNumber:       g.HandNumber,
		ValidActions:     g.ValidActions(viewerID),
	}

	view.Pots = make([]Pot, len(g.Pots))
	for i, pot := range g.Pots {
		view.Pots[i] = Pot{Amount: pot.Amount, Eligible: append([]string{}, pot.Eligible...)}
	}

	view.Players = make([]PlayerView, len(g.Players))
	for i, p := range g.Players {
		view.Players[i] = PlayerView{
			ID:               p.ID,
			Name:             p.Name,
			Seat:             p.Seat,
			Stack:            p.Stack,
			CurrentBet:       p.CurrentBet,
			TotalContributed: p.TotalContributed,
			Folded:           p.Folded,
			AllIn:            p.AllIn,
			IsBot:            p.IsBot,
		}
		if p.ID == viewerID {
			view.HoleCards = append([]poker.Card{}, p.HoleCards...)
		}
	}

	view.Winners = append([]Winner{}, g.Winners...)
	for _, sh := range g.ShowdownHands {
		view.ShowdownHands = append(view.ShowdownHands, ShowdownHand{
			Seat:     sh.Seat,
			HandName: sh.HandName,
			Cards:    append([]poker.Card{}, sh.Cards...),
		})
	}

	return view
}
