package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/feltops/holdem/holdem"
	"github.com/feltops/holdem/internal/server"
	"github.com/feltops/holdem/poker"
)

// Config carries what the TUI needs to reach a table.
type Config struct {
	ServerURL string
	TableID   string
	Logger    zerolog.Logger
}

// Run connects to the server and blocks inside the TUI until the user
// quits or the connection drops.
func Run(ctx context.Context, cfg Config) error {
	c, err := Dial(ctx, cfg.ServerURL, cfg.Logger)
	if err != nil {
		return err
	}
	defer c.Close()

	program := tea.NewProgram(newModel(c, cfg.TableID), tea.WithAltScreen())

	go func() {
		for msg := range c.Events {
			program.Send(serverMsg{msg})
		}
		program.Send(disconnectedMsg{})
	}()
	go func() {
		select {
		case <-ctx.Done():
			program.Send(disconnectedMsg{})
		case <-c.Done():
		}
	}()

	_, err = program.Run()
	return err
}

type serverMsg struct{ msg *server.Message }

type disconnectedMsg struct{}

// model is the single bubbletea state machine: one table, one seat.
type model struct {
	client  *Client
	tableID string

	playerID string
	view     *holdem.PlayerGameView
	tables   []server.TableInfo

	input    textinput.Model
	entering holdem.ActionType // bet or raise while the amount prompt is open

	status string
	errMsg string
	done   bool
}

func newModel(c *Client, tableID string) model {
	input := textinput.New()
	input.Placeholder = "amount"
	input.CharLimit = 9
	input.Width = 12

	return model{
		client:  c,
		tableID: tableID,
		input:   input,
		status:  "connecting",
	}
}

func (m model) Init() tea.Cmd {
	c, tableID := m.client, m.tableID
	return func() tea.Msg {
		_ = c.ListTables()
		if tableID != "" {
			_ = c.Join(tableID)
		}
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case disconnectedMsg:
		m.done = true
		return m, tea.Quit

	case serverMsg:
		return m.handleServer(msg.msg), nil

	case tea.KeyMsg:
		if m.entering != "" {
			return m.handleAmountKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleServer(msg *server.Message) model {
	switch msg.Type {
	case server.MessageTypeJoined:
		var data server.JoinedData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			m.playerID = data.PlayerID
			m.tableID = data.TableID
			m.status = fmt.Sprintf("seated at %s as %s", data.TableID, data.PlayerID)
			m.errMsg = ""
		}

	case server.MessageTypeView:
		var view holdem.PlayerGameView
		if err := json.Unmarshal(msg.Data, &view); err == nil {
			m.view = &view
			m.errMsg = ""
		}

	case server.MessageTypeTableList:
		var data server.TableListData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			m.tables = data.Tables
		}

	case server.MessageTypeError:
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			m.errMsg = data.Message
		}

	case server.MessageTypeLeft:
		m.playerID = ""
		m.view = nil
		m.status = "left the table"
	}
	return m
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.playerID != "" {
			_ = m.client.Leave(m.tableID)
		}
		m.done = true
		return m, tea.Quit

	case "n":
		_ = m.client.StartHand(m.tableID)

	case "f":
		m.act(holdem.ActionFold, 0)
	case "k":
		m.act(holdem.ActionCheck, 0)
	case "c":
		m.act(holdem.ActionCall, 0)
	case "a":
		if _, ok := m.validAction(holdem.ActionAllIn); ok {
			m.act(holdem.ActionAllIn, 0)
		}

	case "b":
		if _, ok := m.validAction(holdem.ActionBet); ok {
			m.entering = holdem.ActionBet
			m.input.SetValue("")
			return m, m.input.Focus()
		}
	case "r":
		if _, ok := m.validAction(holdem.ActionRaise); ok {
			m.entering = holdem.ActionRaise
			m.input.SetValue("")
			return m, m.input.Focus()
		}
	}
	return m, nil
}

func (m model) handleAmountKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.entering = ""
		m.input.Blur()
		return m, nil
	case "enter":
		amount, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
		if err != nil || amount <= 0 {
			m.errMsg = "enter a whole number of chips"
			return m, nil
		}
		m.act(m.entering, amount)
		m.entering = ""
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// act sends the action only when the server listed it as valid, so a
// stray keypress never turns into a protocol error.
func (m *model) act(actionType holdem.ActionType, amount int) {
	if _, ok := m.validAction(actionType); !ok {
		return
	}
	if err := m.client.Act(m.tableID, actionType, amount); err != nil {
		m.errMsg = err.Error()
	}
}

func (m *model) validAction(actionType holdem.ActionType) (holdem.ValidAction, bool) {
	if m.view == nil {
		return holdem.ValidAction{}, false
	}
	for _, va := range m.view.ValidActions {
		if va.Type == actionType {
			return va, true
		}
	}
	return holdem.ValidAction{}, false
}

func (m model) View() string {
	if m.done {
		return "disconnected\n"
	}

	var b strings.Builder
	if m.view == nil {
		b.WriteString(headerStyle.Render("holdem") + "\n\n")
		b.WriteString(m.status + "\n\n")
		b.WriteString(m.renderTables())
		b.WriteString(hintStyle.Render("n: deal  q: quit") + "\n")
		if m.errMsg != "" {
			b.WriteString(errorStyle.Render("error: "+m.errMsg) + "\n")
		}
		return b.String()
	}

	v := m.view
	b.WriteString(headerStyle.Render(fmt.Sprintf("table %s  hand #%d  %s", v.ID, v.HandNumber, v.Phase)) + "\n\n")

	b.WriteString("board: " + renderCards(v.CommunityCards) + "\n")
	b.WriteString(fmt.Sprintf("pot: %d   blinds: %d/%d\n\n", potTotal(v.Pots), v.SmallBlind, v.BigBlind))

	for _, p := range v.Players {
		b.WriteString(m.renderSeat(v, p) + "\n")
	}
	b.WriteString("\n")

	if len(v.HoleCards) > 0 {
		b.WriteString("your cards: " + renderCards(v.HoleCards) + "\n")
	}

	for _, sh := range v.ShowdownHands {
		b.WriteString(fmt.Sprintf("seat %d shows %s (%s)\n", sh.Seat, renderCards(sh.Cards), sh.HandName))
	}
	for _, w := range v.Winners {
		line := fmt.Sprintf("seat %d wins %d", w.Seat, w.Amount)
		if w.HandName != "" {
			line += " with " + w.HandName
		}
		b.WriteString(winnerStyle.Render(line) + "\n")
	}

	if m.entering != "" {
		b.WriteString(fmt.Sprintf("\n%s amount: %s\n", m.entering, m.input.View()))
		b.WriteString(hintStyle.Render("enter: confirm  esc: cancel") + "\n")
	} else if len(v.ValidActions) > 0 {
		b.WriteString("\n" + actionsStyle.Render("your turn: "+renderActions(v.ValidActions)) + "\n")
	}

	b.WriteString("\n" + hintStyle.Render("f: fold  k: check  c: call  b: bet  r: raise  a: all-in  n: deal  q: quit") + "\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("error: "+m.errMsg) + "\n")
	}
	return b.String()
}

func (m model) renderTables() string {
	if len(m.tables) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("tables:\n")
	for _, info := range m.tables {
		b.WriteString(fmt.Sprintf("  %s  %d/%d blinds  %d players  %s\n",
			info.ID, info.SmallBlind, info.BigBlind, info.Players, info.Phase))
	}
	b.WriteString("\n")
	return b.String()
}

func (m model) renderSeat(v *holdem.PlayerGameView, p holdem.PlayerView) string {
	marker := "  "
	if p.Seat == v.DealerSeat {
		marker = "D "
	}
	line := fmt.Sprintf("%s%-12s stack %5d", marker, p.Name, p.Stack)
	if p.CurrentBet > 0 {
		line += fmt.Sprintf("  bet %d", p.CurrentBet)
	}
	switch {
	case p.Folded:
		return foldedSeatStyle.Render(line + "  folded")
	case p.AllIn:
		return seatStyle.Render(line + "  all-in")
	case p.Seat == v.ActivePlayerSeat:
		return activeSeatStyle.Render(line + "  to act")
	default:
		return seatStyle.Render(line)
	}
}

func renderActions(actions []holdem.ValidAction) string {
	parts := make([]string, 0, len(actions))
	for _, va := range actions {
		switch va.Type {
		case holdem.ActionCall:
			parts = append(parts, fmt.Sprintf("call %d", va.MaxAmount))
		case holdem.ActionBet, holdem.ActionRaise:
			parts = append(parts, fmt.Sprintf("%s %d-%d", va.Type, va.MinAmount, va.MaxAmount))
		case holdem.ActionAllIn:
			parts = append(parts, fmt.Sprintf("all-in %d", va.MaxAmount))
		default:
			parts = append(parts, string(va.Type))
		}
	}
	return strings.Join(parts, "  ")
}

func renderCards(cards []poker.Card) string {
	if len(cards) == 0 {
		return hintStyle.Render("--")
	}
	parts := make([]string, len(cards))
	for i, card := range cards {
		s := card.String()
		if card.Suit == poker.Hearts || card.Suit == poker.Diamonds {
			parts[i] = redCardStyle.Render(s)
		} else {
			parts[i] = blackCardStyle.Render(s)
		}
	}
	return boardStyle.Render("[") + strings.Join(parts, " ") + boardStyle.Render("]")
}

func potTotal(pots []holdem.Pot) int {
	total := 0
	for _, pot := range pots {
		total += pot.Amount
	}
	return total
}
