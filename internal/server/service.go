package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/feltops/holdem/holdem"
	"github.com/feltops/holdem/internal/bot"
)

// TableService owns the live tables. The engine itself does no locking
// and no I/O, so the service provides both: one mutex per table
// serializes mutations, every accepted mutation is persisted to the
// Store, and per-viewer views are pushed to subscribers afterwards.
//
// Turn timers live here too, not in the engine: when a human lets the
// clock run out the service checks for them when that is legal and
// folds otherwise, through the same public ExecuteAction path a client
// would use.
type TableService struct {
	store       Store
	clock       quartz.Clock
	logger      zerolog.Logger
	turnTimeout time.Duration

	mu     sync.Mutex
	tables map[string]*tableRuntime
}

// ServiceOptions configures a TableService. Zero values select a
// MemoryStore, the real clock and no turn timeout.
type ServiceOptions struct {
	Store       Store
	Clock       quartz.Clock
	Logger      zerolog.Logger
	TurnTimeout time.Duration
}

type tableRuntime struct {
	mu        sync.Mutex
	game      *holdem.GameState
	autoStart bool
	bots      map[string]bot.Strategy
	claimed   map[string]bool
	subs      map[*subscription]struct{}
	timer     *quartz.Timer
	timerSeq  int
}

type subscription struct {
	viewerID string
	notify   func(holdem.PlayerGameView)
}

// TableInfo is a public summary of one table.
type TableInfo struct {
	ID         string `json:"id"`
	Phase      string `json:"phase"`
	HandNumber int    `json:"handNumber"`
	Players    int    `json:"players"`
	SmallBlind int    `json:"smallBlind"`
	BigBlind   int    `json:"bigBlind"`
}

func NewTableService(opts ServiceOptions) *TableService {
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	return &TableService{
		store:       opts.Store,
		clock:       opts.Clock,
		logger:      opts.Logger,
		turnTimeout: opts.TurnTimeout,
		tables:      make(map[string]*tableRuntime),
	}
}

// CreateTable builds a table from an engine config and persists it.
// A blank cfg.ID gets a generated one. Bot seats (PlayerConfig.IsBot)
// are driven by the given strategies, keyed by player id; bot seats
// without a strategy default to check/call.
func (s *TableService) CreateTable(ctx context.Context, cfg holdem.Config, autoStart bool, strategies map[string]bot.Strategy) (string, error) {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}

	game, err := holdem.NewGame(cfg)
	if err != nil {
		return "", err
	}
	if err := s.store.SaveTable(ctx, game); err != nil {
		return "", err
	}

	rt := &tableRuntime{
		game:      game,
		autoStart: autoStart,
		bots:      make(map[string]bot.Strategy),
		claimed:   make(map[string]bool),
		subs:      make(map[*subscription]struct{}),
	}
	for _, p := range cfg.Players {
		if !p.IsBot {
			continue
		}
		if strategy, ok := strategies[p.ID]; ok {
			rt.bots[p.ID] = strategy
		} else {
			rt.bots[p.ID] = bot.CallBot{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tables[cfg.ID]; exists {
		return "", fmt.Errorf("server: table %s already exists", cfg.ID)
	}
	s.tables[cfg.ID] = rt

	s.logger.Info().Str("table", cfg.ID).Int("players", len(cfg.Players)).Msg("table created")
	return cfg.ID, nil
}

// RestoreTables loads every persisted table back into memory, so a
// restarted server resumes where it stopped, mid-hand included. Bot
// seats come back as check/call bots.
func (s *TableService) RestoreTables(ctx context.Context) error {
	ids, err := s.store.ListTables(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		game, err := s.store.LoadTable(ctx, id)
		if err != nil {
			return err
		}
		rt := &tableRuntime{
			game:    game,
			bots:    make(map[string]bot.Strategy),
			claimed: make(map[string]bool),
			subs:    make(map[*subscription]struct{}),
		}
		for _, view := range game.PlayerView("").Players {
			if view.IsBot {
				rt.bots[view.ID] = bot.CallBot{}
			}
		}
		s.mu.Lock()
		s.tables[id] = rt
		s.mu.Unlock()
		s.logger.Info().Str("table", id).Int("hand", game.HandNumber).Msg("table restored")
	}
	return nil
}

// ListTables summarizes the live tables.
func (s *TableService) ListTables() []TableInfo {
	s.mu.Lock()
	runtimes := make(map[string]*tableRuntime, len(s.tables))
	for id, rt := range s.tables {
		runtimes[id] = rt
	}
	s.mu.Unlock()

	infos := make([]TableInfo, 0, len(runtimes))
	for id, rt := range runtimes {
		rt.mu.Lock()
		view := rt.game.PlayerView("")
		infos = append(infos, TableInfo{
			ID:         id,
			Phase:      view.Phase,
			HandNumber: view.HandNumber,
			Players:    len(view.Players),
			SmallBlind: view.SmallBlind,
			BigBlind:   view.BigBlind,
		})
		rt.mu.Unlock()
	}
	return infos
}

// DeleteTable removes a table from memory and from the store.
func (s *TableService) DeleteTable(ctx context.Context, tableID string) error {
	s.mu.Lock()
	rt, ok := s.tables[tableID]
	delete(s.tables, tableID)
	s.mu.Unlock()
	if !ok {
		return ErrTableNotFound
	}

	rt.mu.Lock()
	if rt.timer != nil {
		rt.timer.Stop()
	}
	rt.mu.Unlock()

	return s.store.DeleteTable(ctx, tableID)
}

func (s *TableService) runtime(tableID string) (*tableRuntime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.tables[tableID]
	if !ok {
		return nil, ErrTableNotFound
	}
	return rt, nil
}

// Join claims an open human seat and returns its player id. A caller
// holds the seat until Leave.
func (s *TableService) Join(tableID string) (string, error) {
	rt, err := s.runtime(tableID)
	if err != nil {
		return "", err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	for _, p := range rt.game.PlayerView("").Players {
		if p.IsBot || rt.claimed[p.ID] {
			continue
		}
		rt.claimed[p.ID] = true
		s.logger.Info().Str("table", tableID).Str("player", p.ID).Msg("seat claimed")
		return p.ID, nil
	}
	return "", fmt.Errorf("server: table %s has no open seats", tableID)
}

// Leave releases a seat. If the leaver was the one holding up the
// hand, the service acts for them (check when free, otherwise fold) so
// the table never stalls.
func (s *TableService) Leave(ctx context.Context, tableID, playerID string) error {
	rt, err := s.runtime(tableID)
	if err != nil {
		return err
	}

	rt.mu.Lock()
	if !rt.claimed[playerID] {
		rt.mu.Unlock()
		return fmt.Errorf("server: player %s is not seated at %s", playerID, tableID)
	}
	delete(rt.claimed, playerID)

	if rt.game.ActivePlayerID() == playerID {
		s.forceAction(ctx, rt, playerID)
		s.afterMutation(ctx, tableID, rt)
	}
	rt.mu.Unlock()

	s.logger.Info().Str("table", tableID).Str("player", playerID).Msg("seat released")
	return nil
}

// StartHand begins the next hand and drives any bot action at the top
// of it.
func (s *TableService) StartHand(ctx context.Context, tableID string) error {
	rt, err := s.runtime(tableID)
	if err != nil {
		return err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.game.StartHand() {
		return fmt.Errorf("server: table %s cannot start a hand", tableID)
	}
	s.logger.Info().Str("table", tableID).Int("hand", rt.game.HandNumber).Msg("hand started")
	s.afterMutation(ctx, tableID, rt)
	return nil
}

// Act applies one player action. Engine rejections surface as errors;
// accepted actions are persisted and broadcast, and any bots next to
// act play immediately.
func (s *TableService) Act(ctx context.Context, tableID, playerID string, action holdem.Action) error {
	rt, err := s.runtime(tableID)
	if err != nil {
		return err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.game.ExecuteAction(playerID, action) {
		return fmt.Errorf("server: illegal action %s by %s", action.Type, playerID)
	}
	s.afterMutation(ctx, tableID, rt)
	return nil
}

// SetBlinds raises (or lowers) the stakes for subsequent hands. The
// engine refuses the change mid-hand.
func (s *TableService) SetBlinds(ctx context.Context, tableID string, smallBlind, bigBlind int) error {
	rt, err := s.runtime(tableID)
	if err != nil {
		return err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.game.SetBlinds(smallBlind, bigBlind) {
		return fmt.Errorf("server: table %s cannot change blinds to %d/%d now", tableID, smallBlind, bigBlind)
	}
	s.logger.Info().Str("table", tableID).Int("small_blind", smallBlind).Int("big_blind", bigBlind).Msg("blinds updated")
	s.afterMutation(ctx, tableID, rt)
	return nil
}

// View returns the viewer's redacted snapshot.
func (s *TableService) View(tableID, viewerID string) (holdem.PlayerGameView, error) {
	rt, err := s.runtime(tableID)
	if err != nil {
		return holdem.PlayerGameView{}, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.game.PlayerView(viewerID), nil
}

// Subscribe registers a view callback for one viewer. Every accepted
// mutation pushes a fresh redacted view. The returned cancel function
// is idempotent.
func (s *TableService) Subscribe(tableID, viewerID string, notify func(holdem.PlayerGameView)) (func(), error) {
	rt, err := s.runtime(tableID)
	if err != nil {
		return nil, err
	}

	sub := &subscription{viewerID: viewerID, notify: notify}
	rt.mu.Lock()
	rt.subs[sub] = struct{}{}
	rt.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			rt.mu.Lock()
			delete(rt.subs, sub)
			rt.mu.Unlock()
		})
	}
	return cancel, nil
}

// afterMutation runs with rt.mu held after every accepted engine
// mutation: drive bots, persist, notify, manage the turn timer.
func (s *TableService) afterMutation(ctx context.Context, tableID string, rt *tableRuntime) {
	s.driveBots(tableID, rt)

	if err := s.store.SaveTable(ctx, rt.game); err != nil {
		s.logger.Error().Err(err).Str("table", tableID).Msg("persist failed")
	}

	for sub := range rt.subs {
		sub.notify(rt.game.PlayerView(sub.viewerID))
	}

	if rt.game.HandComplete() {
		s.stopTimerLocked(rt)
		if rt.autoStart && rt.game.CanStartHand() && len(rt.claimed) > 0 {
			s.scheduleNextHand(tableID, rt)
		}
		return
	}
	s.armTimerLocked(ctx, tableID, rt)
}

// driveBots lets bot seats act until a human holds the turn or the
// hand completes.
func (s *TableService) driveBots(tableID string, rt *tableRuntime) {
	for !rt.game.HandComplete() {
		id := rt.game.ActivePlayerID()
		strategy, ok := rt.bots[id]
		if !ok {
			return
		}
		action := strategy.Act(rt.game.PlayerView(id))
		if !rt.game.ExecuteAction(id, action) {
			// A broken strategy must not wedge the table.
			s.logger.Warn().Str("table", tableID).Str("bot", id).
				Str("action", string(action.Type)).Msg("bot action rejected, folding")
			rt.game.ExecuteAction(id, holdem.Action{Type: holdem.ActionFold})
		}
	}
}

// armTimerLocked (re)schedules the turn timer for the current human
// decision. Bot turns never run a timer: driveBots settles them
// synchronously.
func (s *TableService) armTimerLocked(ctx context.Context, tableID string, rt *tableRuntime) {
	s.stopTimerLocked(rt)
	if s.turnTimeout <= 0 {
		return
	}
	playerID := rt.game.ActivePlayerID()
	if playerID == "" {
		return
	}

	rt.timerSeq++
	seq := rt.timerSeq
	hand := rt.game.HandNumber
	rt.timer = s.clock.AfterFunc(s.turnTimeout, func() {
		s.expireTurn(ctx, tableID, rt, seq, hand, playerID)
	})
}

func (s *TableService) stopTimerLocked(rt *tableRuntime) {
	if rt.timer != nil {
		rt.timer.Stop()
		rt.timer = nil
	}
}

// expireTurn fires when a human ran out of time. The sequence guard
// drops stale timers that lost a race with a real action.
func (s *TableService) expireTurn(ctx context.Context, tableID string, rt *tableRuntime, seq, hand int, playerID string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.timerSeq != seq || rt.game.HandNumber != hand || rt.game.ActivePlayerID() != playerID {
		return
	}
	s.logger.Info().Str("table", tableID).Str("player", playerID).Msg("turn timed out")
	s.forceAction(ctx, rt, playerID)
	s.afterMutation(ctx, tableID, rt)
}

// forceAction acts in a player's stead: check when legal, else fold.
// Called with rt.mu held.
func (s *TableService) forceAction(_ context.Context, rt *tableRuntime, playerID string) {
	action := holdem.Action{Type: holdem.ActionFold}
	for _, va := range rt.game.ValidActions(playerID) {
		if va.Type == holdem.ActionCheck {
			action.Type = holdem.ActionCheck
			break
		}
	}
	rt.game.ExecuteAction(playerID, action)
}

// scheduleNextHand queues the next auto-started hand off the table
// lock, after a short pause so clients can render the result.
func (s *TableService) scheduleNextHand(tableID string, rt *tableRuntime) {
	rt.timerSeq++
	seq := rt.timerSeq
	rt.timer = s.clock.AfterFunc(2*time.Second, func() {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		if rt.timerSeq != seq || !rt.game.StartHand() {
			return
		}
		s.logger.Info().Str("table", tableID).Int("hand", rt.game.HandNumber).Msg("hand auto-started")
		s.afterMutation(context.Background(), tableID, rt)
	})
}
