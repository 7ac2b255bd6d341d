// Package simulator plays batches of unattended hands against the
// engine. It exists for two reasons: soak-testing the engine under
// randomized but legal play, and rough throughput numbers.
package simulator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/feltops/holdem/holdem"
	"github.com/feltops/holdem/internal/bot"
)

// Config describes one simulation run.
type Config struct {
	Hands    int
	Players  int
	Stack    int
	Workers  int
	Seed     int64
	Strategy string
	Logger   zerolog.Logger
}

// Result aggregates a finished run.
type Result struct {
	Hands       int
	Showdowns   int
	FoldWins    int
	Elapsed     time.Duration
	HandsPerSec float64
}

// Simulator distributes hands across workers, each worker owning one
// private table so no engine state is ever shared between goroutines.
type Simulator struct {
	config Config
}

func New(config Config) *Simulator {
	if config.Players < 2 {
		config.Players = 6
	}
	if config.Stack <= 0 {
		config.Stack = 1000
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Strategy == "" {
		config.Strategy = "rand"
	}
	return &Simulator{config: config}
}

// Run plays the configured number of hands and validates chip
// conservation after every one of them.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	var mu sync.Mutex
	result := &Result{}

	group, ctx := errgroup.WithContext(ctx)
	perWorker := s.config.Hands / s.config.Workers
	extra := s.config.Hands % s.config.Workers

	for w := 0; w < s.config.Workers; w++ {
		worker := w
		hands := perWorker
		if worker < extra {
			hands++
		}
		if hands == 0 {
			continue
		}
		group.Go(func() error {
			showdowns, foldWins, played, err := s.runWorker(ctx, worker, hands)
			mu.Lock()
			result.Hands += played
			result.Showdowns += showdowns
			result.FoldWins += foldWins
			mu.Unlock()
			return err
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(start)
	if result.Elapsed > 0 {
		result.HandsPerSec = float64(result.Hands) / result.Elapsed.Seconds()
	}
	return result, nil
}

// runWorker plays hands on one private table, rebuilding the table
// whenever the lineup can no longer field two funded players.
func (s *Simulator) runWorker(ctx context.Context, worker, hands int) (showdowns, foldWins, played int, err error) {
	tableSeq := 0
	game, bots, err := s.newTable(worker, tableSeq)
	if err != nil {
		return 0, 0, 0, err
	}
	total := s.config.Players * s.config.Stack

	for played < hands {
		if err := ctx.Err(); err != nil {
			return showdowns, foldWins, played, err
		}
		if !game.CanStartHand() {
			tableSeq++
			game, bots, err = s.newTable(worker, tableSeq)
			if err != nil {
				return showdowns, foldWins, played, err
			}
		}
		game.StartHand()

		for steps := 0; !game.HandComplete(); steps++ {
			if steps > 10000 {
				return showdowns, foldWins, played, fmt.Errorf("hand %d on worker %d did not terminate", game.HandNumber, worker)
			}
			id := game.ActivePlayerID()
			action := bots[id].Act(game.PlayerView(id))
			if !game.ExecuteAction(id, action) {
				return showdowns, foldWins, played,
					fmt.Errorf("worker %d hand %d: bot %s produced illegal %s", worker, game.HandNumber, id, action.Type)
			}
		}

		sum := 0
		for _, p := range game.PlayerView("").Players {
			sum += p.Stack
		}
		if sum != total {
			return showdowns, foldWins, played,
				fmt.Errorf("worker %d hand %d: chips not conserved, %d != %d", worker, game.HandNumber, sum, total)
		}

		if game.ShowdownHands != nil {
			showdowns++
		} else {
			foldWins++
		}
		played++
	}
	return showdowns, foldWins, played, nil
}

func (s *Simulator) newTable(worker, tableSeq int) (*holdem.GameState, map[string]bot.Strategy, error) {
	seed := s.config.Seed + int64(worker)*1_000_003 + int64(tableSeq)
	players := make([]holdem.PlayerConfig, s.config.Players)
	bots := make(map[string]bot.Strategy, s.config.Players)
	for i := range players {
		id := fmt.Sprintf("w%d-bot%d", worker, i+1)
		players[i] = holdem.PlayerConfig{ID: id, Name: id, Stack: s.config.Stack, IsBot: true}
		strategy, err := bot.New(s.config.Strategy, seed+int64(i)+1)
		if err != nil {
			return nil, nil, err
		}
		bots[id] = strategy
	}

	game, err := holdem.NewGame(holdem.Config{
		ID:         fmt.Sprintf("sim-w%d-%d", worker, tableSeq),
		SmallBlind: 5,
		BigBlind:   10,
		Seed:       seed,
		Players:    players,
	})
	if err != nil {
		return nil, nil, err
	}
	return game, bots, nil
}

// Summary renders a one-screen report.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"hands: %d\nshowdowns: %d (%.1f%%)\nfold wins: %d (%.1f%%)\nelapsed: %s\nthroughput: %.0f hands/sec",
		r.Hands,
		r.Showdowns, percent(r.Showdowns, r.Hands),
		r.FoldWins, percent(r.FoldWins, r.Hands),
		r.Elapsed.Round(time.Millisecond),
		r.HandsPerSec,
	)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
