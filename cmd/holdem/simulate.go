package main

import (
	"fmt"

	"github.com/feltops/holdem/cmd/holdem/shared"
	"github.com/feltops/holdem/internal/simulator"
)

// SimulateCmd plays unattended hands and prints a throughput report.
type SimulateCmd struct {
	Hands    int    `kong:"default='1000',help='Number of hands to play'"`
	Players  int    `kong:"default='6',help='Players per table'"`
	Stack    int    `kong:"default='1000',help='Starting stack per player'"`
	Workers  int    `kong:"default='4',help='Concurrent tables'"`
	Seed     int64  `kong:"default='1',help='Base RNG seed'"`
	Strategy string `kong:"default='rand',help='Bot strategy: call, fold, rand or chart'"`
	Debug    bool   `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger("", c.Debug)
	ctx := shared.SetupSignalHandler(logger)

	sim := simulator.New(simulator.Config{
		Hands:    c.Hands,
		Players:  c.Players,
		Stack:    c.Stack,
		Workers:  c.Workers,
		Seed:     c.Seed,
		Strategy: c.Strategy,
		Logger:   logger,
	})

	result, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println(result.Summary())
	return nil
}
