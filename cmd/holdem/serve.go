package main

import (
	"github.com/feltops/holdem/cmd/holdem/shared"
	"github.com/feltops/holdem/internal/server"
)

// ServeCmd runs the websocket table server.
type ServeCmd struct {
	Config string `kong:"default='holdem.hcl',help='Path to the HCL config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLogger(cfg.Server.LogLevel, c.Debug)
	ctx := shared.SetupSignalHandler(logger)

	var store server.Store
	if cfg.Server.Database != "" {
		sqlStore, err := server.NewSQLiteStore(cfg.Server.Database)
		if err != nil {
			return err
		}
		defer sqlStore.Close()
		store = sqlStore
		logger.Info().Str("database", cfg.Server.Database).Msg("using sqlite store")
	}

	service := server.NewTableService(server.ServiceOptions{
		Store:       store,
		Logger:      logger,
		TurnTimeout: cfg.TurnTimeout(),
	})

	// Persisted tables come back first; config tables fill in the rest.
	if err := service.RestoreTables(ctx); err != nil {
		return err
	}
	existing := make(map[string]bool)
	for _, info := range service.ListTables() {
		existing[info.ID] = true
	}
	for _, table := range cfg.Tables {
		if existing[table.Name] {
			logger.Info().Str("table", table.Name).Msg("table restored from store")
			continue
		}
		gameCfg, strategies, err := table.GameConfig()
		if err != nil {
			return err
		}
		if _, err := service.CreateTable(ctx, gameCfg, table.AutoStart, strategies); err != nil {
			return err
		}
		logger.Info().
			Str("table", table.Name).
			Int("small_blind", table.SmallBlind).
			Int("big_blind", table.BigBlind).
			Int("seats", len(gameCfg.Players)).
			Msg("table created")
	}

	logger.Info().Str("address", cfg.ListenAddr()).Msg("starting server")
	return server.NewServer(cfg.ListenAddr(), service, logger).Run(ctx)
}
