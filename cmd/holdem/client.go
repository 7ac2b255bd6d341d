package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/feltops/holdem/cmd/holdem/shared"
	"github.com/feltops/holdem/internal/client"
)

// ClientCmd connects the terminal UI to a running server.
type ClientCmd struct {
	URL   string `kong:"default='http://localhost:8080',help='Server URL'"`
	Table string `kong:"default='main',help='Table to join'"`
	Debug bool   `kong:"help='Write debug logs to holdem-client.log'"`
}

func (c *ClientCmd) Run() error {
	// The TUI owns the terminal, so logs go to a file or nowhere.
	logger := zerolog.Nop()
	if c.Debug {
		file, err := os.OpenFile("holdem-client.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer file.Close()
		logger = zerolog.New(file).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}

	ctx, cancel := context.WithCancel(shared.SetupSignalHandler(logger))
	defer cancel()

	return client.Run(ctx, client.Config{
		ServerURL: c.URL,
		TableID:   c.Table,
		Logger:    logger,
	})
}
