package server

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/feltops/holdem/holdem"
	"github.com/feltops/holdem/internal/bot"
)

// Config is the full server configuration, decoded from HCL.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Tables []TableConfig  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address            string `hcl:"address,optional"`
	Port               int    `hcl:"port,optional"`
	LogLevel           string `hcl:"log_level,optional"`
	Database           string `hcl:"database,optional"` // SQLite path; empty keeps tables in memory
	TurnTimeoutSeconds int    `hcl:"turn_timeout_seconds,optional"`
}

// TableConfig defines one table to create at startup.
type TableConfig struct {
	Name          string      `hcl:"name,label"`
	SmallBlind    int         `hcl:"small_blind"`
	BigBlind      int         `hcl:"big_blind"`
	StartingStack int         `hcl:"starting_stack,optional"`
	Seats         int         `hcl:"seats,optional"` // human seats
	Seed          int64       `hcl:"seed,optional"`
	AutoStart     bool        `hcl:"auto_start,optional"`
	Bots          []BotConfig `hcl:"bot,block"`
}

// BotConfig fills table seats with bots of one strategy.
type BotConfig struct {
	Strategy string `hcl:"strategy,label"`
	Count    int    `hcl:"count,optional"`
}

// DefaultConfig is what a server runs with when no config file exists:
// one 6-max table with three check/call bots and three open seats.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:            "localhost",
			Port:               8080,
			LogLevel:           "info",
			TurnTimeoutSeconds: 30,
		},
		Tables: []TableConfig{
			{
				Name:          "main",
				SmallBlind:    5,
				BigBlind:      10,
				StartingStack: 1000,
				Seats:         3,
				AutoStart:     true,
				Bots:          []BotConfig{{Strategy: "call", Count: 3}},
			},
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// DefaultConfig when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}

	var config Config
	if diags := gohcl.DecodeBody(file.Body, nil, &config); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.TurnTimeoutSeconds == 0 {
		c.Server.TurnTimeoutSeconds = 30
	}
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.StartingStack == 0 {
			t.StartingStack = t.BigBlind * 100
		}
		for j := range t.Bots {
			if t.Bots[j].Count == 0 {
				t.Bots[j].Count = 1
			}
		}
	}
}

// Validate rejects configurations the engine or service would refuse.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	for _, t := range c.Tables {
		if t.SmallBlind <= 0 || t.BigBlind <= t.SmallBlind {
			return fmt.Errorf("table %s: blinds must satisfy 0 < small < big", t.Name)
		}
		if t.StartingStack < t.BigBlind {
			return fmt.Errorf("table %s: starting stack below one big blind", t.Name)
		}
		if t.Seats+t.botCount() < 2 {
			return fmt.Errorf("table %s: needs at least 2 seats", t.Name)
		}
		if t.Seats+t.botCount() > 9 {
			return fmt.Errorf("table %s: at most 9 seats", t.Name)
		}
		for _, b := range t.Bots {
			if !slices.Contains(bot.Strategies(), b.Strategy) {
				return fmt.Errorf("table %s: unknown bot strategy %q", t.Name, b.Strategy)
			}
		}
	}
	return nil
}

// ListenAddr returns the host:port the server binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TurnTimeout returns the configured decision clock.
func (c *Config) TurnTimeout() time.Duration {
	return time.Duration(c.Server.TurnTimeoutSeconds) * time.Second
}

func (t *TableConfig) botCount() int {
	n := 0
	for _, b := range t.Bots {
		n += b.Count
	}
	return n
}

// GameConfig expands a table block into an engine config plus the bot
// strategies for its bot seats. Human seats get stable ids clients
// claim on join.
func (t *TableConfig) GameConfig() (holdem.Config, map[string]bot.Strategy, error) {
	cfg := holdem.Config{
		ID:         t.Name,
		SmallBlind: t.SmallBlind,
		BigBlind:   t.BigBlind,
		Seed:       t.Seed,
	}

	for i := 0; i < t.Seats; i++ {
		id := fmt.Sprintf("%s-seat%d", t.Name, i+1)
		cfg.Players = append(cfg.Players, holdem.PlayerConfig{
			ID: id, Name: fmt.Sprintf("Seat %d", i+1), Stack: t.StartingStack,
		})
	}

	strategies := make(map[string]bot.Strategy)
	botSeat := 0
	for _, bc := range t.Bots {
		for i := 0; i < bc.Count; i++ {
			botSeat++
			id := fmt.Sprintf("%s-%s%d", t.Name, bc.Strategy, botSeat)
			strategy, err := bot.New(bc.Strategy, t.Seed+int64(botSeat))
			if err != nil {
				return holdem.Config{}, nil, err
			}
			strategies[id] = strategy
			cfg.Players = append(cfg.Players, holdem.PlayerConfig{
				ID: id, Name: id, Stack: t.StartingStack, IsBot: true,
			})
		}
	}

	return cfg, strategies, nil
}
