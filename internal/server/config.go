package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/holdemlabs/roomsrv/internal/game"
)

// Config represents the complete server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// GameSettings contains the defaults applied to new rooms. Clients may
// override them per room at creation time.
type GameSettings struct {
	InitialChips     int `hcl:"initial_chips,optional"`
	SmallBlind       int `hcl:"small_blind,optional"`
	BigBlind         int `hcl:"big_blind,optional"`
	MaxPlayers       int `hcl:"max_players,optional"`
	TurnTimeoutSecs  int `hcl:"turn_timeout_seconds,optional"`
	InterHandWaitSec int `hcl:"inter_hand_wait_seconds,optional"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			InitialChips:     1000,
			SmallBlind:       10,
			BigBlind:         20,
			MaxPlayers:       6,
			TurnTimeoutSecs:  30,
			InterHandWaitSec: 3,
		},
	}
}

// LoadConfig loads server configuration from an HCL file. A missing file
// yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Game.InitialChips == 0 {
		config.Game.InitialChips = defaults.Game.InitialChips
	}
	if config.Game.SmallBlind == 0 {
		config.Game.SmallBlind = defaults.Game.SmallBlind
	}
	if config.Game.BigBlind == 0 {
		config.Game.BigBlind = defaults.Game.BigBlind
	}
	if config.Game.MaxPlayers == 0 {
		config.Game.MaxPlayers = defaults.Game.MaxPlayers
	}
	if config.Game.TurnTimeoutSecs == 0 {
		config.Game.TurnTimeoutSecs = defaults.Game.TurnTimeoutSecs
	}
	if config.Game.InterHandWaitSec == 0 {
		config.Game.InterHandWaitSec = defaults.Game.InterHandWaitSec
	}

	return &config, nil
}

// GameConfig converts the configured defaults into room game settings
func (c *Config) GameConfig() game.Config {
	cfg := game.Config{
		InitialChips:   c.Game.InitialChips,
		SmallBlind:     c.Game.SmallBlind,
		BigBlind:       c.Game.BigBlind,
		MaxPlayers:     c.Game.MaxPlayers,
		TurnTimeout:    time.Duration(c.Game.TurnTimeoutSecs) * time.Second,
		InterHandDelay: time.Duration(c.Game.InterHandWaitSec) * time.Second,
	}
	return cfg.Normalize()
}

// ListenAddr returns the host:port pair for the listener
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
