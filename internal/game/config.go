package game

import "time"

// Config holds the per-room game settings. Rooms are created with defaults
// and may override any field at creation time.
type Config struct {
	InitialChips   int
	SmallBlind     int
	BigBlind       int
	MaxPlayers     int
	TurnTimeout    time.Duration
	InterHandDelay time.Duration
}

// DefaultConfig returns the defaults applied when a room omits overrides
func DefaultConfig() Config {
	return Config{
		InitialChips:   1000,
		SmallBlind:     10,
		BigBlind:       20,
		MaxPlayers:     6,
		TurnTimeout:    30 * time.Second,
		InterHandDelay: 3 * time.Second,
	}
}

// Normalize clamps invalid overrides back to defaults
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if c.InitialChips <= 0 {
		c.InitialChips = def.InitialChips
	}
	if c.SmallBlind <= 0 {
		c.SmallBlind = def.SmallBlind
	}
	if c.BigBlind <= 0 {
		c.BigBlind = def.BigBlind
	}
	if c.MaxPlayers < 2 || c.MaxPlayers > 9 {
		c.MaxPlayers = def.MaxPlayers
	}
	if c.TurnTimeout <= 0 {
		c.TurnTimeout = def.TurnTimeout
	}
	if c.InterHandDelay <= 0 {
		c.InterHandDelay = def.InterHandDelay
	}
	return c
}
