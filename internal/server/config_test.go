package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Game.InitialChips)
	assert.Equal(t, "localhost:8080", cfg.ListenAddr())
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "roomsrv.hcl")
	content := `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

game {
  small_blind          = 25
  big_blind            = 50
  turn_timeout_seconds = 15
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)

	// Explicit values stick, unset values fall back to defaults.
	assert.Equal(t, 25, cfg.Game.SmallBlind)
	assert.Equal(t, 50, cfg.Game.BigBlind)
	assert.Equal(t, 1000, cfg.Game.InitialChips)
	assert.Equal(t, 6, cfg.Game.MaxPlayers)

	gc := cfg.GameConfig()
	assert.Equal(t, 15*time.Second, gc.TurnTimeout)
	assert.Equal(t, 3*time.Second, gc.InterHandDelay)
}

func TestLoadConfigRejectsMalformedHCL(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte("server {"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
