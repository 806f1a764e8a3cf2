package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadFrom(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  host: 0.0.0.0
  port: 9090
game:
  time_control:
    type: correspondence
    days_per_move: 3
auth:
  seat_secret: s3cret
  token_ttl: 2h
development:
  log_level: warn
  verify_moves: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadFrom(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, "correspondence", cfg.Game.TimeControl.Type)
	assert.Equal(t, 3, cfg.Game.TimeControl.DaysPerMove)
	assert.Equal(t, "s3cret", cfg.Auth.SeatSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Development.VerifyMoves)
	assert.Equal(t, zerolog.WarnLevel, cfg.Level())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SQUARECHESS_SERVER_PORT", "7000")
	t.Setenv("SQUARECHESS_DEVELOPMENT_DEBUG", "true")

	cfg, err := LoadFrom(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
}

func TestLevelFallsBackToInfo(t *testing.T) {
	cfg := Defaults()
	cfg.Development.LogLevel = "chatty"
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := LoadFrom(viper.New(), dir)
	assert.Error(t, err)
}
