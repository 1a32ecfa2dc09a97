package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
simulation:
  tick_delta: 0.5
  tombstone_scope: witnesses
logging:
  level: debug
metrics:
  enabled: true
  port: 9100
`)

	// Act
	cfg, err := LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Simulation.TickDelta)
	assert.Equal(t, "witnesses", cfg.Simulation.TombstoneScope)
	assert.Equal(t, "prefer_tombstone", cfg.Simulation.TieBreak)
	assert.Equal(t, 5.0, cfg.Simulation.DeliveryRange)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9100, cfg.Metrics.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "simulation:\n  tie_break: keep_existing\n")
	t.Setenv("CC_SIMULATION_TIE_BREAK", "prefer_incoming")
	t.Setenv("CC_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "prefer_incoming", cfg.Simulation.TieBreak)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown tie break", "simulation:\n  tie_break: coin_flip\n"},
		{"unknown scope", "simulation:\n  tombstone_scope: everyone\n"},
		{"negative pacing", "simulation:\n  ticks_per_second: -1\n"},
		{"file output without path", "logging:\n  output: file\n"},
		{"privileged metrics port", "metrics:\n  port: 80\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigOrDefault_FallsBackOnError(t *testing.T) {
	cfg := LoadConfigOrDefault(writeConfig(t, "simulation:\n  tie_break: coin_flip\n"))

	assert.Equal(t, "prefer_tombstone", cfg.Simulation.TieBreak)
	assert.Equal(t, 1.0, cfg.Simulation.TickDelta)
}

func TestUserConfigHandler_RemembersLastRun(t *testing.T) {
	h, err := NewUserConfigHandlerAt(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, h.SetLastRun("run-1"))
	require.NoError(t, h.SetDefaultScenario("battle.yaml"))
	cfg, err := h.Load()

	require.NoError(t, err)
	assert.Equal(t, "run-1", cfg.LastRunID)
	assert.Equal(t, "battle.yaml", cfg.DefaultScenario)
}

func TestValidator_NamesFieldsByFileKey(t *testing.T) {
	cfg := &Config{}
	SetDefaults(cfg)
	cfg.Simulation.TieBreak = "coin_flip"
	cfg.Simulation.TickDelta = 0

	err := NewValidator().Validate(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `simulation.tie_break: unknown tie break policy "coin_flip"`)
	assert.Contains(t, err.Error(), "simulation.tick_delta must be greater than 0")
}
