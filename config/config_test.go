package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `store:
  pilots_path: "testdata/pilots.csv"
  drones_path: "testdata/drones.csv"
  missions_path: "testdata/missions.csv"
decision:
  backend: "sqlite"
  path: "decisions.db"
metrics:
  prometheus_enabled: true
  prometheus_port: ":9100"
api:
  addr: ":8088"
  token: "secret"
matching:
  pilot_weights:
    skill: 0.5
    certification: 0.2
    location: 0.15
    availability: 0.15
reassign:
  swap_penalty: 20
  standard_penalty: 5
  high_penalty: 20
  urgent_penalty: 30
  no_drone_penalty: 15
  min_displacement_score: 0.3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "testdata/pilots.csv", cfg.Store.PilotsPath)
	assert.Equal(t, "sqlite", cfg.Decision.Backend)
	assert.True(t, cfg.Metrics.PrometheusEnabled)
	assert.Equal(t, ":9100", cfg.Metrics.PrometheusPort)
	assert.Equal(t, ":8088", cfg.API.Addr)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, 0.5, cfg.Matching.PilotWeights.Skill)
	// Drone weights were omitted and must fall back to the defaults.
	assert.Equal(t, 0.50, cfg.Matching.DroneWeights.Capability)
	assert.Equal(t, 0.3, cfg.Reassign.MinDisplacementScore)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `store: {}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/pilot_roster.csv", cfg.Store.PilotsPath)
	assert.Equal(t, "jsonl", cfg.Decision.Backend)
	assert.Equal(t, "decisions.log", cfg.Decision.Path)
	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, 0.40, cfg.Matching.PilotWeights.Skill)
	assert.Equal(t, 20, cfg.Reassign.SwapPenalty)
	assert.Equal(t, 15, cfg.Reassign.NoDronePenalty)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, `decision:
  backend: "redis"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown decision log backend")
}

func TestLoadRejectsZeroWeights(t *testing.T) {
	path := writeConfig(t, `matching:
  pilot_weights:
    skill: -0.4
    certification: 0.4
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("OPS_DECISION__BACKEND", "sqlite")
	path := writeConfig(t, `decision:
  backend: "jsonl"
  path: "decisions.db"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Decision.Backend)
}