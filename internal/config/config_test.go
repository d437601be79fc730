package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aegissim/internal/model"
)

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, info, err := LoadConfigFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, info.PortSpecified)
}

func TestLoadConfigFrom_ParsesToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9000

[data]
data_dir = "/var/lib/aegissim"

[simulation]
path = "sim.yaml"
fill_missing = true
`), 0644))

	cfg, info, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.True(t, info.PortSpecified)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/var/lib/aegissim", cfg.Data.DataDir)
	assert.Equal(t, "aegissim.db", cfg.Data.DBName)
	assert.Equal(t, "sim.yaml", cfg.Simulation.Path)
	assert.True(t, cfg.Simulation.FillMissing)
	assert.Equal(t, filepath.Join("/var/lib/aegissim", "aegissim.db"), DBPath(cfg))
}

func TestLoadConfigFrom_EnvOverride(t *testing.T) {
	t.Setenv("AEGISSIM_SIMULATION_PATH", "/etc/aegissim/sim.toml")
	t.Setenv("AEGISSIM_DATA_DIR", "/tmp/aegis")

	cfg, _, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, "/etc/aegissim/sim.toml", cfg.Simulation.Path)
	assert.Equal(t, "/tmp/aegis", cfg.Data.DataDir)
}

func TestLoadConfigFrom_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = "), 0644))

	_, _, err := LoadConfigFrom(path)
	assert.Error(t, err)
}

func TestEnsureDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")

	dir, err := EnsureDataDir(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Data.DataDir, dir)

	for _, sub := range []string{"exports", "backups"} {
		st, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.True(t, st.IsDir())
	}
}

func TestLoadSimulation_DefaultWhenEmpty(t *testing.T) {
	cfg, err := LoadSimulation("")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSimulationConfig(), cfg)
}

func TestSimulation_TomlRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.toml")
	want := model.DefaultSimulationConfig()
	require.NoError(t, WriteSimulation(want, path))

	got, err := LoadSimulation(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseSimulation_YAML(t *testing.T) {
	data := []byte(`
simulation_id: sim_yaml
title: YAML sim
rounds:
  - {id: 1, name: Practice, type: practice, duration_mins: 10}
  - {id: 2, name: Final, type: real, duration_mins: 30}
segments: [Retail]
base_demand: {Retail: 800}
serv_time_hours: {Retail: 2}
price_bounds: {min: 500, max: 9000}
weights:
  eta: {Retail: 1.0}
  mu: {Retail: 0.3}
  kappa: {Retail: 0.5}
  rho: {Retail: 0.4}
financial: {interest_rate: 0.02, tax_rate: 0.2, capital_employed: 1000000}
costs:
  perm_wage: 50000
  temp_wage: 300
  overtime_multiple: 1.5
  hire_cost: 30000
  fire_cost: 10000
  training_cost: 2000
  var_cost_per_unit: 800
  fixed_overhead: 200000
  outsourcing_cost: 1200
scoring_weights: {profit: 0.4, market_share: 0.3, csat: 0.1, esat: 0.1, roce: 0.1}
defaults: {decay_prod: 0.03, decay_quality: 0.04}
`)

	cfg, err := ParseSimulation(data, ".yaml")
	require.NoError(t, err)

	assert.Equal(t, "sim_yaml", cfg.SimulationID)
	assert.Equal(t, []string{"Retail"}, cfg.Segments)
	assert.Equal(t, 800.0, cfg.BaseDemand["Retail"])
	assert.Equal(t, model.RoundPractice, cfg.Rounds[0].Kind)
	assert.Equal(t, 0.3, cfg.Scoring.MarketShare)
	assert.InDelta(t, 1.0, cfg.Scoring.Sum(), 1e-9)
}

func TestParseSimulation_JSON(t *testing.T) {
	data := []byte(`{
		"segments": ["SME"],
		"baseDemand": {"SME": 600},
		"servTimeHours": {"SME": 3.5},
		"priceBounds": {"min": 1000, "max": 10000},
		"weights": {"eta": {"SME": 1.2}, "mu": {"SME": 0.25}, "kappa": {"SME": 0.6}, "rho": {"SME": 0.45}},
		"financial": {"interestRate": 0.01, "taxRate": 0.25, "capitalEmployed": 5000000},
		"defaults": {"decayProd": 0.05, "decayQuality": 0.05}
	}`)

	cfg, err := ParseSimulation(data, "json")
	require.NoError(t, err)
	assert.Equal(t, 600.0, cfg.BaseDemand["SME"])
	assert.Equal(t, 1.2, cfg.Weights.Eta["SME"])
}

func TestParseSimulation_Rejects(t *testing.T) {
	_, err := ParseSimulation([]byte(`segments = []`), ".toml")
	assert.ErrorIs(t, err, model.ErrInvalidConfig)

	_, err = ParseSimulation([]byte(`{}`), ".ini")
	assert.Error(t, err)

	_, err = ParseSimulation([]byte(`{"unknownField": 1}`), ".json")
	assert.Error(t, err)
}
