package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"aegissim/internal/config"
	"aegissim/internal/model"
	"aegissim/internal/service/orchestrator"
	"aegissim/internal/store"
)

// executeCommand runs roundctl with args and returns captured output
func executeCommand(args ...string) (string, error) {
	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, writeJSONAtomic(path, v))
	return path
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"simulate", "replay", "export", "init"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestSimulateToStdout(t *testing.T) {
	dir := t.TempDir()
	d := model.DefaultSimulationConfig().DefaultDecision
	decisions := writeFile(t, dir, "decisions.json", map[string]model.TeamDecision{"a": d, "b": d})

	out, err := executeCommand("simulate", "--decisions", decisions, "--round", "2")
	require.NoError(t, err)

	var outcome struct {
		Round   model.RoundInfo               `json:"round"`
		Results map[string]*model.RoundResult `json:"results"`
		States  map[string]model.TeamState    `json:"states"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.Equal(t, model.RoundReal, outcome.Round.Kind)
	require.Len(t, outcome.Results, 2)
	assert.False(t, outcome.Results["a"].Practice)
	assert.Equal(t, outcome.Results["a"].RoundScore, outcome.Results["b"].RoundScore)
}

func TestSimulateWithStatesToFile(t *testing.T) {
	dir := t.TempDir()
	d := model.DefaultSimulationConfig().DefaultDecision
	decisions := writeFile(t, dir, "decisions.json", map[string]model.TeamDecision{"a": d})
	rich := model.DefaultTeamState()
	rich.Q = 90
	states := writeFile(t, dir, "states.json", map[string]model.TeamState{"a": rich})
	outPath := filepath.Join(dir, "out", "outcome.json")

	out, err := executeCommand("simulate", "--decisions", decisions, "--states", states, "--round", "1", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, outPath)

	var outcome struct {
		Results map[string]*model.RoundResult `json:"results"`
	}
	require.NoError(t, readJSON(outPath, &outcome))
	r := outcome.Results["a"]
	require.NotNil(t, r)
	assert.True(t, r.Practice)
	assert.False(t, r.Scored)
	assert.Equal(t, 0.0, r.RoundScore)
}

func TestSimulateRejectsInvalidInput(t *testing.T) {
	dir := t.TempDir()
	bad := model.DefaultSimulationConfig().DefaultDecision.Clone()
	bad.PriceBySegment["Retail"] = 1
	decisions := writeFile(t, dir, "decisions.json", map[string]model.TeamDecision{"a": bad})

	_, err := executeCommand("simulate", "--decisions", decisions, "--round", "2")
	assert.ErrorIs(t, err, model.ErrInvalidDecision)

	_, err = executeCommand("simulate", "--decisions", decisions, "--round", "42")
	assert.Error(t, err)
}

func seedDatabase(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "aegissim.db")
	st, err := store.New(dbPath)
	require.NoError(t, err)
	defer st.Close()

	orch, err := orchestrator.New(st, model.DefaultSimulationConfig())
	require.NoError(t, err)
	_, err = orch.CreateTeam("Alpha")
	require.NoError(t, err)
	_, err = orch.CreateTeam("Beta")
	require.NoError(t, err)
	_, err = orch.ResolveRound(1, orchestrator.ResolveOptions{FillMissing: true})
	require.NoError(t, err)
	return dbPath
}

func TestReplayCommand(t *testing.T) {
	dbPath := seedDatabase(t)

	out, err := executeCommand("replay", "--db", dbPath, "--round", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "results match")

	_, err = executeCommand("replay", "--db", dbPath, "--round", "2")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dbPath := seedDatabase(t)
	outPath := filepath.Join(t.TempDir(), "round1.xlsx")

	out, err := executeCommand("export", "--db", dbPath, "--round", "1", "--out", outPath)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), outPath))

	_, err = os.Stat(outPath)
	require.NoError(t, err)
	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 4)
}

func TestReplayRequiresExistingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "typo.db")

	_, err := executeCommand("replay", "--db", dbPath, "--round", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr), "replay must not create the database file")

	_, err = executeCommand("export", "--db", dbPath, "--round", "1", "--out", filepath.Join(t.TempDir(), "x.xlsx"))
	require.Error(t, err)
}

func TestInitWritesLoadableConfigs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")

	out, err := executeCommand("init", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "config.toml")
	assert.Contains(t, out, "simulation.toml")

	app, info, err := config.LoadConfigFrom(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.True(t, filepath.IsAbs(app.Simulation.Path))

	sim, err := config.LoadSimulation(app.Simulation.Path)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSimulationConfig(), sim)

	// 已存在时需要 --force
	_, err = executeCommand("init", "--dir", dir)
	assert.Error(t, err)
	_, err = executeCommand("init", "--dir", dir, "--force")
	assert.NoError(t, err)
}
