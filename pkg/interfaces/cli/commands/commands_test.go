package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/netplan/pkg/application/dto"
	"github.com/vsinha/netplan/pkg/domain/model"
	"github.com/vsinha/netplan/pkg/domain/solver"
	"github.com/vsinha/netplan/pkg/infrastructure/repositories/csv"
	fixtures "github.com/vsinha/netplan/pkg/infrastructure/testing"
)

func smallScenario(seed int64, dir string) GenerateConfig {
	return GenerateConfig{
		Products: 1, Clients: 2, Periods: 2,
		Factories: 1, Depots: 2, Warehouses: 2,
		OutputDir: dir, Seed: seed, Out: &bytes.Buffer{},
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGenerateCommand_WritesLoadableScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewGenerateCommand(smallScenario(7, dir)).Execute(context.Background()))

	data, err := csv.NewLoader().LoadDirectory(dir)
	require.NoError(t, err)
	assert.Len(t, data.Demand, 4)
	assert.Len(t, data.FactoryDepotCosts, 2)
	assert.Len(t, data.WarehouseClientCosts, 4)

	m, err := model.Build(data)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumDepots())
}

func TestGenerateCommand_Reproducible(t *testing.T) {
	a := NewGenerateCommand(smallScenario(42, "")).Scenario()
	b := NewGenerateCommand(smallScenario(42, "")).Scenario()
	assert.Equal(t, a, b)

	for i, safety := range a.DepotSafetyStocks {
		assert.GreaterOrEqual(t, a.DepotInitialStocks[i].Quantity, safety.Quantity)
	}
	for i, safety := range a.WarehouseSafetyStocks {
		assert.GreaterOrEqual(t, a.WarehouseInitialStocks[i].Quantity, safety.Quantity)
	}
}

func TestGenerateCommand_Validation(t *testing.T) {
	cfg := smallScenario(1, t.TempDir())
	cfg.Warehouses = 0
	assert.ErrorContains(t, NewGenerateCommand(cfg).Execute(context.Background()), "--warehouses must be at least 1")

	cfg = smallScenario(1, "")
	assert.ErrorContains(t, NewGenerateCommand(cfg).Execute(context.Background()), "--output is required")
}

func TestSolveCommand_GeneratedScenario(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, NewGenerateCommand(smallScenario(3, dataDir)).Execute(context.Background()))

	var out bytes.Buffer
	cmd := NewSolveCommand(Config{
		DataDir:    dataDir,
		ConfigFile: writeConfig(t, "output:\n  format: json\n  directory: "+outDir+"\nlogging:\n  level: error\n"),
		Verbose:    true,
		Out:        &out,
	})
	require.NoError(t, cmd.Execute(context.Background()))

	assert.Contains(t, out.String(), "Network planning complete")

	raw, err := os.ReadFile(filepath.Join(outDir, "analysis.json"))
	require.NoError(t, err)
	var analysis dto.Analysis
	require.NoError(t, json.Unmarshal(raw, &analysis))
	assert.True(t, analysis.Optimal)
	assert.Equal(t, "bnb", analysis.Provider)
	assert.NotEmpty(t, analysis.RunID)
	assert.NotEmpty(t, analysis.OpenWarehouses)
}

func TestSolveCommand_InfeasibleStillReports(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, csv.NewWriter().WriteDirectory(dataDir, fixtures.OverCapacityNetwork()))

	var out bytes.Buffer
	err := NewSolveCommand(Config{
		DataDir:    dataDir,
		ConfigFile: writeConfig(t, "logging:\n  level: error\n"),
		Out:        &out,
	}).Execute(context.Background())

	require.ErrorIs(t, err, solver.ErrInfeasible)
	assert.Contains(t, out.String(), "WARNING: no optimal solution")
}

func TestSolveCommand_FlagOverrides(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, csv.NewWriter().WriteDirectory(dataDir, fixtures.SingleLaneNetwork()))

	flags := pflag.NewFlagSet("solve", pflag.ContinueOnError)
	flags.String("solver", "bnb", "")
	require.NoError(t, flags.Parse([]string{"--solver=cplex"}))

	err := NewSolveCommand(Config{DataDir: dataDir, Flags: flags, Out: &bytes.Buffer{}}).Execute(context.Background())
	assert.ErrorIs(t, err, solver.ErrSolverUnavailable)
}

func TestSolveCommand_Validation(t *testing.T) {
	err := NewSolveCommand(Config{Out: &bytes.Buffer{}}).Execute(context.Background())
	assert.ErrorContains(t, err, "must specify a data directory")

	err = NewSolveCommand(Config{DataDir: filepath.Join(t.TempDir(), "missing"), Out: &bytes.Buffer{}}).Execute(context.Background())
	assert.ErrorContains(t, err, "data directory not found")

	dataDir := t.TempDir()
	require.NoError(t, csv.NewWriter().WriteDirectory(dataDir, fixtures.SingleLaneNetwork()))
	require.NoError(t, os.Remove(filepath.Join(dataDir, "holding_costs.csv")))
	err = NewSolveCommand(Config{DataDir: dataDir, Out: &bytes.Buffer{}}).Execute(context.Background())
	assert.ErrorContains(t, err, "holding_costs.csv not found")
}

func TestSolveCommand_Help(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewSolveCommand(Config{Help: true, Out: &out}).Execute(context.Background()))
	assert.Contains(t, out.String(), "demand_pct.csv")
}
