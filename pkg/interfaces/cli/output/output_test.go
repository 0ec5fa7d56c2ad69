package output

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/netplan/pkg/application/dto"
	"github.com/vsinha/netplan/pkg/application/services/analysis"
	"github.com/vsinha/netplan/pkg/domain/model"
	"github.com/vsinha/netplan/pkg/domain/solver"
	"github.com/vsinha/netplan/pkg/infrastructure/solvers/bnb"
	fixtures "github.com/vsinha/netplan/pkg/infrastructure/testing"
)

func solvedAnalysis(t *testing.T) *dto.Analysis {
	t.Helper()
	m, err := model.Build(fixtures.DominantDepotNetwork())
	require.NoError(t, err)
	outcome, err := bnb.New().Solve(context.Background(), m, solver.DefaultOptions())
	require.NoError(t, err)
	result := analysis.Analyze(m, outcome)
	require.True(t, result.Optimal)
	return result
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(solvedAnalysis(t), Config{Format: "text", Out: &buf}))

	text := buf.String()
	assert.Contains(t, text, "OPTIMIZATION RESULTS")
	assert.Contains(t, text, "OPTIMAL TOTAL COST: 300.00")
	assert.Contains(t, text, "Open depots (1/2): [D1]")
	assert.Contains(t, text, "Closed depots (1/2): [D2]")
	assert.Contains(t, text, "Total volume delivered to clients: 100 units")
}

func TestGenerate_TextNotOptimal(t *testing.T) {
	var buf bytes.Buffer
	result := &dto.Analysis{Status: "infeasible", Reason: "demand exceeds capacity"}
	require.NoError(t, Generate(result, Config{Out: &buf}))

	assert.Contains(t, buf.String(), "WARNING: no optimal solution (demand exceeds capacity)")
	assert.NotContains(t, buf.String(), "COST BREAKDOWN")
}

func TestGenerate_TextWritesAnalysisFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, Generate(solvedAnalysis(t), Config{OutputDir: dir, Out: &buf}))
	assert.FileExists(t, filepath.Join(dir, "analysis.json"))
}

func TestGenerate_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(solvedAnalysis(t), Config{Format: "json", Out: &buf}))

	var decoded dto.Analysis
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.True(t, decoded.Optimal)
	assert.InDelta(t, 300.0, decoded.TotalCost.InexactFloat64(), 1e-6)
	assert.Len(t, decoded.SiteStates, 3)
}

func TestGenerate_CSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Generate(solvedAnalysis(t), Config{Format: "csv", OutputDir: dir, Out: &bytes.Buffer{}}))

	for _, name := range CSVFiles {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	depots, err := os.ReadFile(filepath.Join(dir, "sites_depots.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(depots)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "depot,open_value,open", lines[0])
	assert.Equal(t, "D1,1,true", lines[1])
	assert.Equal(t, "D2,0,false", lines[2])
	assert.Equal(t, "warehouse,open_value,open", firstLine(t, filepath.Join(dir, "sites_warehouses.csv")))

	stock, err := os.ReadFile(filepath.Join(dir, "stock_by_period.csv"))
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(stock)), "\n")
	require.Len(t, lines, 3, "one period for the open depot and the open warehouse")
	assert.Equal(t, "echelon,site,product,month,stock", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Depot,D1,P1,1,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Warehouse,W1,P1,1,"), lines[2])
}

func firstLine(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	line, _, _ := strings.Cut(string(raw), "\n")
	return line
}

func TestGenerate_CSVErrors(t *testing.T) {
	err := Generate(solvedAnalysis(t), Config{Format: "csv"})
	assert.ErrorContains(t, err, "output directory required")

	err = Generate(&dto.Analysis{Status: "infeasible", Reason: "no route"}, Config{Format: "csv", OutputDir: t.TempDir()})
	assert.ErrorContains(t, err, "no route")
}

func TestGenerate_HTML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Generate(solvedAnalysis(t), Config{Format: "html", OutputDir: dir, DataDir: "data/small"}))

	html, err := os.ReadFile(filepath.Join(dir, "report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "300.00")
	assert.Contains(t, string(html), "data/small")
	assert.Contains(t, string(html), "window.netplanAnalysis")
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	assert.ErrorContains(t, Generate(&dto.Analysis{}, Config{Format: "xml"}), "unsupported output format: xml")
	assert.Error(t, Generate(nil, Config{}))
}

func TestGroup(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"1234567.89", "1,234,567.89"},
		{"-45000.50", "-45,000.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, group(tt.in), tt.in)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "< 1s", formatDuration(0))
	assert.Equal(t, "2.5s", formatDuration(2500*1e6))
	assert.Equal(t, "1.5m", formatDuration(90*1e9))
}
