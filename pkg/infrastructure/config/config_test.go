package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "bnb", cfg.Solver.Provider)
	assert.Equal(t, time.Minute, cfg.Solver.TimeLimit)
	assert.Equal(t, 1e-6, cfg.Solver.RelativeGap)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, ":9090", cfg.Metrics.Address)
	assert.False(t, cfg.Tracing.Enabled)

	opts := cfg.SolverOptions()
	assert.Equal(t, time.Minute, opts.TimeLimit)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netplan.yaml")
	content := `
solver:
  provider: highs
  time_limit: 5s
  node_limit: 100
output:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("NETPLAN_SOLVER_RELATIVE_GAP", "0.01")
	t.Setenv("NETPLAN_OUTPUT_FORMAT", "csv")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "highs", cfg.Solver.Provider)
	assert.Equal(t, 5*time.Second, cfg.Solver.TimeLimit)
	assert.Equal(t, 100, cfg.Solver.NodeLimit)
	assert.Equal(t, 0.01, cfg.Solver.RelativeGap)
	assert.Equal(t, "csv", cfg.Output.Format, "environment wins over the file")
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver:\n  provider: highs\n  time_limit: 5s\n"), 0644))

	flags := pflag.NewFlagSet("solve", pflag.ContinueOnError)
	flags.String("solver", "bnb", "")
	flags.Duration("time-limit", time.Minute, "")
	flags.String("format", "text", "")
	flags.String("unrelated", "", "")
	require.NoError(t, flags.Parse([]string{"--time-limit=2s", "--format=json"}))

	cfg, err := LoadWithFlags(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "highs", cfg.Solver.Provider, "unset flags do not override the file")
	assert.Equal(t, 2*time.Second, cfg.Solver.TimeLimit)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty provider", func(c *Config) { c.Solver.Provider = "" }, "solver.provider cannot be empty"},
		{"negative time limit", func(c *Config) { c.Solver.TimeLimit = -time.Second }, "solver.time_limit must be >= 0, got -1s"},
		{"gap above one", func(c *Config) { c.Solver.RelativeGap = 2 }, "solver.relative_gap must be between 0 and 1, got 2"},
		{"negative node limit", func(c *Config) { c.Solver.NodeLimit = -1 }, "solver.node_limit must be >= 0, got -1"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, `logging.level must be one of debug, info, warn, error, got "trace"`},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, `logging.format must be text or json, got "xml"`},
		{"bad output", func(c *Config) { c.Output.Format = "pdf" }, `output.format must be one of text, json, csv, html, got "pdf"`},
		{"metrics without address", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Address = ""
		}, "metrics.address is required when metrics are enabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestYAML(t *testing.T) {
	out, err := Default().YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "provider: bnb")
	assert.Contains(t, string(out), "time_limit: 1m0s")
}
