package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/netplan/pkg/domain/solver"
)

// EnvPrefix prefixes every environment override, e.g. NETPLAN_SOLVER_PROVIDER
const EnvPrefix = "NETPLAN"

// Config is the runtime configuration of the planner.
type Config struct {
	Solver  SolverConfig  `mapstructure:"solver" yaml:"solver"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing" yaml:"tracing"`
}

type SolverConfig struct {
	// Provider is a solver registry key: bnb or highs
	Provider    string        `mapstructure:"provider" yaml:"provider"`
	TimeLimit   time.Duration `mapstructure:"time_limit" yaml:"time_limit"`
	RelativeGap float64       `mapstructure:"relative_gap" yaml:"relative_gap"`
	NodeLimit   int           `mapstructure:"node_limit" yaml:"node_limit"`
	Verbose     bool          `mapstructure:"verbose" yaml:"verbose"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type OutputConfig struct {
	// Format is text, json, csv or html
	Format    string `mapstructure:"format" yaml:"format"`
	Directory string `mapstructure:"directory" yaml:"directory"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Address string `mapstructure:"address" yaml:"address"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

var defaults = map[string]any{
	"solver.provider":      "bnb",
	"solver.time_limit":    "60s",
	"solver.relative_gap":  1e-6,
	"solver.node_limit":    0,
	"solver.verbose":       false,
	"logging.level":        "info",
	"logging.format":       "text",
	"output.format":        "text",
	"output.directory":     "",
	"metrics.enabled":      false,
	"metrics.address":      ":9090",
	"tracing.enabled":      false,
	"tracing.service_name": "netplan",
}

// FlagKeys maps command-line flag names to configuration keys. Flags that
// were set explicitly win over the environment and the file.
var FlagKeys = map[string]string{
	"solver":       "solver.provider",
	"time-limit":   "solver.time_limit",
	"gap":          "solver.relative_gap",
	"node-limit":   "solver.node_limit",
	"solver-log":   "solver.verbose",
	"log-level":    "logging.level",
	"log-format":   "logging.format",
	"format":       "output.format",
	"output":       "output.directory",
	"metrics":      "metrics.enabled",
	"metrics-addr": "metrics.address",
	"trace":        "tracing.enabled",
}

// Load reads configuration from an optional YAML file and NETPLAN_*
// environment variables on top of the defaults. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	return LoadWithFlags(path, nil)
}

// LoadWithFlags is Load with the flags of FlagKeys found in flags bound on
// top. A nil flag set binds nothing.
func LoadWithFlags(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("built-in defaults must decode: %v", err))
	}
	return cfg
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	if c.Solver.Provider == "" {
		return fmt.Errorf("solver.provider cannot be empty")
	}
	if c.Solver.TimeLimit < 0 {
		return fmt.Errorf("solver.time_limit must be >= 0, got %s", c.Solver.TimeLimit)
	}
	if c.Solver.RelativeGap < 0 || c.Solver.RelativeGap > 1 {
		return fmt.Errorf("solver.relative_gap must be between 0 and 1, got %g", c.Solver.RelativeGap)
	}
	if c.Solver.NodeLimit < 0 {
		return fmt.Errorf("solver.node_limit must be >= 0, got %d", c.Solver.NodeLimit)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	switch c.Output.Format {
	case "text", "json", "csv", "html":
	default:
		return fmt.Errorf("output.format must be one of text, json, csv, html, got %q", c.Output.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return fmt.Errorf("metrics.address is required when metrics are enabled")
	}
	if c.Tracing.Enabled && c.Tracing.ServiceName == "" {
		return fmt.Errorf("tracing.service_name is required when tracing is enabled")
	}
	return nil
}

// SolverOptions converts the solver section into solve options
func (c *Config) SolverOptions() solver.Options {
	return solver.Options{
		TimeLimit:   c.Solver.TimeLimit,
		RelativeGap: c.Solver.RelativeGap,
		NodeLimit:   c.Solver.NodeLimit,
		Verbose:     c.Solver.Verbose,
	}
}

// YAML renders the effective configuration
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return out, nil
}
