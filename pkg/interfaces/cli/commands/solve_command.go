package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/vsinha/netplan/pkg/application/services/orchestration"
	"github.com/vsinha/netplan/pkg/domain/entities"
	"github.com/vsinha/netplan/pkg/domain/solver"
	"github.com/vsinha/netplan/pkg/infrastructure/config"
	"github.com/vsinha/netplan/pkg/infrastructure/events"
	"github.com/vsinha/netplan/pkg/infrastructure/logging"
	"github.com/vsinha/netplan/pkg/infrastructure/observability"
	"github.com/vsinha/netplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/netplan/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/netplan/pkg/infrastructure/solvers/bnb"
	"github.com/vsinha/netplan/pkg/infrastructure/solvers/highs"
	"github.com/vsinha/netplan/pkg/interfaces/cli/output"
)

// Config holds configuration for the solve command
type Config struct {
	DataDir    string
	ConfigFile string
	// Flags carries command-line overrides of the configuration, see
	// config.FlagKeys. May be nil.
	Flags   *pflag.FlagSet
	Verbose bool
	Help    bool
	Out     io.Writer // defaults to stdout

	// Registry resolves solver providers; defaults to NewSolverRegistry
	Registry *solver.Registry
	// Metrics receives run metrics instead of the default registry
	Metrics prometheus.Registerer
}

// SolveCommand loads a data directory, plans it and reports the result
type SolveCommand struct {
	config Config
	out    io.Writer
}

// NewSolveCommand creates a new solve command with the given configuration
func NewSolveCommand(config Config) *SolveCommand {
	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	return &SolveCommand{config: config, out: out}
}

// NewSolverRegistry returns a registry with every built-in provider
func NewSolverRegistry(logger logging.Logger) *solver.Registry {
	registry := solver.NewRegistry()
	_ = registry.Register(bnb.Name, func() solver.Solver { return bnb.New(bnb.WithLogger(logger)) })
	_ = registry.Register(highs.Name, func() solver.Solver { return highs.New(logger) })
	return registry
}

// Execute runs the solve command. A run that ends without an optimal plan
// still writes its report before the error is returned.
func (c *SolveCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	cfg, err := config.LoadWithFlags(c.config.ConfigFile, c.config.Flags)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if effective, err := cfg.YAML(); err == nil {
		logger.Debug(ctx, "effective configuration", logging.String("yaml", string(effective)))
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
	}, logger)
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, logger)

	collector, stopMetrics, err := c.metrics(cfg, logger)
	if err != nil {
		return err
	}
	if stopMetrics != nil {
		defer func() { _ = stopMetrics(context.Background()) }()
	}

	registry := c.config.Registry
	if registry == nil {
		registry = NewSolverRegistry(logger)
	}
	s, err := registry.New(cfg.Solver.Provider)
	if err != nil {
		return err
	}

	if c.config.Verbose {
		c.printHeader(cfg)
		fmt.Fprintln(c.out, "📂 Loading data from CSV files...")
	}

	data, err := csv.NewLoader().LoadDirectory(c.config.DataDir)
	if err != nil {
		return fmt.Errorf("error loading data: %w", err)
	}
	repo := memory.NewNetworkRepository()
	if err := repo.Load(data); err != nil {
		return fmt.Errorf("failed to load network data into repository: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Data loaded successfully:\n")
		counts := data.RowCounts()
		for _, table := range entities.AllTables {
			fmt.Fprintf(c.out, "  %s: %d rows\n", table.CSVFile(), counts[table])
		}
		fmt.Fprintln(c.out)
		fmt.Fprintf(c.out, "🔄 Building and solving with %s...\n", s.Name())
	}

	journal := events.NewInMemoryEventStore(logger)
	_ = journal.Subscribe(events.AllRunEvents, events.HandlerFunc(func(e events.Event) error {
		logger.Debug(ctx, "run event", logging.String("type", e.Type()), logging.Int("sequence", e.Sequence()))
		return nil
	}))

	orchestrator := orchestration.NewPlanningOrchestrator(s, cfg.SolverOptions(),
		orchestration.WithEventStore(journal),
		orchestration.WithMetrics(collector),
		orchestration.WithLogger(logger),
	)

	startTime := time.Now()
	result, runErr := orchestrator.RunFromRepository(ctx, repo)
	solveTime := time.Since(startTime)
	if result == nil {
		return fmt.Errorf("error running planner: %w", runErr)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Run %s completed in %v\n", result.RunID, solveTime.Round(time.Millisecond))
		fmt.Fprintln(c.out, result.GetSummary())
	}

	err = output.Generate(result.Analysis, output.Config{
		Format:    cfg.Output.Format,
		OutputDir: cfg.Output.Directory,
		Verbose:   c.config.Verbose,
		SolveTime: solveTime,
		DataDir:   c.config.DataDir,
		Out:       c.out,
	})
	if err != nil && runErr == nil {
		return fmt.Errorf("error generating output: %w", err)
	}
	if runErr != nil {
		return runErr
	}

	if c.config.Verbose {
		fmt.Fprintln(c.out, "🏁 Network planning complete!")
	}
	return nil
}

// metrics builds the run collector. With metrics enabled it registers on
// the configured registerer and serves it; otherwise it records into a
// private registry.
func (c *SolveCommand) metrics(cfg *config.Config, logger logging.Logger) (*observability.PlanningCollector, func(context.Context) error, error) {
	if !cfg.Metrics.Enabled {
		collector, err := observability.NewPlanningCollector(prometheus.NewRegistry())
		return collector, nil, err
	}
	collector, err := observability.NewPlanningCollector(c.config.Metrics)
	if err != nil {
		return nil, nil, err
	}
	return collector, collector.Serve(cfg.Metrics.Address, logger), nil
}

// validateInputs validates the command configuration
func (c *SolveCommand) validateInputs() error {
	if c.config.DataDir == "" {
		return errors.New("must specify a data directory with --data")
	}
	info, err := os.Stat(c.config.DataDir)
	if err != nil {
		return fmt.Errorf("data directory not found: %s", c.config.DataDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", c.config.DataDir)
	}
	return nil
}

// printHeader prints the command header information
func (c *SolveCommand) printHeader(cfg *config.Config) {
	fmt.Fprintf(c.out, "🚀 Network Planner CLI\n")
	fmt.Fprintf(c.out, "Data directory: %s\n", c.config.DataDir)
	fmt.Fprintf(c.out, "Solver: %s (time limit %s, gap %g)\n", cfg.Solver.Provider, cfg.Solver.TimeLimit, cfg.Solver.RelativeGap)
	fmt.Fprintf(c.out, "Output format: %s\n", cfg.Output.Format)
	if cfg.Output.Directory != "" {
		fmt.Fprintf(c.out, "Output directory: %s\n", cfg.Output.Directory)
	}
	fmt.Fprintln(c.out)
}

// showHelp displays the help message
func (c *SolveCommand) showHelp() {
	fmt.Fprintf(c.out, `Network Planner CLI - multi-period depot and warehouse location planning

USAGE:
    netplan solve --data <directory> [options]
    netplan generate --output <directory> [options]

SOLVE OPTIONS:
    --data <dir>            Directory containing the 13 input CSV tables
    --config <file>         YAML configuration file (optional)
    --solver <name>         Solver provider: bnb, highs (default: bnb)
    --time-limit <dur>      Wall-clock solve limit, e.g. 30s (default: 60s)
    --gap <ratio>           Relative optimality gap (default: 1e-6)
    --format <fmt>          Output format: text, json, csv, html (default: text)
    --output <dir>          Output directory for results (optional)
    --metrics               Serve Prometheus metrics while solving
    --metrics-addr <addr>   Metrics listen address (default: :9090)
    --trace                 Print OpenTelemetry spans to stderr
    --verbose               Enable verbose output
    --help                  Show this help message

Every option may also be set in the config file or as NETPLAN_<SECTION>_<KEY>
in the environment, e.g. NETPLAN_SOLVER_TIME_LIMIT=30s.

DATA DIRECTORY STRUCTURE:
    data/
    ├── demand_pct.csv                    product,client,month,demand
    ├── capacity_depots.csv               depot,capacity
    ├── capacity_warehouses.csv           warehouse,capacity
    ├── fixed_cost_depots.csv             depot,fixed_cost
    ├── fixed_cost_warehouses.csv         warehouse,fixed_cost
    ├── holding_costs.csv                 product,holding_depot,holding_warehouse
    ├── transport_factory_depot.csv       factory,depot,cost
    ├── transport_depot_warehouse.csv     depot,warehouse,cost
    ├── transport_warehouse_client.csv    warehouse,client,cost
    ├── safety_stock_depots.csv           product,safety_stock
    ├── safety_stock_warehouses.csv       product,safety_stock
    ├── initial_stock_depots.csv          product,initial_stock
    └── initial_stock_warehouses.csv      product,initial_stock

EXAMPLES:
    # Generate a small scenario and solve it
    netplan generate --output data/small --seed 42
    netplan solve --data data/small --verbose

    # Export CSV results with HiGHS and a 30 second limit
    netplan solve --data data/small --solver highs --time-limit 30s --format csv --output results/
`)
}
