package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/vsinha/netplan/pkg/interfaces/cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	subcommand := "solve"
	if len(args) > 0 && (args[0] == "solve" || args[0] == "generate") {
		subcommand, args = args[0], args[1:]
	}

	var err error
	switch subcommand {
	case "generate":
		err = runGenerate(ctx, args)
	default:
		err = runSolve(ctx, args)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSolve(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("solve", pflag.ContinueOnError)
	var (
		dataDir    = flags.String("data", "", "Directory containing the input CSV tables")
		configFile = flags.String("config", "", "YAML configuration file (optional)")
		verbose    = flags.Bool("verbose", false, "Enable verbose output")
		help       = flags.Bool("help", false, "Show help message")
	)
	// bound onto the configuration by config.FlagKeys
	flags.String("solver", "bnb", "Solver provider: bnb, highs")
	flags.Duration("time-limit", time.Minute, "Wall-clock solve limit")
	flags.Float64("gap", 1e-6, "Relative optimality gap")
	flags.Int("node-limit", 0, "Branch-and-bound node limit, 0 for none")
	flags.Bool("solver-log", false, "Print solver progress")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text, json")
	flags.String("format", "text", "Output format: text, json, csv, html")
	flags.String("output", "", "Output directory for results (optional)")
	flags.Bool("metrics", false, "Serve Prometheus metrics while solving")
	flags.String("metrics-addr", ":9090", "Metrics listen address")
	flags.Bool("trace", false, "Print OpenTelemetry spans to stderr")

	if err := flags.Parse(args); err != nil {
		return err
	}

	cmd := commands.NewSolveCommand(commands.Config{
		DataDir:    *dataDir,
		ConfigFile: *configFile,
		Flags:      flags,
		Verbose:    *verbose,
		Help:       *help,
	})
	return cmd.Execute(ctx)
}

func runGenerate(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	var (
		products   = flags.Int("products", 3, "Number of products")
		clients    = flags.Int("clients", 10, "Number of clients")
		periods    = flags.Int("periods", 12, "Number of monthly periods")
		factories  = flags.Int("factories", 2, "Number of factories")
		depots     = flags.Int("depots", 3, "Number of candidate depots")
		warehouses = flags.Int("warehouses", 5, "Number of candidate warehouses")
		outputDir  = flags.String("output", "", "Output directory for generated files")
		seed       = flags.Int64("seed", 0, "Random seed for reproducible generation")
		verbose    = flags.Bool("verbose", false, "Enable verbose output")
		help       = flags.Bool("help", false, "Show help message")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	cmd := commands.NewGenerateCommand(commands.GenerateConfig{
		Products:   *products,
		Clients:    *clients,
		Periods:    *periods,
		Factories:  *factories,
		Depots:     *depots,
		Warehouses: *warehouses,
		OutputDir:  *outputDir,
		Seed:       *seed,
		Verbose:    *verbose,
		Help:       *help,
	})
	return cmd.Execute(ctx)
}
