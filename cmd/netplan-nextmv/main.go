// Package main runs the planner as a nextmv application: the network tables
// are read as one JSON document and the analysis is written as JSON.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/nextmv-io/sdk/run"

	"github.com/vsinha/netplan/pkg/application/dto"
	"github.com/vsinha/netplan/pkg/application/services/orchestration"
	"github.com/vsinha/netplan/pkg/domain/entities"
	"github.com/vsinha/netplan/pkg/domain/solver"
	"github.com/vsinha/netplan/pkg/infrastructure/logging"
	"github.com/vsinha/netplan/pkg/interfaces/cli/commands"
)

func main() {
	err := run.CLI(plan).Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}
}

// Option configures a run. A duration limit of 0 is treated as infinity;
// cloud runs need an explicit limit, hence the default.
type Option struct {
	Limits struct {
		Duration time.Duration `json:"duration" default:"10s"`
	} `json:"limits"`
	Solver struct {
		Provider string  `json:"provider" default:"highs"`
		Gap      float64 `json:"gap" default:"0.000001"`
	} `json:"solver"`
}

func plan(input entities.NetworkData, opts Option) ([]dto.Analysis, error) {
	logger := logging.NewFromEnv()

	s, err := commands.NewSolverRegistry(logger).New(opts.Solver.Provider)
	if err != nil {
		return nil, err
	}

	options := solver.DefaultOptions()
	options.TimeLimit = opts.Limits.Duration
	options.RelativeGap = opts.Solver.Gap

	orchestrator := orchestration.NewPlanningOrchestrator(s, options, orchestration.WithLogger(logger))
	result, err := orchestrator.Run(context.Background(), &input)
	if result == nil {
		return nil, err
	}
	// runs without a plan are reported in the output, other failures are not
	if err != nil && !errors.Is(err, solver.ErrInfeasible) &&
		!errors.Is(err, solver.ErrUnbounded) && !errors.Is(err, solver.ErrTimeLimit) {
		return nil, err
	}
	return []dto.Analysis{*result.Analysis}, nil
}
