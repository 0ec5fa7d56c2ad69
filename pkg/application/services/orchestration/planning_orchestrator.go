package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vsinha/netplan/pkg/application/dto"
	"github.com/vsinha/netplan/pkg/application/services/analysis"
	"github.com/vsinha/netplan/pkg/domain/entities"
	"github.com/vsinha/netplan/pkg/domain/model"
	"github.com/vsinha/netplan/pkg/domain/repositories"
	"github.com/vsinha/netplan/pkg/domain/services"
	"github.com/vsinha/netplan/pkg/domain/solver"
	"github.com/vsinha/netplan/pkg/infrastructure/events"
	"github.com/vsinha/netplan/pkg/infrastructure/logging"
	"github.com/vsinha/netplan/pkg/infrastructure/observability"
)

// Pipeline stages, also used as metric and span labels
const (
	StageBuild   = "build"
	StageSolve   = "solve"
	StageVerify  = "verify"
	StageAnalyze = "analyze"
)

// ErrVerificationFailed is returned alongside a RunResult when an optimal
// assignment breaks a constraint of the model it was solved against
var ErrVerificationFailed = errors.New("solution failed verification")

// PlanningOrchestrator runs one planning pipeline per call: build the model
// from a data snapshot, solve it, verify the assignment and analyze it.
type PlanningOrchestrator struct {
	solver    solver.Solver
	options   solver.Options
	tolerance float64

	eventStore events.EventStore
	metrics    *observability.PlanningCollector
	logger     logging.Logger
}

// Option configures a PlanningOrchestrator
type Option func(*PlanningOrchestrator)

func WithEventStore(store events.EventStore) Option {
	return func(o *PlanningOrchestrator) { o.eventStore = store }
}

func WithMetrics(c *observability.PlanningCollector) Option {
	return func(o *PlanningOrchestrator) { o.metrics = c }
}

func WithLogger(l logging.Logger) Option {
	return func(o *PlanningOrchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTolerance sets the feasibility tolerance of solution verification
func WithTolerance(tol float64) Option {
	return func(o *PlanningOrchestrator) { o.tolerance = tol }
}

// NewPlanningOrchestrator creates a new planning orchestrator
func NewPlanningOrchestrator(s solver.Solver, opts solver.Options, options ...Option) *PlanningOrchestrator {
	o := &PlanningOrchestrator{
		solver:    s,
		options:   opts,
		tolerance: services.DefaultTolerance,
		logger:    logging.Noop(),
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// RunResult contains everything one planning run produced
type RunResult struct {
	RunID          string
	StartedAt      time.Time
	Model          *model.Model
	Stats          model.Stats
	Outcome        *solver.Outcome
	Validation     *services.ValidationResult
	Analysis       *dto.Analysis
	StageDurations map[string]time.Duration
}

// RunFromRepository plans against a snapshot of repo
func (po *PlanningOrchestrator) RunFromRepository(ctx context.Context, repo repositories.NetworkRepository) (*RunResult, error) {
	data, err := repo.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot network data: %w", err)
	}
	return po.Run(ctx, data)
}

// Run executes the pipeline once. Builder errors and solver invocation
// errors are returned unchanged with a nil result. A solve that ends without
// an optimal solution returns the result, whose Analysis carries the status
// and reason, together with the outcome's sentinel error.
func (po *PlanningOrchestrator) Run(ctx context.Context, data *entities.NetworkData) (*RunResult, error) {
	if po.solver == nil {
		return nil, fmt.Errorf("%w: no solver configured", solver.ErrSolverUnavailable)
	}

	ctx, runID := logging.EnsureRunID(ctx)
	ctx, span := observability.Tracer().Start(ctx, "netplan.run")
	defer span.End()
	span.SetAttributes(attribute.String("run.id", runID), attribute.String("solver.provider", po.solver.Name()))

	result := &RunResult{
		RunID:          runID,
		StartedAt:      time.Now(),
		StageDurations: make(map[string]time.Duration, 4),
	}

	started := events.RunStarted{Provider: po.solver.Name()}
	if data != nil {
		started.RowCounts = make(map[string]int, len(entities.AllTables))
		for table, n := range data.RowCounts() {
			started.RowCounts[string(table)] = n
		}
	}
	po.emit(ctx, runID, events.RunStartedEvent, started)
	po.logger.Info(ctx, "planning run started", logging.String("solver", po.solver.Name()))

	// build
	snapshot := data.Clone()
	err := po.stage(ctx, result, StageBuild, func(ctx context.Context) error {
		m, err := model.Build(snapshot)
		if err != nil {
			return err
		}
		result.Model = m
		result.Stats = m.Stats()
		return nil
	})
	if err != nil {
		return nil, po.fail(ctx, span, runID, StageBuild, "invalid_input", err)
	}
	po.metrics.SetModelSize(result.Stats.Variables, result.Stats.Constraints)
	po.emit(ctx, runID, events.ModelBuiltEvent, events.ModelBuilt{Stats: result.Stats, Duration: result.StageDurations[StageBuild]})
	po.logger.Info(ctx, "model built",
		logging.Int("variables", result.Stats.Variables),
		logging.Int("binaries", result.Stats.BinaryVariables),
		logging.Int("constraints", result.Stats.Constraints))

	// solve
	err = po.stage(ctx, result, StageSolve, func(ctx context.Context) error {
		outcome, err := po.solver.Solve(ctx, result.Model, po.options)
		if err != nil {
			return err
		}
		if outcome == nil {
			return fmt.Errorf("%w: %s returned no outcome", solver.ErrSolverFailed, po.solver.Name())
		}
		result.Outcome = outcome
		return nil
	})
	if err != nil {
		status := solver.StatusError.String()
		if errors.Is(err, solver.ErrSolverUnavailable) {
			status = "unavailable"
		}
		return nil, po.fail(ctx, span, runID, StageSolve, status, err)
	}
	outcome := result.Outcome
	span.SetAttributes(attribute.String("solver.status", outcome.Status.String()))

	// verify
	var verifyErr error
	if outcome.Optimal() {
		_ = po.stage(ctx, result, StageVerify, func(ctx context.Context) error {
			result.Validation = services.VerifySolution(result.Model, outcome.Assignment, po.tolerance)
			for _, w := range result.Validation.Warnings {
				po.logger.Warn(ctx, w)
			}
			if !result.Validation.IsValid() {
				verifyErr = fmt.Errorf("%w: %d violations, first: %s",
					ErrVerificationFailed, len(result.Validation.Errors), result.Validation.Errors[0])
				return verifyErr
			}
			return nil
		})
	}

	violations := 0
	if result.Validation != nil {
		violations = len(result.Validation.Errors)
	}
	po.emit(ctx, runID, events.SolveCompletedEvent, events.SolveCompleted{
		Provider:       outcome.Provider,
		Status:         outcome.Status.String(),
		ObjectiveValue: outcome.ObjectiveValue,
		Runtime:        outcome.Runtime,
		Violations:     violations,
	})

	// analyze
	_ = po.stage(ctx, result, StageAnalyze, func(ctx context.Context) error {
		result.Analysis = analysis.Analyze(result.Model, outcome)
		result.Analysis.RunID = runID
		return nil
	})

	if err := outcome.Err(); err != nil {
		return result, po.fail(ctx, span, runID, StageSolve, outcome.Status.String(), err)
	}
	if verifyErr != nil {
		return result, po.fail(ctx, span, runID, StageVerify, "invalid_solution", verifyErr)
	}

	po.metrics.RecordRun(outcome.Status.String())
	po.metrics.SetTotalCost(result.Analysis.TotalCost.InexactFloat64())
	po.emit(ctx, runID, events.AnalysisCompletedEvent, events.AnalysisCompleted{
		Optimal:        result.Analysis.Optimal,
		TotalCost:      result.Analysis.TotalCost,
		OpenDepots:     len(result.Analysis.OpenDepots),
		OpenWarehouses: len(result.Analysis.OpenWarehouses),
	})
	po.logger.Info(ctx, "planning run finished",
		logging.String("total_cost", result.Analysis.TotalCost.StringFixed(2)),
		logging.Duration("solve_time", outcome.Runtime))
	return result, nil
}

// stage runs fn inside a span and records its duration
func (po *PlanningOrchestrator) stage(ctx context.Context, result *RunResult, name string, fn func(context.Context) error) error {
	ctx, span := observability.Tracer().Start(ctx, "netplan."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	result.StageDurations[name] = elapsed
	po.metrics.ObserveStage(name, elapsed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// fail records a terminal failure and returns err unchanged
func (po *PlanningOrchestrator) fail(ctx context.Context, span trace.Span, runID, stage, status string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	po.metrics.RecordRun(status)
	po.emit(ctx, runID, events.RunFailedEvent, events.RunFailed{Stage: stage, Error: err.Error()})
	po.logger.Error(ctx, "planning run failed", logging.String("stage", stage), logging.Err(err))
	return err
}

func (po *PlanningOrchestrator) emit(ctx context.Context, runID, eventType string, data any) {
	if po.eventStore == nil {
		return
	}
	if err := po.eventStore.AppendEvent(runID, events.NewEvent(eventType, runID, data)); err != nil {
		po.logger.Warn(ctx, "failed to append event", logging.String("event_type", eventType), logging.Err(err))
	}
}

// GetSummary returns a one-paragraph summary of the run
func (r *RunResult) GetSummary() string {
	summary := fmt.Sprintf("Planning Summary (run %s):\n", r.RunID)
	summary += fmt.Sprintf("  Model: %d variables (%d binary), %d constraints\n",
		r.Stats.Variables, r.Stats.BinaryVariables, r.Stats.Constraints)
	if r.Outcome != nil {
		summary += fmt.Sprintf("  Solver: %s, status %s in %s\n", r.Outcome.Provider, r.Outcome.Status, r.Outcome.Runtime.Round(time.Millisecond))
	}
	if r.Analysis != nil && r.Analysis.Optimal {
		summary += fmt.Sprintf("  Total cost: %s (%d depots, %d warehouses open)",
			r.Analysis.TotalCost.StringFixed(2), len(r.Analysis.OpenDepots), len(r.Analysis.OpenWarehouses))
	} else if r.Analysis != nil {
		summary += fmt.Sprintf("  No plan: %s", r.Analysis.Reason)
	}
	return summary
}
