// Package highs solves network models with HiGHS through the nextmv SDK.
// The provider is loaded as an SDK plugin at solve time; when it cannot be
// loaded Solve returns solver.ErrSolverUnavailable.
package highs

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/nextmv-io/sdk/mip"

	"github.com/vsinha/netplan/pkg/domain/model"
	"github.com/vsinha/netplan/pkg/domain/solver"
	"github.com/vsinha/netplan/pkg/infrastructure/logging"
)

// Name is the registry key of this provider
const Name = "highs"

// Solver implements solver.Solver on top of the nextmv mip package
type Solver struct {
	logger logging.Logger
}

var _ solver.Solver = (*Solver)(nil)

// New creates a HiGHS-backed solver
func New(logger logging.Logger) *Solver {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Solver{logger: logger}
}

func (s *Solver) Name() string { return Name }

// plugin-backed constructors; tests replace them
var (
	newModel    = func() mip.Model { return mip.NewModel() }
	newProvider = func(mm mip.Model) (mip.Solver, error) { return mip.NewSolver("highs", mm) }
)

// loading runs a call that may load the SDK plugin. The loader panics when
// the provider binary is missing; that panic and any returned error are
// reported as solver.ErrSolverUnavailable.
func loading(call func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: highs provider: %v", solver.ErrSolverUnavailable, r)
		}
	}()
	if err := call(); err != nil {
		return fmt.Errorf("%w: %v", solver.ErrSolverUnavailable, err)
	}
	return nil
}

func (s *Solver) Solve(ctx context.Context, m *model.Model, opts solver.Options) (*solver.Outcome, error) {
	if m == nil {
		return nil, fmt.Errorf("highs: model cannot be nil")
	}

	start := time.Now()

	var mm mip.Model
	if err := loading(func() error { mm = newModel(); return nil }); err != nil {
		return nil, err
	}
	vars := translate(m, mm)

	var highs mip.Solver
	if err := loading(func() (err error) { highs, err = newProvider(mm); return err }); err != nil {
		return nil, err
	}

	solveOptions := mip.NewSolveOptions()
	if opts.TimeLimit > 0 {
		if err := solveOptions.SetMaximumDuration(opts.TimeLimit); err != nil {
			return nil, fmt.Errorf("highs: time limit: %w", err)
		}
	}
	if err := solveOptions.SetMIPGapRelative(opts.RelativeGap); err != nil {
		return nil, fmt.Errorf("highs: relative gap: %w", err)
	}
	if opts.Verbose {
		solveOptions.SetVerbosity(mip.Low)
	} else {
		solveOptions.SetVerbosity(mip.Off)
	}

	s.logger.Debug(ctx, "invoking highs",
		logging.Int("variables", m.NumVariables()),
		logging.Int("constraints", m.NumConstraints()))

	solution, err := highs.Solve(solveOptions)
	if err != nil {
		return &solver.Outcome{
			Status:   solver.StatusError,
			Runtime:  time.Since(start),
			Provider: Name,
			Message:  err.Error(),
		}, nil
	}

	outcome := &solver.Outcome{
		Status:   statusOf(solution),
		Runtime:  time.Since(start),
		Provider: Name,
	}
	if solution != nil {
		outcome.Runtime = solution.RunTime()
	}
	outcome.Message = outcome.Status.String()

	if outcome.Status == solver.StatusOptimal {
		assignment := make(solver.Assignment, len(vars))
		for i, v := range vars {
			val := solution.Value(v)
			if m.Variable(model.VarID(i)).Kind == model.Binary {
				val = math.Round(val)
			}
			assignment[i] = math.Max(val, 0)
		}
		outcome.Assignment = assignment
		outcome.ObjectiveValue = solution.ObjectiveValue()
	}

	s.logger.Info(ctx, "highs finished",
		logging.String("status", outcome.Status.String()),
		logging.Duration("runtime", outcome.Runtime))
	return outcome, nil
}

// translate mirrors the model into mm; vars[i] is VarID i
func translate(m *model.Model, mm mip.Model) []mip.Var {

	vars := make([]mip.Var, m.NumVariables())
	for i, v := range m.Variables() {
		if v.Kind == model.Binary {
			vars[i] = mm.NewBool()
			continue
		}
		vars[i] = mm.NewFloat(v.Lower, v.Upper)
	}

	mm.Objective().SetMinimize()
	for _, term := range m.Objective() {
		if term.Coef != 0 {
			mm.Objective().NewTerm(term.Coef, vars[term.Var])
		}
	}

	for _, c := range m.Constraints() {
		constraint := mm.NewConstraint(senseOf(c.Sense), c.RHS)
		for _, term := range c.Terms {
			constraint.NewTerm(term.Coef, vars[term.Var])
		}
	}

	return vars
}

func senseOf(s model.Sense) mip.Sense {
	switch s {
	case model.LessOrEqual:
		return mip.LessThanOrEqual
	case model.GreaterOrEqual:
		return mip.GreaterThanOrEqual
	default:
		return mip.Equal
	}
}

// statusOf maps solution predicates to a terminal status. A time-out with
// values is still a time-out: no partial results leave the adapter.
func statusOf(solution mip.Solution) solver.Status {
	switch {
	case solution == nil:
		return solver.StatusError
	case solution.IsOptimal() && solution.HasValues():
		return solver.StatusOptimal
	case solution.IsInfeasible():
		return solver.StatusInfeasible
	case solution.IsUnbounded():
		return solver.StatusUnbounded
	case solution.IsTimeOut():
		return solver.StatusTimeLimit
	default:
		return solver.StatusError
	}
}
