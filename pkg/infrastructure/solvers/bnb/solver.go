// Package bnb is an in-process MILP solver: depth-first branch and bound over
// the binary variables. Relaxations run on a bounded-variable tableau simplex
// over gonum matrices; branching only tightens column bounds.
// It is sized for small and medium networks; larger instances belong on the
// highs provider.
package bnb

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vsinha/netplan/pkg/domain/model"
	"github.com/vsinha/netplan/pkg/domain/solver"
	"github.com/vsinha/netplan/pkg/infrastructure/logging"
)

// Name is the registry key of this provider
const Name = "bnb"

const (
	integralityTolerance = 1e-6
	pruneTolerance       = 1e-9
)

// Solver implements solver.Solver
type Solver struct {
	logger logging.Logger
}

var _ solver.Solver = (*Solver)(nil)

// Option configures a Solver
type Option func(*Solver)

// WithLogger sets the logger used for search progress
func WithLogger(l logging.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a branch-and-bound solver
func New(opts ...Option) *Solver {
	s := &Solver{logger: logging.Noop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solver) Name() string { return Name }

// Solve runs branch and bound to proven optimality within the relative gap.
// Hitting the time or node limit yields StatusTimeLimit with no assignment,
// even when an incumbent exists. The deadline is checked on every simplex
// pivot, so Solve returns shortly after opts.TimeLimit.
func (s *Solver) Solve(ctx context.Context, m *model.Model, opts solver.Options) (*solver.Outcome, error) {
	if m == nil {
		return nil, fmt.Errorf("bnb: model cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TimeLimit)
		defer cancel()
	}

	start := time.Now()
	sf := newStandardForm(m)
	s.logger.Debug(ctx, "standard form built",
		logging.Int("rows", len(sf.rows)),
		logging.Int("columns", sf.nCols()),
		logging.Int("binaries", len(sf.integer)))

	res := s.search(ctx, sf, opts)

	outcome := &solver.Outcome{
		Status:   res.status,
		Runtime:  time.Since(start),
		Provider: Name,
		Message:  res.message,
	}
	if res.status == solver.StatusOptimal {
		outcome.Assignment = snap(m, res.x)
		outcome.ObjectiveValue = m.EvaluateObjective(outcome.Assignment)
	}

	s.logger.Info(ctx, "branch and bound finished",
		logging.String("status", res.status.String()),
		logging.Int("nodes", res.nodes),
		logging.Int("skipped", res.skipped),
		logging.Duration("runtime", outcome.Runtime))
	return outcome, nil
}

type searchResult struct {
	status  solver.Status
	x       []float64
	nodes   int
	skipped int
	message string
}

type node struct {
	fixes []fix
}

func (n node) with(col int, val float64) node {
	fixes := make([]fix, len(n.fixes), len(n.fixes)+1)
	copy(fixes, n.fixes)
	return node{fixes: append(fixes, fix{col: col, val: val})}
}

func (s *Solver) search(ctx context.Context, sf *standardForm, opts solver.Options) searchResult {
	var (
		incumbent []float64
		best      = math.Inf(1)
		nodes     int
		skipped   int
	)

	stopped := func(err error) searchResult {
		if errors.Is(err, context.DeadlineExceeded) {
			return searchResult{status: solver.StatusTimeLimit, nodes: nodes, skipped: skipped, message: "time limit reached"}
		}
		return searchResult{status: solver.StatusError, nodes: nodes, skipped: skipped, message: err.Error()}
	}

	stack := []node{{}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return stopped(err)
		}
		if opts.NodeLimit > 0 && nodes >= opts.NodeLimit {
			return searchResult{status: solver.StatusTimeLimit, nodes: nodes, skipped: skipped, message: fmt.Sprintf("node limit %d reached", opts.NodeLimit)}
		}

		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++
		root := len(n.fixes) == 0

		z, x, err := sf.relax(ctx, n.fixes)
		switch {
		case ctx.Err() != nil:
			return stopped(ctx.Err())
		case errors.Is(err, errInfeasible):
			if root {
				return searchResult{status: solver.StatusInfeasible, nodes: nodes, message: "LP relaxation is infeasible"}
			}
			continue
		case errors.Is(err, errUnbounded):
			return searchResult{status: solver.StatusUnbounded, nodes: nodes, message: "LP relaxation is unbounded"}
		case err != nil && root:
			return searchResult{status: solver.StatusError, nodes: nodes, message: fmt.Sprintf("root relaxation: %v", err)}
		case err != nil:
			// a child that cannot be solved is dropped; the rest of the tree
			// still decides the outcome
			skipped++
			s.logger.Warn(ctx, "skipping node", logging.Int("node", nodes), logging.Int("depth", len(n.fixes)), logging.Err(err))
			continue
		}

		if incumbent != nil && z >= best-(pruneTolerance+opts.RelativeGap*math.Abs(best)) {
			continue
		}

		j := sf.mostFractional(x, integralityTolerance)
		if j < 0 {
			incumbent, best = x, z
			if opts.Verbose {
				s.logger.Info(ctx, "new incumbent", logging.Float("objective", z), logging.Int("node", nodes))
			}
			continue
		}

		// depth first, nearer rounding explored first
		down, up := n.with(j, 0), n.with(j, 1)
		if x[j] >= 0.5 {
			stack = append(stack, down, up)
		} else {
			stack = append(stack, up, down)
		}
	}

	if incumbent == nil {
		msg := "no integer-feasible solution"
		if skipped > 0 {
			msg = fmt.Sprintf("%s (%d nodes skipped)", msg, skipped)
		}
		return searchResult{status: solver.StatusInfeasible, nodes: nodes, skipped: skipped, message: msg}
	}
	msg := fmt.Sprintf("optimal after %d nodes", nodes)
	if skipped > 0 {
		msg = fmt.Sprintf("%s, %d skipped", msg, skipped)
	}
	return searchResult{
		status:  solver.StatusOptimal,
		x:       incumbent,
		nodes:   nodes,
		skipped: skipped,
		message: msg,
	}
}

// snap rounds binaries to exactly 0 or 1 and clears simplex round-off below
// zero
func snap(m *model.Model, x []float64) solver.Assignment {
	out := make(solver.Assignment, len(x))
	for i, v := range m.Variables() {
		val := x[i]
		if v.Kind == model.Binary {
			val = math.Round(val)
		}
		if val <= 0 {
			val = 0
		}
		out[i] = val
	}
	return out
}
