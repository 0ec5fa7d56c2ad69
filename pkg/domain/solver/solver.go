package solver

import (
	"context"
	"errors"
	"time"

	"github.com/vsinha/netplan/pkg/domain/model"
)

// Solver solves a built model. Implementations must return a non-nil Outcome
// whenever the backend ran, whatever its termination status, and reserve the
// error return for failures to invoke the backend at all.
type Solver interface {
	Name() string
	Solve(ctx context.Context, m *model.Model, opts Options) (*Outcome, error)
}

var (
	ErrInfeasible        = errors.New("model is infeasible")
	ErrUnbounded         = errors.New("model is unbounded")
	ErrTimeLimit         = errors.New("solver stopped at the time limit before proving optimality")
	ErrSolverFailed      = errors.New("solver failed")
	ErrSolverUnavailable = errors.New("solver unavailable")
	ErrNoSolution        = errors.New("no optimal solution available")
)

// Status is the solver termination status
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusTimeLimit
	StatusError
)

// String method for Status enum
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusTimeLimit:
		return "timeLimit"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Options tune a single solve. Zero values mean no limit.
type Options struct {
	TimeLimit   time.Duration
	RelativeGap float64
	NodeLimit   int
	Verbose     bool
}

// DefaultOptions returns the options used when the caller sets nothing
func DefaultOptions() Options {
	return Options{
		TimeLimit:   time.Minute,
		RelativeGap: 1e-6,
	}
}

// Assignment holds one value per model variable, indexed by VarID
type Assignment []float64

// Value returns the value of v
func (a Assignment) Value(v model.VarID) float64 {
	return a[v]
}

// Outcome is the terminal result of a solve
type Outcome struct {
	Status         Status
	ObjectiveValue float64
	Assignment     Assignment // nil unless Status is StatusOptimal
	Runtime        time.Duration
	Provider       string
	Message        string
}

// Optimal reports whether the outcome carries an optimal assignment
func (o *Outcome) Optimal() bool {
	return o != nil && o.Status == StatusOptimal && o.Assignment != nil
}

// Value returns the value of v, or ErrNoSolution when the solve did not
// reach optimality
func (o *Outcome) Value(v model.VarID) (float64, error) {
	if !o.Optimal() {
		return 0, ErrNoSolution
	}
	if int(v) < 0 || int(v) >= len(o.Assignment) {
		return 0, ErrNoSolution
	}
	return o.Assignment[v], nil
}

// Err maps a terminal status to its sentinel error; nil when optimal
func (o *Outcome) Err() error {
	if o == nil {
		return ErrNoSolution
	}
	switch o.Status {
	case StatusOptimal:
		return nil
	case StatusInfeasible:
		return ErrInfeasible
	case StatusUnbounded:
		return ErrUnbounded
	case StatusTimeLimit:
		return ErrTimeLimit
	default:
		return ErrSolverFailed
	}
}
