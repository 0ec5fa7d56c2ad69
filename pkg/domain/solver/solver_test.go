package solver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/netplan/pkg/domain/model"
)

func TestOutcome_Err(t *testing.T) {
	tests := []struct {
		status Status
		want   error
	}{
		{StatusOptimal, nil},
		{StatusInfeasible, ErrInfeasible},
		{StatusUnbounded, ErrUnbounded},
		{StatusTimeLimit, ErrTimeLimit},
		{StatusError, ErrSolverFailed},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			o := &Outcome{Status: tt.status}
			if tt.want == nil {
				assert.NoError(t, o.Err())
				return
			}
			assert.True(t, errors.Is(o.Err(), tt.want))
		})
	}

	var nilOutcome *Outcome
	assert.ErrorIs(t, nilOutcome.Err(), ErrNoSolution)
}

func TestOutcome_ValueRequiresOptimal(t *testing.T) {
	o := &Outcome{Status: StatusTimeLimit, Assignment: Assignment{1, 2}}
	_, err := o.Value(0)
	assert.ErrorIs(t, err, ErrNoSolution)
	assert.False(t, o.Optimal())

	o = &Outcome{Status: StatusOptimal, Assignment: Assignment{1, 2}}
	v, err := o.Value(model.VarID(1))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	_, err = o.Value(model.VarID(5))
	assert.ErrorIs(t, err, ErrNoSolution)
}

type stubSolver struct{ name string }

func (s stubSolver) Name() string { return s.name }

func (s stubSolver) Solve(ctx context.Context, m *model.Model, opts Options) (*Outcome, error) {
	return &Outcome{Status: StatusError, Provider: s.name}, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("b", func() Solver { return stubSolver{"b"} }))
	require.NoError(t, r.Register("a", func() Solver { return stubSolver{"a"} }))

	assert.Error(t, r.Register("a", func() Solver { return stubSolver{"a"} }))
	assert.Error(t, r.Register("", func() Solver { return stubSolver{} }))
	assert.Error(t, r.Register("c", nil))

	assert.Equal(t, []string{"a", "b"}, r.Names())

	s, err := r.New("b")
	require.NoError(t, err)
	assert.Equal(t, "b", s.Name())

	_, err = r.New("gurobi")
	assert.ErrorIs(t, err, ErrSolverUnavailable)
}
