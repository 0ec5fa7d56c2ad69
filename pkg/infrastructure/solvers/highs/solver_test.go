package highs

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/nextmv-io/sdk/mip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/netplan/pkg/domain/model"
	"github.com/vsinha/netplan/pkg/domain/solver"
	fixtures "github.com/vsinha/netplan/pkg/infrastructure/testing"
)

// The HiGHS plugin is not available in most build environments
func requireProvider(t *testing.T) {
	t.Helper()
	if os.Getenv("NETPLAN_HIGHS_TESTS") == "" {
		t.Skip("set NETPLAN_HIGHS_TESTS=1 to run against the highs plugin")
	}
}

func TestSenseMapping(t *testing.T) {
	assert.Equal(t, Name, New(nil).Name())
	assert.NotEqual(t, senseOf(model.LessOrEqual), senseOf(model.GreaterOrEqual))
	assert.NotEqual(t, senseOf(model.Equal), senseOf(model.LessOrEqual))
}

func stubModel(t *testing.T, fn func() mip.Model) {
	t.Helper()
	orig := newModel
	newModel = fn
	t.Cleanup(func() { newModel = orig })
}

func TestSolve_PluginMissing(t *testing.T) {
	m, err := model.Build(fixtures.SingleLaneNetwork())
	require.NoError(t, err)

	stubModel(t, func() mip.Model {
		panic("plugin.Open: highs.so: cannot open shared object file")
	})
	out, err := New(nil).Solve(context.Background(), m, solver.DefaultOptions())
	assert.Nil(t, out)
	assert.ErrorIs(t, err, solver.ErrSolverUnavailable)
	assert.Contains(t, err.Error(), "highs.so")
}

func TestSolve_TranslationPanicIsNotUnavailable(t *testing.T) {
	m, err := model.Build(fixtures.SingleLaneNetwork())
	require.NoError(t, err)

	// a nil model makes translation itself fail
	stubModel(t, func() mip.Model { return nil })
	assert.Panics(t, func() {
		_, _ = New(nil).Solve(context.Background(), m, solver.DefaultOptions())
	})
}

func TestSolve_SingleLane(t *testing.T) {
	requireProvider(t)

	m, err := model.Build(fixtures.SingleLaneNetwork())
	require.NoError(t, err)

	out, err := New(nil).Solve(context.Background(), m, solver.DefaultOptions())
	if errors.Is(err, solver.ErrSolverUnavailable) {
		t.Skipf("highs unavailable: %v", err)
	}
	require.NoError(t, err)
	require.Equal(t, solver.StatusOptimal, out.Status)
	assert.InDelta(t, 300.0, out.ObjectiveValue, 1e-6)
	assert.Equal(t, 1.0, out.Assignment.Value(m.OpenDepot(0)))
}

func TestSolve_Infeasible(t *testing.T) {
	requireProvider(t)

	m, err := model.Build(fixtures.OverCapacityNetwork())
	require.NoError(t, err)

	out, err := New(nil).Solve(context.Background(), m, solver.DefaultOptions())
	if errors.Is(err, solver.ErrSolverUnavailable) {
		t.Skipf("highs unavailable: %v", err)
	}
	require.NoError(t, err)
	assert.Equal(t, solver.StatusInfeasible, out.Status)
	assert.Nil(t, out.Assignment)
}
