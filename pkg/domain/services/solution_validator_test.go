package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/netplan/pkg/domain/model"
	"github.com/vsinha/netplan/pkg/domain/solver"
	fixtures "github.com/vsinha/netplan/pkg/infrastructure/testing"
)

func singleLaneAssignment(t *testing.T) (*model.Model, solver.Assignment) {
	t.Helper()
	m, err := model.Build(fixtures.SingleLaneNetwork())
	require.NoError(t, err)

	a := make(solver.Assignment, m.NumVariables())
	a[m.OpenDepot(0)] = 1
	a[m.OpenWarehouse(0)] = 1
	a[m.FlowFD(0, 0, 0, 0)] = 100
	a[m.FlowDW(0, 0, 0, 0)] = 100
	a[m.FlowWC(0, 0, 0, 0)] = 100
	return m, a
}

func TestVerifySolution(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(m *model.Model, a solver.Assignment) solver.Assignment
		wantValid  bool
		wantFamily model.Family
		hasFamily  bool
		wantText   string
	}{
		{
			name:      "feasible",
			mutate:    func(m *model.Model, a solver.Assignment) solver.Assignment { return a },
			wantValid: true,
		},
		{
			name: "short delivery",
			mutate: func(m *model.Model, a solver.Assignment) solver.Assignment {
				a[m.FlowWC(0, 0, 0, 0)] = 90
				return a
			},
			wantFamily: model.DemandFamily,
			hasFamily:  true,
			wantText:   "demand[P1,C1,1]",
		},
		{
			name: "inventory created from nothing",
			mutate: func(m *model.Model, a solver.Assignment) solver.Assignment {
				a[m.StockDepot(0, 0, 0)] = 10
				return a
			},
			wantFamily: model.DepotBalanceFamily,
			hasFamily:  true,
			wantText:   "balance_D[P1,D1,1]",
		},
		{
			name: "shipping through a closed warehouse",
			mutate: func(m *model.Model, a solver.Assignment) solver.Assignment {
				a[m.OpenWarehouse(0)] = 0
				return a
			},
			wantFamily: model.WarehouseCapacityFamily,
			hasFamily:  true,
			wantText:   "capacity_W[W1,1]",
		},
		{
			name: "fractional binary",
			mutate: func(m *model.Model, a solver.Assignment) solver.Assignment {
				a[m.OpenDepot(0)] = 0.7
				return a
			},
			wantText: "non-integral",
		},
		{
			name: "wrong length",
			mutate: func(m *model.Model, a solver.Assignment) solver.Assignment {
				return a[:3]
			},
			wantText: "assignment has 3 values",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, a := singleLaneAssignment(t)
			result := VerifySolution(m, tt.mutate(m, a), 0)

			if tt.wantValid {
				assert.True(t, result.IsValid(), result.Errors)
				assert.Empty(t, result.Warnings)
				return
			}
			require.False(t, result.IsValid())
			assert.Contains(t, strings.Join(result.Errors, "\n"), tt.wantText)
			if tt.hasFamily {
				assert.Positive(t, result.ViolationsByFamily[tt.wantFamily])
			}
		})
	}
}

func TestVerifySolution_SafetyFloor(t *testing.T) {
	data := fixtures.SingleLaneNetwork()
	data.WarehouseSafetyStocks[0].Quantity = 5
	data.WarehouseInitialStocks[0].Quantity = 5
	m, err := model.Build(data)
	require.NoError(t, err)

	a := make(solver.Assignment, m.NumVariables())
	a[m.OpenDepot(0)] = 1
	a[m.OpenWarehouse(0)] = 1
	a[m.FlowFD(0, 0, 0, 0)] = 100
	a[m.FlowDW(0, 0, 0, 0)] = 100
	a[m.FlowWC(0, 0, 0, 0)] = 100
	a[m.StockWarehouse(0, 0, 0)] = 5
	assert.True(t, VerifySolution(m, a, 0).IsValid())

	// ship the initial stock out too: balance holds, the floor does not
	a[m.FlowDW(0, 0, 0, 0)] = 95
	a[m.FlowFD(0, 0, 0, 0)] = 95
	a[m.StockWarehouse(0, 0, 0)] = 0
	result := VerifySolution(m, a, 0)
	assert.False(t, result.IsValid())
	assert.Equal(t, 1, result.ViolationsByFamily[model.WarehouseSafetyStockFamily])
	assert.Zero(t, result.ViolationsByFamily[model.WarehouseBalanceFamily])
}

func TestVerifySolution_IdleSiteWarning(t *testing.T) {
	m, err := model.Build(fixtures.DominantDepotNetwork())
	require.NoError(t, err)

	a := make(solver.Assignment, m.NumVariables())
	a[m.OpenDepot(0)] = 1
	a[m.OpenDepot(1)] = 1
	a[m.OpenWarehouse(0)] = 1
	a[m.FlowFD(0, 0, 0, 0)] = 100
	a[m.FlowDW(0, 0, 0, 0)] = 100
	a[m.FlowWC(0, 0, 0, 0)] = 100

	result := NewSolutionValidator(1e-9).Validate(m, a)
	assert.True(t, result.IsValid(), result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "depot D2")
}
