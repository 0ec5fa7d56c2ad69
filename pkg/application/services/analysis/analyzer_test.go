package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/netplan/pkg/domain/entities"
	"github.com/vsinha/netplan/pkg/domain/model"
	"github.com/vsinha/netplan/pkg/domain/solver"
	"github.com/vsinha/netplan/pkg/infrastructure/solvers/bnb"
	fixtures "github.com/vsinha/netplan/pkg/infrastructure/testing"
)

func optimalOutcome(m *model.Model, a solver.Assignment) *solver.Outcome {
	return &solver.Outcome{
		Status:         solver.StatusOptimal,
		Assignment:     a,
		ObjectiveValue: m.EvaluateObjective(a),
		Provider:       "test",
	}
}

func singleLane(t *testing.T) (*model.Model, solver.Assignment) {
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

func TestAnalyze_SingleLane(t *testing.T) {
	m, a := singleLane(t)
	result := Analyze(m, optimalOutcome(m, a))

	require.True(t, result.Optimal)
	assert.Equal(t, "optimal", result.Status)
	assert.True(t, result.TotalCost.Equal(decimal.NewFromInt(300)), result.TotalCost.String())
	assert.InDelta(t, 300.0, result.SolverObjective, 1e-9)

	assert.True(t, result.TransportCost.FD.Value.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.TransportCost.Total.Value.Equal(decimal.NewFromInt(300)))
	assert.InDelta(t, 100.0/3, result.TransportCost.WC.Percent, 1e-9)
	assert.InDelta(t, 100.0, result.TransportCost.Total.Percent, 1e-9)
	assert.True(t, result.FixedCost.Total.Value.IsZero())
	assert.Zero(t, result.HoldingCost.Total.Percent)

	assert.Equal(t, []entities.DepotID{"D1"}, result.OpenDepots)
	assert.Empty(t, result.ClosedDepots)
	assert.Equal(t, []entities.WarehouseID{"W1"}, result.OpenWarehouses)

	require.Len(t, result.FlowByPeriod, 1)
	assert.Equal(t, entities.Period(1), result.FlowByPeriod[0].Period)
	assert.Equal(t, 100.0, result.FlowStats.Total)

	require.Len(t, result.UtilizationByDepot, 1)
	assert.InDelta(t, 50.0, result.UtilizationByDepot[0].Percent, 1e-9)
	assert.InDelta(t, 50.0, result.WarehouseUtilization.Mean, 1e-9)
	assert.Equal(t, "W1", result.WarehouseUtilization.MaxSite)

	require.Len(t, result.Flows, 1)
	assert.Equal(t, entities.ClientID("C1"), result.Flows[0].Client)
	assert.Len(t, result.SiteStates, 2)
}

func TestAnalyze_NotOptimal(t *testing.T) {
	m, a := singleLane(t)
	withFlow := func(v float64) solver.Assignment {
		b := append(solver.Assignment(nil), a...)
		b[m.FlowWC(0, 0, 0, 0)] = v
		return b
	}

	tests := []struct {
		name    string
		outcome *solver.Outcome
		status  string
		reason  string
	}{
		{"nil outcome", nil, "error", "no solver outcome"},
		{"infeasible", &solver.Outcome{Status: solver.StatusInfeasible}, "infeasible", solver.ErrInfeasible.Error()},
		{"time limit keeps message", &solver.Outcome{Status: solver.StatusTimeLimit, Message: "node limit 5 reached"}, "timeLimit", "node limit 5 reached"},
		{"values ignored unless optimal", &solver.Outcome{Status: solver.StatusError, Assignment: a}, "error", solver.ErrSolverFailed.Error()},
		{"short assignment", &solver.Outcome{Status: solver.StatusOptimal, Assignment: a[:2]}, "optimal", "assignment has 2 values, model has 7 variables"},
		{"NaN value", &solver.Outcome{Status: solver.StatusOptimal, Assignment: withFlow(math.NaN())}, "optimal", "assignment value NaN for flow_WC[P1,W1,C1,1] is not finite"},
		{"infinite value", &solver.Outcome{Status: solver.StatusOptimal, Assignment: withFlow(math.Inf(1))}, "optimal", "assignment value +Inf for flow_WC[P1,W1,C1,1] is not finite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Analyze(m, tt.outcome)
			assert.False(t, result.Optimal)
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, tt.reason, result.Reason)
			assert.True(t, result.TotalCost.IsZero())
			assert.Nil(t, result.FlowByPeriod)
			assert.Nil(t, result.OpenDepots)
		})
	}
}

func TestAnalyze_UtilizationBounds(t *testing.T) {
	data := fixtures.SingleLaneNetwork()
	data.DepotCapacities[0].Capacity = 0
	data.WarehouseCapacities[0].Capacity = 80
	m, err := model.Build(data)
	require.NoError(t, err)

	a := make(solver.Assignment, m.NumVariables())
	a[m.OpenDepot(0)] = 1
	a[m.OpenWarehouse(0)] = 0.9999999
	a[m.FlowDW(0, 0, 0, 0)] = 100
	a[m.FlowWC(0, 0, 0, 0)] = 80.0000001

	result := Analyze(m, optimalOutcome(m, a))
	require.True(t, result.Optimal)
	assert.Equal(t, 0.0, result.UtilizationByDepot[0].Percent, "zero capacity reports 0, not NaN")
	assert.Equal(t, 100.0, result.UtilizationByWarehouse[0].Percent, "round-off above capacity is clamped")
}

func TestAnalyze_FlowTiesResolveToFirstPeriod(t *testing.T) {
	m, err := model.Build(fixtures.BuildNetwork(fixtures.NetworkSpec{
		Products: 1, Clients: 1, Periods: 3,
		Factories: 1, Depots: 1, Warehouses: 1,
		Demand: 50, DepotCapacity: 100, WarehouseCapacity: 100,
		CostFD: 1, CostDW: 1, CostWC: 1,
	}))
	require.NoError(t, err)

	a := make(solver.Assignment, m.NumVariables())
	a[m.OpenDepot(0)] = 1
	a[m.OpenWarehouse(0)] = 1
	for tt := 0; tt < 3; tt++ {
		a[m.FlowFD(0, 0, 0, tt)] = 50
		a[m.FlowDW(0, 0, 0, tt)] = 50
		a[m.FlowWC(0, 0, 0, tt)] = 50
	}

	stats := Analyze(m, optimalOutcome(m, a)).FlowStats
	assert.Equal(t, entities.Period(1), stats.MaxPeriod)
	assert.Equal(t, entities.Period(1), stats.MinPeriod)
	assert.Equal(t, 50.0, stats.Mean)
	assert.Equal(t, 150.0, stats.Total)
}

func TestAnalyze_MultiPeriodSolution(t *testing.T) {
	m, err := model.Build(fixtures.MultiPeriodNetwork())
	require.NoError(t, err)

	outcome, err := bnb.New().Solve(context.Background(), m, solver.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, solver.StatusOptimal, outcome.Status, outcome.Message)

	result := Analyze(m, outcome)
	require.True(t, result.Optimal)

	sum := result.TransportCost.Total.Value.Add(result.FixedCost.Total.Value).Add(result.HoldingCost.Total.Value)
	assert.True(t, sum.Equal(result.TotalCost), "buckets must add up exactly")

	total := result.TotalCost.InexactFloat64()
	assert.InDelta(t, outcome.ObjectiveValue, total, 1e-6*(1+outcome.ObjectiveValue))

	percent := result.TransportCost.Total.Percent + result.FixedCost.Total.Percent + result.HoldingCost.Total.Percent
	assert.InDelta(t, 100.0, percent, 1e-6)

	for _, u := range append(result.UtilizationByDepot, result.UtilizationByWarehouse...) {
		assert.GreaterOrEqual(t, u.Percent, 0.0)
		assert.LessOrEqual(t, u.Percent, 100.0)
	}

	// demand per period: 2 products x (45+10t + 50+10t)
	require.Len(t, result.FlowByPeriod, 3)
	for i, pf := range result.FlowByPeriod {
		want := 2 * float64(95+20*(i+1))
		assert.InDelta(t, want, pf.Quantity, 1e-6)
	}
	assert.Equal(t, entities.Period(3), result.FlowStats.MaxPeriod)
	assert.Equal(t, entities.Period(1), result.FlowStats.MinPeriod)

	var sumStock float64
	var n int
	for p := 0; p < m.NumProducts(); p++ {
		for w, wh := range m.Sets().Warehouses {
			if !contains(result.OpenWarehouses, wh) {
				continue
			}
			for tt := 0; tt < m.NumPeriods(); tt++ {
				sumStock += outcome.Assignment[m.StockWarehouse(p, w, tt)]
				n++
			}
		}
	}
	require.Positive(t, n)
	assert.InDelta(t, sumStock/float64(n), result.MeanStockWarehouse, 1e-9)

	sites := len(result.OpenDepots) + len(result.OpenWarehouses)
	require.Len(t, result.StockByPeriod, sites*m.NumProducts())
	for _, series := range result.StockByPeriod {
		require.Len(t, series.Stock, m.NumPeriods())
		p := indexOf(m.Sets().Products, series.Product)
		for tt, pt := range series.Stock {
			assert.Equal(t, m.Sets().Periods[tt], pt.Period)
			var want float64
			if series.Echelon == entities.DepotEchelon.String() {
				want = outcome.Assignment[m.StockDepot(p, indexOf(m.Sets().Depots, entities.DepotID(series.Site)), tt)]
			} else {
				want = outcome.Assignment[m.StockWarehouse(p, indexOf(m.Sets().Warehouses, entities.WarehouseID(series.Site)), tt)]
			}
			assert.Equal(t, want, pt.Quantity, "%s %s period %d", series.Site, series.Product, pt.Period)
		}
	}
}

func indexOf[T comparable](ids []T, id T) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func contains(ids []entities.WarehouseID, id entities.WarehouseID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
