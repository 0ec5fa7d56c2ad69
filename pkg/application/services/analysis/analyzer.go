package analysis

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vsinha/netplan/pkg/application/dto"
	"github.com/vsinha/netplan/pkg/domain/entities"
	"github.com/vsinha/netplan/pkg/domain/model"
	"github.com/vsinha/netplan/pkg/domain/solver"
)

const (
	// OpenThreshold is the activation value above which a site counts as open
	OpenThreshold = 0.5

	// FlowEpsilon is the smallest shipment listed in Analysis.Flows
	FlowEpsilon = 0.01
)

// Analyze decomposes an optimal solution into cost, configuration, flow and
// utilization metrics. It never fails: a nil or non-optimal outcome yields
// an Analysis with Optimal unset and the status and reason filled in.
func Analyze(m *model.Model, outcome *solver.Outcome) *dto.Analysis {
	if m == nil || outcome == nil {
		return &dto.Analysis{Status: solver.StatusError.String(), Reason: "no solver outcome"}
	}
	if !outcome.Optimal() {
		return notOptimal(outcome, outcome.Message)
	}
	if len(outcome.Assignment) != m.NumVariables() {
		return notOptimal(outcome, fmt.Sprintf("assignment has %d values, model has %d variables",
			len(outcome.Assignment), m.NumVariables()))
	}

	for i, v := range outcome.Assignment {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return notOptimal(outcome, fmt.Sprintf("assignment value %g for %s is not finite", v, m.Variable(model.VarID(i)).Name))
		}
	}

	a := &analyzer{m: m, x: outcome.Assignment, sets: m.Sets()}
	result := &dto.Analysis{
		Optimal:         true,
		Status:          outcome.Status.String(),
		Provider:        outcome.Provider,
		RuntimeMS:       float64(outcome.Runtime.Microseconds()) / 1000,
		SolverObjective: outcome.ObjectiveValue,
	}

	a.configuration(result)
	a.costs(result)
	a.flows(result)
	a.utilization(result)
	a.stock(result)
	return result
}

func notOptimal(outcome *solver.Outcome, reason string) *dto.Analysis {
	if reason == "" {
		if err := outcome.Err(); err != nil {
			reason = err.Error()
		} else {
			reason = "solution is not available"
		}
	}
	return &dto.Analysis{
		Status:   outcome.Status.String(),
		Reason:   reason,
		Provider: outcome.Provider,
	}
}

type analyzer struct {
	m    *model.Model
	x    solver.Assignment
	sets model.IndexSets
}

func (a *analyzer) depotOpen(d int) bool     { return a.x[a.m.OpenDepot(d)] > OpenThreshold }
func (a *analyzer) warehouseOpen(w int) bool { return a.x[a.m.OpenWarehouse(w)] > OpenThreshold }

func (a *analyzer) configuration(result *dto.Analysis) {
	result.OpenDepots = make([]entities.DepotID, 0)
	result.ClosedDepots = make([]entities.DepotID, 0)
	result.OpenWarehouses = make([]entities.WarehouseID, 0)
	result.ClosedWarehouses = make([]entities.WarehouseID, 0)

	for d, depot := range a.sets.Depots {
		open := a.depotOpen(d)
		if open {
			result.OpenDepots = append(result.OpenDepots, depot)
		} else {
			result.ClosedDepots = append(result.ClosedDepots, depot)
		}
		result.SiteStates = append(result.SiteStates, dto.SiteState{
			Site:      string(depot),
			Echelon:   entities.DepotEchelon.String(),
			OpenValue: a.x[a.m.OpenDepot(d)],
			Open:      open,
		})
	}
	for w, wh := range a.sets.Warehouses {
		open := a.warehouseOpen(w)
		if open {
			result.OpenWarehouses = append(result.OpenWarehouses, wh)
		} else {
			result.ClosedWarehouses = append(result.ClosedWarehouses, wh)
		}
		result.SiteStates = append(result.SiteStates, dto.SiteState{
			Site:      string(wh),
			Echelon:   entities.WarehouseEchelon.String(),
			OpenValue: a.x[a.m.OpenWarehouse(w)],
			Open:      open,
		})
	}
}

// costs accumulates every objective term into its bucket in decimal
// arithmetic so the buckets add up to TotalCost exactly
func (a *analyzer) costs(result *dto.Analysis) {
	buckets := make(map[model.CostComponent]decimal.Decimal, len(model.CostComponents))
	for _, c := range model.CostComponents {
		buckets[c] = decimal.Zero
	}
	for _, term := range a.m.Objective() {
		amount := decimal.NewFromFloat(term.Coef).Mul(decimal.NewFromFloat(a.x[term.Var]))
		buckets[term.Component] = buckets[term.Component].Add(amount)
	}

	transport := buckets[model.TransportFD].Add(buckets[model.TransportDW]).Add(buckets[model.TransportWC])
	fixed := buckets[model.FixedDepot].Add(buckets[model.FixedWarehouse])
	holding := buckets[model.HoldingDepot].Add(buckets[model.HoldingWarehouse])
	total := transport.Add(fixed).Add(holding)

	line := func(v decimal.Decimal) dto.CostLine {
		l := dto.CostLine{Value: v}
		if !total.IsZero() {
			l.Percent = v.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		return l
	}

	result.TotalCost = total
	result.TransportCost = dto.TransportCost{
		FD:    line(buckets[model.TransportFD]),
		DW:    line(buckets[model.TransportDW]),
		WC:    line(buckets[model.TransportWC]),
		Total: line(transport),
	}
	result.FixedCost = dto.SiteCost{
		Depot:     line(buckets[model.FixedDepot]),
		Warehouse: line(buckets[model.FixedWarehouse]),
		Total:     line(fixed),
	}
	result.HoldingCost = dto.SiteCost{
		Depot:     line(buckets[model.HoldingDepot]),
		Warehouse: line(buckets[model.HoldingWarehouse]),
		Total:     line(holding),
	}
}

func (a *analyzer) flows(result *dto.Analysis) {
	m := a.m
	perPeriod := make([]float64, m.NumPeriods())
	result.Flows = make([]dto.Flow, 0)

	for p := 0; p < m.NumProducts(); p++ {
		for w := 0; w < m.NumWarehouses(); w++ {
			for c := 0; c < m.NumClients(); c++ {
				for t := 0; t < m.NumPeriods(); t++ {
					q := a.x[m.FlowWC(p, w, c, t)]
					perPeriod[t] += q
					if q > FlowEpsilon {
						result.Flows = append(result.Flows, dto.Flow{
							Product:   a.sets.Products[p],
							Warehouse: a.sets.Warehouses[w],
							Client:    a.sets.Clients[c],
							Period:    a.sets.Periods[t],
							Quantity:  q,
						})
					}
				}
			}
		}
	}

	result.FlowByPeriod = make([]dto.PeriodFlow, len(perPeriod))
	stats := dto.FlowStats{
		Total: floats.Sum(perPeriod),
		Mean:  stat.Mean(perPeriod, nil),
	}
	for t, q := range perPeriod {
		period := a.sets.Periods[t]
		result.FlowByPeriod[t] = dto.PeriodFlow{Period: period, Quantity: q}
		// strict comparisons keep the earliest period on ties
		if t == 0 || q > stats.Max {
			stats.Max, stats.MaxPeriod = q, period
		}
		if t == 0 || q < stats.Min {
			stats.Min, stats.MinPeriod = q, period
		}
	}
	result.FlowStats = stats
}

func (a *analyzer) utilization(result *dto.Analysis) {
	m := a.m
	params := m.Params()
	periods := float64(m.NumPeriods())

	result.UtilizationByDepot = make([]dto.SiteUtilization, 0, len(result.OpenDepots))
	for d, depot := range a.sets.Depots {
		if !a.depotOpen(d) {
			continue
		}
		out := 0.0
		for p := 0; p < m.NumProducts(); p++ {
			for w := 0; w < m.NumWarehouses(); w++ {
				for t := 0; t < m.NumPeriods(); t++ {
					out += a.x[m.FlowDW(p, d, w, t)]
				}
			}
		}
		capacity := params.DepotCapacity(d)
		result.UtilizationByDepot = append(result.UtilizationByDepot, dto.SiteUtilization{
			Site:       string(depot),
			Throughput: out,
			Capacity:   capacity,
			Percent:    percentOf(out, capacity*periods),
		})
	}

	result.UtilizationByWarehouse = make([]dto.SiteUtilization, 0, len(result.OpenWarehouses))
	for w, wh := range a.sets.Warehouses {
		if !a.warehouseOpen(w) {
			continue
		}
		out := 0.0
		for p := 0; p < m.NumProducts(); p++ {
			for c := 0; c < m.NumClients(); c++ {
				for t := 0; t < m.NumPeriods(); t++ {
					out += a.x[m.FlowWC(p, w, c, t)]
				}
			}
		}
		capacity := params.WarehouseCapacity(w)
		result.UtilizationByWarehouse = append(result.UtilizationByWarehouse, dto.SiteUtilization{
			Site:       string(wh),
			Throughput: out,
			Capacity:   capacity,
			Percent:    percentOf(out, capacity*periods),
		})
	}

	result.DepotUtilization = summarize(result.UtilizationByDepot)
	result.WarehouseUtilization = summarize(result.UtilizationByWarehouse)
}

// percentOf returns used/available in percent, 0 when nothing is available,
// clamped to [0, 100] to absorb solver tolerance
func percentOf(used, available float64) float64 {
	if available <= 0 {
		return 0
	}
	pct := used / available * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

func summarize(sites []dto.SiteUtilization) dto.UtilizationSummary {
	if len(sites) == 0 {
		return dto.UtilizationSummary{}
	}
	values := make([]float64, len(sites))
	s := dto.UtilizationSummary{}
	for i, site := range sites {
		values[i] = site.Percent
		if i == 0 || site.Percent > s.Max {
			s.Max, s.MaxSite = site.Percent, site.Site
		}
		if i == 0 || site.Percent < s.Min {
			s.Min, s.MinSite = site.Percent, site.Site
		}
	}
	s.Mean = stat.Mean(values, nil)
	return s
}

// stock collects per-period inventory of open sites and averages it over
// those sites only
func (a *analyzer) stock(result *dto.Analysis) {
	m := a.m
	result.StockByPeriod = make([]dto.StockSeries, 0)

	series := func(site, echelon string, p int, at func(t int) model.VarID) []float64 {
		s := dto.StockSeries{
			Site:    site,
			Echelon: echelon,
			Product: a.sets.Products[p],
			Stock:   make([]dto.StockPoint, m.NumPeriods()),
		}
		values := make([]float64, m.NumPeriods())
		for t, period := range a.sets.Periods {
			values[t] = a.x[at(t)]
			s.Stock[t] = dto.StockPoint{Period: period, Quantity: values[t]}
		}
		result.StockByPeriod = append(result.StockByPeriod, s)
		return values
	}

	var depot []float64
	for d, id := range a.sets.Depots {
		if !a.depotOpen(d) {
			continue
		}
		for p := range a.sets.Products {
			depot = append(depot, series(string(id), entities.DepotEchelon.String(), p,
				func(t int) model.VarID { return m.StockDepot(p, d, t) })...)
		}
	}

	var warehouse []float64
	for w, id := range a.sets.Warehouses {
		if !a.warehouseOpen(w) {
			continue
		}
		for p := range a.sets.Products {
			warehouse = append(warehouse, series(string(id), entities.WarehouseEchelon.String(), p,
				func(t int) model.VarID { return m.StockWarehouse(p, w, t) })...)
		}
	}

	if len(depot) > 0 {
		result.MeanStockDepot = stat.Mean(depot, nil)
	}
	if len(warehouse) > 0 {
		result.MeanStockWarehouse = stat.Mean(warehouse, nil)
	}
}
