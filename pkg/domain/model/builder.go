package model

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vsinha/netplan/pkg/domain/entities"
)

// Build converts a data snapshot into the MILP formulation.
//
// Validation runs before any variable is created and stops at the first
// problem: index sets are derived (SchemaError on blank, duplicate or unknown
// keys, empty tables and gaps in the period sequence), parameter rows are
// loaded in table order (DomainError on negative, NaN or infinite values),
// and finally every index combination the objective and constraints range
// over is checked for a backing parameter (MissingParameterError). Nothing
// defaults to zero.
//
// Build is pure: the same snapshot always yields an identical model.
func Build(data *entities.NetworkData) (*Model, error) {
	if data == nil {
		return nil, &entities.SchemaError{Table: entities.TableDemand, Reason: "no data provided"}
	}

	b := &builder{data: data}
	if err := b.deriveSets(); err != nil {
		return nil, err
	}
	if err := b.loadParameters(); err != nil {
		return nil, err
	}
	if err := b.checkMissing(); err != nil {
		return nil, err
	}

	m := &Model{sets: b.sets, params: b.params}
	b.addVariables(m)
	b.addObjective(m)
	b.addConstraints(m)
	return m, nil
}

type builder struct {
	data *entities.NetworkData
	sets IndexSets

	productPos   map[entities.ProductID]int
	clientPos    map[entities.ClientID]int
	periodPos    map[entities.Period]int
	factoryPos   map[entities.FactoryID]int
	depotPos     map[entities.DepotID]int
	warehousePos map[entities.WarehouseID]int

	params Parameters
}

func (b *builder) deriveSets() error {
	d := b.data

	if len(d.Demand) == 0 {
		return emptyTable(entities.TableDemand)
	}
	b.productPos = make(map[entities.ProductID]int)
	b.clientPos = make(map[entities.ClientID]int)
	b.periodPos = make(map[entities.Period]int)
	for i, r := range d.Demand {
		row := i + 1
		if r.Product == "" {
			return blankKey(entities.TableDemand, "product", row)
		}
		if r.Client == "" {
			return blankKey(entities.TableDemand, "client", row)
		}
		if _, ok := b.productPos[r.Product]; !ok {
			b.productPos[r.Product] = len(b.sets.Products)
			b.sets.Products = append(b.sets.Products, r.Product)
		}
		if _, ok := b.clientPos[r.Client]; !ok {
			b.clientPos[r.Client] = len(b.sets.Clients)
			b.sets.Clients = append(b.sets.Clients, r.Client)
		}
		if _, ok := b.periodPos[r.Period]; !ok {
			b.periodPos[r.Period] = -1
			b.sets.Periods = append(b.sets.Periods, r.Period)
		}
	}

	sort.Slice(b.sets.Periods, func(i, j int) bool { return b.sets.Periods[i] < b.sets.Periods[j] })
	for i, t := range b.sets.Periods {
		if i > 0 && t != b.sets.Periods[i-1]+1 {
			return &entities.SchemaError{
				Table:  entities.TableDemand,
				Column: "month",
				Reason: fmt.Sprintf("periods must be contiguous, period %d is missing", b.sets.Periods[i-1]+1),
			}
		}
		b.periodPos[t] = i
	}

	if len(d.DepotCapacities) == 0 {
		return emptyTable(entities.TableCapacityDepots)
	}
	b.depotPos = make(map[entities.DepotID]int, len(d.DepotCapacities))
	for i, r := range d.DepotCapacities {
		if r.Depot == "" {
			return blankKey(entities.TableCapacityDepots, "depot", i+1)
		}
		if _, ok := b.depotPos[r.Depot]; ok {
			return duplicateKey(entities.TableCapacityDepots, i+1, string(r.Depot))
		}
		b.depotPos[r.Depot] = len(b.sets.Depots)
		b.sets.Depots = append(b.sets.Depots, r.Depot)
	}

	if len(d.WarehouseCapacities) == 0 {
		return emptyTable(entities.TableCapacityWarehouses)
	}
	b.warehousePos = make(map[entities.WarehouseID]int, len(d.WarehouseCapacities))
	for i, r := range d.WarehouseCapacities {
		if r.Warehouse == "" {
			return blankKey(entities.TableCapacityWarehouses, "warehouse", i+1)
		}
		if _, ok := b.warehousePos[r.Warehouse]; ok {
			return duplicateKey(entities.TableCapacityWarehouses, i+1, string(r.Warehouse))
		}
		b.warehousePos[r.Warehouse] = len(b.sets.Warehouses)
		b.sets.Warehouses = append(b.sets.Warehouses, r.Warehouse)
	}

	if len(d.FactoryDepotCosts) == 0 {
		return emptyTable(entities.TableTransportFactoryDepot)
	}
	b.factoryPos = make(map[entities.FactoryID]int)
	for i, r := range d.FactoryDepotCosts {
		if r.Factory == "" {
			return blankKey(entities.TableTransportFactoryDepot, "factory", i+1)
		}
		if _, ok := b.factoryPos[r.Factory]; !ok {
			b.factoryPos[r.Factory] = len(b.sets.Factories)
			b.sets.Factories = append(b.sets.Factories, r.Factory)
		}
	}

	return nil
}

func (b *builder) loadParameters() error {
	d := b.data
	nP, nC, nT := len(b.sets.Products), len(b.sets.Clients), len(b.sets.Periods)
	nF, nD, nW := len(b.sets.Factories), len(b.sets.Depots), len(b.sets.Warehouses)

	p := &b.params
	p.nP, p.nC, p.nT, p.nF, p.nD, p.nW = nP, nC, nT, nF, nD, nW
	p.demand = missing(nP * nC * nT)
	p.depotCapacity = missing(nD)
	p.warehouseCapacity = missing(nW)
	p.depotFixedCost = missing(nD)
	p.warehouseFixedCost = missing(nW)
	p.holdingCostDepot = missing(nP)
	p.holdingCostWarehouse = missing(nP)
	p.transportFD = missing(nF * nD)
	p.transportDW = missing(nD * nW)
	p.transportWC = missing(nW * nC)
	p.safetyStockDepot = missing(nP)
	p.safetyStockWarehouse = missing(nP)
	p.initialStockDepot = missing(nP)
	p.initialStockWarehouse = missing(nP)

	for i, r := range d.Demand {
		pi, ci, ti := b.productPos[r.Product], b.clientPos[r.Client], b.periodPos[r.Period]
		key := joinKey(string(r.Product), string(r.Client), fmt.Sprint(r.Period))
		if err := assign(p.demand, (pi*nC+ci)*nT+ti, entities.TableDemand, "demand", key, i+1, r.Quantity); err != nil {
			return err
		}
	}

	for i, r := range d.DepotCapacities {
		err := assign(p.depotCapacity, b.depotPos[r.Depot], entities.TableCapacityDepots, "capacity", string(r.Depot), i+1, r.Capacity)
		if err != nil {
			return err
		}
	}
	for i, r := range d.WarehouseCapacities {
		err := assign(p.warehouseCapacity, b.warehousePos[r.Warehouse], entities.TableCapacityWarehouses, "capacity", string(r.Warehouse), i+1, r.Capacity)
		if err != nil {
			return err
		}
	}

	for i, r := range d.DepotFixedCosts {
		di, err := lookup(b.depotPos, r.Depot, entities.TableFixedCostDepots, "depot", i+1)
		if err != nil {
			return err
		}
		if err := assign(p.depotFixedCost, di, entities.TableFixedCostDepots, "fixed_cost", string(r.Depot), i+1, r.FixedCost); err != nil {
			return err
		}
	}
	for i, r := range d.WarehouseFixedCosts {
		wi, err := lookup(b.warehousePos, r.Warehouse, entities.TableFixedCostWarehouses, "warehouse", i+1)
		if err != nil {
			return err
		}
		if err := assign(p.warehouseFixedCost, wi, entities.TableFixedCostWarehouses, "fixed_cost", string(r.Warehouse), i+1, r.FixedCost); err != nil {
			return err
		}
	}

	for i, r := range d.HoldingCosts {
		pi, err := lookup(b.productPos, r.Product, entities.TableHoldingCosts, "product", i+1)
		if err != nil {
			return err
		}
		if err := assign(p.holdingCostDepot, pi, entities.TableHoldingCosts, "holding_depot", string(r.Product), i+1, r.Depot); err != nil {
			return err
		}
		if err := assign(p.holdingCostWarehouse, pi, entities.TableHoldingCosts, "holding_warehouse", string(r.Product), i+1, r.Warehouse); err != nil {
			return err
		}
	}

	for i, r := range d.FactoryDepotCosts {
		di, err := lookup(b.depotPos, r.Depot, entities.TableTransportFactoryDepot, "depot", i+1)
		if err != nil {
			return err
		}
		fi := b.factoryPos[r.Factory]
		key := joinKey(string(r.Factory), string(r.Depot))
		if err := assign(p.transportFD, fi*nD+di, entities.TableTransportFactoryDepot, "cost", key, i+1, r.Cost); err != nil {
			return err
		}
	}
	for i, r := range d.DepotWarehouseCosts {
		di, err := lookup(b.depotPos, r.Depot, entities.TableTransportDepotWarehouse, "depot", i+1)
		if err != nil {
			return err
		}
		wi, err := lookup(b.warehousePos, r.Warehouse, entities.TableTransportDepotWarehouse, "warehouse", i+1)
		if err != nil {
			return err
		}
		key := joinKey(string(r.Depot), string(r.Warehouse))
		if err := assign(p.transportDW, di*nW+wi, entities.TableTransportDepotWarehouse, "cost", key, i+1, r.Cost); err != nil {
			return err
		}
	}
	for i, r := range d.WarehouseClientCosts {
		wi, err := lookup(b.warehousePos, r.Warehouse, entities.TableTransportWarehouseClient, "warehouse", i+1)
		if err != nil {
			return err
		}
		ci, err := lookup(b.clientPos, r.Client, entities.TableTransportWarehouseClient, "client", i+1)
		if err != nil {
			return err
		}
		key := joinKey(string(r.Warehouse), string(r.Client))
		if err := assign(p.transportWC, wi*nC+ci, entities.TableTransportWarehouseClient, "cost", key, i+1, r.Cost); err != nil {
			return err
		}
	}

	perProduct := []struct {
		table  entities.TableName
		column string
		dst    []float64
		rows   []productValue
	}{
		{entities.TableSafetyStockDepots, "safety_stock", p.safetyStockDepot, safetyRows(d.DepotSafetyStocks)},
		{entities.TableSafetyStockWarehouses, "safety_stock", p.safetyStockWarehouse, safetyRows(d.WarehouseSafetyStocks)},
		{entities.TableInitialStockDepots, "initial_stock", p.initialStockDepot, initialRows(d.DepotInitialStocks)},
		{entities.TableInitialStockWarehouses, "initial_stock", p.initialStockWarehouse, initialRows(d.WarehouseInitialStocks)},
	}
	for _, tbl := range perProduct {
		for i, r := range tbl.rows {
			pi, err := lookup(b.productPos, r.product, tbl.table, "product", i+1)
			if err != nil {
				return err
			}
			if err := assign(tbl.dst, pi, tbl.table, tbl.column, string(r.product), i+1, r.value); err != nil {
				return err
			}
		}
	}

	return nil
}

// checkMissing walks every index combination the formulation needs, in
// objective/constraint order, and fails on the first one without data
func (b *builder) checkMissing() error {
	s := b.sets
	p := &b.params

	for pi, prod := range s.Products {
		for ci, client := range s.Clients {
			for ti, t := range s.Periods {
				if math.IsNaN(p.Demand(pi, ci, ti)) {
					return &entities.MissingParameterError{
						Parameter: "demand",
						Key:       joinKey(string(prod), string(client), fmt.Sprint(t)),
					}
				}
			}
		}
	}

	for di, depot := range s.Depots {
		if math.IsNaN(p.depotFixedCost[di]) {
			return &entities.MissingParameterError{Parameter: "depotFixedCost", Key: string(depot)}
		}
	}
	for wi, wh := range s.Warehouses {
		if math.IsNaN(p.warehouseFixedCost[wi]) {
			return &entities.MissingParameterError{Parameter: "warehouseFixedCost", Key: string(wh)}
		}
	}

	for fi, f := range s.Factories {
		for di, depot := range s.Depots {
			if math.IsNaN(p.TransportFD(fi, di)) {
				return &entities.MissingParameterError{Parameter: "transportCost_FD", Key: joinKey(string(f), string(depot))}
			}
		}
	}
	for di, depot := range s.Depots {
		for wi, wh := range s.Warehouses {
			if math.IsNaN(p.TransportDW(di, wi)) {
				return &entities.MissingParameterError{Parameter: "transportCost_DW", Key: joinKey(string(depot), string(wh))}
			}
		}
	}
	for wi, wh := range s.Warehouses {
		for ci, client := range s.Clients {
			if math.IsNaN(p.TransportWC(wi, ci)) {
				return &entities.MissingParameterError{Parameter: "transportCost_WC", Key: joinKey(string(wh), string(client))}
			}
		}
	}

	perProduct := []struct {
		name   string
		values []float64
	}{
		{"holdingCostDepot", p.holdingCostDepot},
		{"holdingCostWarehouse", p.holdingCostWarehouse},
		{"safetyStockDepot", p.safetyStockDepot},
		{"safetyStockWarehouse", p.safetyStockWarehouse},
		{"initialStockDepot", p.initialStockDepot},
		{"initialStockWarehouse", p.initialStockWarehouse},
	}
	for _, param := range perProduct {
		for pi, prod := range s.Products {
			if math.IsNaN(param.values[pi]) {
				return &entities.MissingParameterError{Parameter: param.name, Key: string(prod)}
			}
		}
	}

	return nil
}

func (b *builder) addVariables(m *Model) {
	s := b.sets
	nP, nF, nD, nW, nC, nT := len(s.Products), len(s.Factories), len(s.Depots), len(s.Warehouses), len(s.Clients), len(s.Periods)
	inf := math.Inf(1)

	total := nD + nW + nP*nT*(nF*nD+nD*nW+nW*nC+nD+nW)
	m.vars = make([]Variable, 0, total)

	m.openDOff = len(m.vars)
	for _, d := range s.Depots {
		m.vars = append(m.vars, Variable{Name: fmt.Sprintf("open_D[%s]", d), Kind: Binary, Upper: 1})
	}
	m.openWOff = len(m.vars)
	for _, w := range s.Warehouses {
		m.vars = append(m.vars, Variable{Name: fmt.Sprintf("open_W[%s]", w), Kind: Binary, Upper: 1})
	}

	m.flowFDOff = len(m.vars)
	for _, p := range s.Products {
		for _, f := range s.Factories {
			for _, d := range s.Depots {
				for _, t := range s.Periods {
					m.vars = append(m.vars, Variable{Name: fmt.Sprintf("flow_FD[%s,%s,%s,%d]", p, f, d, t), Upper: inf})
				}
			}
		}
	}
	m.flowDWOff = len(m.vars)
	for _, p := range s.Products {
		for _, d := range s.Depots {
			for _, w := range s.Warehouses {
				for _, t := range s.Periods {
					m.vars = append(m.vars, Variable{Name: fmt.Sprintf("flow_DW[%s,%s,%s,%d]", p, d, w, t), Upper: inf})
				}
			}
		}
	}
	m.flowWCOff = len(m.vars)
	for _, p := range s.Products {
		for _, w := range s.Warehouses {
			for _, c := range s.Clients {
				for _, t := range s.Periods {
					m.vars = append(m.vars, Variable{Name: fmt.Sprintf("flow_WC[%s,%s,%s,%d]", p, w, c, t), Upper: inf})
				}
			}
		}
	}

	m.stockDOff = len(m.vars)
	for _, p := range s.Products {
		for _, d := range s.Depots {
			for _, t := range s.Periods {
				m.vars = append(m.vars, Variable{Name: fmt.Sprintf("stock_D[%s,%s,%d]", p, d, t), Upper: inf})
			}
		}
	}
	m.stockWOff = len(m.vars)
	for _, p := range s.Products {
		for _, w := range s.Warehouses {
			for _, t := range s.Periods {
				m.vars = append(m.vars, Variable{Name: fmt.Sprintf("stock_W[%s,%s,%d]", p, w, t), Upper: inf})
			}
		}
	}
}

func (b *builder) addObjective(m *Model) {
	p := &m.params
	nP, nF, nD, nW, nC, nT := m.NumProducts(), m.NumFactories(), m.NumDepots(), m.NumWarehouses(), m.NumClients(), m.NumPeriods()

	add := func(component CostComponent, coef float64, v VarID) {
		m.objective = append(m.objective, ObjectiveTerm{Term: Term{Var: v, Coef: coef}, Component: component})
	}

	for pi := 0; pi < nP; pi++ {
		for fi := 0; fi < nF; fi++ {
			for di := 0; di < nD; di++ {
				for ti := 0; ti < nT; ti++ {
					add(TransportFD, p.TransportFD(fi, di), m.FlowFD(pi, fi, di, ti))
				}
			}
		}
	}
	for pi := 0; pi < nP; pi++ {
		for di := 0; di < nD; di++ {
			for wi := 0; wi < nW; wi++ {
				for ti := 0; ti < nT; ti++ {
					add(TransportDW, p.TransportDW(di, wi), m.FlowDW(pi, di, wi, ti))
				}
			}
		}
	}
	for pi := 0; pi < nP; pi++ {
		for wi := 0; wi < nW; wi++ {
			for ci := 0; ci < nC; ci++ {
				for ti := 0; ti < nT; ti++ {
					add(TransportWC, p.TransportWC(wi, ci), m.FlowWC(pi, wi, ci, ti))
				}
			}
		}
	}

	for di := 0; di < nD; di++ {
		add(FixedDepot, p.DepotFixedCost(di), m.OpenDepot(di))
	}
	for wi := 0; wi < nW; wi++ {
		add(FixedWarehouse, p.WarehouseFixedCost(wi), m.OpenWarehouse(wi))
	}

	for pi := 0; pi < nP; pi++ {
		for di := 0; di < nD; di++ {
			for ti := 0; ti < nT; ti++ {
				add(HoldingDepot, p.HoldingCostDepot(pi), m.StockDepot(pi, di, ti))
			}
		}
	}
	for pi := 0; pi < nP; pi++ {
		for wi := 0; wi < nW; wi++ {
			for ti := 0; ti < nT; ti++ {
				add(HoldingWarehouse, p.HoldingCostWarehouse(pi), m.StockWarehouse(pi, wi, ti))
			}
		}
	}
}

func (b *builder) addConstraints(m *Model) {
	s := b.sets
	p := &m.params
	nP, nF, nD, nW, nC, nT := m.NumProducts(), m.NumFactories(), m.NumDepots(), m.NumWarehouses(), m.NumClients(), m.NumPeriods()

	add := func(c Constraint) {
		m.constraints = append(m.constraints, c)
	}

	// every client's demand is met exactly from the warehouse tier
	for pi := 0; pi < nP; pi++ {
		for ci := 0; ci < nC; ci++ {
			for ti := 0; ti < nT; ti++ {
				terms := make([]Term, 0, nW)
				for wi := 0; wi < nW; wi++ {
					terms = append(terms, Term{Var: m.FlowWC(pi, wi, ci, ti), Coef: 1})
				}
				add(Constraint{
					Family: DemandFamily,
					Name:   fmt.Sprintf("demand[%s,%s,%d]", s.Products[pi], s.Clients[ci], s.Periods[ti]),
					Terms:  terms,
					Sense:  Equal,
					RHS:    p.Demand(pi, ci, ti),
				})
			}
		}
	}

	// stock[t] - stock[t-1] - inflow + outflow = 0, with the initial stock
	// moved to the right-hand side in the first period
	for pi := 0; pi < nP; pi++ {
		for di := 0; di < nD; di++ {
			for ti := 0; ti < nT; ti++ {
				terms := make([]Term, 0, 2+nF+nW)
				terms = append(terms, Term{Var: m.StockDepot(pi, di, ti), Coef: 1})
				rhs := p.InitialStockDepot(pi)
				if ti > 0 {
					terms = append(terms, Term{Var: m.StockDepot(pi, di, ti-1), Coef: -1})
					rhs = 0
				}
				for fi := 0; fi < nF; fi++ {
					terms = append(terms, Term{Var: m.FlowFD(pi, fi, di, ti), Coef: -1})
				}
				for wi := 0; wi < nW; wi++ {
					terms = append(terms, Term{Var: m.FlowDW(pi, di, wi, ti), Coef: 1})
				}
				add(Constraint{
					Family: DepotBalanceFamily,
					Name:   fmt.Sprintf("balance_D[%s,%s,%d]", s.Products[pi], s.Depots[di], s.Periods[ti]),
					Terms:  terms,
					Sense:  Equal,
					RHS:    rhs,
				})
			}
		}
	}

	for pi := 0; pi < nP; pi++ {
		for wi := 0; wi < nW; wi++ {
			for ti := 0; ti < nT; ti++ {
				terms := make([]Term, 0, 2+nD+nC)
				terms = append(terms, Term{Var: m.StockWarehouse(pi, wi, ti), Coef: 1})
				rhs := p.InitialStockWarehouse(pi)
				if ti > 0 {
					terms = append(terms, Term{Var: m.StockWarehouse(pi, wi, ti-1), Coef: -1})
					rhs = 0
				}
				for di := 0; di < nD; di++ {
					terms = append(terms, Term{Var: m.FlowDW(pi, di, wi, ti), Coef: -1})
				}
				for ci := 0; ci < nC; ci++ {
					terms = append(terms, Term{Var: m.FlowWC(pi, wi, ci, ti), Coef: 1})
				}
				add(Constraint{
					Family: WarehouseBalanceFamily,
					Name:   fmt.Sprintf("balance_W[%s,%s,%d]", s.Products[pi], s.Warehouses[wi], s.Periods[ti]),
					Terms:  terms,
					Sense:  Equal,
					RHS:    rhs,
				})
			}
		}
	}

	// throughput <= capacity * open, so a closed site ships nothing
	for di := 0; di < nD; di++ {
		for ti := 0; ti < nT; ti++ {
			terms := make([]Term, 0, nP*nW+1)
			for pi := 0; pi < nP; pi++ {
				for wi := 0; wi < nW; wi++ {
					terms = append(terms, Term{Var: m.FlowDW(pi, di, wi, ti), Coef: 1})
				}
			}
			terms = append(terms, Term{Var: m.OpenDepot(di), Coef: -p.DepotCapacity(di)})
			add(Constraint{
				Family: DepotCapacityFamily,
				Name:   fmt.Sprintf("capacity_D[%s,%d]", s.Depots[di], s.Periods[ti]),
				Terms:  terms,
				Sense:  LessOrEqual,
			})
		}
	}
	for wi := 0; wi < nW; wi++ {
		for ti := 0; ti < nT; ti++ {
			terms := make([]Term, 0, nP*nC+1)
			for pi := 0; pi < nP; pi++ {
				for ci := 0; ci < nC; ci++ {
					terms = append(terms, Term{Var: m.FlowWC(pi, wi, ci, ti), Coef: 1})
				}
			}
			terms = append(terms, Term{Var: m.OpenWarehouse(wi), Coef: -p.WarehouseCapacity(wi)})
			add(Constraint{
				Family: WarehouseCapacityFamily,
				Name:   fmt.Sprintf("capacity_W[%s,%d]", s.Warehouses[wi], s.Periods[ti]),
				Terms:  terms,
				Sense:  LessOrEqual,
			})
		}
	}

	// safety floors hold at every site whether it is open or not
	for pi := 0; pi < nP; pi++ {
		for di := 0; di < nD; di++ {
			for ti := 0; ti < nT; ti++ {
				add(Constraint{
					Family: DepotSafetyStockFamily,
					Name:   fmt.Sprintf("safety_D[%s,%s,%d]", s.Products[pi], s.Depots[di], s.Periods[ti]),
					Terms:  []Term{{Var: m.StockDepot(pi, di, ti), Coef: 1}},
					Sense:  GreaterOrEqual,
					RHS:    p.SafetyStockDepot(pi),
				})
			}
		}
	}
	for pi := 0; pi < nP; pi++ {
		for wi := 0; wi < nW; wi++ {
			for ti := 0; ti < nT; ti++ {
				add(Constraint{
					Family: WarehouseSafetyStockFamily,
					Name:   fmt.Sprintf("safety_W[%s,%s,%d]", s.Products[pi], s.Warehouses[wi], s.Periods[ti]),
					Terms:  []Term{{Var: m.StockWarehouse(pi, wi, ti), Coef: 1}},
					Sense:  GreaterOrEqual,
					RHS:    p.SafetyStockWarehouse(pi),
				})
			}
		}
	}
}

type productValue struct {
	product entities.ProductID
	value   float64
}

func safetyRows(rows []entities.SafetyStock) []productValue {
	out := make([]productValue, len(rows))
	for i, r := range rows {
		out[i] = productValue{product: r.Product, value: r.Quantity}
	}
	return out
}

func initialRows(rows []entities.InitialStock) []productValue {
	out := make([]productValue, len(rows))
	for i, r := range rows {
		out[i] = productValue{product: r.Product, value: r.Quantity}
	}
	return out
}

// missing allocates a parameter array with every entry marked absent
func missing(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func assign(dst []float64, idx int, table entities.TableName, column, key string, row int, value float64) error {
	if !math.IsNaN(dst[idx]) {
		return duplicateKey(table, row, key)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return &entities.DomainError{Table: table, Column: column, Key: key, Value: value}
	}
	dst[idx] = value
	return nil
}

func lookup[K ~string](pos map[K]int, id K, table entities.TableName, column string, row int) (int, error) {
	if id == "" {
		return 0, blankKey(table, column, row)
	}
	i, ok := pos[id]
	if !ok {
		return 0, &entities.SchemaError{
			Table:  table,
			Column: column,
			Row:    row,
			Reason: fmt.Sprintf("unknown %s %q", column, string(id)),
		}
	}
	return i, nil
}

func joinKey(parts ...string) string {
	return strings.Join(parts, ",")
}

func emptyTable(table entities.TableName) error {
	return &entities.SchemaError{Table: table, Reason: "table is empty"}
}

func blankKey(table entities.TableName, column string, row int) error {
	return &entities.SchemaError{Table: table, Column: column, Row: row, Reason: "value is required"}
}

func duplicateKey(table entities.TableName, row int, key string) error {
	return &entities.SchemaError{Table: table, Row: row, Reason: fmt.Sprintf("duplicate key %s", key)}
}
