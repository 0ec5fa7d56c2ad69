package model

import "github.com/vsinha/netplan/pkg/domain/entities"

// IndexSets are the finite sets the formulation ranges over. Periods are
// sorted ascending and contiguous; Periods[0] is the first period of the
// inventory recurrence.
type IndexSets struct {
	Products   []entities.ProductID
	Clients    []entities.ClientID
	Periods    []entities.Period
	Factories  []entities.FactoryID
	Depots     []entities.DepotID
	Warehouses []entities.WarehouseID
}

func (s IndexSets) clone() IndexSets {
	return IndexSets{
		Products:   append([]entities.ProductID(nil), s.Products...),
		Clients:    append([]entities.ClientID(nil), s.Clients...),
		Periods:    append([]entities.Period(nil), s.Periods...),
		Factories:  append([]entities.FactoryID(nil), s.Factories...),
		Depots:     append([]entities.DepotID(nil), s.Depots...),
		Warehouses: append([]entities.WarehouseID(nil), s.Warehouses...),
	}
}

// Parameters holds every numeric input of the formulation in dense arrays
// addressed by set positions. It is read-only once built.
type Parameters struct {
	nP, nC, nT, nF, nD, nW int

	demand                []float64 // [p][c][t]
	depotCapacity         []float64 // [d]
	warehouseCapacity     []float64 // [w]
	depotFixedCost        []float64 // [d]
	warehouseFixedCost    []float64 // [w]
	holdingCostDepot      []float64 // [p]
	holdingCostWarehouse  []float64 // [p]
	transportFD           []float64 // [f][d]
	transportDW           []float64 // [d][w]
	transportWC           []float64 // [w][c]
	safetyStockDepot      []float64 // [p]
	safetyStockWarehouse  []float64 // [p]
	initialStockDepot     []float64 // [p]
	initialStockWarehouse []float64 // [p]
}

func (p *Parameters) Demand(prod, client, period int) float64 {
	return p.demand[(prod*p.nC+client)*p.nT+period]
}

func (p *Parameters) DepotCapacity(d int) float64       { return p.depotCapacity[d] }
func (p *Parameters) WarehouseCapacity(w int) float64   { return p.warehouseCapacity[w] }
func (p *Parameters) DepotFixedCost(d int) float64      { return p.depotFixedCost[d] }
func (p *Parameters) WarehouseFixedCost(w int) float64  { return p.warehouseFixedCost[w] }
func (p *Parameters) HoldingCostDepot(prod int) float64 { return p.holdingCostDepot[prod] }

func (p *Parameters) HoldingCostWarehouse(prod int) float64 {
	return p.holdingCostWarehouse[prod]
}

func (p *Parameters) TransportFD(f, d int) float64 { return p.transportFD[f*p.nD+d] }
func (p *Parameters) TransportDW(d, w int) float64 { return p.transportDW[d*p.nW+w] }
func (p *Parameters) TransportWC(w, c int) float64 { return p.transportWC[w*p.nC+c] }

func (p *Parameters) SafetyStockDepot(prod int) float64 { return p.safetyStockDepot[prod] }

func (p *Parameters) SafetyStockWarehouse(prod int) float64 {
	return p.safetyStockWarehouse[prod]
}

func (p *Parameters) InitialStockDepot(prod int) float64 { return p.initialStockDepot[prod] }

func (p *Parameters) InitialStockWarehouse(prod int) float64 {
	return p.initialStockWarehouse[prod]
}

// TotalDemand sums demand over every product, client and period
func (p *Parameters) TotalDemand() float64 {
	total := 0.0
	for _, v := range p.demand {
		total += v
	}
	return total
}
