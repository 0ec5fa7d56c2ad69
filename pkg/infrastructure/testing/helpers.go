package testing

import (
	"fmt"
	"math/rand"

	"github.com/vsinha/netplan/pkg/domain/entities"
)

// NetworkSpec describes a uniform test network: every arc in a tier shares
// one cost and every site in an echelon shares capacity and fixed cost.
type NetworkSpec struct {
	Products, Clients, Periods             int
	Factories, Depots, Warehouses          int
	FirstPeriod                            int // defaults to 1
	Demand                                 float64
	DepotCapacity, WarehouseCapacity       float64
	DepotFixedCost, WarehouseFixedCost     float64
	HoldingDepot, HoldingWarehouse         float64
	CostFD, CostDW, CostWC                 float64
	SafetyStockDepot, SafetyStockWarehouse float64
	InitialStockDepot                      float64
	InitialStockWarehouse                  float64
}

// BuildNetwork expands a NetworkSpec into the 13 tables. Identifiers are
// P1.., C1.., F1.., D1.., W1..
func BuildNetwork(s NetworkSpec) *entities.NetworkData {
	first := s.FirstPeriod
	if first == 0 {
		first = 1
	}

	data := &entities.NetworkData{}
	for p := 1; p <= s.Products; p++ {
		for c := 1; c <= s.Clients; c++ {
			for t := 0; t < s.Periods; t++ {
				data.Demand = append(data.Demand, entities.DemandRecord{
					Product:  ProductID(p),
					Client:   ClientID(c),
					Period:   entities.Period(first + t),
					Quantity: s.Demand,
				})
			}
		}
	}

	for d := 1; d <= s.Depots; d++ {
		data.DepotCapacities = append(data.DepotCapacities, entities.DepotCapacity{Depot: DepotID(d), Capacity: s.DepotCapacity})
		data.DepotFixedCosts = append(data.DepotFixedCosts, entities.DepotFixedCost{Depot: DepotID(d), FixedCost: s.DepotFixedCost})
	}
	for w := 1; w <= s.Warehouses; w++ {
		data.WarehouseCapacities = append(data.WarehouseCapacities, entities.WarehouseCapacity{Warehouse: WarehouseID(w), Capacity: s.WarehouseCapacity})
		data.WarehouseFixedCosts = append(data.WarehouseFixedCosts, entities.WarehouseFixedCost{Warehouse: WarehouseID(w), FixedCost: s.WarehouseFixedCost})
	}

	for p := 1; p <= s.Products; p++ {
		data.HoldingCosts = append(data.HoldingCosts, entities.HoldingCost{Product: ProductID(p), Depot: s.HoldingDepot, Warehouse: s.HoldingWarehouse})
		data.DepotSafetyStocks = append(data.DepotSafetyStocks, entities.SafetyStock{Product: ProductID(p), Quantity: s.SafetyStockDepot})
		data.WarehouseSafetyStocks = append(data.WarehouseSafetyStocks, entities.SafetyStock{Product: ProductID(p), Quantity: s.SafetyStockWarehouse})
		data.DepotInitialStocks = append(data.DepotInitialStocks, entities.InitialStock{Product: ProductID(p), Quantity: s.InitialStockDepot})
		data.WarehouseInitialStocks = append(data.WarehouseInitialStocks, entities.InitialStock{Product: ProductID(p), Quantity: s.InitialStockWarehouse})
	}

	for f := 1; f <= s.Factories; f++ {
		for d := 1; d <= s.Depots; d++ {
			data.FactoryDepotCosts = append(data.FactoryDepotCosts, entities.FactoryDepotCost{Factory: FactoryID(f), Depot: DepotID(d), Cost: s.CostFD})
		}
	}
	for d := 1; d <= s.Depots; d++ {
		for w := 1; w <= s.Warehouses; w++ {
			data.DepotWarehouseCosts = append(data.DepotWarehouseCosts, entities.DepotWarehouseCost{Depot: DepotID(d), Warehouse: WarehouseID(w), Cost: s.CostDW})
		}
	}
	for w := 1; w <= s.Warehouses; w++ {
		for c := 1; c <= s.Clients; c++ {
			data.WarehouseClientCosts = append(data.WarehouseClientCosts, entities.WarehouseClientCost{Warehouse: WarehouseID(w), Client: ClientID(c), Cost: s.CostWC})
		}
	}

	return data
}

// SingleLaneNetwork is one product shipped to one client in one period over
// a single factory -> depot -> warehouse lane. Demand 100, capacities 200,
// unit arc costs and no fixed or holding cost: the optimum is 300 with both
// sites open.
func SingleLaneNetwork() *entities.NetworkData {
	return BuildNetwork(NetworkSpec{
		Products: 1, Clients: 1, Periods: 1,
		Factories: 1, Depots: 1, Warehouses: 1,
		Demand:        100,
		DepotCapacity: 200, WarehouseCapacity: 200,
		CostFD: 1, CostDW: 1, CostWC: 1,
	})
}

// OverCapacityNetwork asks for 300 units through a single warehouse that can
// move 200 per period
func OverCapacityNetwork() *entities.NetworkData {
	return BuildNetwork(NetworkSpec{
		Products: 1, Clients: 1, Periods: 1,
		Factories: 1, Depots: 1, Warehouses: 1,
		Demand:        300,
		DepotCapacity: 1000, WarehouseCapacity: 200,
		CostFD: 1, CostDW: 1, CostWC: 1,
	})
}

// DominantDepotNetwork has two depots: D1 is free to open with unit arc
// costs, D2 charges a fixed cost and five times the transport cost. D1 must
// be opened and D2 left closed; the optimum is 300.
func DominantDepotNetwork() *entities.NetworkData {
	data := BuildNetwork(NetworkSpec{
		Products: 1, Clients: 1, Periods: 1,
		Factories: 1, Depots: 1, Warehouses: 1,
		Demand:        100,
		DepotCapacity: 1000, WarehouseCapacity: 1000,
		CostFD: 1, CostDW: 1, CostWC: 1,
	})

	d2 := DepotID(2)
	data.DepotCapacities = append(data.DepotCapacities, entities.DepotCapacity{Depot: d2, Capacity: 1000})
	data.DepotFixedCosts = append(data.DepotFixedCosts, entities.DepotFixedCost{Depot: d2, FixedCost: 50})
	data.FactoryDepotCosts = append(data.FactoryDepotCosts, entities.FactoryDepotCost{Factory: FactoryID(1), Depot: d2, Cost: 5})
	data.DepotWarehouseCosts = append(data.DepotWarehouseCosts, entities.DepotWarehouseCost{Depot: d2, Warehouse: WarehouseID(1), Cost: 5})
	return data
}

// MultiPeriodNetwork is a 2x2x3 network with two factories, two depots and
// two warehouses, non-zero fixed and holding costs, safety floors and
// initial stock. Demand varies by client and period.
func MultiPeriodNetwork() *entities.NetworkData {
	data := BuildNetwork(NetworkSpec{
		Products: 2, Clients: 2, Periods: 3,
		Factories: 2, Depots: 2, Warehouses: 2,
		DepotCapacity: 500, WarehouseCapacity: 500,
		DepotFixedCost: 100, WarehouseFixedCost: 80,
		HoldingDepot: 0.5, HoldingWarehouse: 1,
		CostFD: 2, CostDW: 1, CostWC: 1.5,
		SafetyStockDepot: 5, SafetyStockWarehouse: 5,
		InitialStockDepot: 20, InitialStockWarehouse: 10,
	})

	for i := range data.Demand {
		r := &data.Demand[i]
		c := 0
		fmt.Sscanf(string(r.Client), "C%d", &c)
		r.Quantity = float64(40 + 10*int(r.Period) + 5*c)
	}

	// make the second lane of each tier more expensive so the optimum is unique
	for i := range data.FactoryDepotCosts {
		if data.FactoryDepotCosts[i].Factory == FactoryID(2) {
			data.FactoryDepotCosts[i].Cost = 3
		}
	}
	for i := range data.DepotWarehouseCosts {
		if data.DepotWarehouseCosts[i].Depot == DepotID(2) {
			data.DepotWarehouseCosts[i].Cost = 2
		}
	}
	return data
}

// RandomNetwork draws a network of up to 2 products, 3 clients, 3 periods,
// 2 factories, 3 depots and 3 warehouses with every cost, capacity, demand
// and stock level drawn independently. Tight draws can be infeasible.
func RandomNetwork(rng *rand.Rand) *entities.NetworkData {
	data := BuildNetwork(NetworkSpec{
		Products: 1 + rng.Intn(2), Clients: 1 + rng.Intn(3), Periods: 1 + rng.Intn(3),
		Factories: 1 + rng.Intn(2), Depots: 1 + rng.Intn(3), Warehouses: 1 + rng.Intn(3),
	})
	draw := func(lo, hi int) float64 { return float64(lo + rng.Intn(hi-lo+1)) }

	for i := range data.Demand {
		data.Demand[i].Quantity = draw(0, 60)
	}
	for i := range data.DepotCapacities {
		data.DepotCapacities[i].Capacity = draw(20, 150)
		data.DepotFixedCosts[i].FixedCost = draw(0, 200)
	}
	for i := range data.WarehouseCapacities {
		data.WarehouseCapacities[i].Capacity = draw(20, 120)
		data.WarehouseFixedCosts[i].FixedCost = draw(0, 150)
	}
	for i := range data.HoldingCosts {
		data.HoldingCosts[i].Depot = draw(0, 3)
		data.HoldingCosts[i].Warehouse = draw(0, 3)
		data.DepotSafetyStocks[i].Quantity = draw(0, 15)
		data.WarehouseSafetyStocks[i].Quantity = draw(0, 15)
		data.DepotInitialStocks[i].Quantity = draw(0, 40)
		data.WarehouseInitialStocks[i].Quantity = draw(0, 40)
	}
	for i := range data.FactoryDepotCosts {
		data.FactoryDepotCosts[i].Cost = draw(1, 10)
	}
	for i := range data.DepotWarehouseCosts {
		data.DepotWarehouseCosts[i].Cost = draw(1, 10)
	}
	for i := range data.WarehouseClientCosts {
		data.WarehouseClientCosts[i].Cost = draw(1, 10)
	}
	return data
}

func ProductID(i int) entities.ProductID     { return entities.ProductID(fmt.Sprintf("P%d", i)) }
func ClientID(i int) entities.ClientID       { return entities.ClientID(fmt.Sprintf("C%d", i)) }
func FactoryID(i int) entities.FactoryID     { return entities.FactoryID(fmt.Sprintf("F%d", i)) }
func DepotID(i int) entities.DepotID         { return entities.DepotID(fmt.Sprintf("D%d", i)) }
func WarehouseID(i int) entities.WarehouseID { return entities.WarehouseID(fmt.Sprintf("W%d", i)) }
