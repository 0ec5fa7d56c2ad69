package entities

// DepotCapacity is one row of capacity_depots (per-period throughput ceiling)
type DepotCapacity struct {
	Depot    DepotID `json:"depot"`
	Capacity float64 `json:"capacity"`
}

// WarehouseCapacity is one row of capacity_warehouses
type WarehouseCapacity struct {
	Warehouse WarehouseID `json:"warehouse"`
	Capacity  float64     `json:"capacity"`
}

// DepotFixedCost is one row of fixed_cost_depots (one-time opening cost)
type DepotFixedCost struct {
	Depot     DepotID `json:"depot"`
	FixedCost float64 `json:"fixed_cost"`
}

// WarehouseFixedCost is one row of fixed_cost_warehouses
type WarehouseFixedCost struct {
	Warehouse WarehouseID `json:"warehouse"`
	FixedCost float64     `json:"fixed_cost"`
}
