package entities

// HoldingCost is one row of holding_costs: per-unit per-period storage cost
// of a product at each echelon
type HoldingCost struct {
	Product   ProductID `json:"product"`
	Depot     float64   `json:"holding_depot"`
	Warehouse float64   `json:"holding_warehouse"`
}

// FactoryDepotCost is the per-unit cost of the factory -> depot arc
type FactoryDepotCost struct {
	Factory FactoryID `json:"factory"`
	Depot   DepotID   `json:"depot"`
	Cost    float64   `json:"cost"`
}

// DepotWarehouseCost is the per-unit cost of the depot -> warehouse arc
type DepotWarehouseCost struct {
	Depot     DepotID     `json:"depot"`
	Warehouse WarehouseID `json:"warehouse"`
	Cost      float64     `json:"cost"`
}

// WarehouseClientCost is the per-unit cost of the warehouse -> client arc
type WarehouseClientCost struct {
	Warehouse WarehouseID `json:"warehouse"`
	Client    ClientID    `json:"client"`
	Cost      float64     `json:"cost"`
}
