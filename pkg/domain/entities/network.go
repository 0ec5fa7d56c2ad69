package entities

// TableName identifies one of the input tables
type TableName string

const (
	TableDemand                   TableName = "demand"
	TableCapacityDepots           TableName = "capacity_depots"
	TableCapacityWarehouses       TableName = "capacity_warehouses"
	TableFixedCostDepots          TableName = "fixed_cost_depots"
	TableFixedCostWarehouses      TableName = "fixed_cost_warehouses"
	TableHoldingCosts             TableName = "holding_costs"
	TableTransportFactoryDepot    TableName = "transport_factory_depot"
	TableTransportDepotWarehouse  TableName = "transport_depot_warehouse"
	TableTransportWarehouseClient TableName = "transport_warehouse_client"
	TableSafetyStockDepots        TableName = "safety_stock_depots"
	TableSafetyStockWarehouses    TableName = "safety_stock_warehouses"
	TableInitialStockDepots       TableName = "initial_stock_depots"
	TableInitialStockWarehouses   TableName = "initial_stock_warehouses"
)

// AllTables lists the input tables in load order
var AllTables = []TableName{
	TableDemand,
	TableCapacityDepots,
	TableCapacityWarehouses,
	TableFixedCostDepots,
	TableFixedCostWarehouses,
	TableHoldingCosts,
	TableTransportFactoryDepot,
	TableTransportDepotWarehouse,
	TableTransportWarehouseClient,
	TableSafetyStockDepots,
	TableSafetyStockWarehouses,
	TableInitialStockDepots,
	TableInitialStockWarehouses,
}

// CSVFile returns the file name a table is stored under in a data directory.
// The demand table keeps its historical name demand_pct.csv.
func (t TableName) CSVFile() string {
	if t == TableDemand {
		return "demand_pct.csv"
	}
	return string(t) + ".csv"
}

// NetworkData is an in-memory snapshot of all input tables. It carries no
// logic beyond copying; validation happens when a model is built from it.
type NetworkData struct {
	Demand                 []DemandRecord        `json:"demand"`
	DepotCapacities        []DepotCapacity       `json:"capacity_depots"`
	WarehouseCapacities    []WarehouseCapacity   `json:"capacity_warehouses"`
	DepotFixedCosts        []DepotFixedCost      `json:"fixed_cost_depots"`
	WarehouseFixedCosts    []WarehouseFixedCost  `json:"fixed_cost_warehouses"`
	HoldingCosts           []HoldingCost         `json:"holding_costs"`
	FactoryDepotCosts      []FactoryDepotCost    `json:"transport_factory_depot"`
	DepotWarehouseCosts    []DepotWarehouseCost  `json:"transport_depot_warehouse"`
	WarehouseClientCosts   []WarehouseClientCost `json:"transport_warehouse_client"`
	DepotSafetyStocks      []SafetyStock         `json:"safety_stock_depots"`
	WarehouseSafetyStocks  []SafetyStock         `json:"safety_stock_warehouses"`
	DepotInitialStocks     []InitialStock        `json:"initial_stock_depots"`
	WarehouseInitialStocks []InitialStock        `json:"initial_stock_warehouses"`
}

// Clone returns a deep copy so the snapshot handed to the model builder
// cannot be changed underneath it
func (n *NetworkData) Clone() *NetworkData {
	if n == nil {
		return nil
	}
	return &NetworkData{
		Demand:                 cloneSlice(n.Demand),
		DepotCapacities:        cloneSlice(n.DepotCapacities),
		WarehouseCapacities:    cloneSlice(n.WarehouseCapacities),
		DepotFixedCosts:        cloneSlice(n.DepotFixedCosts),
		WarehouseFixedCosts:    cloneSlice(n.WarehouseFixedCosts),
		HoldingCosts:           cloneSlice(n.HoldingCosts),
		FactoryDepotCosts:      cloneSlice(n.FactoryDepotCosts),
		DepotWarehouseCosts:    cloneSlice(n.DepotWarehouseCosts),
		WarehouseClientCosts:   cloneSlice(n.WarehouseClientCosts),
		DepotSafetyStocks:      cloneSlice(n.DepotSafetyStocks),
		WarehouseSafetyStocks:  cloneSlice(n.WarehouseSafetyStocks),
		DepotInitialStocks:     cloneSlice(n.DepotInitialStocks),
		WarehouseInitialStocks: cloneSlice(n.WarehouseInitialStocks),
	}
}

// RowCounts returns the number of rows loaded per table
func (n *NetworkData) RowCounts() map[TableName]int {
	return map[TableName]int{
		TableDemand:                   len(n.Demand),
		TableCapacityDepots:           len(n.DepotCapacities),
		TableCapacityWarehouses:       len(n.WarehouseCapacities),
		TableFixedCostDepots:          len(n.DepotFixedCosts),
		TableFixedCostWarehouses:      len(n.WarehouseFixedCosts),
		TableHoldingCosts:             len(n.HoldingCosts),
		TableTransportFactoryDepot:    len(n.FactoryDepotCosts),
		TableTransportDepotWarehouse:  len(n.DepotWarehouseCosts),
		TableTransportWarehouseClient: len(n.WarehouseClientCosts),
		TableSafetyStockDepots:        len(n.DepotSafetyStocks),
		TableSafetyStockWarehouses:    len(n.WarehouseSafetyStocks),
		TableInitialStockDepots:       len(n.DepotInitialStocks),
		TableInitialStockWarehouses:   len(n.WarehouseInitialStocks),
	}
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
