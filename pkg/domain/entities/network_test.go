package entities

import "testing"

func TestNetworkData_CloneIsDeep(t *testing.T) {
	original := &NetworkData{
		Demand:          []DemandRecord{{Product: "P1", Client: "C1", Period: 1, Quantity: 100}},
		DepotCapacities: []DepotCapacity{{Depot: "D1", Capacity: 200}},
	}

	clone := original.Clone()
	clone.Demand[0].Quantity = 999
	clone.DepotCapacities = append(clone.DepotCapacities, DepotCapacity{Depot: "D2", Capacity: 50})

	if original.Demand[0].Quantity != 100 {
		t.Errorf("Expected original demand to stay 100, got %g", original.Demand[0].Quantity)
	}
	if len(original.DepotCapacities) != 1 {
		t.Errorf("Expected original to keep 1 depot, got %d", len(original.DepotCapacities))
	}
	if clone.WarehouseCapacities != nil {
		t.Errorf("Expected nil tables to stay nil in clone")
	}
}

func TestNetworkData_CloneNil(t *testing.T) {
	var n *NetworkData
	if n.Clone() != nil {
		t.Errorf("Expected nil clone of nil snapshot")
	}
}

func TestTableName_CSVFile(t *testing.T) {
	testCases := []struct {
		table    TableName
		expected string
	}{
		{TableDemand, "demand_pct.csv"},
		{TableCapacityDepots, "capacity_depots.csv"},
		{TableTransportWarehouseClient, "transport_warehouse_client.csv"},
		{TableInitialStockWarehouses, "initial_stock_warehouses.csv"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.table), func(t *testing.T) {
			if got := tc.table.CSVFile(); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}

	if len(AllTables) != 13 {
		t.Errorf("Expected 13 input tables, got %d", len(AllTables))
	}
}

func TestNetworkData_RowCounts(t *testing.T) {
	n := &NetworkData{
		Demand:       []DemandRecord{{}, {}},
		HoldingCosts: []HoldingCost{{}},
	}
	counts := n.RowCounts()
	if counts[TableDemand] != 2 {
		t.Errorf("Expected 2 demand rows, got %d", counts[TableDemand])
	}
	if counts[TableHoldingCosts] != 1 {
		t.Errorf("Expected 1 holding cost row, got %d", counts[TableHoldingCosts])
	}
	if counts[TableCapacityWarehouses] != 0 {
		t.Errorf("Expected 0 warehouse capacity rows, got %d", counts[TableCapacityWarehouses])
	}
}
