package csv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/netplan/pkg/domain/entities"
	fixtures "github.com/vsinha/netplan/pkg/infrastructure/testing"
)

func writeFixture(t *testing.T, data *entities.NetworkData) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, NewWriter().WriteDirectory(dir, data))
	return dir
}

func TestLoadDirectory_RoundTrip(t *testing.T) {
	data := fixtures.MultiPeriodNetwork()
	dir := writeFixture(t, data)

	for _, table := range entities.AllTables {
		assert.FileExists(t, filepath.Join(dir, table.CSVFile()))
	}

	loaded, err := NewLoader().LoadDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, data, loaded)
}

func TestLoadDirectory_HeaderOrderAndExtras(t *testing.T) {
	dir := writeFixture(t, fixtures.SingleLaneNetwork())
	content := "month,extra,demand,client,product\n1.0,x,100,C1,P1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demand_pct.csv"), []byte(content), 0o644))

	loaded, err := NewLoader().LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, loaded.Demand, 1)
	assert.Equal(t, entities.DemandRecord{Product: "P1", Client: "C1", Period: 1, Quantity: 100}, loaded.Demand[0])
}

func TestLoadDirectory_EmptyTableIsLoaded(t *testing.T) {
	data := fixtures.SingleLaneNetwork()
	data.DepotSafetyStocks = nil
	dir := writeFixture(t, data)

	loaded, err := NewLoader().LoadDirectory(dir)
	require.NoError(t, err)
	assert.Empty(t, loaded.DepotSafetyStocks)
}

func TestLoadDirectory_SchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		remove  bool
		table   entities.TableName
		column  string
		row     int
		wantErr string
	}{
		{
			name:    "missing file",
			file:    "holding_costs.csv",
			remove:  true,
			table:   entities.TableHoldingCosts,
			wantErr: "schema error in holding_costs: file holding_costs.csv not found",
		},
		{
			name:    "missing column",
			file:    "capacity_depots.csv",
			content: "depot,cap\nD1,200\n",
			table:   entities.TableCapacityDepots,
			column:  "capacity",
		},
		{
			name:    "non numeric cost",
			file:    "transport_factory_depot.csv",
			content: "factory,depot,cost\nF1,D1,1\nF1,D2,cheap\n",
			table:   entities.TableTransportFactoryDepot,
			column:  "cost",
			row:     2,
			wantErr: `schema error in transport_factory_depot.cost (row 2): invalid number "cheap"`,
		},
		{
			name:    "fractional month",
			file:    "demand_pct.csv",
			content: "product,client,month,demand\nP1,C1,1.5,100\n",
			table:   entities.TableDemand,
			column:  "month",
			row:     1,
			wantErr: `schema error in demand.month (row 1): must be an integer, got "1.5"`,
		},
		{
			name:    "blank number",
			file:    "safety_stock_depots.csv",
			content: "product,safety_stock\nP1,\n",
			table:   entities.TableSafetyStockDepots,
			column:  "safety_stock",
			row:     1,
			wantErr: "schema error in safety_stock_depots.safety_stock (row 1): value is required",
		},
		{
			name:    "ragged row",
			file:    "initial_stock_warehouses.csv",
			content: "product,initial_stock\nP1,0\nP2\n",
			table:   entities.TableInitialStockWarehouses,
			row:     2,
		},
		{
			name:    "empty file",
			file:    "fixed_cost_warehouses.csv",
			content: "",
			table:   entities.TableFixedCostWarehouses,
			wantErr: "schema error in fixed_cost_warehouses: missing header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFixture(t, fixtures.SingleLaneNetwork())
			path := filepath.Join(dir, tt.file)
			if tt.remove {
				require.NoError(t, os.Remove(path))
			} else {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}

			_, err := NewLoader().LoadDirectory(dir)
			require.Error(t, err)

			var se *entities.SchemaError
			require.True(t, errors.As(err, &se), "got %T: %v", err, err)
			assert.Equal(t, tt.table, se.Table)
			assert.Equal(t, tt.column, se.Column)
			assert.Equal(t, tt.row, se.Row)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}
