package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vsinha/netplan/pkg/domain/entities"
)

// Writer stores network tables as a directory of CSV files readable by
// Loader.LoadDirectory
type Writer struct{}

// NewWriter creates a new CSV writer
func NewWriter() *Writer {
	return &Writer{}
}

// WriteDirectory writes all 13 tables into dir, creating it if needed
func (w *Writer) WriteDirectory(dir string, data *entities.NetworkData) error {
	if data == nil {
		return fmt.Errorf("network data cannot be nil")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tables := map[entities.TableName][][]string{
		entities.TableDemand: rows(data.Demand, func(r entities.DemandRecord) []string {
			return []string{string(r.Product), string(r.Client), strconv.Itoa(int(r.Period)), num(r.Quantity)}
		}),
		entities.TableCapacityDepots: rows(data.DepotCapacities, func(r entities.DepotCapacity) []string {
			return []string{string(r.Depot), num(r.Capacity)}
		}),
		entities.TableCapacityWarehouses: rows(data.WarehouseCapacities, func(r entities.WarehouseCapacity) []string {
			return []string{string(r.Warehouse), num(r.Capacity)}
		}),
		entities.TableFixedCostDepots: rows(data.DepotFixedCosts, func(r entities.DepotFixedCost) []string {
			return []string{string(r.Depot), num(r.FixedCost)}
		}),
		entities.TableFixedCostWarehouses: rows(data.WarehouseFixedCosts, func(r entities.WarehouseFixedCost) []string {
			return []string{string(r.Warehouse), num(r.FixedCost)}
		}),
		entities.TableHoldingCosts: rows(data.HoldingCosts, func(r entities.HoldingCost) []string {
			return []string{string(r.Product), num(r.Depot), num(r.Warehouse)}
		}),
		entities.TableTransportFactoryDepot: rows(data.FactoryDepotCosts, func(r entities.FactoryDepotCost) []string {
			return []string{string(r.Factory), string(r.Depot), num(r.Cost)}
		}),
		entities.TableTransportDepotWarehouse: rows(data.DepotWarehouseCosts, func(r entities.DepotWarehouseCost) []string {
			return []string{string(r.Depot), string(r.Warehouse), num(r.Cost)}
		}),
		entities.TableTransportWarehouseClient: rows(data.WarehouseClientCosts, func(r entities.WarehouseClientCost) []string {
			return []string{string(r.Warehouse), string(r.Client), num(r.Cost)}
		}),
		entities.TableSafetyStockDepots:      rows(data.DepotSafetyStocks, safetyRow),
		entities.TableSafetyStockWarehouses:  rows(data.WarehouseSafetyStocks, safetyRow),
		entities.TableInitialStockDepots:     rows(data.DepotInitialStocks, initialRow),
		entities.TableInitialStockWarehouses: rows(data.WarehouseInitialStocks, initialRow),
	}

	for _, table := range entities.AllTables {
		if err := WriteFile(filepath.Join(dir, table.CSVFile()), Columns[table], tables[table]); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes a header and records to path
func WriteFile(path string, header []string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

func rows[T any](in []T, format func(T) []string) [][]string {
	out := make([][]string, 0, len(in))
	for _, r := range in {
		out = append(out, format(r))
	}
	return out
}

func safetyRow(r entities.SafetyStock) []string {
	return []string{string(r.Product), num(r.Quantity)}
}

func initialRow(r entities.InitialStock) []string {
	return []string{string(r.Product), num(r.Quantity)}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
