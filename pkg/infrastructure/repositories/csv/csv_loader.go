package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vsinha/netplan/pkg/domain/entities"
)

// Columns lists the required header of every table. Extra columns are
// ignored and column order is free.
var Columns = map[entities.TableName][]string{
	entities.TableDemand:                   {"product", "client", "month", "demand"},
	entities.TableCapacityDepots:           {"depot", "capacity"},
	entities.TableCapacityWarehouses:       {"warehouse", "capacity"},
	entities.TableFixedCostDepots:          {"depot", "fixed_cost"},
	entities.TableFixedCostWarehouses:      {"warehouse", "fixed_cost"},
	entities.TableHoldingCosts:             {"product", "holding_depot", "holding_warehouse"},
	entities.TableTransportFactoryDepot:    {"factory", "depot", "cost"},
	entities.TableTransportDepotWarehouse:  {"depot", "warehouse", "cost"},
	entities.TableTransportWarehouseClient: {"warehouse", "client", "cost"},
	entities.TableSafetyStockDepots:        {"product", "safety_stock"},
	entities.TableSafetyStockWarehouses:    {"product", "safety_stock"},
	entities.TableInitialStockDepots:       {"product", "initial_stock"},
	entities.TableInitialStockWarehouses:   {"product", "initial_stock"},
}

// Loader reads the network tables from a directory of CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDirectory reads all 13 tables from dir. Any unreadable file, header
// mismatch or unparsable number is reported as a *entities.SchemaError.
// Value domains and key consistency are left to the model builder.
func (l *Loader) LoadDirectory(dir string) (*entities.NetworkData, error) {
	data := &entities.NetworkData{}
	var err error

	if data.Demand, err = loadTable(dir, entities.TableDemand, parseDemand); err != nil {
		return nil, err
	}
	if data.DepotCapacities, err = loadTable(dir, entities.TableCapacityDepots, func(r record) (entities.DepotCapacity, error) {
		v, err := r.number("capacity")
		return entities.DepotCapacity{Depot: entities.DepotID(r.key("depot")), Capacity: v}, err
	}); err != nil {
		return nil, err
	}
	if data.WarehouseCapacities, err = loadTable(dir, entities.TableCapacityWarehouses, func(r record) (entities.WarehouseCapacity, error) {
		v, err := r.number("capacity")
		return entities.WarehouseCapacity{Warehouse: entities.WarehouseID(r.key("warehouse")), Capacity: v}, err
	}); err != nil {
		return nil, err
	}
	if data.DepotFixedCosts, err = loadTable(dir, entities.TableFixedCostDepots, func(r record) (entities.DepotFixedCost, error) {
		v, err := r.number("fixed_cost")
		return entities.DepotFixedCost{Depot: entities.DepotID(r.key("depot")), FixedCost: v}, err
	}); err != nil {
		return nil, err
	}
	if data.WarehouseFixedCosts, err = loadTable(dir, entities.TableFixedCostWarehouses, func(r record) (entities.WarehouseFixedCost, error) {
		v, err := r.number("fixed_cost")
		return entities.WarehouseFixedCost{Warehouse: entities.WarehouseID(r.key("warehouse")), FixedCost: v}, err
	}); err != nil {
		return nil, err
	}
	if data.HoldingCosts, err = loadTable(dir, entities.TableHoldingCosts, parseHoldingCost); err != nil {
		return nil, err
	}
	if data.FactoryDepotCosts, err = loadTable(dir, entities.TableTransportFactoryDepot, func(r record) (entities.FactoryDepotCost, error) {
		v, err := r.number("cost")
		return entities.FactoryDepotCost{
			Factory: entities.FactoryID(r.key("factory")),
			Depot:   entities.DepotID(r.key("depot")),
			Cost:    v,
		}, err
	}); err != nil {
		return nil, err
	}
	if data.DepotWarehouseCosts, err = loadTable(dir, entities.TableTransportDepotWarehouse, func(r record) (entities.DepotWarehouseCost, error) {
		v, err := r.number("cost")
		return entities.DepotWarehouseCost{
			Depot:     entities.DepotID(r.key("depot")),
			Warehouse: entities.WarehouseID(r.key("warehouse")),
			Cost:      v,
		}, err
	}); err != nil {
		return nil, err
	}
	if data.WarehouseClientCosts, err = loadTable(dir, entities.TableTransportWarehouseClient, func(r record) (entities.WarehouseClientCost, error) {
		v, err := r.number("cost")
		return entities.WarehouseClientCost{
			Warehouse: entities.WarehouseID(r.key("warehouse")),
			Client:    entities.ClientID(r.key("client")),
			Cost:      v,
		}, err
	}); err != nil {
		return nil, err
	}
	if data.DepotSafetyStocks, err = loadTable(dir, entities.TableSafetyStockDepots, parseSafetyStock); err != nil {
		return nil, err
	}
	if data.WarehouseSafetyStocks, err = loadTable(dir, entities.TableSafetyStockWarehouses, parseSafetyStock); err != nil {
		return nil, err
	}
	if data.DepotInitialStocks, err = loadTable(dir, entities.TableInitialStockDepots, parseInitialStock); err != nil {
		return nil, err
	}
	if data.WarehouseInitialStocks, err = loadTable(dir, entities.TableInitialStockWarehouses, parseInitialStock); err != nil {
		return nil, err
	}

	return data, nil
}

// record is one data row with columns addressed by header name
type record struct {
	table  entities.TableName
	row    int
	index  map[string]int
	fields []string
}

func (r record) key(column string) string {
	return strings.TrimSpace(r.fields[r.index[column]])
}

func (r record) number(column string) (float64, error) {
	raw := r.key(column)
	if raw == "" {
		return 0, r.errorf(column, "value is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, r.errorf(column, "invalid number %q", raw)
	}
	return v, nil
}

// integer accepts integral floats such as "3.0" as written by spreadsheet
// exports
func (r record) integer(column string) (int, error) {
	raw := r.key(column)
	if raw == "" {
		return 0, r.errorf(column, "value is required")
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, r.errorf(column, "must be an integer, got %q", raw)
	}
	return int(v), nil
}

func (r record) errorf(column, format string, args ...any) error {
	return &entities.SchemaError{Table: r.table, Column: column, Row: r.row, Reason: fmt.Sprintf(format, args...)}
}

func loadTable[T any](dir string, table entities.TableName, parse func(record) (T, error)) ([]T, error) {
	path := filepath.Join(dir, table.CSVFile())
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &entities.SchemaError{Table: table, Reason: fmt.Sprintf("file %s not found", table.CSVFile())}
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &entities.SchemaError{Table: table, Reason: "missing header"}
	}
	if err != nil {
		return nil, parseError(table, err)
	}
	index, err := headerIndex(table, header)
	if err != nil {
		return nil, err
	}

	var rows []T
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(table, err)
		}

		value, err := parse(record{table: table, row: row, index: index, fields: fields})
		if err != nil {
			return nil, err
		}
		rows = append(rows, value)
	}
	return rows, nil
}

func headerIndex(table entities.TableName, header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}
	for _, col := range Columns[table] {
		if _, ok := index[col]; !ok {
			return nil, &entities.SchemaError{
				Table:  table,
				Column: col,
				Reason: fmt.Sprintf("header mismatch: expected columns %v, got %v", Columns[table], header),
			}
		}
	}
	return index, nil
}

// parseError maps a malformed CSV line to a SchemaError. Row is relative to
// the first data row.
func parseError(table entities.TableName, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &entities.SchemaError{Table: table, Row: max(pe.Line-1, 0), Reason: pe.Err.Error()}
	}
	return fmt.Errorf("failed to read %s: %w", table.CSVFile(), err)
}

func parseDemand(r record) (entities.DemandRecord, error) {
	month, err := r.integer("month")
	if err != nil {
		return entities.DemandRecord{}, err
	}
	qty, err := r.number("demand")
	if err != nil {
		return entities.DemandRecord{}, err
	}
	return entities.DemandRecord{
		Product:  entities.ProductID(r.key("product")),
		Client:   entities.ClientID(r.key("client")),
		Period:   entities.Period(month),
		Quantity: qty,
	}, nil
}

func parseHoldingCost(r record) (entities.HoldingCost, error) {
	depot, err := r.number("holding_depot")
	if err != nil {
		return entities.HoldingCost{}, err
	}
	warehouse, err := r.number("holding_warehouse")
	if err != nil {
		return entities.HoldingCost{}, err
	}
	return entities.HoldingCost{Product: entities.ProductID(r.key("product")), Depot: depot, Warehouse: warehouse}, nil
}

func parseSafetyStock(r record) (entities.SafetyStock, error) {
	v, err := r.number("safety_stock")
	return entities.SafetyStock{Product: entities.ProductID(r.key("product")), Quantity: v}, err
}

func parseInitialStock(r record) (entities.InitialStock, error) {
	v, err := r.number("initial_stock")
	return entities.InitialStock{Product: entities.ProductID(r.key("product")), Quantity: v}, err
}
