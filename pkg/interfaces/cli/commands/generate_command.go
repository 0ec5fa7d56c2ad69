package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/vsinha/netplan/pkg/domain/entities"
	"github.com/vsinha/netplan/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Products   int    // Number of products
	Clients    int    // Number of clients
	Periods    int    // Number of monthly periods, starting at 1
	Factories  int    // Number of factories
	Depots     int    // Number of candidate depots
	Warehouses int    // Number of candidate warehouses
	OutputDir  string // Output directory for generated files
	Seed       int64  // Random seed for reproducible generation
	Help       bool   // Show help
	Verbose    bool   // Verbose output
	Out        io.Writer
}

// GenerateCommand writes a random but always feasible network scenario
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
	out    io.Writer
}

// capacitySlack scales the peak period demand into total site capacity so
// that every scenario is feasible with all sites open
const capacitySlack = 1.5

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	out := config.Out
	if out == nil {
		out = os.Stdout
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
		out:    out,
	}
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}
	if err := cmd.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out,
			"🔧 Generating scenario with %d products, %d clients, %d periods\n",
			cmd.config.Products, cmd.config.Clients, cmd.config.Periods)
		fmt.Fprintf(cmd.out, "🏭 Network: %d factories, %d depots, %d warehouses\n",
			cmd.config.Factories, cmd.config.Depots, cmd.config.Warehouses)
		fmt.Fprintf(cmd.out, "📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Fprintf(cmd.out, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	data := cmd.Scenario()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := csv.NewWriter().WriteDirectory(cmd.config.OutputDir, data); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}

	if cmd.config.Verbose {
		counts := data.RowCounts()
		for _, table := range entities.AllTables {
			fmt.Fprintf(cmd.out, "📦 %s: %d rows\n", table.CSVFile(), counts[table])
		}
		fmt.Fprintf(cmd.out, "✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}
	return nil
}

func (cmd *GenerateCommand) validateInputs() error {
	c := cmd.config
	if c.OutputDir == "" {
		return errors.New("--output is required")
	}
	for name, n := range map[string]int{
		"products": c.Products, "clients": c.Clients, "periods": c.Periods,
		"factories": c.Factories, "depots": c.Depots, "warehouses": c.Warehouses,
	} {
		if n < 1 {
			return fmt.Errorf("--%s must be at least 1, got %d", name, n)
		}
	}
	return nil
}

// Scenario draws the 13 tables. Sites are sized from the peak period
// demand and every initial stock covers its safety floor, so the
// scenario is feasible with every site open.
func (cmd *GenerateCommand) Scenario() *entities.NetworkData {
	c := cmd.config
	data := &entities.NetworkData{}

	periodTotal := make([]float64, c.Periods)
	for p := 1; p <= c.Products; p++ {
		for cl := 1; cl <= c.Clients; cl++ {
			base := float64(20 + cmd.rand.Intn(80))
			for t := 1; t <= c.Periods; t++ {
				// seasonal swing of up to +-30%
				q := math.Round(base * (1 + 0.3*math.Sin(float64(t)*math.Pi/6)*cmd.rand.Float64()))
				data.Demand = append(data.Demand, entities.DemandRecord{
					Product: productID(p), Client: clientID(cl), Period: entities.Period(t), Quantity: q,
				})
				periodTotal[t-1] += q
			}
		}
	}

	peak := 0.0
	for _, v := range periodTotal {
		peak = math.Max(peak, v)
	}
	depotCapacity := roundUp(capacitySlack*peak/float64(c.Depots), 10)
	warehouseCapacity := roundUp(capacitySlack*peak/float64(c.Warehouses), 10)

	for d := 1; d <= c.Depots; d++ {
		data.DepotCapacities = append(data.DepotCapacities, entities.DepotCapacity{Depot: depotID(d), Capacity: depotCapacity})
		data.DepotFixedCosts = append(data.DepotFixedCosts, entities.DepotFixedCost{Depot: depotID(d), FixedCost: cmd.between(5000, 20000, 100)})
	}
	for w := 1; w <= c.Warehouses; w++ {
		data.WarehouseCapacities = append(data.WarehouseCapacities, entities.WarehouseCapacity{Warehouse: warehouseID(w), Capacity: warehouseCapacity})
		data.WarehouseFixedCosts = append(data.WarehouseFixedCosts, entities.WarehouseFixedCost{Warehouse: warehouseID(w), FixedCost: cmd.between(2000, 8000, 100)})
	}

	for p := 1; p <= c.Products; p++ {
		data.HoldingCosts = append(data.HoldingCosts, entities.HoldingCost{
			Product:   productID(p),
			Depot:     cmd.between(0.1, 1, 0.05),
			Warehouse: cmd.between(0.2, 2, 0.05),
		})
		depotSafety := cmd.between(0, 20, 5)
		warehouseSafety := cmd.between(0, 10, 5)
		data.DepotSafetyStocks = append(data.DepotSafetyStocks, entities.SafetyStock{Product: productID(p), Quantity: depotSafety})
		data.WarehouseSafetyStocks = append(data.WarehouseSafetyStocks, entities.SafetyStock{Product: productID(p), Quantity: warehouseSafety})
		data.DepotInitialStocks = append(data.DepotInitialStocks, entities.InitialStock{Product: productID(p), Quantity: depotSafety + cmd.between(0, 30, 5)})
		data.WarehouseInitialStocks = append(data.WarehouseInitialStocks, entities.InitialStock{Product: productID(p), Quantity: warehouseSafety + cmd.between(0, 20, 5)})
	}

	for f := 1; f <= c.Factories; f++ {
		for d := 1; d <= c.Depots; d++ {
			data.FactoryDepotCosts = append(data.FactoryDepotCosts, entities.FactoryDepotCost{Factory: factoryID(f), Depot: depotID(d), Cost: cmd.between(2, 10, 0.5)})
		}
	}
	for d := 1; d <= c.Depots; d++ {
		for w := 1; w <= c.Warehouses; w++ {
			data.DepotWarehouseCosts = append(data.DepotWarehouseCosts, entities.DepotWarehouseCost{Depot: depotID(d), Warehouse: warehouseID(w), Cost: cmd.between(1, 6, 0.5)})
		}
	}
	for w := 1; w <= c.Warehouses; w++ {
		for cl := 1; cl <= c.Clients; cl++ {
			data.WarehouseClientCosts = append(data.WarehouseClientCosts, entities.WarehouseClientCost{Warehouse: warehouseID(w), Client: clientID(cl), Cost: cmd.between(1, 8, 0.5)})
		}
	}
	return data
}

// between draws a value in [lo, hi] on a grid of step
func (cmd *GenerateCommand) between(lo, hi, step float64) float64 {
	steps := int((hi - lo) / step)
	return lo + float64(cmd.rand.Intn(steps+1))*step
}

func roundUp(v, step float64) float64 {
	return math.Max(step, math.Ceil(v/step)*step)
}

func productID(i int) entities.ProductID     { return entities.ProductID(fmt.Sprintf("P%03d", i)) }
func clientID(i int) entities.ClientID       { return entities.ClientID(fmt.Sprintf("C%03d", i)) }
func factoryID(i int) entities.FactoryID     { return entities.FactoryID(fmt.Sprintf("F%02d", i)) }
func depotID(i int) entities.DepotID         { return entities.DepotID(fmt.Sprintf("D%02d", i)) }
func warehouseID(i int) entities.WarehouseID { return entities.WarehouseID(fmt.Sprintf("W%02d", i)) }

func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintln(cmd.out, `Network Scenario Generator

USAGE:
    netplan generate [OPTIONS]

OPTIONS:
    --products <N>      Number of products (default: 3)
    --clients <N>       Number of clients (default: 10)
    --periods <N>       Number of monthly periods (default: 12)
    --factories <N>     Number of factories (default: 2)
    --depots <N>        Number of candidate depots (default: 3)
    --warehouses <N>    Number of candidate warehouses (default: 5)
    --output <DIR>      Output directory for generated files (required)
    --seed <N>          Random seed for reproducible generation (optional)
    --verbose           Enable verbose output
    --help              Show this help message

EXAMPLES:
    # Generate a small scenario
    netplan generate --output ./data/small --seed 42

    # Generate a larger scenario
    netplan generate --products 10 --clients 50 --warehouses 15 --output ./data/large --verbose`)
}
