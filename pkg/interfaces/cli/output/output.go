package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/netplan/pkg/application/dto"
	"github.com/vsinha/netplan/pkg/domain/entities"
	csvrepo "github.com/vsinha/netplan/pkg/infrastructure/repositories/csv"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	SolveTime time.Duration
	DataDir   string
	Out       io.Writer // defaults to stdout
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Generate creates output in the specified format
func Generate(result *dto.Analysis, config Config) error {
	if result == nil {
		return fmt.Errorf("no analysis to report")
	}
	switch config.Format {
	case "text", "":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	case "csv":
		return generateCSVOutput(result, config)
	case "html":
		return generateHTMLOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

const rule = "======================================================================"

// generateTextOutput prints the optimization report
func generateTextOutput(result *dto.Analysis, config Config) error {
	w := config.out()

	fmt.Fprintf(w, "\n%s\n                      OPTIMIZATION RESULTS\n%s\n", rule, rule)

	fmt.Fprintf(w, "\n📊 SOLUTION STATUS\n")
	fmt.Fprintf(w, "   Solver: %s\n", orDash(result.Provider))
	fmt.Fprintf(w, "   Status: %s\n", result.Status)
	fmt.Fprintf(w, "   Solve time: %.2f seconds\n", result.RuntimeMS/1000)

	if !result.Optimal {
		fmt.Fprintf(w, "⚠️  WARNING: no optimal solution (%s)\n", result.Reason)
		fmt.Fprintf(w, "\n%s\n", rule)
		return nil
	}

	fmt.Fprintf(w, "\n💰 OPTIMAL TOTAL COST: %s\n", money(result.TotalCost.InexactFloat64()))

	fmt.Fprintf(w, "\n🏢 NETWORK CONFIGURATION\n")
	nD := len(result.OpenDepots) + len(result.ClosedDepots)
	nW := len(result.OpenWarehouses) + len(result.ClosedWarehouses)
	fmt.Fprintf(w, "   Open depots (%d/%d): %s\n", len(result.OpenDepots), nD, list(result.OpenDepots, 0))
	fmt.Fprintf(w, "   Closed depots (%d/%d): %s\n", len(result.ClosedDepots), nD, list(result.ClosedDepots, 0))
	fmt.Fprintf(w, "   Open warehouses (%d/%d): %s\n", len(result.OpenWarehouses), nW, list(result.OpenWarehouses, 10))
	fmt.Fprintf(w, "   Closed warehouses (%d/%d): %s\n", len(result.ClosedWarehouses), nW, list(result.ClosedWarehouses, 10))

	fmt.Fprintf(w, "\n📈 COST BREAKDOWN\n")
	tc := result.TransportCost
	fmt.Fprintf(w, "\n   TRANSPORT COSTS (%.1f%%):\n", tc.Total.Percent)
	costLine(w, "Factory → Depot:", tc.FD)
	costLine(w, "Depot → Warehouse:", tc.DW)
	costLine(w, "Warehouse → Client:", tc.WC)
	totalLine(w, "TOTAL TRANSPORT:", tc.Total)

	fc := result.FixedCost
	fmt.Fprintf(w, "\n   FIXED COSTS (%.1f%%):\n", fc.Total.Percent)
	costLine(w, "Depots:", fc.Depot)
	costLine(w, "Warehouses:", fc.Warehouse)
	totalLine(w, "TOTAL FIXED:", fc.Total)

	hc := result.HoldingCost
	fmt.Fprintf(w, "\n   HOLDING COSTS (%.1f%%):\n", hc.Total.Percent)
	costLine(w, "Depots:", hc.Depot)
	costLine(w, "Warehouses:", hc.Warehouse)
	totalLine(w, "TOTAL HOLDING:", hc.Total)

	fs := result.FlowStats
	fmt.Fprintf(w, "\n📦 FLOW ANALYSIS\n")
	fmt.Fprintf(w, "   Total volume delivered to clients: %s units\n", units(fs.Total))
	fmt.Fprintf(w, "   Mean flow per period: %s units\n", units(fs.Mean))
	fmt.Fprintf(w, "   Maximum flow: %s units (period %d)\n", units(fs.Max), fs.MaxPeriod)
	fmt.Fprintf(w, "   Minimum flow: %s units (period %d)\n", units(fs.Min), fs.MinPeriod)

	fmt.Fprintf(w, "\n⚙️  CAPACITY UTILIZATION\n")
	utilizationBlock(w, "Depots", "depot", result.UtilizationByDepot, result.DepotUtilization)
	utilizationBlock(w, "Warehouses", "warehouse", result.UtilizationByWarehouse, result.WarehouseUtilization)

	fmt.Fprintf(w, "\n📊 STOCK ANALYSIS\n")
	fmt.Fprintf(w, "   Mean stock at depots: %s units\n", units(result.MeanStockDepot))
	fmt.Fprintf(w, "   Mean stock at warehouses: %s units\n", units(result.MeanStockWarehouse))

	fmt.Fprintf(w, "\n%s\n", rule)

	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		filename := filepath.Join(config.OutputDir, "analysis.json")
		if err := writeJSONFile(result, filename); err != nil {
			return err
		}
		if config.Verbose {
			fmt.Fprintf(w, "💾 Results saved to: %s\n", filename)
		}
	}
	return nil
}

func costLine(w io.Writer, label string, line dto.CostLine) {
	fmt.Fprintf(w, "      - %-20s %15s (%5.2f%%)\n", label, money(line.Value.InexactFloat64()), line.Percent)
}

func totalLine(w io.Writer, label string, line dto.CostLine) {
	fmt.Fprintf(w, "      - %-20s %15s\n", label, money(line.Value.InexactFloat64()))
}

func utilizationBlock(w io.Writer, title, noun string, sites []dto.SiteUtilization, s dto.UtilizationSummary) {
	if len(sites) == 0 {
		return
	}
	fmt.Fprintf(w, "   %s:\n", title)
	fmt.Fprintf(w, "      - Mean utilization: %.1f%%\n", s.Mean)
	fmt.Fprintf(w, "      - Max utilization: %.1f%% (%s %s)\n", s.Max, noun, s.MaxSite)
	fmt.Fprintf(w, "      - Min utilization: %.1f%% (%s %s)\n", s.Min, noun, s.MinSite)
}

// generateJSONOutput creates JSON output
func generateJSONOutput(result *dto.Analysis, config Config) error {
	if config.OutputDir == "" {
		enc := json.NewEncoder(config.out())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(config.OutputDir, "analysis.json")
	if err := writeJSONFile(result, filename); err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

func writeJSONFile(result *dto.Analysis, filename string) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

// CSVFiles lists the files written by the csv format
var CSVFiles = []string{
	"sites_depots.csv",
	"sites_warehouses.csv",
	"flows_warehouse_client.csv",
	"cost_breakdown.csv",
	"flow_by_period.csv",
	"utilization.csv",
	"stock_by_period.csv",
}

// generateCSVOutput exports the analysis as a set of CSV files
func generateCSVOutput(result *dto.Analysis, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}
	if !result.Optimal {
		return fmt.Errorf("no optimal solution to export: %s", result.Reason)
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var depots, warehouses [][]string
	for _, s := range result.SiteStates {
		row := []string{s.Site, num(s.OpenValue), strconv.FormatBool(s.Open)}
		if s.Echelon == entities.DepotEchelon.String() {
			depots = append(depots, row)
		} else {
			warehouses = append(warehouses, row)
		}
	}

	flows := make([][]string, 0, len(result.Flows))
	for _, f := range result.Flows {
		flows = append(flows, []string{string(f.Product), string(f.Warehouse), string(f.Client), strconv.Itoa(int(f.Period)), num(f.Quantity)})
	}

	costs := [][]string{
		costRow("transport", "factory_depot", result.TransportCost.FD),
		costRow("transport", "depot_warehouse", result.TransportCost.DW),
		costRow("transport", "warehouse_client", result.TransportCost.WC),
		costRow("fixed", "depot", result.FixedCost.Depot),
		costRow("fixed", "warehouse", result.FixedCost.Warehouse),
		costRow("holding", "depot", result.HoldingCost.Depot),
		costRow("holding", "warehouse", result.HoldingCost.Warehouse),
		{"total", "", result.TotalCost.String(), "100"},
	}

	periods := make([][]string, 0, len(result.FlowByPeriod))
	for _, pf := range result.FlowByPeriod {
		periods = append(periods, []string{strconv.Itoa(int(pf.Period)), num(pf.Quantity)})
	}

	var utilization [][]string
	for _, u := range result.UtilizationByDepot {
		utilization = append(utilization, utilizationRow("depot", u))
	}
	for _, u := range result.UtilizationByWarehouse {
		utilization = append(utilization, utilizationRow("warehouse", u))
	}

	var stock [][]string
	for _, series := range result.StockByPeriod {
		for _, pt := range series.Stock {
			stock = append(stock, []string{series.Echelon, series.Site, string(series.Product), strconv.Itoa(int(pt.Period)), num(pt.Quantity)})
		}
	}

	files := []struct {
		name    string
		header  []string
		records [][]string
	}{
		{CSVFiles[0], []string{"depot", "open_value", "open"}, depots},
		{CSVFiles[1], []string{"warehouse", "open_value", "open"}, warehouses},
		{CSVFiles[2], []string{"product", "warehouse", "client", "month", "quantity"}, flows},
		{CSVFiles[3], []string{"category", "component", "cost", "percent"}, costs},
		{CSVFiles[4], []string{"month", "quantity"}, periods},
		{CSVFiles[5], []string{"echelon", "site", "throughput", "capacity", "percent"}, utilization},
		{CSVFiles[6], []string{"echelon", "site", "product", "month", "stock"}, stock},
	}

	for _, f := range files {
		path := filepath.Join(config.OutputDir, f.name)
		if err := csvrepo.WriteFile(path, f.header, f.records); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "💾 CSV results saved to %s:\n", config.OutputDir)
		for _, f := range files {
			fmt.Fprintf(config.out(), "  %s (%d rows)\n", f.name, len(f.records))
		}
	}
	return nil
}

func costRow(category, component string, line dto.CostLine) []string {
	return []string{category, component, line.Value.String(), num(line.Percent)}
}

func utilizationRow(echelon string, u dto.SiteUtilization) []string {
	return []string{echelon, u.Site, num(u.Throughput), num(u.Capacity), num(u.Percent)}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// list renders ids as [a, b, c], truncated after limit entries when limit > 0
func list[T ~string](ids []T, limit int) string {
	parts := make([]string, 0, len(ids))
	for i, id := range ids {
		if limit > 0 && i == limit {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, string(id))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// money formats v with two decimals and thousands separators
func money(v float64) string {
	return group(strconv.FormatFloat(v, 'f', 2, 64))
}

// units formats v rounded to whole units with thousands separators
func units(v float64) string {
	return group(strconv.FormatFloat(v, 'f', 0, 64))
}

func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}
