package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/netplan/pkg/domain/entities"
)

// Analysis is the complete output of a planning run and the only structure
// reporting layers consume. When Optimal is false only Status and Reason are
// meaningful.
type Analysis struct {
	RunID     string  `json:"runId,omitempty"`
	Optimal   bool    `json:"optimal"`
	Status    string  `json:"status"`
	Reason    string  `json:"reason,omitempty"`
	Provider  string  `json:"provider,omitempty"`
	RuntimeMS float64 `json:"runtimeMs"`

	TotalCost       decimal.Decimal `json:"totalCost"`
	SolverObjective float64         `json:"solverObjective"`

	OpenDepots       []entities.DepotID     `json:"openDepots"`
	ClosedDepots     []entities.DepotID     `json:"closedDepots"`
	OpenWarehouses   []entities.WarehouseID `json:"openWarehouses"`
	ClosedWarehouses []entities.WarehouseID `json:"closedWarehouses"`

	TransportCost TransportCost `json:"transportCost"`
	FixedCost     SiteCost      `json:"fixedCost"`
	HoldingCost   SiteCost      `json:"holdingCost"`

	FlowByPeriod []PeriodFlow `json:"flowByPeriod"`
	FlowStats    FlowStats    `json:"flowStats"`

	UtilizationByDepot     []SiteUtilization  `json:"utilizationByDepot"`
	UtilizationByWarehouse []SiteUtilization  `json:"utilizationByWarehouse"`
	DepotUtilization       UtilizationSummary `json:"depotUtilization"`
	WarehouseUtilization   UtilizationSummary `json:"warehouseUtilization"`

	MeanStockDepot     float64       `json:"meanStockDepot"`
	MeanStockWarehouse float64       `json:"meanStockWarehouse"`
	StockByPeriod      []StockSeries `json:"stockByPeriod"`

	Flows      []Flow      `json:"flows"`
	SiteStates []SiteState `json:"siteStates"`
}

// CostLine is an absolute cost and its share of the total cost in percent
type CostLine struct {
	Value   decimal.Decimal `json:"value"`
	Percent float64         `json:"percent"`
}

// TransportCost splits transport spend by network tier
type TransportCost struct {
	FD    CostLine `json:"FD"`
	DW    CostLine `json:"DW"`
	WC    CostLine `json:"WC"`
	Total CostLine `json:"total"`
}

// SiteCost splits a site-level cost by echelon
type SiteCost struct {
	Depot     CostLine `json:"depot"`
	Warehouse CostLine `json:"warehouse"`
	Total     CostLine `json:"total"`
}

// PeriodFlow is the total quantity delivered to clients in one period
type PeriodFlow struct {
	Period   entities.Period `json:"period"`
	Quantity float64         `json:"quantity"`
}

// FlowStats summarises FlowByPeriod. Ties resolve to the earliest period.
type FlowStats struct {
	Total     float64         `json:"total"`
	Mean      float64         `json:"mean"`
	Max       float64         `json:"max"`
	MaxPeriod entities.Period `json:"maxPeriod"`
	Min       float64         `json:"min"`
	MinPeriod entities.Period `json:"minPeriod"`
}

// SiteUtilization is the share of horizon capacity an open site used
type SiteUtilization struct {
	Site       string  `json:"site"`
	Throughput float64 `json:"throughput"`
	Capacity   float64 `json:"capacity"` // per period
	Percent    float64 `json:"percent"`
}

// UtilizationSummary aggregates utilization over the open sites of one echelon
type UtilizationSummary struct {
	Mean    float64 `json:"mean"`
	Max     float64 `json:"max"`
	MaxSite string  `json:"maxSite,omitempty"`
	Min     float64 `json:"min"`
	MinSite string  `json:"minSite,omitempty"`
}

// StockSeries is the end-of-period stock of one product at one open site
type StockSeries struct {
	Site    string             `json:"site"`
	Echelon string             `json:"echelon"`
	Product entities.ProductID `json:"product"`
	Stock   []StockPoint       `json:"stock"`
}

type StockPoint struct {
	Period   entities.Period `json:"period"`
	Quantity float64         `json:"quantity"`
}

// Flow is one non-negligible warehouse -> client shipment
type Flow struct {
	Product   entities.ProductID   `json:"product"`
	Warehouse entities.WarehouseID `json:"warehouse"`
	Client    entities.ClientID    `json:"client"`
	Period    entities.Period      `json:"period"`
	Quantity  float64              `json:"quantity"`
}

// SiteState is the raw activation value of a site
type SiteState struct {
	Site      string  `json:"site"`
	Echelon   string  `json:"echelon"`
	OpenValue float64 `json:"openValue"`
	Open      bool    `json:"open"`
}
