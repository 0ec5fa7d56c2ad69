package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/netplan/pkg/domain/model"
)

// Lifecycle of one planning run. Every run stream starts with RunStarted and
// ends with either AnalysisCompleted or RunFailed.
const (
	RunStartedEvent        = "run.started"
	ModelBuiltEvent        = "model.built"
	SolveCompletedEvent    = "solve.completed"
	AnalysisCompletedEvent = "analysis.completed"
	RunFailedEvent         = "run.failed"
)

// AllRunEvents lists every lifecycle event type
var AllRunEvents = []string{
	RunStartedEvent,
	ModelBuiltEvent,
	SolveCompletedEvent,
	AnalysisCompletedEvent,
	RunFailedEvent,
}

type RunStarted struct {
	Provider  string         `json:"provider"`
	RowCounts map[string]int `json:"row_counts"`
}

type ModelBuilt struct {
	Stats    model.Stats   `json:"stats"`
	Duration time.Duration `json:"duration"`
}

type SolveCompleted struct {
	Provider       string        `json:"provider"`
	Status         string        `json:"status"`
	ObjectiveValue float64       `json:"objective_value"`
	Runtime        time.Duration `json:"runtime"`
	Violations     int           `json:"violations"`
}

type AnalysisCompleted struct {
	Optimal        bool            `json:"optimal"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	OpenDepots     int             `json:"open_depots"`
	OpenWarehouses int             `json:"open_warehouses"`
}

type RunFailed struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}
