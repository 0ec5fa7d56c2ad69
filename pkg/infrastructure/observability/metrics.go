package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vsinha/netplan/pkg/infrastructure/logging"
)

// PlanningCollector bundles the Prometheus metrics of planning runs.
// All methods are safe on a nil receiver.
type PlanningCollector struct {
	gatherer prometheus.Gatherer

	Runs             *prometheus.CounterVec
	StageDurations   *prometheus.HistogramVec
	ModelVariables   prometheus.Gauge
	ModelConstraints prometheus.Gauge
	LastTotalCost    prometheus.Gauge
}

// NewPlanningCollector registers planning metrics against reg, defaulting to
// the global registry when nil.
func NewPlanningCollector(reg prometheus.Registerer) (*PlanningCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netplan_runs_total",
		Help: "Planning runs by terminal status.",
	}, []string{"status"}), "netplan_runs_total")
	if err != nil {
		return nil, err
	}

	stages, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "netplan_stage_duration_seconds",
		Help:    "Duration of each pipeline stage (build, solve, verify, analyze).",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
	}, []string{"stage"}), "netplan_stage_duration_seconds")
	if err != nil {
		return nil, err
	}

	variables, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netplan_model_variables",
		Help: "Decision variables in the last built model.",
	}), "netplan_model_variables")
	if err != nil {
		return nil, err
	}
	constraints, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netplan_model_constraints",
		Help: "Constraints in the last built model.",
	}), "netplan_model_constraints")
	if err != nil {
		return nil, err
	}
	cost, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netplan_last_total_cost",
		Help: "Total cost of the last optimal plan.",
	}), "netplan_last_total_cost")
	if err != nil {
		return nil, err
	}

	return &PlanningCollector{
		gatherer:         gatherer,
		Runs:             runs,
		StageDurations:   stages,
		ModelVariables:   variables,
		ModelConstraints: constraints,
		LastTotalCost:    cost,
	}, nil
}

func (c *PlanningCollector) RecordRun(status string) {
	if c == nil {
		return
	}
	c.Runs.WithLabelValues(status).Inc()
}

func (c *PlanningCollector) ObserveStage(stage string, d time.Duration) {
	if c == nil {
		return
	}
	c.StageDurations.WithLabelValues(stage).Observe(d.Seconds())
}

func (c *PlanningCollector) SetModelSize(variables, constraints int) {
	if c == nil {
		return
	}
	c.ModelVariables.Set(float64(variables))
	c.ModelConstraints.Set(float64(constraints))
}

func (c *PlanningCollector) SetTotalCost(cost float64) {
	if c == nil {
		return
	}
	c.LastTotalCost.Set(cost)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *PlanningCollector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr in the background. The returned function
// shuts the server down.
func (c *PlanningCollector) Serve(addr string, log logging.Logger) func(context.Context) error {
	if log == nil {
		log = logging.Noop()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(context.Background(), "metrics server stopped", logging.String("addr", addr), logging.Err(err))
		}
	}()
	log.Info(context.Background(), "serving metrics", logging.String("addr", addr))
	return srv.Shutdown
}

// register adds collector to reg, reusing an identical collector that is
// already registered under the same name
func register[T prometheus.Collector](reg prometheus.Registerer, collector T, name string) (T, error) {
	if err := reg.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return collector, nil
}
