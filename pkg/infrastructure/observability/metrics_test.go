package observability

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanningCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewPlanningCollector(reg)
	require.NoError(t, err)

	c.RecordRun("optimal")
	c.RecordRun("optimal")
	c.RecordRun("infeasible")
	c.SetModelSize(100, 72)
	c.SetTotalCost(1234.5)
	c.ObserveStage("solve", 250*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Runs.WithLabelValues("optimal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Runs.WithLabelValues("infeasible")))
	assert.Equal(t, 100.0, testutil.ToFloat64(c.ModelVariables))
	assert.Equal(t, 72.0, testutil.ToFloat64(c.ModelConstraints))
	assert.Equal(t, 1234.5, testutil.ToFloat64(c.LastTotalCost))
	assert.Equal(t, 1, testutil.CollectAndCount(c.StageDurations))
}

func TestPlanningCollector_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPlanningCollector(reg)
	require.NoError(t, err)
	second, err := NewPlanningCollector(reg)
	require.NoError(t, err)

	second.RecordRun("optimal")
	assert.Equal(t, 1.0, testutil.ToFloat64(first.Runs.WithLabelValues("optimal")))
}

func TestPlanningCollector_NilIsNoop(t *testing.T) {
	var c *PlanningCollector
	assert.NotPanics(t, func() {
		c.RecordRun("optimal")
		c.ObserveStage("build", time.Second)
		c.SetModelSize(1, 1)
		c.SetTotalCost(1)
	})
}

func TestPlanningCollector_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewPlanningCollector(reg)
	require.NoError(t, err)
	c.RecordRun("timeLimit")

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `netplan_runs_total{status="timeLimit"} 1`)
	assert.Contains(t, string(body), "netplan_model_variables")
}

func TestInitTracing(t *testing.T) {
	ctx := context.Background()

	shutdown, err := InitTracing(ctx, TracingConfig{Enabled: false}, nil)
	require.NoError(t, err)
	_, span := Tracer().Start(ctx, "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, shutdown(ctx))

	var buf bytes.Buffer
	shutdown, err = InitTracing(ctx, TracingConfig{Enabled: true, ServiceName: "netplan-test", Writer: &buf}, nil)
	require.NoError(t, err)
	_, span = Tracer().Start(ctx, "model.build")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	ShutdownWithTimeout(ctx, shutdown, nil)

	assert.Contains(t, buf.String(), "model.build")

	_, err = InitTracing(ctx, TracingConfig{Enabled: false}, nil)
	require.NoError(t, err)
}
