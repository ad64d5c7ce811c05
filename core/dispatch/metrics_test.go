package dispatch

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/liftsim/core/model"
)

func TestMetricsRegistration(t *testing.T) {
	ResetMetrics(nil)
	t.Cleanup(func() { ResetMetrics(nil) })
	reg := prometheus.NewRegistry()
	MustRegisterMetrics(reg)
	// touch metrics so they are exported
	hallCalls.WithLabelValues("fcfs", "accepted").Inc()
	cabinRequests.WithLabelValues("accepted").Inc()
	assignments.WithLabelValues("fcfs").Inc()
	assignScore.WithLabelValues("up").Observe(2)
	pendingCalls.Set(1)
	strandedCalls.Inc()
	ticks.Inc()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, mf := range mfs {
		names[*mf.Name] = true
	}
	expected := []string{
		"hall_calls_total",
		"cabin_requests_total",
		"hall_call_assignments_total",
		"nearest_car_score",
		"pending_hall_calls",
		"stranded_hall_calls_total",
		"simulation_ticks_total",
	}
	for _, n := range expected {
		if !names[n] {
			t.Errorf("metric %s not registered", n)
		}
	}
}

func TestDispatcherUpdatesMetrics(t *testing.T) {
	ResetMetrics(nil)
	t.Cleanup(func() { ResetMetrics(nil) })

	d := newTestDispatcher(t, model.PolicyFCFS)
	require.True(t, d.RequestCar(4, model.DirectionUp))
	require.True(t, d.RequestCar(5, model.DirectionUp))
	require.True(t, d.RequestCar(6, model.DirectionUp))
	require.False(t, d.RequestCar(20, model.DirectionUp))
	require.False(t, d.RequestFloor(3, 1))
	require.True(t, d.RequestFloor(0, 1))
	d.Tick()

	assert.Equal(t, float64(3), testutil.ToFloat64(hallCalls.WithLabelValues("fcfs", "accepted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(hallCalls.WithLabelValues("fcfs", "rejected")))
	assert.Equal(t, float64(2), testutil.ToFloat64(assignments.WithLabelValues("fcfs")))
	assert.Equal(t, float64(1), testutil.ToFloat64(cabinRequests.WithLabelValues("accepted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(cabinRequests.WithLabelValues("rejected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(pendingCalls))
	assert.Equal(t, float64(1), testutil.ToFloat64(ticks))

	require.True(t, d.SetPolicy(model.PolicyNearestCar))
	assert.Equal(t, float64(1), testutil.ToFloat64(strandedCalls))
	require.True(t, d.SetPolicy(model.PolicyFCFS))
	assert.Equal(t, float64(0), testutil.ToFloat64(pendingCalls))
}

func TestNearestCarObservesScore(t *testing.T) {
	ResetMetrics(nil)
	t.Cleanup(func() { ResetMetrics(nil) })

	d := newTestDispatcher(t, model.PolicyNearestCar)
	require.True(t, d.RequestCar(3, model.DirectionDown))
	assert.Equal(t, 1, testutil.CollectAndCount(assignScore))
	assert.Equal(t, float64(1), testutil.ToFloat64(assignments.WithLabelValues("nearest")))
}
