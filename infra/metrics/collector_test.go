package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/liftsim/core/dispatch"
	coremetrics "github.com/kilianp07/liftsim/core/metrics"
	"github.com/kilianp07/liftsim/core/model"
	"github.com/kilianp07/liftsim/internal/eventbus"
)

type captureSink struct {
	mu          sync.Mutex
	assignments []coremetrics.AssignmentEvent
	states      []coremetrics.CarStateEvent
	arrivals    []coremetrics.ArrivalEvent
	policies    []coremetrics.PolicyChangeEvent
}

func (c *captureSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assignments = append(c.assignments, ev)
	return nil
}

func (c *captureSink) RecordCarState(ev coremetrics.CarStateEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states = append(c.states, ev)
	return nil
}

func (c *captureSink) RecordArrival(ev coremetrics.ArrivalEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.arrivals = append(c.arrivals, ev)
	return nil
}

func (c *captureSink) RecordPolicyChange(ev coremetrics.PolicyChangeEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policies = append(c.policies, ev)
	return nil
}

func (c *captureSink) counts() (int, int, int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.assignments), len(c.states), len(c.arrivals), len(c.policies)
}

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sink := &captureSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartEventCollector(ctx, bus, sink)

	d, err := dispatch.NewDispatcher(dispatch.Config{TotalFloors: 5, Cars: 2, Policy: model.PolicyNearestCar, TickIntervalMS: 10}, bus, nil)
	require.NoError(t, err)
	require.True(t, d.RequestCar(1, model.DirectionUp))
	d.Tick()
	d.Tick()
	require.True(t, d.SetPolicy(model.PolicyFCFS))

	require.Eventually(t, func() bool {
		a, s, arr, p := sink.counts()
		return a == 1 && s == 4 && arr == 1 && p == 1
	}, time.Second, 5*time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, 1, sink.assignments[0].CarID)
	assert.Equal(t, 1, sink.assignments[0].Floor)
	assert.Equal(t, model.PolicyNearestCar, sink.assignments[0].Policy)
	assert.Equal(t, coremetrics.ArrivalEvent{CarID: 1, Floor: 1, Tick: 2, Time: sink.arrivals[0].Time}, sink.arrivals[0])
	assert.Equal(t, model.PolicyFCFS, sink.policies[0].To)
}

// Sinks without optional recorders only receive assignments.
func TestStartEventCollector_AssignmentOnlySink(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	var mu sync.Mutex
	count := 0
	sink := assignmentFunc(func(coremetrics.AssignmentEvent) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartEventCollector(ctx, bus, sink)

	d, err := dispatch.NewDispatcher(dispatch.Config{TotalFloors: 5, Cars: 1, Policy: model.PolicyFCFS, TickIntervalMS: 10}, bus, nil)
	require.NoError(t, err)
	require.True(t, d.RequestCar(2, model.DirectionDown))
	d.Tick()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, time.Second, 5*time.Millisecond)
}

type assignmentFunc func(coremetrics.AssignmentEvent) error

func (f assignmentFunc) RecordAssignment(ev coremetrics.AssignmentEvent) error { return f(ev) }

func TestNewSink(t *testing.T) {
	s, err := NewSink(coremetrics.Config{})
	require.NoError(t, err)
	assert.IsType(t, coremetrics.NopSink{}, s)

	s, err = NewSink(coremetrics.Config{Sinks: nil, PrometheusEnabled: true})
	require.NoError(t, err)
	assert.IsType(t, &PromSink{}, s)
}
