package kpi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/liftsim/core/dispatch"
	"github.com/kilianp07/liftsim/core/events"
	"github.com/kilianp07/liftsim/core/model"
	"github.com/kilianp07/liftsim/internal/eventbus"
)

func drain(tr *Tracker, sub <-chan eventbus.Event) {
	for {
		select {
		case ev := <-sub:
			tr.Observe(ev)
		default:
			return
		}
	}
}

func TestTrackerWithDispatcher(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	d, err := dispatch.NewDispatcher(dispatch.Config{TotalFloors: 10, Cars: 1, Policy: model.PolicyNearestCar, TickIntervalMS: 10}, bus, nil)
	require.NoError(t, err)
	tr := NewTracker(nil)

	require.True(t, d.RequestCar(3, model.DirectionUp))
	for i := 0; i < 4; i++ {
		d.Tick()
	}
	require.True(t, d.RequestCar(1, model.DirectionDown))
	for i := 0; i < 3; i++ {
		d.Tick()
	}
	drain(tr, sub)

	recs := tr.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, uint64(4), recs[0].WaitTicks)
	assert.Equal(t, 3, recs[0].Floor)
	assert.Equal(t, uint64(3), recs[1].WaitTicks)
	assert.Equal(t, model.DirectionDown, recs[1].Direction)

	s := tr.Summary()
	assert.Equal(t, 2, s.Accepted)
	assert.Equal(t, 2, s.Served)
	assert.InDelta(t, 3.5, s.Mean, 1e-9)
	assert.Equal(t, float64(4), s.Max)
	assert.Equal(t, map[int][]float64{1: {4, 3}}, tr.Samples())
}

func TestTrackerServesAllCallsAtStop(t *testing.T) {
	tr := NewTracker(nil)
	call := func(id string, floor int, tick uint64) events.AssignmentEvent {
		return events.AssignmentEvent{Call: model.HallCall{ID: id, Floor: floor, Direction: model.DirectionUp, ReceivedTick: tick}, CarID: 2}
	}
	tr.Observe(call("a", 5, 0))
	tr.Observe(call("b", 5, 2))
	tr.Observe(call("c", 7, 2))
	tr.Observe(events.ArrivalEvent{CarID: 1, Floor: 5, Tick: 6})
	assert.Empty(t, tr.Records())
	tr.Observe(events.ArrivalEvent{CarID: 2, Floor: 5, Tick: 6})
	recs := tr.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].CallID)
	assert.Equal(t, uint64(6), recs[0].WaitTicks)
	assert.Equal(t, uint64(4), recs[1].WaitTicks)

	tr.Observe(events.PolicyEvent{From: model.PolicyNearestCar, To: model.PolicyFCFS, Dropped: 3})
	tr.Observe(events.ResetEvent{TotalFloors: 12, Cars: 2})
	tr.Observe(events.ArrivalEvent{CarID: 2, Floor: 7, Tick: 9})
	s := tr.Summary()
	assert.Equal(t, 2, s.Served)
	assert.Equal(t, 3, s.Dropped)
	assert.Equal(t, 1, s.Abandoned)
}

func TestSamplesReturnsCopy(t *testing.T) {
	tr := NewTracker(nil)
	tr.Observe(events.AssignmentEvent{Call: model.HallCall{Floor: 2}, CarID: 1})
	tr.Observe(events.ArrivalEvent{CarID: 1, Floor: 2, Tick: 3})
	s := tr.Samples()
	s[1][0] = 99
	s[2] = []float64{1}
	assert.Equal(t, map[int][]float64{1: {3}}, tr.Samples())
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
	one := Summarize([]float64{5})
	assert.Equal(t, 1, one.Served)
	assert.Equal(t, float64(5), one.Mean)
	assert.Zero(t, one.StdDev)
	assert.Equal(t, float64(5), one.P90)

	s := Summarize([]float64{9, 1, 5, 3, 7, 2, 4, 6, 8, 10})
	assert.Equal(t, 10, s.Served)
	assert.InDelta(t, 5.5, s.Mean, 1e-9)
	assert.InDelta(t, 3.02765, s.StdDev, 1e-4)
	assert.Equal(t, float64(5), s.P50)
	assert.Equal(t, float64(9), s.P90)
	assert.Equal(t, float64(10), s.Max)
}

func TestTrackerRun(t *testing.T) {
	bus := eventbus.New()
	tr := NewTracker(nil)
	sub := bus.Subscribe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		tr.Run(ctx, sub)
		close(done)
	}()
	bus.Publish(events.CallEvent{Call: model.HallCall{Floor: 1, Direction: model.DirectionUp}})
	require.Eventually(t, func() bool { return tr.Summary().Accepted == 1 }, time.Second, 5*time.Millisecond)
	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tracker did not stop on closed channel")
	}
}
