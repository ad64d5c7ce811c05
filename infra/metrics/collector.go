package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/liftsim/core/events"
	coremetrics "github.com/kilianp07/liftsim/core/metrics"
	"github.com/kilianp07/liftsim/infra/logger"
	"github.com/kilianp07/liftsim/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	log := logger.New("metrics-collector")
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := record(sink, ev, time.Now()); err != nil {
					log.Warnf("record %T: %v", ev, err)
				}
			}
		}
	}()
}

func record(sink coremetrics.MetricsSink, ev eventbus.Event, now time.Time) error {
	switch e := ev.(type) {
	case events.AssignmentEvent:
		return sink.RecordAssignment(coremetrics.AssignmentEvent{
			CallID:    e.Call.ID,
			CarID:     e.CarID,
			Floor:     e.Call.Floor,
			Direction: e.Call.Direction,
			Policy:    e.Policy,
			Score:     e.Score,
			Tick:      e.Tick,
			Time:      now,
		})
	case events.TickEvent:
		r, ok := sink.(coremetrics.CarStateRecorder)
		if !ok {
			return nil
		}
		for _, c := range e.Cars {
			if err := r.RecordCarState(coremetrics.CarStateEvent{Car: c, Tick: e.Tick, Time: now}); err != nil {
				return err
			}
		}
	case events.ArrivalEvent:
		if r, ok := sink.(coremetrics.ArrivalRecorder); ok {
			return r.RecordArrival(coremetrics.ArrivalEvent{CarID: e.CarID, Floor: e.Floor, Tick: e.Tick, Time: now})
		}
	case events.PolicyEvent:
		if r, ok := sink.(coremetrics.PolicyRecorder); ok {
			return r.RecordPolicyChange(coremetrics.PolicyChangeEvent{
				From:     e.From,
				To:       e.To,
				Dropped:  e.Dropped,
				Stranded: e.Stranded,
				Time:     now,
			})
		}
	}
	return nil
}
