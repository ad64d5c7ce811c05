package kpi

import (
	"context"
	"sync"

	"github.com/tiendc/go-deepcopy"

	"github.com/kilianp07/liftsim/core/events"
	"github.com/kilianp07/liftsim/core/logger"
	"github.com/kilianp07/liftsim/internal/eventbus"
)

type stop struct {
	car   int
	floor int
}

// Tracker matches hall call assignments with the arrival of the assigned car
// and keeps the resulting wait times. It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	open      map[stop][]events.AssignmentEvent
	records   []WaitRecord
	byCar     map[int][]float64
	accepted  int
	dropped   int
	abandoned int
	log       logger.Logger
}

// NewTracker returns an empty tracker. log may be nil.
func NewTracker(log logger.Logger) *Tracker {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Tracker{
		open:  map[stop][]events.AssignmentEvent{},
		byCar: map[int][]float64{},
		log:   log,
	}
}

// Observe updates the tracker with one dispatch event. Unknown events are
// ignored.
func (t *Tracker) Observe(ev eventbus.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch e := ev.(type) {
	case events.CallEvent:
		t.accepted++
	case events.AssignmentEvent:
		k := stop{car: e.CarID, floor: e.Call.Floor}
		t.open[k] = append(t.open[k], e)
	case events.ArrivalEvent:
		k := stop{car: e.CarID, floor: e.Floor}
		for _, a := range t.open[k] {
			wait := e.Tick - a.Call.ReceivedTick
			t.records = append(t.records, WaitRecord{
				CallID:    a.Call.ID,
				CarID:     e.CarID,
				Floor:     e.Floor,
				Direction: a.Call.Direction,
				Policy:    a.Policy,
				WaitTicks: wait,
			})
			t.byCar[e.CarID] = append(t.byCar[e.CarID], float64(wait))
		}
		delete(t.open, k)
	case events.PolicyEvent:
		t.dropped += e.Dropped
	case events.ResetEvent:
		n := 0
		for _, calls := range t.open {
			n += len(calls)
		}
		if n > 0 {
			t.log.Infof("reset abandoned %d assigned hall calls", n)
		}
		t.abandoned += n
		t.open = map[stop][]events.AssignmentEvent{}
	}
}

// Run consumes sub until ctx is cancelled or the channel is closed.
func (t *Tracker) Run(ctx context.Context, sub <-chan eventbus.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			t.Observe(ev)
		}
	}
}

// Summary returns the wait time statistics of every served call so far.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	waits := make([]float64, len(t.records))
	for i, r := range t.records {
		waits[i] = float64(r.WaitTicks)
	}
	s := Summarize(waits)
	s.Accepted = t.accepted
	s.Dropped = t.dropped
	s.Abandoned = t.abandoned
	return s
}

// Records returns the served calls in arrival order.
func (t *Tracker) Records() []WaitRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]WaitRecord(nil), t.records...)
}

// Samples returns the wait times grouped by car id.
func (t *Tracker) Samples() map[int][]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := map[int][]float64{}
	if err := deepcopy.Copy(&out, t.byCar); err != nil {
		t.log.Errorf("copy kpi samples: %v", err)
		return map[int][]float64{}
	}
	return out
}
