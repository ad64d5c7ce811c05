package dispatch

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"

	"github.com/kilianp07/liftsim/core/elevator"
	"github.com/kilianp07/liftsim/core/events"
	"github.com/kilianp07/liftsim/core/logger"
	"github.com/kilianp07/liftsim/core/model"
	"github.com/kilianp07/liftsim/internal/eventbus"
)

// Dispatcher owns the fleet of cars and routes hall calls and cabin
// requests to them according to the active policy. All methods are safe for
// concurrent use; each one runs under a single mutex so no caller observes a
// partially updated car.
type Dispatcher struct {
	mu          sync.Mutex
	cars        []*elevator.Car
	assigners   map[model.Policy]Assigner
	assigner    Assigner
	pending     []model.HallCall
	totalFloors int
	interval    time.Duration
	tick        uint64
	bus         eventbus.EventBus
	logger      logger.Logger
}

// NewDispatcher creates a fleet of cfg.Cars idle cars at floor 0.
// bus and log may be nil.
func NewDispatcher(cfg Config, bus eventbus.EventBus, log logger.Logger) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	d := &Dispatcher{
		cars:        make([]*elevator.Car, cfg.Cars),
		totalFloors: cfg.TotalFloors,
		interval:    cfg.TickInterval(),
		bus:         bus,
		logger:      log,
		assigners: map[model.Policy]Assigner{
			model.PolicyFCFS:       FCFSAssigner{},
			model.PolicyNearestCar: NearestCarAssigner{},
		},
	}
	for i := range d.cars {
		d.cars[i] = elevator.NewCar(i+1, cfg.TotalFloors)
	}
	d.assigner = d.assigners[cfg.Policy]
	pendingCalls.Set(0)
	return d, nil
}

// RequestCar registers a hall call at floor heading in dir. It returns false
// when the floor is outside the building or dir is not Up or Down.
func (d *Dispatcher) RequestCar(floor int, dir model.Direction) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	policy := d.assigner.Policy().String()
	if floor < 0 || floor > d.totalFloors || !dir.IsTravel() {
		hallCalls.WithLabelValues(policy, "rejected").Inc()
		d.logger.Debugf("rejected hall call floor=%d direction=%s", floor, dir)
		return false
	}
	hallCalls.WithLabelValues(policy, "accepted").Inc()
	call := model.HallCall{ID: uuid.NewString(), Floor: floor, Direction: dir, ReceivedTick: d.tick}
	d.publish(events.CallEvent{Call: call, Policy: d.assigner.Policy(), Queued: d.assigner.Queues()})

	if d.assigner.Queues() {
		d.pending = append(d.pending, call)
		pendingCalls.Set(float64(len(d.pending)))
		d.assignQueued()
		return true
	}
	idx, score := d.assigner.Select(d.cars, call)
	if idx >= 0 {
		d.assign(idx, call, score)
	}
	return true
}

// RequestFloor forwards a cabin request to the car at carIndex (0-based
// fleet position). Policies are bypassed.
func (d *Dispatcher) RequestFloor(carIndex, floor int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if carIndex < 0 || carIndex >= len(d.cars) {
		cabinRequests.WithLabelValues("rejected").Inc()
		return false
	}
	if !d.cars[carIndex].RequestTarget(floor) {
		cabinRequests.WithLabelValues("rejected").Inc()
		d.logger.Debugf("rejected cabin request car=%d floor=%d", carIndex+1, floor)
		return false
	}
	cabinRequests.WithLabelValues("accepted").Inc()
	return true
}

// SetPolicy switches the assignment policy. Switching to FCFS always clears
// the queue. Switching to NearestCar leaves queued FCFS calls in place; they
// are not served while NearestCar is active.
func (d *Dispatcher) SetPolicy(p model.Policy) bool {
	a, ok := d.assigners[p]
	if !ok {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	ev := events.PolicyEvent{From: d.assigner.Policy(), To: p}
	if a.Queues() {
		ev.Dropped = len(d.pending)
		d.pending = nil
		pendingCalls.Set(0)
	} else if len(d.pending) > 0 {
		ev.Stranded = len(d.pending)
		strandedCalls.Add(float64(ev.Stranded))
		d.logger.Warnf("%d queued hall calls left unserved while policy is %s", ev.Stranded, p)
	}
	d.assigner = a
	d.logger.Infof("policy %s -> %s", ev.From, ev.To)
	d.publish(ev)
	return true
}

// Tick advances every car by one step in fleet order. Under FCFS each car
// that went idle during the step gets one chance to take a queued call.
func (d *Dispatcher) Tick() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tick++
	ticks.Inc()
	freed := 0
	for _, c := range d.cars {
		wasIdle := c.Idle()
		if floor, ok := c.Advance(); ok {
			d.publish(events.ArrivalEvent{CarID: c.ID(), Floor: floor, Tick: d.tick})
		}
		if !wasIdle && c.Idle() {
			freed++
		}
	}
	if d.assigner.Queues() {
		for i := 0; i < freed; i++ {
			if !d.assignQueued() {
				break
			}
		}
	}
	if d.bus != nil {
		d.bus.Publish(events.TickEvent{Tick: d.tick, Cars: d.statuses()})
	}
}

// Snapshot returns a copy of every car's status in fleet order.
func (d *Dispatcher) Snapshot() []model.CarStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.statuses()
}

// Pending returns a copy of the FCFS queue, oldest first.
func (d *Dispatcher) Pending() []model.HallCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []model.HallCall
	if err := deepcopy.Copy(&out, d.pending); err != nil {
		d.logger.Errorf("copy pending calls: %v", err)
		return nil
	}
	return out
}

// Policy returns the active policy.
func (d *Dispatcher) Policy() model.Policy {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.assigner.Policy()
}

// Ticks returns the number of ticks executed so far.
func (d *Dispatcher) Ticks() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tick
}

// TotalFloors returns the highest floor of the building.
func (d *Dispatcher) TotalFloors() int { return d.totalFloors }

// TickInterval returns the configured simulation period.
func (d *Dispatcher) TickInterval() time.Duration { return d.interval }

// Cars returns the fleet size.
func (d *Dispatcher) Cars() int { return len(d.cars) }

// assignQueued hands the oldest queued call to the first idle car.
// At most one call is assigned. Callers hold d.mu.
func (d *Dispatcher) assignQueued() bool {
	if len(d.pending) == 0 {
		return false
	}
	idx, score := d.assigner.Select(d.cars, d.pending[0])
	if idx < 0 {
		return false
	}
	call := d.pending[0]
	d.pending = d.pending[1:]
	if len(d.pending) == 0 {
		d.pending = nil
	}
	pendingCalls.Set(float64(len(d.pending)))
	d.assign(idx, call, score)
	return true
}

func (d *Dispatcher) assign(idx int, call model.HallCall, score float64) {
	car := d.cars[idx]
	car.RequestTarget(call.Floor)
	policy := d.assigner.Policy()
	assignments.WithLabelValues(policy.String()).Inc()
	if policy == model.PolicyNearestCar && !math.IsInf(score, 1) {
		assignScore.WithLabelValues(call.Direction.String()).Observe(score)
	}
	d.logger.Debugw("hall call assigned", map[string]any{
		"call_id":   call.ID,
		"car":       car.ID(),
		"floor":     call.Floor,
		"direction": call.Direction.String(),
		"policy":    policy.String(),
		"score":     score,
	})
	d.publish(events.AssignmentEvent{Call: call, CarID: car.ID(), Policy: policy, Score: score, Tick: d.tick})
}

func (d *Dispatcher) statuses() []model.CarStatus {
	out := make([]model.CarStatus, len(d.cars))
	for i, c := range d.cars {
		out[i] = c.Status()
	}
	return out
}

func (d *Dispatcher) publish(ev eventbus.Event) {
	if d.bus != nil {
		d.bus.Publish(ev)
	}
}
