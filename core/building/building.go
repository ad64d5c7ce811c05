// Package building owns the dispatcher of a simulated building and drives its
// clock. Changing the floor count replaces the whole fleet.
package building

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/liftsim/core/dispatch"
	"github.com/kilianp07/liftsim/core/events"
	"github.com/kilianp07/liftsim/core/logger"
	"github.com/kilianp07/liftsim/core/model"
	"github.com/kilianp07/liftsim/internal/eventbus"
)

// Option customizes a Building.
type Option func(*Building)

// WithBus publishes dispatch and reset events on bus.
func WithBus(bus eventbus.EventBus) Option {
	return func(b *Building) { b.bus = bus }
}

// WithLogger sets the logger handed to the building and its dispatchers.
func WithLogger(l logger.Logger) Option {
	return func(b *Building) {
		if l != nil {
			b.log = l
		}
	}
}

// Building holds the current Dispatcher. Every forwarded call runs under the
// building mutex so a reconfiguration never interleaves with a tick.
type Building struct {
	mu  sync.Mutex
	cfg dispatch.Config
	d   *dispatch.Dispatcher
	bus eventbus.EventBus
	log logger.Logger
}

// New creates a building with a fresh fleet described by cfg.
func New(cfg dispatch.Config, opts ...Option) (*Building, error) {
	b := &Building{cfg: cfg, log: logger.NopLogger{}}
	for _, o := range opts {
		o(b)
	}
	d, err := dispatch.NewDispatcher(cfg, b.bus, b.log)
	if err != nil {
		return nil, fmt.Errorf("new dispatcher: %w", err)
	}
	b.d = d
	b.log.Infof("building ready floors=%d cars=%d policy=%s", cfg.TotalFloors, cfg.Cars, cfg.Policy)
	return b, nil
}

// Reconfigure discards every car, pending call and tick count and starts over
// with totalFloors floors. The active policy and tick period are kept. On
// error the current fleet is left untouched.
func (b *Building) Reconfigure(totalFloors int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cfg := b.cfg
	cfg.TotalFloors = totalFloors
	cfg.Policy = b.d.Policy()
	d, err := dispatch.NewDispatcher(cfg, b.bus, b.log)
	if err != nil {
		return fmt.Errorf("reconfigure: %w", err)
	}
	b.d = d
	b.cfg = cfg
	b.log.Infof("building reset floors=%d cars=%d", cfg.TotalFloors, cfg.Cars)
	if b.bus != nil {
		b.bus.Publish(events.ResetEvent{TotalFloors: cfg.TotalFloors, Cars: cfg.Cars})
	}
	return nil
}

// RequestCar registers a hall call.
func (b *Building) RequestCar(floor int, dir model.Direction) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.d.RequestCar(floor, dir)
}

// RequestFloor registers a cabin request for the car at the 0-based index.
func (b *Building) RequestFloor(carIndex, floor int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.d.RequestFloor(carIndex, floor)
}

// SetPolicy switches the assignment policy.
func (b *Building) SetPolicy(p model.Policy) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.d.SetPolicy(p) {
		return false
	}
	b.cfg.Policy = p
	return true
}

// Tick advances the simulation by one step.
func (b *Building) Tick() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.d.Tick()
}

func (b *Building) Snapshot() []model.CarStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.d.Snapshot()
}

// Status returns the fleet snapshot together with the building settings.
// All fields are read under one lock so they describe the same tick.
func (b *Building) Status() model.FleetStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return model.FleetStatus{
		Policy:      b.d.Policy(),
		TotalFloors: b.d.TotalFloors(),
		Tick:        b.d.Ticks(),
		Pending:     len(b.d.Pending()),
		Cars:        b.d.Snapshot(),
	}
}

func (b *Building) Pending() []model.HallCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.d.Pending()
}

func (b *Building) Policy() model.Policy {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.d.Policy()
}

func (b *Building) TotalFloors() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.d.TotalFloors()
}

// Cars returns the fleet size.
func (b *Building) Cars() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.d.Cars()
}

// Ticks returns the ticks executed since the last reset.
func (b *Building) Ticks() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.d.Ticks()
}

// TickInterval returns the simulation period.
func (b *Building) TickInterval() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.d.TickInterval()
}

// Config returns the settings of the current fleet.
func (b *Building) Config() dispatch.Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg
}

// Run ticks the simulation at the configured period until ctx is cancelled.
func (b *Building) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.TickInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			b.Tick()
		}
	}
}
