package scenario

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kilianp07/liftsim/core/building"
	"github.com/kilianp07/liftsim/core/dispatch"
	"github.com/kilianp07/liftsim/core/kpi"
	"github.com/kilianp07/liftsim/core/logger"
	"github.com/kilianp07/liftsim/core/model"
	"github.com/kilianp07/liftsim/internal/eventbus"
)

// ErrExpectation is returned when the final car floors differ from Expect.
var ErrExpectation = errors.New("scenario expectation failed")

// Frame is the fleet state after one tick.
type Frame struct {
	Tick uint64            `json:"tick"`
	Cars []model.CarStatus `json:"cars"`
}

// Result summarizes a run.
type Result struct {
	Name     string            `json:"name"`
	Status   model.FleetStatus `json:"status"`
	KPI      kpi.Summary       `json:"kpi"`
	Rejected []int             `json:"rejected_steps,omitempty"`
}

// Floors returns the final floor of every car.
func (r Result) Floors() []int {
	out := make([]int, len(r.Status.Cars))
	for i, c := range r.Status.Cars {
		out[i] = c.CurrentFloor
	}
	return out
}

// RunOption customizes Run.
type RunOption func(*runner)

// WithFrames calls fn with the fleet state after every tick.
func WithFrames(fn func(Frame)) RunOption {
	return func(r *runner) { r.onFrame = fn }
}

// WithLogger sets the logger used by the simulated building.
func WithLogger(l logger.Logger) RunOption {
	return func(r *runner) { r.log = l }
}

type runner struct {
	onFrame func(Frame)
	log     logger.Logger
}

// Run replays s on a fresh building. Refused requests are recorded in
// Result.Rejected by 1-based step number. The returned error wraps
// ErrExpectation when the final floors do not match s.Expect.
func Run(s Scenario, opts ...RunOption) (Result, error) {
	r := runner{log: logger.NopLogger{}}
	for _, o := range opts {
		o(&r)
	}
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	cfg, err := s.Building.config()
	if err != nil {
		return Result{}, err
	}

	bus := eventbus.NewWithBuffer(4096)
	defer bus.Close()
	sub := bus.Subscribe()
	tracker := kpi.NewTracker(r.log)
	drain := func() {
		for {
			select {
			case ev := <-sub:
				tracker.Observe(ev)
			default:
				return
			}
		}
	}

	b, err := building.New(cfg, building.WithBus(bus), building.WithLogger(r.log))
	if err != nil {
		return Result{}, err
	}
	res := Result{Name: s.Name}
	for i, st := range s.Steps {
		if !r.apply(b, st, drain) {
			res.Rejected = append(res.Rejected, i+1)
		}
		drain()
	}
	res.Status = b.Status()
	res.KPI = tracker.Summary()

	if s.Expect != nil && s.Expect.Floors != nil {
		if got := res.Floors(); !slices.Equal(got, s.Expect.Floors) {
			return res, fmt.Errorf("%w: floors %v, want %v", ErrExpectation, got, s.Expect.Floors)
		}
	}
	return res, nil
}

func (r runner) apply(b *building.Building, st Step, drain func()) bool {
	switch {
	case st.Call != nil:
		dir, err := model.ParseDirection(st.Call.Direction)
		if err != nil {
			r.log.Warnf("scenario call: %v", err)
			return false
		}
		return b.RequestCar(st.Call.Floor, dir)
	case st.Cabin != nil:
		return b.RequestFloor(st.Cabin.Car-1, st.Cabin.Floor)
	case st.Policy != "":
		p, err := model.ParsePolicy(st.Policy)
		if err != nil {
			r.log.Warnf("scenario policy: %v", err)
			return false
		}
		return b.SetPolicy(p)
	case st.Floors != 0:
		if err := b.Reconfigure(st.Floors); err != nil {
			r.log.Warnf("scenario floors: %v", err)
			return false
		}
		return true
	default:
		for n := 0; n < st.Tick; n++ {
			b.Tick()
			drain()
			if r.onFrame != nil {
				r.onFrame(Frame{Tick: b.Ticks(), Cars: b.Snapshot()})
			}
		}
		return true
	}
}

func (bc Building) config() (dispatch.Config, error) {
	cfg := dispatch.Config{TotalFloors: bc.Floors, Cars: bc.Cars}
	if bc.Policy != "" {
		p, err := model.ParsePolicy(bc.Policy)
		if err != nil {
			return dispatch.Config{}, err
		}
		cfg.Policy = p
	} else {
		cfg.Policy = model.PolicyNearestCar
	}
	cfg.SetDefaults()
	return cfg, nil
}
