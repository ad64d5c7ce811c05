// Package elevator implements a single elevator car: its position, travel
// direction and the ordered set of floors it still has to visit.
package elevator

import (
	"slices"

	"github.com/kilianp07/liftsim/core/model"
)

// Car is one elevator unit. It is not safe for concurrent use; the
// dispatcher owning it serializes access.
type Car struct {
	id          int
	floor       int
	direction   model.Direction
	targets     []int
	state       model.CarState
	totalFloors int
}

// NewCar returns an idle car parked at floor 0.
func NewCar(id, totalFloors int) *Car {
	return &Car{id: id, totalFloors: totalFloors}
}

func (c *Car) ID() int                    { return c.id }
func (c *Car) Floor() int                 { return c.floor }
func (c *Car) Direction() model.Direction { return c.direction }
func (c *Car) State() model.CarState      { return c.state }
func (c *Car) Idle() bool                 { return c.state == model.CarIdle }

// Targets returns a copy of the pending floors in visiting order.
func (c *Car) Targets() []int { return slices.Clone(c.targets) }

// RequestTarget adds floor to the car's queue. It returns false when floor is
// outside [0, totalFloors]. A floor already queued is accepted without change.
// The queue is re-sorted from its full content on every insert: ascending
// while the car goes up or is idle, descending while it goes down.
func (c *Car) RequestTarget(floor int) bool {
	if floor < 0 || floor > c.totalFloors {
		return false
	}
	if slices.Contains(c.targets, floor) {
		return true
	}
	c.targets = append(c.targets, floor)
	if c.direction == model.DirectionDown {
		slices.SortFunc(c.targets, func(a, b int) int { return b - a })
	} else {
		slices.Sort(c.targets)
	}
	c.state = model.CarMoving
	return true
}

// Advance performs one simulation step. The car moves one floor towards its
// first target, or, when already standing on it, clears that target without
// moving. served is the floor cleared on this step, if any.
func (c *Car) Advance() (served int, ok bool) {
	if len(c.targets) == 0 {
		c.rest()
		return 0, false
	}
	c.state = model.CarMoving
	next := c.targets[0]
	switch {
	case next > c.floor:
		c.direction = model.DirectionUp
		c.floor++
	case next < c.floor:
		c.direction = model.DirectionDown
		c.floor--
	default:
		c.targets = c.targets[1:]
		if len(c.targets) == 0 {
			c.targets = nil
			c.rest()
		}
		return next, true
	}
	return 0, false
}

// Status returns a snapshot of the car. A car that just received its first
// target reports CarMoving with DirectionIdle until its next Advance.
func (c *Car) Status() model.CarStatus {
	targets := make([]int, len(c.targets))
	copy(targets, c.targets)
	return model.CarStatus{
		ID:           c.id,
		CurrentFloor: c.floor,
		Direction:    c.direction,
		Targets:      targets,
		State:        c.state,
	}
}

func (c *Car) rest() {
	c.state = model.CarIdle
	c.direction = model.DirectionIdle
}
