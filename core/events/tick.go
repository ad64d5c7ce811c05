package events

import "github.com/kilianp07/liftsim/core/model"

// TickEvent carries the fleet state right after a simulation step.
type TickEvent struct {
	Tick uint64
	Cars []model.CarStatus
}
