package events

import "github.com/kilianp07/liftsim/core/model"

// CallEvent is published for every accepted hall call.
// Queued is true when the call waits in the FCFS queue.
type CallEvent struct {
	Call   model.HallCall
	Policy model.Policy
	Queued bool
}

// AssignmentEvent is published when a hall call is handed to a car.
// Score is zero for FCFS assignments.
type AssignmentEvent struct {
	Call   model.HallCall
	CarID  int
	Policy model.Policy
	Score  float64
	Tick   uint64
}

// ArrivalEvent is published when a car clears a target floor.
type ArrivalEvent struct {
	CarID int
	Floor int
	Tick  uint64
}
