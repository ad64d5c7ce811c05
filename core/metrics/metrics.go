package metrics

import (
	"time"

	"github.com/kilianp07/liftsim/core/model"
)

// AssignmentEvent describes a hall call handed to a car.
type AssignmentEvent struct {
	CallID    string
	CarID     int
	Floor     int
	Direction model.Direction
	Policy    model.Policy
	Score     float64
	Tick      uint64
	Time      time.Time
}

// MetricsSink records dispatch decisions for observability purposes.
type MetricsSink interface {
	RecordAssignment(ev AssignmentEvent) error
}

// CarStateEvent is a snapshot of a car taken after a tick.
type CarStateEvent struct {
	Car  model.CarStatus
	Tick uint64
	Time time.Time
}

// CarStateRecorder records car snapshots.
type CarStateRecorder interface {
	RecordCarState(ev CarStateEvent) error
}

// ArrivalEvent records a car clearing a target floor.
type ArrivalEvent struct {
	CarID int
	Floor int
	Tick  uint64
	Time  time.Time
}

// ArrivalRecorder records served floors.
type ArrivalRecorder interface {
	RecordArrival(ev ArrivalEvent) error
}

// PolicyChangeEvent records a switch of the assignment policy.
type PolicyChangeEvent struct {
	From     model.Policy
	To       model.Policy
	Dropped  int
	Stranded int
	Time     time.Time
}

// PolicyRecorder records policy switches.
type PolicyRecorder interface {
	RecordPolicyChange(ev PolicyChangeEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordAssignment(AssignmentEvent) error     { return nil }
func (NopSink) RecordCarState(CarStateEvent) error         { return nil }
func (NopSink) RecordArrival(ArrivalEvent) error           { return nil }
func (NopSink) RecordPolicyChange(PolicyChangeEvent) error { return nil }
