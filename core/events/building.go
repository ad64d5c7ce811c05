package events

import "github.com/kilianp07/liftsim/core/model"

// PolicyEvent is emitted on every accepted policy switch. Stranded counts the
// FCFS calls left in the queue when switching away from FCFS.
type PolicyEvent struct {
	From     model.Policy
	To       model.Policy
	Dropped  int
	Stranded int
}

// ResetEvent is emitted when the fleet is recreated for a new floor count.
type ResetEvent struct {
	TotalFloors int
	Cars        int
}
