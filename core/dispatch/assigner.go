package dispatch

import (
	"github.com/kilianp07/liftsim/core/elevator"
	"github.com/kilianp07/liftsim/core/model"
)

// Assigner selects the car that should serve a hall call.
type Assigner interface {
	Policy() model.Policy
	// Queues reports whether hall calls wait in the FIFO queue until a car
	// is selected, rather than being assigned when they arrive.
	Queues() bool
	// Select returns the fleet index of the chosen car and its score, or -1
	// when no car can take the call now.
	Select(cars []*elevator.Car, call model.HallCall) (int, float64)
}

// FCFSAssigner hands calls to the first idle car in fleet order.
type FCFSAssigner struct{}

func (FCFSAssigner) Policy() model.Policy { return model.PolicyFCFS }
func (FCFSAssigner) Queues() bool         { return true }

func (FCFSAssigner) Select(cars []*elevator.Car, _ model.HallCall) (int, float64) {
	for i, c := range cars {
		if c.Idle() {
			return i, 0
		}
	}
	return -1, 0
}

// NearestCarAssigner picks the car with the lowest Score. On equal scores the
// earlier car is kept unless the later one is already sweeping towards the
// call in the requested direction and the earlier one is not.
type NearestCarAssigner struct{}

func (NearestCarAssigner) Policy() model.Policy { return model.PolicyNearestCar }
func (NearestCarAssigner) Queues() bool         { return false }

// Select returns the index and score of the chosen car. When tied cars are
// both on their sweep towards the call, the earlier one wins.
func (NearestCarAssigner) Select(cars []*elevator.Car, call model.HallCall) (int, float64) {
	best := -1
	var bestScore float64
	for i, c := range cars {
		s := Score(c.Direction(), c.Floor(), call.Floor, call.Direction)
		switch {
		case best < 0 || s < bestScore:
			best, bestScore = i, s
		case s == bestScore && onSweep(c.Direction(), c.Floor(), call.Floor, call.Direction) &&
			!onSweep(cars[best].Direction(), cars[best].Floor(), call.Floor, call.Direction):
			best = i
		}
	}
	return best, bestScore
}
