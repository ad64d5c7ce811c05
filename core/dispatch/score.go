package dispatch

import (
	"math"

	"github.com/kilianp07/liftsim/core/model"
)

// reversePenalty weighs the distance to a call the car meets only after
// turning around at the end of its sweep.
const reversePenalty = 3

// Score estimates the cost for a car at floor, travelling in dir, to serve
// the hall call (callFloor, callDir). Lower is better; +Inf means the car
// cannot serve the call without reversing.
func Score(dir model.Direction, floor, callFloor int, callDir model.Direction) float64 {
	switch dir {
	case model.DirectionUp:
		switch {
		case callDir == model.DirectionUp && callFloor >= floor:
			return float64(callFloor - floor)
		case callDir == model.DirectionDown && callFloor <= floor:
			return float64(reversePenalty * (floor - callFloor))
		}
		return math.Inf(1)
	case model.DirectionDown:
		switch {
		case callDir == model.DirectionDown && callFloor <= floor:
			return float64(floor - callFloor)
		case callDir == model.DirectionUp && callFloor >= floor:
			return float64(reversePenalty * (callFloor - floor))
		}
		return math.Inf(1)
	default:
		return math.Abs(float64(floor - callFloor))
	}
}

// onSweep reports whether a car is already heading towards the call in the
// call's direction.
func onSweep(dir model.Direction, floor, callFloor int, callDir model.Direction) bool {
	if dir != callDir {
		return false
	}
	switch dir {
	case model.DirectionUp:
		return floor <= callFloor
	case model.DirectionDown:
		return floor >= callFloor
	}
	return false
}
