package model

import "fmt"

// CarState tells whether a car has pending targets.
type CarState int

const (
	CarIdle CarState = iota
	CarMoving
)

func (s CarState) String() string {
	switch s {
	case CarIdle:
		return "idle"
	case CarMoving:
		return "moving"
	default:
		return fmt.Sprintf("CarState(%d)", int(s))
	}
}

func (s CarState) MarshalText() ([]byte, error) {
	if s != CarIdle && s != CarMoving {
		return nil, fmt.Errorf("unknown car state %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *CarState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = CarIdle
	case "moving":
		*s = CarMoving
	default:
		return fmt.Errorf("unknown car state %q", string(b))
	}
	return nil
}

// CarStatus is a read-only view of one car.
type CarStatus struct {
	ID           int       `json:"id"`
	CurrentFloor int       `json:"current_floor"`
	Direction    Direction `json:"direction"`
	Targets      []int     `json:"targets"`
	State        CarState  `json:"state"`
}

// FleetStatus is a read-only view of a whole building.
type FleetStatus struct {
	Policy      Policy      `json:"policy"`
	TotalFloors int         `json:"total_floors"`
	Tick        uint64      `json:"tick"`
	Pending     int         `json:"pending"`
	Cars        []CarStatus `json:"cars"`
}
