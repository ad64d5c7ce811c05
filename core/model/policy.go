package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned when a policy name cannot be parsed.
var ErrUnknownPolicy = errors.New("unknown policy")

// Policy selects the algorithm used to assign hall calls to cars.
type Policy int

const (
	// PolicyFCFS queues hall calls and hands the oldest one to the first idle car.
	PolicyFCFS Policy = iota
	// PolicyNearestCar scores every car and assigns the call immediately.
	PolicyNearestCar
)

func (p Policy) String() string {
	switch p {
	case PolicyFCFS:
		return "fcfs"
	case PolicyNearestCar:
		return "nearest"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p == PolicyFCFS || p == PolicyNearestCar
}

// ParsePolicy accepts "fcfs" and "nearest" (and "nearest_car").
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fcfs":
		return PolicyFCFS, nil
	case "nearest", "nearest_car", "nearestcar":
		return PolicyNearestCar, nil
	default:
		return PolicyFCFS, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(p))
	}
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
