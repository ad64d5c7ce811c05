package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDirection is returned when a direction tag cannot be parsed.
var ErrUnknownDirection = errors.New("unknown direction")

// Direction is the travel direction of a car or the direction requested by a
// hall call.
type Direction int

const (
	DirectionIdle Direction = iota
	DirectionUp
	DirectionDown
)

// String returns the lower-case tag of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionIdle:
		return "idle"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the declared directions.
func (d Direction) Valid() bool {
	return d == DirectionIdle || d == DirectionUp || d == DirectionDown
}

// IsTravel reports whether d can be requested by a hall call.
func (d Direction) IsTravel() bool {
	return d == DirectionUp || d == DirectionDown
}

// ParseDirection converts a tag such as "up" into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "idle":
		return DirectionIdle, nil
	case "up":
		return DirectionUp, nil
	case "down":
		return DirectionDown, nil
	default:
		return DirectionIdle, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

// MarshalText encodes the direction as its tag.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction tag.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
