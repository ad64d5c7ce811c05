package dispatch

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/liftsim/core/model"
)

// ErrInvalidFloors is returned when a building has fewer than MinFloors floors.
var ErrInvalidFloors = errors.New("total floors must be at least 2")

const (
	// MinFloors is the smallest accepted building height.
	MinFloors = 2
	// DefaultFloors is the default building height.
	DefaultFloors = 10
	// DefaultCars is the default fleet size.
	DefaultCars = 2
	// DefaultTickInterval is the period between two simulated floor advances.
	DefaultTickInterval = 100 * time.Millisecond
)

// Config defines the building and dispatch settings.
type Config struct {
	TotalFloors    int          `json:"total_floors"`
	Cars           int          `json:"cars"`
	Policy         model.Policy `json:"policy"`
	TickIntervalMS int          `json:"tick_interval_ms"`
}

// DefaultConfig returns the configuration used when none is provided.
func DefaultConfig() Config {
	c := Config{Policy: model.PolicyNearestCar}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero values. Policy is left untouched since FCFS is its
// zero value.
func (c *Config) SetDefaults() {
	if c.TotalFloors == 0 {
		c.TotalFloors = DefaultFloors
	}
	if c.Cars == 0 {
		c.Cars = DefaultCars
	}
	if c.TickIntervalMS == 0 {
		c.TickIntervalMS = int(DefaultTickInterval / time.Millisecond)
	}
}

// Validate checks the building bounds.
func (c Config) Validate() error {
	if c.TotalFloors < MinFloors {
		return fmt.Errorf("%w: got %d", ErrInvalidFloors, c.TotalFloors)
	}
	if c.Cars < 1 {
		return fmt.Errorf("at least one car is required, got %d", c.Cars)
	}
	if !c.Policy.Valid() {
		return fmt.Errorf("%w: %d", model.ErrUnknownPolicy, int(c.Policy))
	}
	if c.TickIntervalMS <= 0 {
		return fmt.Errorf("tick_interval_ms must be positive")
	}
	return nil
}

// TickInterval returns the tick period as a duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}
