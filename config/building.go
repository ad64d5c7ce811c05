package config

import (
	"time"

	"github.com/kilianp07/liftsim/core/dispatch"
	"github.com/kilianp07/liftsim/core/model"
)

// BuildingConfig describes the simulated building. Policy is a name accepted
// by model.ParsePolicy.
type BuildingConfig struct {
	Floors         int    `json:"floors"`
	Cars           int    `json:"cars"`
	Policy         string `json:"policy"`
	TickIntervalMS int    `json:"tick_interval_ms"`
}

// SetDefaults applies sane defaults.
func (c *BuildingConfig) SetDefaults() {
	if c.Floors == 0 {
		c.Floors = dispatch.DefaultFloors
	}
	if c.Cars == 0 {
		c.Cars = dispatch.DefaultCars
	}
	if c.Policy == "" {
		c.Policy = model.PolicyNearestCar.String()
	}
	if c.TickIntervalMS == 0 {
		c.TickIntervalMS = int(dispatch.DefaultTickInterval / time.Millisecond)
	}
}

// DispatchConfig converts the section into a validated dispatch.Config.
func (c BuildingConfig) DispatchConfig() (dispatch.Config, error) {
	p, err := model.ParsePolicy(c.Policy)
	if err != nil {
		return dispatch.Config{}, err
	}
	cfg := dispatch.Config{TotalFloors: c.Floors, Cars: c.Cars, Policy: p, TickIntervalMS: c.TickIntervalMS}
	if err := cfg.Validate(); err != nil {
		return dispatch.Config{}, err
	}
	return cfg, nil
}

// APIConfig configures the HTTP API. An empty Listen disables it.
type APIConfig struct {
	Listen string `json:"listen"`
}

// StatusConfig configures the periodic fleet status publication.
type StatusConfig struct {
	PublishIntervalMS int `json:"publish_interval_ms"`
}

// SetDefaults applies sane defaults.
func (c *StatusConfig) SetDefaults() {
	if c.PublishIntervalMS == 0 {
		c.PublishIntervalMS = 500
	}
}

// PublishInterval returns the status period as a duration.
func (c StatusConfig) PublishInterval() time.Duration {
	return time.Duration(c.PublishIntervalMS) * time.Millisecond
}
