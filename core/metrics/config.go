package metrics

import "github.com/kilianp07/liftsim/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks             []factory.ModuleConfig `json:"sinks"`
	PrometheusEnabled bool                   `json:"prometheus_enabled"`
	PrometheusPort    string                 `json:"prometheus_port"`
	InfluxEnabled     bool                   `json:"influx_enabled"`
	InfluxURL         string                 `json:"influx_url"`
	InfluxToken       string                 `json:"influx_token"`
	InfluxOrg         string                 `json:"influx_org"`
	InfluxBucket      string                 `json:"influx_bucket"`
}

// SetDefaults fills the Prometheus port when Prometheus is enabled.
func (c *Config) SetDefaults() {
	if c.PrometheusEnabled && c.PrometheusPort == "" {
		c.PrometheusPort = ":2112"
	}
}
