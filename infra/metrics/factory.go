package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/liftsim/core/factory"
	coremetrics "github.com/kilianp07/liftsim/core/metrics"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterMetricsSink("prometheus", func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewPromSinkWithRegistry(coremetrics.Config{}, prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(coremetrics.Config{
			InfluxURL:    c.URL,
			InfluxToken:  c.Token,
			InfluxOrg:    c.Org,
			InfluxBucket: c.Bucket,
		}), nil
	})
}

// NewSink builds the sink described by cfg. Explicit sink modules take
// precedence over the prometheus_enabled and influx_enabled switches.
func NewSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	if len(cfg.Sinks) > 0 {
		return coremetrics.NewMetricsSink(cfg.Sinks)
	}
	var sinks []coremetrics.MetricsSink
	if cfg.PrometheusEnabled {
		s, err := NewPromSink(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	}
	return coremetrics.NewMultiSink(sinks...), nil
}
