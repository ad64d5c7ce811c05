package metrics_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/liftsim/core/factory"
	metrics "github.com/kilianp07/liftsim/core/metrics"
	_ "github.com/kilianp07/liftsim/infra/metrics"
)

func TestSinkTypesIncludeBuiltins(t *testing.T) {
	types := metrics.SinkTypes()
	for _, name := range []string{"influx", "nop", "prometheus"} {
		assert.Contains(t, types, name)
	}
}

func TestNewMetricsSink(t *testing.T) {
	s, err := metrics.NewMetricsSink(nil)
	require.NoError(t, err)
	assert.IsType(t, metrics.NopSink{}, s)

	s, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}})
	require.NoError(t, err)
	assert.IsType(t, metrics.NopSink{}, s)

	s, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "nop"}})
	require.NoError(t, err)
	m, ok := s.(*metrics.MultiSink)
	require.True(t, ok, "got %T", s)
	assert.Len(t, m.Sinks, 2)

	_, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "statsd"}})
	assert.ErrorIs(t, err, factory.ErrUnknownModule)
}

func TestInfluxModuleFallsBackWhenUnreachable(t *testing.T) {
	s, err := metrics.NewMetricsSink([]factory.ModuleConfig{{
		Type: "influx",
		Conf: map[string]any{"url": "http://127.0.0.1:1", "token": "t", "org": "o", "bucket": "lifts"},
	}})
	require.NoError(t, err)
	assert.IsType(t, metrics.NopSink{}, s)
}

func TestConfigDecoding(t *testing.T) {
	var fromYAML metrics.Config
	require.NoError(t, yaml.Unmarshal([]byte("sinks:\n  - type: nop\n  - type: nop\n"), &fromYAML))
	s, err := metrics.NewMetricsSink(fromYAML.Sinks)
	require.NoError(t, err)
	assert.IsType(t, &metrics.MultiSink{}, s)

	var fromJSON metrics.Config
	require.NoError(t, json.Unmarshal([]byte(`{"sinks":[{"type":"missing"}],"prometheus_enabled":true}`), &fromJSON))
	fromJSON.SetDefaults()
	assert.Equal(t, ":2112", fromJSON.PrometheusPort)
	_, err = metrics.NewMetricsSink(fromJSON.Sinks)
	assert.Error(t, err)
}
