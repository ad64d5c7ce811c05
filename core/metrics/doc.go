// Package metrics defines the sink interfaces used to record dispatch
// activity. A sink must record assignments; car snapshots, arrivals and
// policy switches are recorded only by sinks implementing the matching
// recorder interface. NewMetricsSink builds sinks from configuration and
// returns a MultiSink when several are configured.
package metrics
