// Package infra holds the adapters around the simulator: the zerolog
// logger, Prometheus and InfluxDB sinks, and the paho MQTT client and bridge.
// They implement interfaces declared under core.
package infra
