package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	hallCalls     *prometheus.CounterVec
	cabinRequests *prometheus.CounterVec
	assignments   *prometheus.CounterVec
	assignScore   *prometheus.HistogramVec
	pendingCalls  prometheus.Gauge
	strandedCalls prometheus.Counter
	ticks         prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec, *prometheus.CounterVec, *prometheus.HistogramVec, prometheus.Gauge, prometheus.Counter, prometheus.Counter) {
	calls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hall_calls_total",
			Help: "Hall calls received, by policy and outcome",
		},
		[]string{"policy", "outcome"},
	)
	cabin := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cabin_requests_total",
			Help: "Cabin button requests received, by outcome",
		},
		[]string{"outcome"},
	)
	asn := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hall_call_assignments_total",
			Help: "Hall calls handed to a car",
		},
		[]string{"policy"},
	)
	score := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nearest_car_score",
			Help:    "Finite scores of the cars selected by the nearest car policy",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		},
		[]string{"direction"},
	)
	pending := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pending_hall_calls",
			Help: "Hall calls waiting in the FCFS queue",
		},
	)
	stranded := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stranded_hall_calls_total",
			Help: "FCFS calls left queued when the policy switched away from FCFS",
		},
	)
	tk := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "simulation_ticks_total",
			Help: "Number of simulation ticks executed",
		},
	)
	return calls, cabin, asn, score, pending, stranded, tk
}

func init() {
	hallCalls, cabinRequests, assignments, assignScore, pendingCalls, strandedCalls, ticks = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(hallCalls, cabinRequests, assignments, assignScore, pendingCalls, strandedCalls, ticks)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	hallCalls, cabinRequests, assignments, assignScore, pendingCalls, strandedCalls, ticks = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
