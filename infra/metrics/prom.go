package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/liftsim/core/metrics"
	"github.com/kilianp07/liftsim/core/model"
)

// PromSink exposes per-car state and assignment counts as Prometheus metrics.
type PromSink struct {
	assignments *prometheus.CounterVec
	arrivals    *prometheus.CounterVec
	floor       *prometheus.GaugeVec
	targets     *prometheus.GaugeVec
	moving      *prometheus.GaugeVec
	switches    *prometheus.CounterVec
}

// NewPromSink registers car metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "car_assignments_total",
		Help: "Hall calls assigned to each car",
	}, []string{"car_id", "policy"})
	arrivals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "car_arrivals_total",
		Help: "Target floors cleared by each car",
	}, []string{"car_id"})
	floor := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "car_floor",
		Help: "Current floor of each car",
	}, []string{"car_id"})
	targets := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "car_targets",
		Help: "Number of floors each car still has to visit",
	}, []string{"car_id"})
	moving := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "car_moving",
		Help: "1 when the car has targets, 0 when idle",
	}, []string{"car_id"})
	switches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "policy_switches_total",
		Help: "Accepted assignment policy switches",
	}, []string{"from", "to"})

	var err error
	if assignments, err = register(reg, assignments); err != nil {
		return nil, err
	}
	if arrivals, err = register(reg, arrivals); err != nil {
		return nil, err
	}
	if floor, err = register(reg, floor); err != nil {
		return nil, err
	}
	if targets, err = register(reg, targets); err != nil {
		return nil, err
	}
	if moving, err = register(reg, moving); err != nil {
		return nil, err
	}
	if switches, err = register(reg, switches); err != nil {
		return nil, err
	}
	return &PromSink{
		assignments: assignments,
		arrivals:    arrivals,
		floor:       floor,
		targets:     targets,
		moving:      moving,
		switches:    switches,
	}, nil
}

// register returns the already registered collector when c was registered
// before, which happens when several sinks share one registerer.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordAssignment increments the assignment counter of the car.
func (s *PromSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	s.assignments.WithLabelValues(strconv.Itoa(ev.CarID), ev.Policy.String()).Inc()
	return nil
}

// RecordCarState updates the per-car gauges.
func (s *PromSink) RecordCarState(ev coremetrics.CarStateEvent) error {
	id := strconv.Itoa(ev.Car.ID)
	s.floor.WithLabelValues(id).Set(float64(ev.Car.CurrentFloor))
	s.targets.WithLabelValues(id).Set(float64(len(ev.Car.Targets)))
	moving := 0.0
	if ev.Car.State == model.CarMoving {
		moving = 1
	}
	s.moving.WithLabelValues(id).Set(moving)
	return nil
}

// RecordArrival counts a cleared target floor.
func (s *PromSink) RecordArrival(ev coremetrics.ArrivalEvent) error {
	s.arrivals.WithLabelValues(strconv.Itoa(ev.CarID)).Inc()
	return nil
}

// RecordPolicyChange counts a policy switch.
func (s *PromSink) RecordPolicyChange(ev coremetrics.PolicyChangeEvent) error {
	s.switches.WithLabelValues(ev.From.String(), ev.To.String()).Inc()
	return nil
}
