package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/liftsim/api/cars"
	"github.com/kilianp07/liftsim/config"
	"github.com/kilianp07/liftsim/core/building"
	"github.com/kilianp07/liftsim/core/kpi"
	coremetrics "github.com/kilianp07/liftsim/core/metrics"
	coremqtt "github.com/kilianp07/liftsim/core/mqtt"
	"github.com/kilianp07/liftsim/infra/logger"
	"github.com/kilianp07/liftsim/infra/metrics"
	"github.com/kilianp07/liftsim/infra/mqtt"
	"github.com/kilianp07/liftsim/internal/eventbus"
)

// Option customizes a Service.
type Option func(*Service)

// WithMQTTClient uses c instead of dialing the configured broker.
func WithMQTTClient(c coremqtt.Client) Option {
	return func(s *Service) { s.client = c }
}

// Service wires the building to its MQTT bridge, HTTP API, KPI tracker and
// metrics sinks.
type Service struct {
	Building *building.Building
	KPI      *kpi.Tracker
	Bridge   *mqtt.Bridge

	cfg    *config.Config
	bus    *eventbus.Bus
	kpiSub <-chan eventbus.Event
	sink   coremetrics.MetricsSink
	client coremqtt.Client
	log    logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	logg := logger.New("service")
	s := &Service{cfg: cfg, log: logg}
	for _, o := range opts {
		o(s)
	}

	dc, err := cfg.Building.DispatchConfig()
	if err != nil {
		return nil, fmt.Errorf("building config: %w", err)
	}
	s.bus = eventbus.NewWithBuffer(1024)
	s.Building, err = building.New(dc, building.WithBus(s.bus), building.WithLogger(logger.New("dispatch")))
	if err != nil {
		return nil, err
	}
	s.KPI = kpi.NewTracker(logger.New("kpi"))
	s.kpiSub = s.bus.Subscribe()

	s.sink, err = metrics.NewSink(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	if s.client == nil && cfg.MQTT.Enabled() {
		c, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		s.client = c
	}
	if s.client != nil {
		s.Bridge = mqtt.NewBridge(s.client, s.Building, cfg.MQTT.TopicPrefix, cfg.Status.PublishInterval(), logger.New("mqtt"))
	}
	return s, nil
}

// Run starts every component and blocks until ctx is cancelled or one of
// them fails.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	start := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				errs <- fmt.Errorf("%s: %w", name, err)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.KPI.Run(ctx, s.kpiSub)
	}()
	metrics.StartEventCollector(ctx, s.bus, s.sink)

	start("building", s.Building.Run)
	if s.Bridge != nil {
		start("mqtt bridge", s.Bridge.Run)
	}
	if s.cfg.Metrics.PrometheusEnabled {
		start("prom server", func(ctx context.Context) error {
			return metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort)
		})
	}
	if s.cfg.API.Listen != "" {
		mux := cars.NewMux(s.Building, s.KPI)
		start("api", func(ctx context.Context) error {
			return cars.Serve(ctx, s.cfg.API.Listen, mux, logger.New("api"))
		})
	}
	s.log.Infof("service running floors=%d cars=%d policy=%s", s.Building.TotalFloors(), s.Building.Cars(), s.Building.Policy())

	var err error
	select {
	case <-ctx.Done():
	case err = <-errs:
		s.log.Errorf("stopping: %v", err)
	}
	cancel()
	wg.Wait()
	return err
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.client != nil {
		s.client.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	s.bus.Close()
	return nil
}
