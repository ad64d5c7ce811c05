package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/liftsim/core/metrics"
	"github.com/kilianp07/liftsim/infra/logger"
)

// InfluxSink writes dispatch events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordAssignment writes a hall call assignment.
func (s *InfluxSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("hall_call_assignment").
		AddTag("car_id", strconv.Itoa(ev.CarID)).
		AddTag("policy", ev.Policy.String()).
		AddTag("direction", ev.Direction.String()).
		AddTag("call_id", ev.CallID).
		AddField("floor", ev.Floor).
		AddField("tick", int64(ev.Tick))
	if !math.IsInf(ev.Score, 0) {
		p = p.AddField("score", round3(ev.Score))
	}
	p = p.SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCarState writes a snapshot of a car.
func (s *InfluxSink) RecordCarState(ev coremetrics.CarStateEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := ev.Car
	p := write.NewPointWithMeasurement("car_state").
		AddTag("car_id", strconv.Itoa(c.ID)).
		AddField("floor", c.CurrentFloor).
		AddField("direction", c.Direction.String()).
		AddField("state", c.State.String()).
		AddField("targets", len(c.Targets)).
		AddField("tick", int64(ev.Tick)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordArrival writes a cleared target floor.
func (s *InfluxSink) RecordArrival(ev coremetrics.ArrivalEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("car_arrival").
		AddTag("car_id", strconv.Itoa(ev.CarID)).
		AddField("floor", ev.Floor).
		AddField("tick", int64(ev.Tick)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordPolicyChange writes a policy switch.
func (s *InfluxSink) RecordPolicyChange(ev coremetrics.PolicyChangeEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("policy_change").
		AddTag("from", ev.From.String()).
		AddTag("to", ev.To.String()).
		AddField("dropped", ev.Dropped).
		AddField("stranded", ev.Stranded).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
