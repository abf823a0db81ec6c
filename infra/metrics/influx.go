package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/curbsignal/curbsignal/core/metrics"
	"github.com/curbsignal/curbsignal/infra/logger"
)

// InfluxSink writes cycle observations to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.InfluxConfig) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a down Influx never blocks cycles.
func NewInfluxSinkWithFallback(cfg coremetrics.InfluxConfig) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
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

func (s *InfluxSink) write(p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCycle writes one cycle data point.
func (s *InfluxSink) RecordCycle(trigger string, duration time.Duration, failed bool) error {
	p := write.NewPointWithMeasurement("cycle").
		AddTag("trigger", trigger).
		AddTag("failed", strconv.FormatBool(failed)).
		AddField("duration_seconds", duration.Seconds()).
		SetTime(time.Now())
	return s.write(p)
}

// RecordNotification writes one notification data point.
func (s *InfluxSink) RecordNotification(kind string, success bool) error {
	p := write.NewPointWithMeasurement("notification").
		AddTag("kind", kind).
		AddTag("success", strconv.FormatBool(success)).
		AddField("count", 1).
		SetTime(time.Now())
	return s.write(p)
}

// RecordSuspension writes one suspension data point.
func (s *InfluxSink) RecordSuspension(reason string) error {
	p := write.NewPointWithMeasurement("suspension").
		AddTag("reason", reason).
		AddField("count", 1).
		SetTime(time.Now())
	return s.write(p)
}

// RecordCalendarRefresh writes one refresh data point.
func (s *InfluxSink) RecordCalendarRefresh(success bool) error {
	p := write.NewPointWithMeasurement("calendar_refresh").
		AddTag("success", strconv.FormatBool(success)).
		AddField("count", 1).
		SetTime(time.Now())
	return s.write(p)
}

// Close flushes and releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

var _ coremetrics.Sink = (*InfluxSink)(nil)
