package sink

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/brilliantsole/bs-go/pkg/telemetry"
)

const (
	defaultPingTimeout = 5 * time.Second

	// defaultBatchSize and defaultFlushInterval (ms) suit sensor rates of a
	// few hundred readings per second.
	defaultBatchSize     = 500
	defaultFlushInterval = 1000

	// Measurement is the InfluxDB measurement every reading is written to.
	Measurement = "sensor_data"
)

// InfluxDBConfig configures an InfluxDB v2 sink.
type InfluxDBConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string

	Logger *slog.Logger
}

type pointWriter interface {
	WritePoint(p *write.Point)
	Flush()
}

// InfluxDB writes readings through the non-blocking batching write API.
type InfluxDB struct {
	logger *slog.Logger
	writer pointWriter
	close  func()

	mu     sync.Mutex
	closed bool
}

var _ Sink = (*InfluxDB)(nil)

// DialInfluxDB creates the client and verifies the server answers a ping.
func DialInfluxDB(ctx context.Context, cfg InfluxDBConfig) (*InfluxDB, error) {
	if cfg.URL == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("influxdb: url and bucket are required")
	}
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(defaultBatchSize).
			SetFlushInterval(defaultFlushInterval))

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	healthy, err := client.Ping(pingCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("influxdb: ping %s: %w", cfg.URL, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("influxdb: %s is not healthy", cfg.URL)
	}

	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)
	s := newInfluxDB(writeAPI, cfg.Logger)
	s.close = client.Close
	go func() {
		for err := range writeAPI.Errors() {
			s.logger.Warn("influxdb write failed", "error", err)
		}
	}()
	s.logger.Info("influxdb sink connected", "url", cfg.URL, "bucket", cfg.Bucket)
	return s, nil
}

func newInfluxDB(w pointWriter, logger *slog.Logger) *InfluxDB {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &InfluxDB{logger: logger, writer: w, close: func() {}}
}

// Point builds the point written for r. It is nil when the reading has no
// numeric fields.
func Point(deviceID string, r telemetry.Reading) *write.Point {
	fields := Fields(r)
	if len(fields) == 0 {
		return nil
	}
	return write.NewPoint(Measurement,
		map[string]string{
			"device_id":   deviceID,
			"sensor_type": r.SensorType,
		},
		fields,
		r.Timestamp)
}

func (s *InfluxDB) Write(deviceID string, r telemetry.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if p := Point(deviceID, r); p != nil {
		s.writer.WritePoint(p)
	}
	return nil
}

// Close flushes pending points and closes the client.
func (s *InfluxDB) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	s.writer.Flush()
	s.close()
	return nil
}
