// internal/sink/influx/influx.go
package influx

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/elmotron/modpoll/internal/registry"
)

const (
	connectTimeout = 10 * time.Second
	writeTimeout   = 5 * time.Second

	measurement = "registers"
)

// Sentinel errors; check with errors.Is.
var (
	ErrDisabled         = errors.New("influx: disabled in configuration")
	ErrConnectionFailed = errors.New("influx: connection failed")
	ErrWriteFailed      = errors.New("influx: write failed")
)

// Config contains the InfluxDB v2 connection settings.
type Config struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
	Device  string `yaml:"device"` // tag value identifying the polled device
}

// Sink writes one point per poll cycle: measurement "registers", the device
// as a tag, one field per register name. Writes are synchronous so the poll
// loop's retry policy sees every failure.
type Sink struct {
	client influxdb2.Client
	write  api.WriteAPIBlocking
	device string
}

// Connect creates the client and verifies the server with a ping.
func Connect(cfg Config) (*Sink, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	return &Sink{
		client: client,
		write:  client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		device: cfg.Device,
	}, nil
}

func (s *Sink) Name() string { return "influxdb" }

// Push writes the cycle's decoded values as a single point.
func (s *Sink) Push(ts time.Time, values map[string]registry.Value) error {
	if len(values) == 0 {
		return nil
	}

	point := write.NewPoint(
		measurement,
		map[string]string{"device": s.device},
		Fields(values),
		ts,
	)

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := s.write.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Close shuts the underlying client down.
func (s *Sink) Close() error {
	s.client.Close()
	return nil
}

// Fields maps decoded values to InfluxDB field values: numerics as float64,
// booleans as bool, blobs as their hex image.
func Fields(values map[string]registry.Value) map[string]interface{} {
	fields := make(map[string]interface{}, len(values))
	for name, v := range values {
		switch x := v.(type) {
		case registry.Bool:
			fields[name] = bool(x)
		case registry.Blob:
			fields[name] = hex.EncodeToString(x[:])
		default:
			if f, ok := registry.AsFloat(v); ok {
				fields[name] = f
			}
		}
	}
	return fields
}
