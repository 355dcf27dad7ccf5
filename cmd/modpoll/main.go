// cmd/modpoll/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elmotron/modpoll/internal/config"
	"github.com/elmotron/modpoll/internal/logging"
	"github.com/elmotron/modpoll/internal/poller"
	pmodbus "github.com/elmotron/modpoll/internal/poller/modbus"
	"github.com/elmotron/modpoll/internal/registry"
	"github.com/elmotron/modpoll/internal/sink"
	"github.com/elmotron/modpoll/internal/sink/influx"
	"github.com/elmotron/modpoll/internal/sink/mqttsink"
	"github.com/elmotron/modpoll/internal/sink/prom"
)

const defaultConfigPath = "modpoll.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run holds the actual wiring. Every error returned here is a startup
// failure: once the poll loop is running, nothing short of a signal stops
// the process.
func run(ctx context.Context) error {
	log := logging.Default()

	cfgPath := defaultConfigPath
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	config.Normalize(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	log = logging.New(cfg.Logging)
	log.Info("configuration loaded", "path", cfgPath)

	// --------------------
	// Register catalogs
	// --------------------

	catalogs := make(map[registry.Group]*registry.Catalog)
	if cfg.Registers.InputFile != "" {
		cat, err := registry.LoadFile(cfg.Registers.InputFile)
		if err != nil {
			return err
		}
		catalogs[registry.GroupInput] = cat
		log.Info("input registers loaded", "file", cfg.Registers.InputFile, "count", cat.Len())
	}
	if cfg.Registers.HoldingFile != "" {
		cat, err := registry.LoadFile(cfg.Registers.HoldingFile)
		if err != nil {
			return err
		}
		catalogs[registry.GroupHolding] = cat
		log.Info("holding registers loaded", "file", cfg.Registers.HoldingFile, "count", cat.Len())
	}

	// --------------------
	// Transport (fail fast at startup; later reconnects go through dial)
	// --------------------

	dial := func() (poller.Transport, error) {
		return pmodbus.New(pmodbus.Config{
			Endpoint: cfg.Device.Endpoint,
			UnitID:   cfg.Device.UnitID,
			Timeout:  time.Duration(cfg.Device.TimeoutMs) * time.Millisecond,
		})
	}

	transport, err := dial()
	if err != nil {
		return err
	}

	session := poller.NewSession(transport, catalogs, log)
	defer session.Close()
	log.Info("device connected", "endpoint", cfg.Device.Endpoint, "unit_id", cfg.Device.UnitID)

	// --------------------
	// Sinks
	// --------------------

	var sinks []sink.Sink

	if cfg.Sinks.InfluxDB.Enabled {
		s, err := influx.Connect(cfg.Sinks.InfluxDB)
		if err != nil {
			return err
		}
		defer s.Close()
		sinks = append(sinks, s)
		log.Info("influxdb sink enabled", "url", cfg.Sinks.InfluxDB.URL, "bucket", cfg.Sinks.InfluxDB.Bucket)
	}

	if cfg.Sinks.Metrics.Enabled {
		s := prom.New()
		sinks = append(sinks, s)

		mux := http.NewServeMux()
		mux.Handle("/metrics", s.Handler())
		srv := &http.Server{Addr: cfg.Sinks.Metrics.Listen, Handler: mux}
		defer srv.Close()
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server stopped", "error", err)
			}
		}()
		log.Info("metrics sink enabled", "listen", cfg.Sinks.Metrics.Listen)
	}

	if cfg.Sinks.MQTT.Enabled {
		s, err := mqttsink.Connect(cfg.Sinks.MQTT)
		if err != nil {
			return err
		}
		defer s.Close()
		sinks = append(sinks, s)
		log.Info("mqtt sink enabled", "broker", cfg.Sinks.MQTT.Broker, "topic_prefix", cfg.Sinks.MQTT.TopicPrefix)
	}

	// --------------------
	// Poll loop
	// --------------------

	loop, err := poller.NewLoop(poller.Config{
		Interval: time.Duration(cfg.Poll.IntervalMs) * time.Millisecond,
		Backoff: poller.Backoff{
			Initial:    time.Duration(cfg.Poll.Reconnect.InitialMs) * time.Millisecond,
			Max:        time.Duration(cfg.Poll.Reconnect.MaxMs) * time.Millisecond,
			Multiplier: cfg.Poll.Reconnect.Multiplier,
		},
		SinkRetry: poller.SinkRetry{
			Attempts: cfg.Poll.SinkRetry.Attempts,
			Initial:  time.Duration(cfg.Poll.SinkRetry.InitialMs) * time.Millisecond,
		},
	}, session, sinks, dial, log)
	if err != nil {
		return err
	}

	log.Info("polling", "interval_ms", cfg.Poll.IntervalMs, "sinks", len(sinks))
	loop.Run(ctx)

	log.Info("shutting down")
	return nil
}
