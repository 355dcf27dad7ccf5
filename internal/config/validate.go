// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only and MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	if cfg.Device.Endpoint == "" {
		return fmt.Errorf("device: endpoint is required")
	}
	if !strings.Contains(cfg.Device.Endpoint, ":") {
		return fmt.Errorf("device: endpoint %q must be host:port", cfg.Device.Endpoint)
	}

	// ------------------------------------------------------------
	// REGISTER DEFINITIONS
	// ------------------------------------------------------------

	if cfg.Registers.InputFile == "" && cfg.Registers.HoldingFile == "" {
		return fmt.Errorf("registers: at least one definition file is required")
	}

	// ------------------------------------------------------------
	// POLL / BACKOFF
	// ------------------------------------------------------------

	if cfg.Poll.IntervalMs <= 0 {
		return fmt.Errorf("poll: interval_ms must be > 0")
	}
	if cfg.Poll.Reconnect.InitialMs <= 0 {
		return fmt.Errorf("poll: reconnect.initial_ms must be > 0")
	}
	if cfg.Poll.Reconnect.MaxMs < cfg.Poll.Reconnect.InitialMs {
		return fmt.Errorf("poll: reconnect.max_ms must be >= reconnect.initial_ms")
	}
	if cfg.Poll.Reconnect.Multiplier < 1 {
		return fmt.Errorf("poll: reconnect.multiplier must be >= 1")
	}
	if cfg.Poll.SinkRetry.Attempts < 1 {
		return fmt.Errorf("poll: sink_retry.attempts must be >= 1")
	}

	// ------------------------------------------------------------
	// SINKS
	// ------------------------------------------------------------

	if !cfg.Sinks.InfluxDB.Enabled && !cfg.Sinks.Metrics.Enabled && !cfg.Sinks.MQTT.Enabled {
		return fmt.Errorf("sinks: at least one sink must be enabled")
	}

	if cfg.Sinks.InfluxDB.Enabled {
		if cfg.Sinks.InfluxDB.URL == "" {
			return fmt.Errorf("sinks: influxdb.url is required when enabled")
		}
		if cfg.Sinks.InfluxDB.Org == "" || cfg.Sinks.InfluxDB.Bucket == "" {
			return fmt.Errorf("sinks: influxdb.org and influxdb.bucket are required when enabled")
		}
	}

	if cfg.Sinks.Metrics.Enabled && cfg.Sinks.Metrics.Listen == "" {
		return fmt.Errorf("sinks: metrics.listen is required when enabled")
	}

	if cfg.Sinks.MQTT.Enabled {
		if cfg.Sinks.MQTT.Broker == "" {
			return fmt.Errorf("sinks: mqtt.broker is required when enabled")
		}
		if cfg.Sinks.MQTT.TopicPrefix == "" {
			return fmt.Errorf("sinks: mqtt.topic_prefix is required when enabled")
		}
		if cfg.Sinks.MQTT.QoS > 2 {
			return fmt.Errorf("sinks: mqtt.qos must be 0, 1 or 2")
		}
	}

	return nil
}
