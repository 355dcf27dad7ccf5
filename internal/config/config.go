// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/elmotron/modpoll/internal/logging"
	"github.com/elmotron/modpoll/internal/sink/influx"
	"github.com/elmotron/modpoll/internal/sink/mqttsink"
	"github.com/elmotron/modpoll/internal/sink/prom"
)

type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	Registers RegistersConfig `yaml:"registers"`
	Poll      PollConfig      `yaml:"poll"`
	Sinks     SinksConfig     `yaml:"sinks"`
	Logging   logging.Config  `yaml:"logging"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- REGISTER DEFINITIONS ----

type RegistersConfig struct {
	InputFile   string `yaml:"input_file"`
	HoldingFile string `yaml:"holding_file"` // optional
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int             `yaml:"interval_ms"`
	Reconnect  ReconnectConfig `yaml:"reconnect"`
	SinkRetry  SinkRetryConfig `yaml:"sink_retry"`
}

type ReconnectConfig struct {
	InitialMs  int     `yaml:"initial_ms"`
	MaxMs      int     `yaml:"max_ms"`
	Multiplier float64 `yaml:"multiplier"`
}

type SinkRetryConfig struct {
	Attempts  int `yaml:"attempts"`
	InitialMs int `yaml:"initial_ms"`
}

// ---- SINKS ----

type SinksConfig struct {
	InfluxDB influx.Config   `yaml:"influxdb"`
	Metrics  prom.Config     `yaml:"metrics"`
	MQTT     mqttsink.Config `yaml:"mqtt"`
}

// Load reads and parses the YAML configuration file.
// Defaults and correctness checks are separate passes: call Normalize, then
// Validate, on the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}
