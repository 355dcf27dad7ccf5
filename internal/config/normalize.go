// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	defaultTimeoutMs        = 1000
	defaultIntervalMs       = 1000
	defaultBackoffInitialMs = 500
	defaultBackoffMaxMs     = 30000
	defaultBackoffMult      = 2.0
	defaultSinkAttempts     = 3
	defaultSinkInitialMs    = 250
	defaultMetricsListen    = ":9105"
)

// Normalize fills in defaults for omitted settings.
// It is allowed to mutate configuration; call it before Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Device.TimeoutMs <= 0 {
		cfg.Device.TimeoutMs = defaultTimeoutMs
	}

	if cfg.Poll.IntervalMs <= 0 {
		cfg.Poll.IntervalMs = defaultIntervalMs
	}

	r := &cfg.Poll.Reconnect
	if r.InitialMs <= 0 {
		r.InitialMs = defaultBackoffInitialMs
	}
	if r.MaxMs <= 0 {
		r.MaxMs = defaultBackoffMaxMs
	}
	if r.Multiplier == 0 {
		r.Multiplier = defaultBackoffMult
	}

	sr := &cfg.Poll.SinkRetry
	if sr.Attempts <= 0 {
		sr.Attempts = defaultSinkAttempts
	}
	if sr.InitialMs <= 0 {
		sr.InitialMs = defaultSinkInitialMs
	}

	if cfg.Sinks.Metrics.Enabled && cfg.Sinks.Metrics.Listen == "" {
		cfg.Sinks.Metrics.Listen = defaultMetricsListen
	}
}
