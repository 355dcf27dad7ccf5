// internal/sink/prom/prom.go
package prom

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elmotron/modpoll/internal/registry"
)

// SentinelValue is published for registers that cannot be coerced to a
// float, such as Sized blobs. A gauge still exists for them so dashboards
// can tell "never read" apart from "read but non-numeric".
const SentinelValue = -1

// Config contains the gauge exporter settings.
type Config struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"` // exposition address, e.g. ":9105"
}

// Sink exports the latest decoded value of every register as a gauge
// labelled by register name.
type Sink struct {
	reg    *prometheus.Registry
	gauges *prometheus.GaugeVec
}

// New builds the sink on a private registry so tests and multiple instances
// never collide on the default one.
func New() *Sink {
	reg := prometheus.NewRegistry()
	gauges := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "modpoll",
		Name:      "register_value",
		Help:      "Last decoded value of a device register.",
	}, []string{"register"})
	reg.MustRegister(gauges)

	return &Sink{reg: reg, gauges: gauges}
}

func (s *Sink) Name() string { return "metrics" }

// Push updates one gauge per register.
func (s *Sink) Push(_ time.Time, values map[string]registry.Value) error {
	for name, v := range values {
		f, ok := registry.AsFloat(v)
		if !ok {
			f = SentinelValue
		}
		s.gauges.WithLabelValues(name).Set(f)
	}
	return nil
}

func (s *Sink) Close() error { return nil }

// Handler returns the exposition handler for the sink's registry.
func (s *Sink) Handler() http.Handler {
	return promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})
}
