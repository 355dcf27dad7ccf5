// internal/sink/sink.go
package sink

import (
	"time"

	"github.com/elmotron/modpoll/internal/registry"
)

// Sink receives one decoded register mapping per poll cycle.
// Push is invoked synchronously from the poll loop; implementations should
// fail fast rather than block the next read for long.
type Sink interface {
	Name() string
	Push(ts time.Time, values map[string]registry.Value) error
	Close() error
}
