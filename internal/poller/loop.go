// internal/poller/loop.go
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/elmotron/modpoll/internal/logging"
	"github.com/elmotron/modpoll/internal/registry"
	"github.com/elmotron/modpoll/internal/sink"
)

// Backoff describes the delay schedule for reconnection attempts.
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

func (b Backoff) next(d time.Duration) time.Duration {
	d = time.Duration(float64(d) * b.Multiplier)
	if d > b.Max {
		d = b.Max
	}
	return d
}

// SinkRetry bounds the in-cycle retries for a failing sink push.
type SinkRetry struct {
	Attempts int
	Initial  time.Duration
}

// Config is the immutable runtime configuration of a Loop.
type Config struct {
	Interval  time.Duration
	Backoff   Backoff
	SinkRetry SinkRetry
}

// Loop drives a Session on a fixed cadence, forwards decoded dumps to the
// sinks, and keeps polling alive across connection loss. Connection-reset
// failures enter a reconnect phase with exponential backoff; any other
// transport or protocol error only skips the cycle.
type Loop struct {
	cfg     Config
	session *Session
	sinks   []sink.Sink
	dial    func() (Transport, error)
	log     *logging.Logger

	// sleep is swappable so tests can observe delays without waiting.
	sleep func(ctx context.Context, d time.Duration) bool
}

// NewLoop builds a poll loop. dial is the reconnect factory: one connection
// attempt per call, no retries of its own.
func NewLoop(cfg Config, session *Session, sinks []sink.Sink, dial func() (Transport, error), log *logging.Logger) (*Loop, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if cfg.Backoff.Initial <= 0 || cfg.Backoff.Max < cfg.Backoff.Initial {
		return nil, errors.New("poller: invalid backoff bounds")
	}
	if cfg.Backoff.Multiplier < 1 {
		return nil, errors.New("poller: backoff multiplier must be >= 1")
	}
	if dial == nil {
		return nil, errors.New("poller: dial factory required")
	}

	return &Loop{
		cfg:     cfg,
		session: session,
		sinks:   sinks,
		dial:    dial,
		log:     log.With("component", "poller"),
		sleep:   sleepCtx,
	}, nil
}

// Run polls until ctx is cancelled. It never returns an error from a poll
// cycle; every failure past startup is absorbed here.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cycle(ctx)
		}
	}
}

// cycle performs one dump-and-forward pass.
func (l *Loop) cycle(ctx context.Context) {
	values := make(map[string]registry.Value)

	for _, g := range l.session.Groups() {
		vals, err := l.session.Dump(g)
		if err != nil {
			if IsConnectionReset(err) {
				l.log.Warn("connection lost, reconnecting", "group", string(g), "error", err)
				l.reconnect(ctx)
			} else {
				l.log.Warn("read failed, skipping cycle", "group", string(g), "error", err)
			}
			// The failed dump is not retried within this cycle; polling
			// resumes on the next tick.
			return
		}
		for k, v := range vals {
			values[k] = v
		}
	}

	ts := time.Now()
	for _, s := range l.sinks {
		l.push(ctx, s, ts, values)
	}
}

// reconnect dials until it succeeds or ctx is cancelled, sleeping under
// exponential backoff between attempts.
func (l *Loop) reconnect(ctx context.Context) {
	delay := l.cfg.Backoff.Initial

	for attempt := 1; ; attempt++ {
		t, err := l.dial()
		if err == nil {
			l.session.Reconnect(t)
			l.log.Info("reconnected", "attempts", attempt)
			return
		}

		l.log.Warn("reconnect attempt failed", "attempt", attempt, "retry_in", delay, "error", err)
		if !l.sleep(ctx, delay) {
			return
		}
		delay = l.cfg.Backoff.next(delay)
	}
}

// push forwards one cycle's values to a sink with bounded retry. When the
// retries are exhausted the cycle's value is abandoned; a sink outage never
// stops the poller.
func (l *Loop) push(ctx context.Context, s sink.Sink, ts time.Time, values map[string]registry.Value) {
	delay := l.cfg.SinkRetry.Initial
	attempts := l.cfg.SinkRetry.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		err := s.Push(ts, values)
		if err == nil {
			return
		}

		if attempt == attempts {
			l.log.Error("sink push failed, dropping cycle values", "sink", s.Name(), "attempts", attempt, "error", err)
			return
		}

		l.log.Warn("sink push failed, retrying", "sink", s.Name(), "attempt", attempt, "retry_in", delay, "error", err)
		if !l.sleep(ctx, delay) {
			return
		}
		delay *= 2
	}
}

// sleepCtx blocks for d or until ctx is done; false means cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
