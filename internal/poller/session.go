// internal/poller/session.go
package poller

import (
	"fmt"

	"github.com/elmotron/modpoll/internal/logging"
	"github.com/elmotron/modpoll/internal/registry"
)

// Transport abstracts the Modbus operations the session needs.
// Implementations are not safe for concurrent use; the session reads
// strictly sequentially.
type Transport interface {
	ReadInputRegisters(addr, qty uint16) ([]uint16, error)   // FC 4
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
	Close() error
}

// Session composes one transport handle with the loaded register catalogs
// and turns "read registers by name" into planned range reads plus decoding.
// The transport is the only mutable state; it is swapped wholesale by
// Reconnect and never shared.
type Session struct {
	transport Transport
	catalogs  map[registry.Group]*registry.Catalog
	log       *logging.Logger
}

// NewSession wires a connected transport to one catalog per register group.
func NewSession(t Transport, catalogs map[registry.Group]*registry.Catalog, log *logging.Logger) *Session {
	return &Session{
		transport: t,
		catalogs:  catalogs,
		log:       log.With("component", "session"),
	}
}

// Groups lists the register groups the session has catalogs for,
// input before holding.
func (s *Session) Groups() []registry.Group {
	var out []registry.Group
	for _, g := range []registry.Group{registry.GroupInput, registry.GroupHolding} {
		if _, ok := s.catalogs[g]; ok {
			out = append(out, g)
		}
	}
	return out
}

// ReadRange fetches one planned range's raw words from the device.
func (s *Session) ReadRange(group registry.Group, rr ReadRange) ([]uint16, error) {
	s.log.Debug("reading range", "group", string(group), "start", rr.Start, "count", rr.Count)

	switch group {
	case registry.GroupInput:
		return s.transport.ReadInputRegisters(rr.Start, rr.Count)
	case registry.GroupHolding:
		return s.transport.ReadHoldingRegisters(rr.Start, rr.Count)
	default:
		return nil, fmt.Errorf("session: unknown register group %q", group)
	}
}

// ReadRegisters plans the given definitions into ranges, reads each range
// and decodes every member. A member whose decode fails is dropped with a
// warning; a transport failure aborts the call.
func (s *Session) ReadRegisters(group registry.Group, regs []registry.Register) (map[string]registry.Value, error) {
	result := make(map[string]registry.Value, len(regs))

	for _, rr := range Plan(regs) {
		words, err := s.ReadRange(group, rr)
		if err != nil {
			return nil, err
		}

		for _, m := range rr.Members {
			lo := int(m.Offset)
			hi := lo + int(m.Register.Words)
			if hi > len(words) {
				s.log.Warn("register outside read response, dropping it",
					"register", m.Register.Name, "offset", lo, "words", len(words))
				continue
			}

			v, err := registry.Decode(words[lo:hi], m.Register.Type)
			if err != nil {
				s.log.Warn("decode failed, dropping register",
					"register", m.Register.Name, "error", err)
				continue
			}
			result[m.Register.Name] = v
		}
	}

	return result, nil
}

// ReadByNames resolves names through the group's catalog and reads them.
// Unknown names are dropped with a warning, never an error.
func (s *Session) ReadByNames(group registry.Group, names []string) (map[string]registry.Value, error) {
	cat, ok := s.catalogs[group]
	if !ok {
		return nil, fmt.Errorf("session: no catalog loaded for group %q", group)
	}

	found, missing := cat.Lookup(names)
	for _, n := range missing {
		s.log.Warn("register does not exist, skipping it", "register", n, "group", string(group))
	}

	return s.ReadRegisters(group, found)
}

// Dump reads every register the group's catalog defines.
func (s *Session) Dump(group registry.Group) (map[string]registry.Value, error) {
	cat, ok := s.catalogs[group]
	if !ok {
		return nil, fmt.Errorf("session: no catalog loaded for group %q", group)
	}
	found, _ := cat.Lookup(cat.Names())
	return s.ReadRegisters(group, found)
}

// Reconnect discards the current transport and substitutes a fresh one.
func (s *Session) Reconnect(t Transport) {
	if s.transport != nil {
		_ = s.transport.Close()
	}
	s.transport = t
}

// Close releases the transport.
func (s *Session) Close() error {
	if s.transport == nil {
		return nil
	}
	return s.transport.Close()
}
