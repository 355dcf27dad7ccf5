// internal/poller/errors.go
package poller

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// IsConnectionReset reports whether a transport error means the underlying
// connection is gone and must be re-established. Everything else — protocol
// exceptions, timeouts, short reads that keep the socket alive — is treated
// as a transient single-read failure and does not trigger reconnection.
func IsConnectionReset(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) {
		return true
	}

	return false
}
