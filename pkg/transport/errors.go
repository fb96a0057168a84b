package transport

import (
	"errors"
	"fmt"
)

// Socket errors.
var (
	// ErrNotConnected is returned when a socket is used before Connect.
	ErrNotConnected = errors.New("transport: socket not connected")

	// ErrWouldBlock is returned by ReadNonBlocking when no data is available.
	ErrWouldBlock = errors.New("transport: no data available")
)

// HandshakeError reports a failure to establish the encrypted session.
// Dial failures are not HandshakeErrors.
type HandshakeError struct {
	// Address is the gateway host:port.
	Address string

	// Err is the underlying TLS or credential error.
	Err error
}

// Error implements error.
func (e *HandshakeError) Error() string {
	return fmt.Sprintf("tls handshake with %s failed: %v", e.Address, e.Err)
}

// Unwrap returns the underlying error.
func (e *HandshakeError) Unwrap() error {
	return e.Err
}
