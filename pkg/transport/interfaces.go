package transport

import (
	"crypto/x509"
	"time"

	"github.com/santthosh/grocer/pkg/log"
)

// Readiness is the result of a multiplexed wait on a socket.
// Neither flag set means the wait timed out.
type Readiness struct {
	// Readable is set when the peer has sent data.
	Readable bool

	// Errored is set when the socket reported an error condition
	// (reset, EOF, closed).
	Errored bool
}

// Socket is an encrypted, stream-oriented connection to a gateway.
// Implemented by TLSSocket.
//
// A Socket is owned by a single caller and is not safe for concurrent use.
type Socket interface {
	// Connect dials the gateway and performs the handshake. Calling it on a
	// connected socket replaces the underlying connection.
	Connect() error

	// Connected reports whether a handshake has completed and the socket
	// has not been disconnected since.
	Connected() bool

	// Read reads exactly size bytes, or fewer at end of stream. A size of
	// zero or less reads until the peer closes. buf is reused when large enough.
	Read(size int, buf []byte) ([]byte, error)

	// Write writes all of p.
	Write(p []byte) error

	// Wait blocks until the socket is readable, errored, or timeout elapses.
	Wait(timeout time.Duration) Readiness

	// ReadNonBlocking returns up to size bytes that are already available
	// without waiting for more.
	ReadNonBlocking(size int) ([]byte, error)

	// Disconnect closes the connection. It is safe to call more than once.
	Disconnect() error
}

// SocketConfig describes how to reach and authenticate to a gateway.
type SocketConfig struct {
	// Gateway is the gateway host name or address.
	Gateway string

	// Port is the gateway TCP port.
	Port int

	// Certificate holds the client credential: PEM (certificate and key)
	// or PKCS#12. Empty means no client certificate is offered.
	Certificate []byte

	// Passphrase decrypts an encrypted PEM key or a PKCS#12 bundle.
	Passphrase string

	// ConnectTimeout bounds dialing and the handshake (default: 30s).
	ConnectTimeout time.Duration

	// RootCAs is the pool of trusted gateway CAs. Nil uses the system pool.
	RootCAs *x509.CertPool

	// InsecureSkipVerify disables gateway certificate verification.
	// Only for testing - never use in production!
	InsecureSkipVerify bool

	// ConnectionID tags protocol log events emitted by the socket.
	ConnectionID string

	// Logger receives transport-layer protocol events (optional).
	Logger log.Logger
}

// Factory builds a Socket from its configuration. No I/O happens until
// Socket.Connect is called.
type Factory func(cfg SocketConfig) Socket

// NewTLSFactory returns a Factory producing TLSSockets.
func NewTLSFactory() Factory {
	return func(cfg SocketConfig) Socket {
		return NewTLSSocket(cfg)
	}
}

// Compile-time interface satisfaction checks.
var (
	_ Socket  = (*TLSSocket)(nil)
	_ Factory = NewTLSFactory()
)
