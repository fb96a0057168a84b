package connection

import (
	"crypto/x509"
	"errors"
	"io"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/santthosh/grocer/pkg/log"
	"github.com/santthosh/grocer/pkg/transport"
)

// Connection defaults.
const (
	// DefaultRetries is the number of attempts an operation gets.
	DefaultRetries = 3

	// DefaultSelectWait is how long Write waits for an error frame.
	DefaultSelectWait = 500 * time.Millisecond

	// DefaultConnectTimeout bounds dialing and the handshake.
	DefaultConnectTimeout = transport.DefaultConnectTimeout
)

// Config configures a Connection. It is copied by New and not modified after.
type Config struct {
	// Certificate is the client credential: PEM (certificate and key) or
	// PKCS#12. It may be empty, in which case the gateway refuses the handshake.
	Certificate []byte

	// Passphrase decrypts an encrypted PEM key or a PKCS#12 bundle.
	Passphrase string

	// Gateway is the gateway host (required).
	Gateway string

	// Port is the gateway port (required).
	Port int

	// Retries is the number of attempts per operation (default: 3).
	Retries int

	// SelectWait is how long Write waits for an error frame (default: 500ms).
	SelectWait time.Duration

	// ConnectTimeout bounds dialing and the handshake (default: 30s).
	ConnectTimeout time.Duration

	// RootCAs is the pool of trusted gateway CAs. Nil uses the system pool.
	RootCAs *x509.CertPool

	// InsecureSkipVerify disables gateway certificate verification.
	// Only for testing - never use in production!
	InsecureSkipVerify bool
}

// DefaultConfig returns a Config for the production gateway with default
// retry and wait settings. The caller supplies the certificate.
func DefaultConfig() Config {
	return Config{
		Gateway:        transport.ProductionGateway,
		Port:           transport.DefaultPort,
		Retries:        DefaultRetries,
		SelectWait:     DefaultSelectWait,
		ConnectTimeout: DefaultConnectTimeout,
	}
}

// Option configures optional Connection collaborators.
type Option func(*Connection)

// WithSocketFactory replaces the TLS socket factory.
func WithSocketFactory(factory transport.Factory) Option {
	return func(c *Connection) {
		if factory != nil {
			c.newSocket = factory
		}
	}
}

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connection) {
		c.logger = logger
	}
}

// WithProtocolLogger sets the protocol event logger. It also receives the
// transport-layer events of every socket the Connection creates.
func WithProtocolLogger(logger log.Logger) Option {
	return func(c *Connection) {
		c.protocolLogger = logger
	}
}

// WithBackoff sets the delay policy between attempts. The default retries
// immediately.
func WithBackoff(b backoff.BackOff) Option {
	return func(c *Connection) {
		if b != nil {
			c.backoff = b
		}
	}
}

// Connection is a lazily connected, self-healing link to a push gateway.
//
// Every operation runs in a retry envelope: the socket is (re)established
// on demand, transient faults tear it down and try again up to Retries
// attempts, and an expired client certificate fails immediately with
// *CertificateExpiredError.
//
// A Connection is not safe for concurrent use; callers serialize access.
type Connection struct {
	config Config
	id     string

	// socket is nil or not yet proven dead.
	socket    transport.Socket
	newSocket transport.Factory
	state     State

	backoff        backoff.BackOff
	logger         *slog.Logger
	protocolLogger log.Logger
}

// New validates cfg and returns an unconnected Connection. No I/O happens
// until the first operation.
func New(cfg Config, opts ...Option) (*Connection, error) {
	if cfg.Gateway == "" {
		return nil, ErrMissingGateway
	}
	if cfg.Port == 0 {
		return nil, ErrMissingPort
	}
	if cfg.Retries == 0 {
		cfg.Retries = DefaultRetries
	}
	if cfg.SelectWait == 0 {
		cfg.SelectWait = DefaultSelectWait
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}

	c := &Connection{
		config:    cfg,
		id:        uuid.New().String(),
		newSocket: transport.NewTLSFactory(),
		state:     StateDisconnected,
		backoff:   &backoff.ZeroBackOff{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the effective configuration, defaults included.
func (c *Connection) Config() Config {
	return c.config
}

// ID returns the identifier used in protocol log events.
func (c *Connection) ID() string {
	return c.id
}

// Address returns the gateway address in host:port form.
func (c *Connection) Address() string {
	return net.JoinHostPort(c.config.Gateway, strconv.Itoa(c.config.Port))
}

// State returns the current connection state.
func (c *Connection) State() State {
	return c.state
}

// Connect establishes the socket if it is not already connected.
func (c *Connection) Connect() error {
	return c.withConnection("connect", func() error { return nil })
}

// Read reads size bytes from the gateway, or until it closes the
// connection when size <= 0. buf is reused when large enough. io.EOF is
// returned as is when the gateway closed without sending anything.
func (c *Connection) Read(size int, buf []byte) ([]byte, error) {
	var data []byte
	err := c.withConnection("read", func() error {
		var err error
		data, err = c.socket.Read(size, buf)
		if errors.Is(err, io.EOF) {
			// Clean end of stream; a new session would not answer.
			return backoff.Permanent(err)
		}
		return err
	})
	return data, err
}

// Write sends content and waits up to SelectWait for the gateway to reject
// it. A rejection is returned as *wire.ErrorResponse. Silence within the
// window is success.
func (c *Connection) Write(content []byte) error {
	return c.withConnection("write", func() error {
		if err := c.socket.Write(content); err != nil {
			return err
		}
		return c.awaitErrorResponse(content)
	})
}

// Close tears down the socket. The next operation reconnects. Close always
// returns nil.
func (c *Connection) Close() error {
	c.destroyConnection("closed")
	c.setState(StateClosed, "closed")
	return nil
}

func (c *Connection) socketConfig() transport.SocketConfig {
	return transport.SocketConfig{
		Gateway:            c.config.Gateway,
		Port:               c.config.Port,
		Certificate:        c.config.Certificate,
		Passphrase:         c.config.Passphrase,
		ConnectTimeout:     c.config.ConnectTimeout,
		RootCAs:            c.config.RootCAs,
		InsecureSkipVerify: c.config.InsecureSkipVerify,
		ConnectionID:       c.id,
		Logger:             c.protocolLogger,
	}
}

// debugLog logs a debug message if logging is enabled.
func (c *Connection) debugLog(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, append([]any{"conn_id", c.id, "gateway", c.Address()}, args...)...)
	}
}

// warnLog logs a warning if logging is enabled.
func (c *Connection) warnLog(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, append([]any{"conn_id", c.id, "gateway", c.Address()}, args...)...)
	}
}
