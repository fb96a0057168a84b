// Package gatewaysim is an in-process push gateway for tests and local runs.
//
// It accepts TLS connections and reads notifications. Like the real gateway
// it never acknowledges a notification; depending on its Policy it stays
// silent, answers with a 6-byte error frame and hangs up, or just hangs up.
package gatewaysim

import (
	"context"
	"crypto/tls"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/santthosh/grocer/pkg/log"
	"github.com/santthosh/grocer/pkg/transport"
	"github.com/santthosh/grocer/pkg/wire"
)

// readBufferSize bounds a single notification read.
const readBufferSize = 64 * 1024

// Policy decides how the gateway answers notifications on a session.
type Policy struct {
	// RejectEvery rejects every Nth notification on a session (0: never).
	RejectEvery int

	// RejectStatus is the status sent in error frames
	// (default: wire.StatusProcessingError).
	RejectStatus wire.Status

	// DropEvery closes the session without an error frame on every Nth
	// notification (0: never). Rejection takes precedence.
	DropEvery int
}

// Config configures a Server.
type Config struct {
	// TLSConfig contains TLS settings.
	TLSConfig *transport.TLSConfig

	// Address to listen on (default: ":2195").
	Address string

	// Policy decides how notifications are answered.
	Policy Policy

	// Logger for operational logging (optional).
	Logger *slog.Logger

	// ProtocolLogger for protocol logging (optional).
	ProtocolLogger log.Logger

	// OnNotification is called for every notification read.
	OnNotification func(sessionID string, data []byte)

	// OnReject is called after an error frame was sent.
	OnReject func(sessionID string, status wire.Status, identifier uint32)

	// OnError is called when an error occurs.
	OnError func(err error)
}

// Stats counts server activity since Start.
type Stats struct {
	Sessions      int64
	Notifications int64
	Rejections    int64
	Drops         int64
}

// Server is a simulated push gateway.
type Server struct {
	config   Config
	tlsConf  *tls.Config
	listener net.Listener

	// Active sessions
	sessions   map[*session]struct{}
	sessionsMu sync.Mutex

	// Counters
	sessionCount      atomic.Int64
	notificationCount atomic.Int64
	rejectionCount    atomic.Int64
	dropCount         atomic.Int64

	// State
	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a new gateway simulator.
func New(config Config) (*Server, error) {
	if config.TLSConfig == nil {
		return nil, fmt.Errorf("TLSConfig is required")
	}
	if config.Address == "" {
		config.Address = fmt.Sprintf(":%d", transport.DefaultPort)
	}
	if config.Policy.RejectStatus == wire.StatusNoErrors {
		config.Policy.RejectStatus = wire.StatusProcessingError
	}

	tlsConf, err := transport.NewServerTLSConfig(config.TLSConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create TLS config: %w", err)
	}

	return &Server{
		config:   config,
		tlsConf:  tlsConf,
		sessions: make(map[*session]struct{}),
	}, nil
}

// Start starts listening and accepting connections.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return fmt.Errorf("server already running")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener

	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop stops the server and closes all sessions.
func (s *Server) Stop() error {
	if !s.running.Load() {
		return nil
	}

	s.running.Store(false)
	s.cancel()

	if s.listener != nil {
		s.listener.Close()
	}

	s.sessionsMu.Lock()
	for sess := range s.sessions {
		sess.close()
	}
	s.sessionsMu.Unlock()

	s.wg.Wait()
	return nil
}

// Addr returns the listen address.
func (s *Server) Addr() net.Addr {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	return len(s.sessions)
}

// Stats returns activity counters.
func (s *Server) Stats() Stats {
	return Stats{
		Sessions:      s.sessionCount.Load(),
		Notifications: s.notificationCount.Load(),
		Rejections:    s.rejectionCount.Load(),
		Drops:         s.dropCount.Load(),
	}
}

// acceptLoop accepts incoming connections.
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for s.running.Load() {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.running.Load() {
				s.reportError(fmt.Errorf("accept error: %w", err))
			}
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// handleConnection runs one session.
func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()

	tlsConn := tls.Server(conn, s.tlsConf)
	if err := tlsConn.HandshakeContext(s.ctx); err != nil {
		conn.Close()
		s.reportError(fmt.Errorf("TLS handshake failed: %w", err))
		return
	}

	sess := &session{
		id:     uuid.New().String(),
		conn:   tlsConn,
		server: s,
		remote: conn.RemoteAddr().String(),
	}

	s.sessionsMu.Lock()
	s.sessions[sess] = struct{}{}
	s.sessionsMu.Unlock()
	s.sessionCount.Add(1)

	s.debugLog("session opened", "session", sess.id, "remote", sess.remote)
	sess.logState("", "CONNECTED")

	sess.readLoop()
	sess.close()

	s.debugLog("session closed", "session", sess.id, "notifications", sess.count)
	sess.logState("CONNECTED", "DISCONNECTED")

	s.sessionsMu.Lock()
	delete(s.sessions, sess)
	s.sessionsMu.Unlock()
}

func (s *Server) reportError(err error) {
	s.debugLog("gateway error", "error", err)
	if s.config.OnError != nil {
		s.config.OnError(err)
	}
}

// debugLog logs a debug message if logging is enabled.
func (s *Server) debugLog(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, args...)
	}
}

// session is one accepted client connection.
type session struct {
	id     string
	conn   *tls.Conn
	server *Server
	remote string
	count  int

	closeOnce sync.Once
}

func (c *session) close() {
	c.closeOnce.Do(func() {
		c.conn.Close()
	})
}

// readLoop reads notifications until the client leaves or the policy ends
// the session.
func (c *session) readLoop() {
	policy := c.server.config.Policy
	buf := make([]byte, readBufferSize)

	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			if !isClosed(err) && c.server.running.Load() {
				c.server.reportError(fmt.Errorf("session %s: %w", c.id, err))
			}
			return
		}

		data := append([]byte(nil), buf[:n]...)
		c.count++
		c.server.notificationCount.Add(1)
		c.logFrame(log.DirectionIn, data)

		if c.server.config.OnNotification != nil {
			c.server.config.OnNotification(c.id, data)
		}

		switch {
		case policy.RejectEvery > 0 && c.count%policy.RejectEvery == 0:
			c.reject(policy.RejectStatus, notificationIdentifier(data, c.count))
			return
		case policy.DropEvery > 0 && c.count%policy.DropEvery == 0:
			c.server.dropCount.Add(1)
			c.server.debugLog("dropping session", "session", c.id)
			return
		}
	}
}

// reject sends an error frame. The caller closes the session afterwards.
func (c *session) reject(status wire.Status, identifier uint32) {
	frame := wire.EncodeErrorResponse(status, identifier)
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := c.conn.Write(frame); err != nil {
		c.server.reportError(fmt.Errorf("session %s: write error frame: %w", c.id, err))
		return
	}
	c.server.rejectionCount.Add(1)
	c.logFrame(log.DirectionOut, frame)
	c.server.debugLog("rejected notification", "session", c.id, "status", status.String(), "identifier", identifier)

	if c.server.config.OnReject != nil {
		c.server.config.OnReject(c.id, status, identifier)
	}
}

// notificationIdentifier returns the identifier of an enhanced-format
// notification (command 1), or the per-session sequence number otherwise.
func notificationIdentifier(data []byte, seq int) uint32 {
	if len(data) >= 5 && data[0] == 1 {
		return binary.BigEndian.Uint32(data[1:5])
	}
	return uint32(seq)
}

func isClosed(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF)
}

func (c *session) logFrame(dir log.Direction, data []byte) {
	if c.server.config.ProtocolLogger == nil {
		return
	}
	c.server.config.ProtocolLogger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Direction:    dir,
		Layer:        log.LayerTransport,
		Category:     log.CategoryFrame,
		Gateway:      c.remote,
		Frame:        log.NewFrameEvent(data),
	})
}

func (c *session) logState(oldState, newState string) {
	if c.server.config.ProtocolLogger == nil {
		return
	}
	c.server.config.ProtocolLogger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		Gateway:      c.remote,
		StateChange: &log.StateChangeEvent{
			OldState: oldState,
			NewState: newState,
		},
	})
}
