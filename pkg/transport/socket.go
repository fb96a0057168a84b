package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/santthosh/grocer/pkg/cert"
	"github.com/santthosh/grocer/pkg/log"
)

// DefaultConnectTimeout bounds dialing plus the TLS handshake.
const DefaultConnectTimeout = 30 * time.Second

// TLSSocket is a Socket over a TLS client connection.
type TLSSocket struct {
	config SocketConfig
	conn   *tls.Conn
	reader *bufio.Reader
}

// NewTLSSocket creates an unconnected TLSSocket.
func NewTLSSocket(config SocketConfig) *TLSSocket {
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = DefaultConnectTimeout
	}
	return &TLSSocket{config: config}
}

// Address returns the gateway address in host:port form.
func (s *TLSSocket) Address() string {
	return net.JoinHostPort(s.config.Gateway, strconv.Itoa(s.config.Port))
}

// Connect dials the gateway and performs the TLS handshake.
// Credential and handshake failures are returned as *HandshakeError.
func (s *TLSSocket) Connect() error {
	if s.conn != nil {
		s.Disconnect()
	}

	address := s.Address()
	tlsConf, err := s.tlsConfig()
	if err != nil {
		return &HandshakeError{Address: address, Err: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ConnectTimeout)
	defer cancel()

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("dial %s: %w", address, err)
	}

	tlsConn := tls.Client(conn, tlsConf)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return &HandshakeError{Address: address, Err: err}
	}

	s.conn = tlsConn
	s.reader = bufio.NewReader(tlsConn)
	s.logState("DISCONNECTED", "CONNECTED")
	return nil
}

// tlsConfig loads the client credential and builds the TLS configuration.
func (s *TLSSocket) tlsConfig() (*tls.Config, error) {
	cfg := &TLSConfig{
		RootCAs:            s.config.RootCAs,
		ServerName:         s.config.Gateway,
		InsecureSkipVerify: s.config.InsecureSkipVerify,
	}

	if len(s.config.Certificate) > 0 {
		cred, err := cert.LoadCredential(s.config.Certificate, s.config.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		// The gateway would reject it anyway; fail before dialing.
		if err := cert.CheckValidity(cred.Leaf, time.Now()); errors.Is(err, cert.ErrCertExpired) {
			return nil, fmt.Errorf("client certificate expired: %w", err)
		}
		cfg.Certificate = cred.TLSCertificate()
	}

	return NewClientTLSConfig(cfg)
}

// Connected reports whether the socket holds an established connection.
func (s *TLSSocket) Connected() bool {
	return s.conn != nil
}

// Read reads exactly size bytes, fewer at end of stream, or everything until
// the peer closes when size <= 0.
func (s *TLSSocket) Read(size int, buf []byte) ([]byte, error) {
	if s.conn == nil {
		return nil, ErrNotConnected
	}

	if size <= 0 {
		data, err := io.ReadAll(s.reader)
		s.logFrame(log.DirectionIn, data)
		return data, err
	}

	if cap(buf) >= size {
		buf = buf[:size]
	} else {
		buf = make([]byte, size)
	}

	n, err := io.ReadFull(s.reader, buf)
	s.logFrame(log.DirectionIn, buf[:n])
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		return buf[:n], nil
	case err != nil:
		return nil, err
	}
	return buf, nil
}

// Write writes all of p to the gateway.
func (s *TLSSocket) Write(p []byte) error {
	if s.conn == nil {
		return ErrNotConnected
	}
	if _, err := s.conn.Write(p); err != nil {
		return err
	}
	s.logFrame(log.DirectionOut, p)
	return nil
}

// Wait peeks one byte under a read deadline. Data means readable, a timeout
// means neither, and any other error means errored.
func (s *TLSSocket) Wait(timeout time.Duration) Readiness {
	if s.conn == nil {
		return Readiness{Errored: true}
	}
	if s.reader.Buffered() > 0 {
		return Readiness{Readable: true}
	}

	if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return Readiness{Errored: true}
	}
	defer s.conn.SetReadDeadline(time.Time{})

	_, err := s.reader.Peek(1)
	if err == nil {
		return Readiness{Readable: true}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Readiness{}
	}
	return Readiness{Errored: true}
}

// ReadNonBlocking returns up to size bytes that have already arrived.
// It returns ErrWouldBlock when nothing is available.
func (s *TLSSocket) ReadNonBlocking(size int) ([]byte, error) {
	if s.conn == nil {
		return nil, ErrNotConnected
	}

	buf := make([]byte, size)
	n := 0
	if s.reader.Buffered() > 0 {
		n, _ = s.reader.Read(buf)
	}

	if n < size {
		// A deadline in the past only yields already decrypted bytes.
		s.conn.SetReadDeadline(time.Now())
		m, err := io.ReadFull(s.reader, buf[n:])
		s.conn.SetReadDeadline(time.Time{})
		n += m
		if n == 0 {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return nil, ErrWouldBlock
			}
			return nil, err
		}
	}

	s.logFrame(log.DirectionIn, buf[:n])
	return buf[:n], nil
}

// Disconnect closes the connection. It is a no-op on an unconnected socket.
func (s *TLSSocket) Disconnect() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	s.reader = nil
	s.logState("CONNECTED", "DISCONNECTED")
	return err
}

func (s *TLSSocket) logFrame(dir log.Direction, data []byte) {
	if s.config.Logger == nil || len(data) == 0 {
		return
	}
	s.config.Logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: s.config.ConnectionID,
		Direction:    dir,
		Layer:        log.LayerTransport,
		Category:     log.CategoryFrame,
		Gateway:      s.Address(),
		Frame:        log.NewFrameEvent(data),
	})
}

func (s *TLSSocket) logState(oldState, newState string) {
	if s.config.Logger == nil {
		return
	}
	s.config.Logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: s.config.ConnectionID,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		Gateway:      s.Address(),
		StateChange: &log.StateChangeEvent{
			OldState: oldState,
			NewState: newState,
		},
	})
}
