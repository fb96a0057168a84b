package grocer_test

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santthosh/grocer/internal/gatewaysim"
	"github.com/santthosh/grocer/pkg/cert"
	"github.com/santthosh/grocer/pkg/connection"
	"github.com/santthosh/grocer/pkg/log"
	"github.com/santthosh/grocer/pkg/transport"
	"github.com/santthosh/grocer/pkg/wire"
)

// gatewayFixture is a running simulator plus the trust material a client
// needs to reach it.
type gatewayFixture struct {
	server  *gatewaysim.Server
	host    string
	port    int
	rootCAs []byte
}

func newGatewayConfig(t *testing.T, addr string, policy gatewaysim.Policy) (gatewaysim.Config, []byte) {
	t.Helper()

	cred, certPEM, _, err := cert.GenerateSelfSigned(cert.SelfSignedConfig{
		CommonName: "gateway.test",
		Hosts:      []string{"127.0.0.1"},
	})
	require.NoError(t, err)

	return gatewaysim.Config{
		TLSConfig: &transport.TLSConfig{Certificate: cred.TLSCertificate()},
		Address:   addr,
		Policy:    policy,
	}, certPEM
}

func startGateway(t *testing.T, policy gatewaysim.Policy) *gatewayFixture {
	t.Helper()

	cfg, caPEM := newGatewayConfig(t, "127.0.0.1:0", policy)
	srv, err := gatewaysim.New(cfg)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { srv.Stop() })

	host, portStr, err := net.SplitHostPort(srv.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return &gatewayFixture{server: srv, host: host, port: port, rootCAs: caPEM}
}

func clientCredential(t *testing.T, notBefore, notAfter time.Time) []byte {
	t.Helper()
	_, certPEM, keyPEM, err := cert.GenerateSelfSigned(cert.SelfSignedConfig{
		CommonName: "push-client",
		NotBefore:  notBefore,
		NotAfter:   notAfter,
	})
	require.NoError(t, err)
	return append(certPEM, keyPEM...)
}

func newClient(t *testing.T, host string, port int, caPEM []byte, opts ...connection.Option) *connection.Connection {
	t.Helper()

	pool, err := cert.LoadRootCAs(caPEM)
	require.NoError(t, err)

	conn, err := connection.New(connection.Config{
		Certificate:    clientCredential(t, time.Time{}, time.Time{}),
		Gateway:        host,
		Port:           port,
		RootCAs:        pool,
		SelectWait:     300 * time.Millisecond,
		ConnectTimeout: 5 * time.Second,
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// enhancedNotification builds a command-1 notification frame carrying id.
func enhancedNotification(id uint32, payload string) []byte {
	frame := []byte{1, byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	frame = append(frame, 0, 0, 0, 0) // expiry
	frame = append(frame, 0, 32)
	frame = append(frame, make([]byte, 32)...)
	frame = append(frame, byte(len(payload)>>8), byte(len(payload)))
	return append(frame, payload...)
}

func TestE2E_SilentGatewayAcceptsWrites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	var mu sync.Mutex
	var received int
	cfg, caPEM := newGatewayConfig(t, "127.0.0.1:0", gatewaysim.Policy{})
	cfg.OnNotification = func(string, []byte) {
		mu.Lock()
		received++
		mu.Unlock()
	}
	srv, err := gatewaysim.New(cfg)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { srv.Stop() })
	host, portStr, _ := net.SplitHostPort(srv.Addr().String())
	port, _ := strconv.Atoi(portStr)

	conn := newClient(t, host, port, caPEM)
	assert.Equal(t, connection.StateDisconnected, conn.State())

	for i := uint32(1); i <= 3; i++ {
		require.NoError(t, conn.Write(enhancedNotification(i, `{"aps":{}}`)))
	}

	assert.Equal(t, connection.StateConnected, conn.State())
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return received == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 1, srv.Stats().Sessions)
}

func TestE2E_RejectionReturnsErrorResponse(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	gw := startGateway(t, gatewaysim.Policy{RejectEvery: 2, RejectStatus: wire.StatusInvalidToken})
	conn := newClient(t, gw.host, gw.port, gw.rootCAs)

	first := enhancedNotification(100, "first")
	second := enhancedNotification(200, "second")

	require.NoError(t, conn.Write(first))
	err := conn.Write(second)

	var resp *wire.ErrorResponse
	require.True(t, errors.As(err, &resp), "expected ErrorResponse, got %v", err)
	assert.Equal(t, wire.StatusInvalidToken, resp.Status)
	assert.Equal(t, uint32(200), resp.Identifier)
	assert.Equal(t, second, resp.Content)
	assert.Equal(t, connection.StateDisconnected, conn.State())

	// The next write reconnects on a fresh session.
	require.NoError(t, conn.Write(enhancedNotification(300, "third")))
	assert.EqualValues(t, 2, gw.server.Stats().Sessions)
	assert.EqualValues(t, 1, gw.server.Stats().Rejections)
}

func TestE2E_DroppedSessionReturnsUnexpectedSelect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	gw := startGateway(t, gatewaysim.Policy{DropEvery: 1})
	conn := newClient(t, gw.host, gw.port, gw.rootCAs)

	err := conn.Write(enhancedNotification(1, "dropped"))

	assert.ErrorIs(t, err, connection.ErrUnexpectedSelect)
	assert.Equal(t, connection.StateDisconnected, conn.State())
	assert.EqualValues(t, 1, gw.server.Stats().Sessions)
}

func TestE2E_ReadAtEndOfStreamDoesNotReconnect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg, caPEM := newGatewayConfig(t, "127.0.0.1:0", gatewaysim.Policy{})
	tlsConfig, err := transport.NewServerTLSConfig(cfg.TLSConfig)
	require.NoError(t, err)
	l, err := tls.Listen("tcp", "127.0.0.1:0", tlsConfig)
	require.NoError(t, err)

	// The first session hangs up right after the handshake; later sessions
	// stay open and silent.
	var sessions atomic.Int32
	var mu sync.Mutex
	var held []net.Conn
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			if sessions.Add(1) == 1 {
				c.(*tls.Conn).Handshake()
				c.Close()
				continue
			}
			mu.Lock()
			held = append(held, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		l.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range held {
			c.Close()
		}
	})

	host, portStr, _ := net.SplitHostPort(l.Addr().String())
	port, _ := strconv.Atoi(portStr)
	conn := newClient(t, host, port, caPEM)
	require.NoError(t, conn.Connect())

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := conn.Read(6, nil)
		done <- result{data, err}
	}()

	select {
	case r := <-done:
		assert.ErrorIs(t, r.err, io.EOF)
		assert.Empty(t, r.data)
	case <-time.After(3 * time.Second):
		t.Fatal("Read blocked after the gateway closed the stream")
	}
	assert.EqualValues(t, 1, sessions.Load())
}

func TestE2E_ConnectRetriesUntilGatewayListens(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	// Reserve a port, then leave it closed until the client has failed once.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	cfg, caPEM := newGatewayConfig(t, addr, gatewaysim.Policy{})
	srv, err := gatewaysim.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Stop() })

	host, portStr, _ := net.SplitHostPort(addr)
	port, _ := strconv.Atoi(portStr)

	var retries int
	var mu sync.Mutex
	protocol := log.LoggerFunc(func(e log.Event) {
		if e.Category == log.CategoryRetry {
			mu.Lock()
			retries++
			mu.Unlock()
		}
	})

	pool, err := cert.LoadRootCAs(caPEM)
	require.NoError(t, err)
	conn, err := connection.New(connection.Config{
		Certificate:    clientCredential(t, time.Time{}, time.Time{}),
		Gateway:        host,
		Port:           port,
		Retries:        20,
		RootCAs:        pool,
		ConnectTimeout: time.Second,
	},
		connection.WithBackoff(backoff.NewConstantBackOff(50*time.Millisecond)),
		connection.WithProtocolLogger(protocol),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		time.Sleep(150 * time.Millisecond)
		srv.Start(context.Background())
	}()

	require.NoError(t, conn.Connect())
	assert.Equal(t, connection.StateConnected, conn.State())

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, retries, 1)
}

func TestE2E_RetriesExhausted(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, portStr, _ := net.SplitHostPort(l.Addr().String())
	port, _ := strconv.Atoi(portStr)
	l.Close()

	conn, err := connection.New(connection.Config{
		Certificate:    clientCredential(t, time.Time{}, time.Time{}),
		Gateway:        "127.0.0.1",
		Port:           port,
		ConnectTimeout: time.Second,
	})
	require.NoError(t, err)

	err = conn.Write([]byte("never sent"))

	require.Error(t, err)
	var hsErr *transport.HandshakeError
	assert.False(t, errors.As(err, &hsErr), "dial failures are not handshake errors")
	assert.Equal(t, connection.StateDisconnected, conn.State())
}

func TestE2E_ExpiredCertificateIsNotRetried(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	gw := startGateway(t, gatewaysim.Policy{})
	pool, err := cert.LoadRootCAs(gw.rootCAs)
	require.NoError(t, err)

	var retries int
	conn, err := connection.New(connection.Config{
		Certificate:    clientCredential(t, time.Now().Add(-48*time.Hour), time.Now().Add(-24*time.Hour)),
		Gateway:        gw.host,
		Port:           gw.port,
		RootCAs:        pool,
		ConnectTimeout: time.Second,
	}, connection.WithProtocolLogger(log.LoggerFunc(func(e log.Event) {
		if e.Category == log.CategoryRetry {
			retries++
		}
	})))
	require.NoError(t, err)

	err = conn.Write([]byte("payload"))

	var expired *connection.CertificateExpiredError
	require.True(t, errors.As(err, &expired), "expected CertificateExpiredError, got %v", err)
	assert.Zero(t, retries)
	assert.Zero(t, gw.server.Stats().Notifications)
}

func TestE2E_ProtocolLogRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	gw := startGateway(t, gatewaysim.Policy{RejectEvery: 1, RejectStatus: wire.StatusMissingPayload})

	path := filepath.Join(t.TempDir(), "client.glog")
	fileLogger, err := log.NewFileLogger(path)
	require.NoError(t, err)

	conn := newClient(t, gw.host, gw.port, gw.rootCAs, connection.WithProtocolLogger(fileLogger))

	err = conn.Write(enhancedNotification(9, ""))
	var resp *wire.ErrorResponse
	require.True(t, errors.As(err, &resp))
	require.NoError(t, fileLogger.Close())

	reader, err := log.NewReader(path)
	require.NoError(t, err)
	defer reader.Close()
	events, err := reader.ReadAll()
	require.NoError(t, err)

	var frames, rejections int
	for _, e := range events {
		assert.Equal(t, conn.ID(), e.ConnectionID)
		switch e.Category {
		case log.CategoryFrame:
			frames++
		case log.CategoryErrorResponse:
			rejections++
			require.NotNil(t, e.ErrorResponse)
			assert.Equal(t, wire.StatusMissingPayload, e.ErrorResponse.Status)
			assert.Equal(t, uint32(9), e.ErrorResponse.Identifier)
		}
	}
	assert.Equal(t, 1, rejections)
	assert.GreaterOrEqual(t, frames, 2)
}
