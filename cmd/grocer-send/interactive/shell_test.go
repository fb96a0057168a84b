package interactive

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santthosh/grocer/pkg/connection"
	"github.com/santthosh/grocer/pkg/wire"
)

type fakeSender struct {
	writes   [][]byte
	writeErr error
	readData []byte
	readErr  error
	readSize int
	connects int
	closes   int
	state    connection.State
}

func (f *fakeSender) Connect() error {
	f.connects++
	f.state = connection.StateConnected
	return nil
}

func (f *fakeSender) Read(size int, _ []byte) ([]byte, error) {
	f.readSize = size
	return f.readData, f.readErr
}

func (f *fakeSender) Write(content []byte) error {
	f.writes = append(f.writes, content)
	return f.writeErr
}

func (f *fakeSender) Close() error {
	f.closes++
	f.state = connection.StateClosed
	return nil
}

func (f *fakeSender) State() connection.State { return f.state }
func (f *fakeSender) Address() string         { return "gateway.test:2195" }
func (f *fakeSender) ID() string              { return "conn-1234" }

func newTestShell() (*Shell, *fakeSender, *bytes.Buffer) {
	sender := &fakeSender{}
	var out bytes.Buffer
	return NewShell(sender, &out), sender, &out
}

func TestSendHex(t *testing.T) {
	shell, sender, out := newTestShell()

	quit := shell.Execute("send 0102 ff")

	assert.False(t, quit)
	require.Len(t, sender.writes, 1)
	assert.Equal(t, []byte{0x01, 0x02, 0xff}, sender.writes[0])
	assert.Contains(t, out.String(), "Sent 3 bytes")
}

func TestSendInvalidHex(t *testing.T) {
	shell, sender, out := newTestShell()

	shell.Execute("send zz")

	assert.Empty(t, sender.writes)
	assert.Contains(t, out.String(), "Invalid hex")
}

func TestSendRejected(t *testing.T) {
	shell, sender, out := newTestShell()
	resp, err := wire.NewErrorResponse(wire.EncodeErrorResponse(wire.StatusInvalidToken, 77), nil)
	require.NoError(t, err)
	sender.writeErr = resp

	shell.Execute("send 01")
	shell.Execute("status")

	assert.Contains(t, out.String(), "status INVALID_TOKEN (8), identifier 77")
	assert.Contains(t, out.String(), "Rejected:   1")
	assert.Contains(t, out.String(), "Sent:       0")
}

func TestSendFile(t *testing.T) {
	shell, sender, out := newTestShell()
	shell.readFile = func(path string) ([]byte, error) {
		if path == "payload.bin" {
			return []byte("hello"), nil
		}
		return nil, fmt.Errorf("open %s: no such file", path)
	}

	shell.Execute("sendfile payload.bin")
	shell.Execute("sendfile missing.bin")

	require.Len(t, sender.writes, 1)
	assert.Equal(t, []byte("hello"), sender.writes[0])
	assert.Contains(t, out.String(), "Read failed: open missing.bin")
}

func TestRead(t *testing.T) {
	shell, sender, out := newTestShell()
	sender.readData = []byte{0xab, 0xcd}

	shell.Execute("read 2")
	assert.Equal(t, 2, sender.readSize)
	assert.Contains(t, out.String(), "Read 2 bytes: abcd")

	shell.Execute("read -1")
	assert.Contains(t, out.String(), "Invalid size: -1")

	sender.readErr = errors.New("connection reset")
	shell.Execute("r 0")
	assert.Contains(t, out.String(), "Read failed: connection reset")
}

func TestConnectCloseStatus(t *testing.T) {
	shell, sender, out := newTestShell()

	shell.Execute("connect")
	shell.Execute("status")
	shell.Execute("close")

	assert.Equal(t, 1, sender.connects)
	assert.Equal(t, 1, sender.closes)
	assert.Contains(t, out.String(), "Connected to gateway.test:2195")
	assert.Contains(t, out.String(), "State:      CONNECTED")
	assert.Contains(t, out.String(), "Connection closed")
}

func TestQuit(t *testing.T) {
	for _, cmd := range []string{"quit", "exit", "q", "QUIT"} {
		shell, sender, _ := newTestShell()
		assert.True(t, shell.Execute(cmd), cmd)
		assert.Equal(t, 1, sender.closes, cmd)
	}
}

func TestUnknownAndEmpty(t *testing.T) {
	shell, _, out := newTestShell()

	assert.False(t, shell.Execute("   "))
	assert.Empty(t, out.String())

	assert.False(t, shell.Execute("frobnicate"))
	assert.Contains(t, out.String(), "Unknown command: frobnicate")
}

func TestDescribe(t *testing.T) {
	resp, err := wire.NewErrorResponse(wire.EncodeErrorResponse(wire.StatusShutdown, 5), nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rejection", resp, "status SHUTDOWN (10), identifier 5"},
		{"wrapped rejection", fmt.Errorf("payload 1: %w", resp), "identifier 5"},
		{"expired", &connection.CertificateExpiredError{Err: errors.New("alert")}, "certificate expired"},
		{"unexpected select", connection.ErrUnexpectedSelect, "may not have been delivered"},
		{"other", errors.New("dial tcp: refused"), "dial tcp: refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Describe(tt.err), tt.want)
		})
	}
}
