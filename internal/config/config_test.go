package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santthosh/grocer/pkg/cert"
	"github.com/santthosh/grocer/pkg/connection"
	grocerlog "github.com/santthosh/grocer/pkg/log"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, 3, cfg.Retries)
	assert.Equal(t, 500*time.Millisecond, cfg.SelectWait)
	assert.Equal(t, "gateway.push.apple.com", cfg.Gateway)
	assert.Equal(t, 2195, cfg.Port)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "grocer.yaml", []byte(`
certificate: /etc/grocer/cert.pem
passphrase: secret
gateway: gateway.sandbox.push.apple.com
port: 2196
retries: 5
select_wait: 250ms
connect_timeout: 10s
backoff: true
insecure_skip_verify: true
log_level: debug
log_format: zerolog
protocol_log: /tmp/grocer.glog
`))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/etc/grocer/cert.pem", cfg.Certificate)
	assert.Equal(t, "secret", cfg.Passphrase)
	assert.Equal(t, "gateway.sandbox.push.apple.com", cfg.Gateway)
	assert.Equal(t, 2196, cfg.Port)
	assert.Equal(t, 5, cfg.Retries)
	assert.Equal(t, 250*time.Millisecond, cfg.SelectWait)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.True(t, cfg.Backoff)
	assert.True(t, cfg.InsecureSkipVerify)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "zerolog", cfg.LogFormat)
	assert.Equal(t, "/tmp/grocer.glog", cfg.ProtocolLog)
}

func TestLoadPartialYAMLKeepsDefaults(t *testing.T) {
	path := writeFile(t, "grocer.yaml", []byte("gateway: localhost\n"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Gateway)
	assert.Equal(t, 2195, cfg.Port)
	assert.Equal(t, 3, cfg.Retries)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "grocer.yaml", []byte("gateway: from-file\nretries: 2\n"))

	t.Setenv("GROCER_GATEWAY", "from-env")
	t.Setenv("GROCER_SELECT_WAIT", "1s")
	t.Setenv("GROCER_INSECURE_SKIP_VERIFY", "true")
	t.Setenv("GROCER_BACKOFF", "true")
	t.Setenv("GROCER_LOG_FORMAT", "logrus")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Gateway)
	assert.Equal(t, 2, cfg.Retries, "unset variables keep file values")
	assert.Equal(t, time.Second, cfg.SelectWait)
	assert.True(t, cfg.InsecureSkipVerify)
	assert.True(t, cfg.Backoff)
	assert.Equal(t, "logrus", cfg.LogFormat)
}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	path := writeFile(t, "grocer.yaml", []byte("retries: 0\n"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidRetries)

	cfg.Retries = 4
	assert.NoError(t, cfg.Validate())
}

func TestLoadErrors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("BadYAML", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", []byte("port: [1, 2\n")))
		assert.Error(t, err)
	})

	t.Run("BadEnv", func(t *testing.T) {
		t.Setenv("GROCER_PORT", "not-a-number")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestValidateAccumulates(t *testing.T) {
	cfg := Config{Port: 70000, Retries: 0, LogLevel: "loud", LogFormat: "xml"}

	err := cfg.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 7)
	assert.ErrorIs(t, err, ErrNoGateway)
	assert.ErrorIs(t, err, ErrInvalidPort)
	assert.ErrorIs(t, err, ErrInvalidRetries)
	assert.ErrorIs(t, err, ErrInvalidDuration)
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
	assert.ErrorIs(t, err, grocerlog.ErrUnknownFormat)
}

func TestValidateDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestConnectionConfig(t *testing.T) {
	_, certPEM, keyPEM, err := cert.GenerateSelfSigned(cert.SelfSignedConfig{CommonName: "push-client"})
	require.NoError(t, err)
	certPath := writeFile(t, "client.pem", append(certPEM, keyPEM...))
	caPath := writeFile(t, "ca.pem", certPEM)

	cfg := Default()
	cfg.Certificate = certPath
	cfg.Passphrase = "pw"
	cfg.CAFile = caPath
	cfg.Gateway = "localhost"

	connCfg, err := cfg.ConnectionConfig()
	require.NoError(t, err)
	assert.Equal(t, "localhost", connCfg.Gateway)
	assert.Equal(t, 2195, connCfg.Port)
	assert.Equal(t, "pw", connCfg.Passphrase)
	assert.Equal(t, connection.DefaultSelectWait, connCfg.SelectWait)
	assert.NotEmpty(t, connCfg.Certificate)
	assert.NotNil(t, connCfg.RootCAs)

	_, err = connection.New(connCfg)
	assert.NoError(t, err)
}

func TestConnectionConfigErrors(t *testing.T) {
	cfg := Default()
	cfg.Certificate = filepath.Join(t.TempDir(), "missing.pem")
	_, err := cfg.ConnectionConfig()
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg = Default()
	cfg.CAFile = writeFile(t, "ca.pem", []byte("not a pem"))
	_, err = cfg.ConnectionConfig()
	assert.ErrorIs(t, err, cert.ErrInvalidPEM)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}
