// Package config loads grocer client settings from a YAML file and
// GROCER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/santthosh/grocer/pkg/cert"
	"github.com/santthosh/grocer/pkg/connection"
	grocerlog "github.com/santthosh/grocer/pkg/log"
	"github.com/santthosh/grocer/pkg/transport"
)

// EnvPrefix is the prefix of environment overrides, e.g. GROCER_GATEWAY.
const EnvPrefix = "GROCER"

// Validation errors.
var (
	ErrNoGateway       = errors.New("gateway is required")
	ErrInvalidPort     = errors.New("port must be between 1 and 65535")
	ErrInvalidRetries  = errors.New("retries must be at least 1")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrInvalidLogLevel = errors.New("unknown log level")
)

// Config is the client configuration as read from file and environment.
type Config struct {
	// Certificate is the path of the client credential (PEM or PKCS#12).
	Certificate string `yaml:"certificate" envconfig:"CERTIFICATE"`

	// Passphrase decrypts the credential.
	Passphrase string `yaml:"passphrase" envconfig:"PASSPHRASE"`

	Gateway string `yaml:"gateway" envconfig:"GATEWAY"`
	Port    int    `yaml:"port" envconfig:"PORT"`
	Retries int    `yaml:"retries" envconfig:"RETRIES"`

	// SelectWait is how long a write waits for an error frame.
	SelectWait time.Duration `yaml:"select_wait" envconfig:"SELECT_WAIT"`

	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"CONNECT_TIMEOUT"`

	// Backoff spaces out reconnect attempts exponentially instead of
	// retrying immediately.
	Backoff bool `yaml:"backoff" envconfig:"BACKOFF"`

	// CAFile is an optional PEM bundle of trusted gateway CAs.
	CAFile string `yaml:"ca_file" envconfig:"CA_FILE"`

	// InsecureSkipVerify disables gateway certificate verification.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" envconfig:"INSECURE_SKIP_VERIFY"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// LogFormat selects the library printing protocol events to the
	// console: slog, zerolog or logrus.
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"`

	// ProtocolLog is an optional path for the CBOR protocol log.
	ProtocolLog string `yaml:"protocol_log" envconfig:"PROTOCOL_LOG"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Gateway:        transport.ProductionGateway,
		Port:           transport.DefaultPort,
		Retries:        connection.DefaultRetries,
		SelectWait:     connection.DefaultSelectWait,
		ConnectTimeout: connection.DefaultConnectTimeout,
		LogLevel:       "info",
		LogFormat:      grocerlog.FormatSlog,
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then environment overrides. It does not validate:
// callers layer their own overrides first and then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Gateway == "" {
		result = multierror.Append(result, ErrNoGateway)
	}
	if c.Port < 1 || c.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("%w: %d", ErrInvalidPort, c.Port))
	}
	if c.Retries < 1 {
		result = multierror.Append(result, fmt.Errorf("%w: %d", ErrInvalidRetries, c.Retries))
	}
	if c.SelectWait <= 0 {
		result = multierror.Append(result, fmt.Errorf("select_wait: %w", ErrInvalidDuration))
	}
	if c.ConnectTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("connect_timeout: %w", ErrInvalidDuration))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := grocerlog.ParseFormat(c.LogFormat); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// ConnectionConfig reads the credential and CA files and returns the
// settings for connection.New.
func (c *Config) ConnectionConfig() (connection.Config, error) {
	cfg := connection.Config{
		Passphrase:         c.Passphrase,
		Gateway:            c.Gateway,
		Port:               c.Port,
		Retries:            c.Retries,
		SelectWait:         c.SelectWait,
		ConnectTimeout:     c.ConnectTimeout,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}

	if c.Certificate != "" {
		data, err := os.ReadFile(c.Certificate)
		if err != nil {
			return connection.Config{}, fmt.Errorf("read certificate: %w", err)
		}
		cfg.Certificate = data
	}

	if c.CAFile != "" {
		data, err := os.ReadFile(c.CAFile)
		if err != nil {
			return connection.Config{}, fmt.Errorf("read CA file: %w", err)
		}
		pool, err := cert.LoadRootCAs(data)
		if err != nil {
			return connection.Config{}, fmt.Errorf("load CA file %s: %w", c.CAFile, err)
		}
		cfg.RootCAs = pool
	}

	return cfg, nil
}

// ParseLevel maps a log level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, name)
	}
	return level, nil
}
