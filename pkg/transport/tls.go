package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
)

// Gateway defaults of the binary push protocol.
const (
	// DefaultPort is the port of the production and sandbox gateways.
	DefaultPort = 2195

	// ProductionGateway is the production gateway host.
	ProductionGateway = "gateway.push.apple.com"

	// SandboxGateway is the development gateway host.
	SandboxGateway = "gateway.sandbox.push.apple.com"
)

// TLSConfig holds configuration for gateway TLS connections.
type TLSConfig struct {
	// Certificate is the TLS certificate for this endpoint.
	// Clients may leave it empty; the gateway will then refuse the handshake.
	Certificate tls.Certificate

	// RootCAs is the pool of trusted CA certificates. Nil uses the system pool.
	RootCAs *x509.CertPool

	// ClientCAs is the pool of CA certificates for client authentication.
	// Only used by servers to verify client certificates.
	ClientCAs *x509.CertPool

	// ServerName is the expected server name for client connections.
	// Used for SNI and certificate verification.
	ServerName string

	// InsecureSkipVerify disables certificate verification.
	// Only for testing - never use in production!
	InsecureSkipVerify bool
}

// NewClientTLSConfig creates a TLS configuration for a gateway client.
func NewClientTLSConfig(cfg *TLSConfig) (*tls.Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("TLSConfig is required")
	}

	tlsConfig := &tls.Config{
		// Gateways still negotiate TLS 1.2
		MinVersion: tls.VersionTLS12,

		// CA pool for verifying the gateway certificate
		RootCAs: cfg.RootCAs,

		// Server name for verification
		ServerName: cfg.ServerName,

		// For testing only
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if len(cfg.Certificate.Certificate) > 0 {
		tlsConfig.Certificates = []tls.Certificate{cfg.Certificate}
	}

	return tlsConfig, nil
}

// NewServerTLSConfig creates a TLS configuration for a gateway endpoint.
// Client certificates are requested and, when ClientCAs is set, verified.
func NewServerTLSConfig(cfg *TLSConfig) (*tls.Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("TLSConfig is required")
	}
	if len(cfg.Certificate.Certificate) == 0 {
		return nil, fmt.Errorf("server certificate is required")
	}

	tlsConfig := &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{cfg.Certificate},
		ClientAuth:   tls.RequestClientCert,
	}

	if cfg.ClientCAs != nil {
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
		tlsConfig.ClientCAs = cfg.ClientCAs
	}

	// For testing only
	if cfg.InsecureSkipVerify {
		tlsConfig.ClientAuth = tls.RequestClientCert
		tlsConfig.ClientCAs = nil
	}

	return tlsConfig, nil
}
