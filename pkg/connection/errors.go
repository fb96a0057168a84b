package connection

import (
	"errors"
	"regexp"

	"github.com/santthosh/grocer/pkg/transport"
)

// Connection errors.
var (
	ErrMissingGateway   = errors.New("gateway is required")
	ErrMissingPort      = errors.New("port is required")
	ErrUnexpectedSelect = errors.New("socket reported an unexpected error after write; disconnect and retry")
	ErrShortErrorFrame  = errors.New("gateway sent an incomplete error frame")
)

// CertificateExpiredError reports that the gateway refused the handshake
// because the client certificate has expired. It is never retried.
type CertificateExpiredError struct {
	Err error
}

// Error implements error.
func (e *CertificateExpiredError) Error() string {
	return "client certificate expired: " + e.Err.Error()
}

// Unwrap returns the handshake error.
func (e *CertificateExpiredError) Unwrap() error {
	return e.Err
}

// Matches OpenSSL ("certificate expired") and crypto/tls
// ("tls: expired certificate") alert texts.
var certExpiredPattern = regexp.MustCompile(`(?i)certificate expired|expired certificate`)

// asCertificateExpired returns err as a *CertificateExpiredError when it is a
// handshake failure caused by an expired certificate, and nil otherwise.
func asCertificateExpired(err error) *CertificateExpiredError {
	var hsErr *transport.HandshakeError
	if !errors.As(err, &hsErr) {
		return nil
	}
	if !certExpiredPattern.MatchString(hsErr.Error()) {
		return nil
	}
	return &CertificateExpiredError{Err: err}
}
