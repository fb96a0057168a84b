package cert

import (
	"crypto/x509"
	"errors"
	"fmt"
	"time"
)

// Verification errors.
var (
	ErrCertExpired     = errors.New("certificate has expired")
	ErrCertNotYetValid = errors.New("certificate is not yet valid")
	ErrNoCertificate   = errors.New("no certificate")
)

// CheckValidity checks the validity period of cert at now.
// The returned error names the boundary that was crossed.
func CheckValidity(cert *x509.Certificate, now time.Time) error {
	if cert == nil {
		return ErrNoCertificate
	}
	if now.Before(cert.NotBefore) {
		return fmt.Errorf("%w: valid from %s", ErrCertNotYetValid, cert.NotBefore.UTC().Format(time.RFC3339))
	}
	if now.After(cert.NotAfter) {
		return fmt.Errorf("%w: expired at %s", ErrCertExpired, cert.NotAfter.UTC().Format(time.RFC3339))
	}
	return nil
}

// LoadRootCAs reads a PEM bundle of trusted gateway CA certificates.
func LoadRootCAs(data []byte) (*x509.CertPool, error) {
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, fmt.Errorf("%w: no CA certificates found", ErrInvalidPEM)
	}
	return pool, nil
}
