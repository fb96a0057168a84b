package cert

import (
	"crypto/tls"
	"crypto/x509"
	"time"
)

// RenewalWindow is how long before expiry a credential is reported as due
// for renewal.
const RenewalWindow = 30 * 24 * time.Hour

// Credential is a client certificate chain with its private key, as
// presented to the gateway during the TLS handshake.
type Credential struct {
	// Certificate is the chain and key in the form crypto/tls expects.
	Certificate tls.Certificate

	// Leaf is the parsed end-entity certificate.
	Leaf *x509.Certificate
}

// TLSCertificate returns the credential for use in tls.Config.Certificates.
func (c *Credential) TLSCertificate() tls.Certificate {
	if c == nil {
		return tls.Certificate{}
	}
	return c.Certificate
}

// Subject returns the common name of the leaf certificate.
func (c *Credential) Subject() string {
	if c == nil || c.Leaf == nil {
		return ""
	}
	return c.Leaf.Subject.CommonName
}

// ExpiresAt returns when the leaf certificate expires.
func (c *Credential) ExpiresAt() time.Time {
	if c == nil || c.Leaf == nil {
		return time.Time{}
	}
	return c.Leaf.NotAfter
}

// IsExpired returns true if the leaf certificate has expired at now.
func (c *Credential) IsExpired(now time.Time) bool {
	if c == nil || c.Leaf == nil {
		return true
	}
	return now.After(c.Leaf.NotAfter)
}

// NeedsRenewal returns true if the leaf certificate expires within RenewalWindow of now.
func (c *Credential) NeedsRenewal(now time.Time) bool {
	if c == nil || c.Leaf == nil {
		return true
	}
	return now.Add(RenewalWindow).After(c.Leaf.NotAfter)
}
