package cert

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"time"
)

// SelfSignedConfig describes a throwaway certificate for local gateways and tests.
type SelfSignedConfig struct {
	// CommonName is the subject common name.
	CommonName string

	// NotBefore defaults to one hour ago.
	NotBefore time.Time

	// NotAfter defaults to 24 hours from now.
	NotAfter time.Time

	// Hosts are added as DNS or IP subject alternative names.
	Hosts []string
}

// GenerateSelfSigned creates a self-signed P-256 certificate usable for both
// server and client authentication. It returns the credential together with
// the PEM encoding of the certificate and its key.
func GenerateSelfSigned(cfg SelfSignedConfig) (*Credential, []byte, []byte, error) {
	now := time.Now()
	if cfg.NotBefore.IsZero() {
		cfg.NotBefore = now.Add(-time.Hour)
	}
	if cfg.NotAfter.IsZero() {
		cfg.NotAfter = now.Add(24 * time.Hour)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, nil, err
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		return nil, nil, nil, err
	}

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: cfg.CommonName},
		NotBefore:    cfg.NotBefore,
		NotAfter:     cfg.NotAfter,
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment | x509.KeyUsageCertSign,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		IsCA:         true,

		BasicConstraintsValid: true,
	}
	for _, h := range cfg.Hosts {
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, nil, nil, err
	}
	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, nil, nil, err
	}

	keyPEM, err := EncodeKeyPEM(key)
	if err != nil {
		return nil, nil, nil, err
	}

	cred := &Credential{
		Certificate: tls.Certificate{
			Certificate: [][]byte{der},
			PrivateKey:  key,
			Leaf:        leaf,
		},
		Leaf: leaf,
	}
	return cred, EncodeCertPEM(leaf), keyPEM, nil
}
