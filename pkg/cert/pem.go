package cert

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

// PEM encoding/decoding errors.
var (
	ErrInvalidPEM     = errors.New("invalid PEM data")
	ErrInvalidKey     = errors.New("invalid private key")
	ErrPassphrase     = errors.New("private key is encrypted and no passphrase was given")
	ErrUnsupportedKey = errors.New("unsupported private key type")
)

// EncodeCertPEM encodes an X.509 certificate to PEM format.
func EncodeCertPEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: cert.Raw,
	})
}

// DecodeCertPEM decodes a PEM-encoded X.509 certificate.
func DecodeCertPEM(data []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, ErrInvalidPEM
	}
	return x509.ParseCertificate(block.Bytes)
}

// EncodeKeyPEM encodes a private key to PKCS#8 PEM format.
func EncodeKeyPEM(key crypto.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: der,
	}), nil
}

// decodePEMBundle splits PEM data into certificate DER blocks and a single
// private key, decrypting legacy encrypted key blocks with passphrase.
func decodePEMBundle(data []byte, passphrase string) ([][]byte, crypto.PrivateKey, error) {
	var (
		certs [][]byte
		key   crypto.PrivateKey
	)

	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}

		switch {
		case block.Type == "CERTIFICATE":
			certs = append(certs, block.Bytes)

		case block.Type == "PRIVATE KEY" || strings.HasSuffix(block.Type, " PRIVATE KEY"):
			if key != nil {
				return nil, nil, fmt.Errorf("%w: more than one private key", ErrInvalidKey)
			}
			der := block.Bytes
			//nolint:staticcheck // legacy RFC 1423 encryption is what openssl emits for -des3 keys
			if x509.IsEncryptedPEMBlock(block) {
				if passphrase == "" {
					return nil, nil, ErrPassphrase
				}
				var err error
				//nolint:staticcheck // see above
				der, err = x509.DecryptPEMBlock(block, []byte(passphrase))
				if err != nil {
					return nil, nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
				}
			}
			parsed, err := parsePrivateKey(der)
			if err != nil {
				return nil, nil, err
			}
			key = parsed
		}
	}

	if len(certs) == 0 {
		return nil, nil, fmt.Errorf("%w: no certificate block", ErrInvalidPEM)
	}
	if key == nil {
		return nil, nil, fmt.Errorf("%w: no private key block", ErrInvalidPEM)
	}
	return certs, key, nil
}

// parsePrivateKey accepts PKCS#1, PKCS#8 and SEC 1 encodings.
func parsePrivateKey(der []byte) (crypto.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		switch key := key.(type) {
		case *rsa.PrivateKey, *ecdsa.PrivateKey, ed25519.PrivateKey:
			return key, nil
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
		}
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	return nil, ErrInvalidKey
}
