package cert

import (
	"bytes"
	"crypto"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"
)

// ErrKeyMismatch is returned when no certificate matches the private key.
var ErrKeyMismatch = errors.New("private key does not match any certificate")

// LoadCredential parses a client credential. PEM input must contain the
// certificate chain and the private key; an encrypted key is decrypted with
// passphrase. Anything else is treated as a PKCS#12 archive protected by
// passphrase.
func LoadCredential(data []byte, passphrase string) (*Credential, error) {
	if len(data) == 0 {
		return nil, ErrNoCertificate
	}

	var (
		certs [][]byte
		key   crypto.PrivateKey
		err   error
	)
	if bytes.Contains(data, []byte("-----BEGIN ")) {
		certs, key, err = decodePEMBundle(data, passphrase)
	} else {
		certs, key, err = decodePKCS12(data, passphrase)
	}
	if err != nil {
		return nil, err
	}

	return assemble(certs, key)
}

// LoadCredentialFile reads and parses a client credential file.
func LoadCredentialFile(path, passphrase string) (*Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cred, err := LoadCredential(data, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cred, nil
}

func decodePKCS12(data []byte, passphrase string) ([][]byte, crypto.PrivateKey, error) {
	blocks, err := pkcs12.ToPEM(data, passphrase)
	if err != nil {
		return nil, nil, fmt.Errorf("decode PKCS#12: %w", err)
	}

	var buf bytes.Buffer
	for _, block := range blocks {
		// ToPEM attaches bag attributes as headers; they are not part of the key.
		block.Headers = nil
		if err := pem.Encode(&buf, block); err != nil {
			return nil, nil, err
		}
	}
	return decodePEMBundle(buf.Bytes(), "")
}

// assemble orders the chain so the certificate matching key comes first.
func assemble(certs [][]byte, key crypto.PrivateKey) (*Credential, error) {
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}
	pub, ok := signer.Public().(interface{ Equal(crypto.PublicKey) bool })
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}

	leafIdx := -1
	var leaf *x509.Certificate
	for i, der := range certs {
		c, err := x509.ParseCertificate(der)
		if err != nil {
			return nil, fmt.Errorf("parse certificate: %w", err)
		}
		if pub.Equal(c.PublicKey) {
			leafIdx, leaf = i, c
			break
		}
	}
	if leafIdx < 0 {
		return nil, ErrKeyMismatch
	}

	chain := make([][]byte, 0, len(certs))
	chain = append(chain, certs[leafIdx])
	for i, der := range certs {
		if i != leafIdx {
			chain = append(chain, der)
		}
	}

	return &Credential{
		Certificate: tls.Certificate{
			Certificate: chain,
			PrivateKey:  key,
			Leaf:        leaf,
		},
		Leaf: leaf,
	}, nil
}
