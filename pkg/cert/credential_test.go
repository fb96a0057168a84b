package cert

import (
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, cn string) (*Credential, []byte, []byte) {
	t.Helper()
	cred, certPEM, keyPEM, err := GenerateSelfSigned(SelfSignedConfig{
		CommonName: cn,
		Hosts:      []string{"127.0.0.1", "localhost"},
	})
	require.NoError(t, err)
	return cred, certPEM, keyPEM
}

func TestLoadCredentialPEM(t *testing.T) {
	orig, certPEM, keyPEM := generate(t, "push-client")

	bundle := append(append([]byte{}, certPEM...), keyPEM...)
	cred, err := LoadCredential(bundle, "")
	require.NoError(t, err)

	assert.Equal(t, "push-client", cred.Subject())
	assert.Equal(t, orig.Leaf.Raw, cred.Leaf.Raw)
	assert.Len(t, cred.Certificate.Certificate, 1)
	assert.NotNil(t, cred.TLSCertificate().PrivateKey)
}

func TestLoadCredentialKeyFirst(t *testing.T) {
	_, certPEM, keyPEM := generate(t, "key-first")

	bundle := append(append([]byte{}, keyPEM...), certPEM...)
	cred, err := LoadCredential(bundle, "")
	require.NoError(t, err)
	assert.Equal(t, "key-first", cred.Subject())
}

func TestLoadCredentialOrdersLeafFirst(t *testing.T) {
	_, issuerPEM, _ := generate(t, "issuer")
	_, leafPEM, leafKeyPEM := generate(t, "leaf")

	// Issuer listed before the leaf; the leaf is the one matching the key.
	bundle := append(append(append([]byte{}, issuerPEM...), leafPEM...), leafKeyPEM...)
	cred, err := LoadCredential(bundle, "")
	require.NoError(t, err)

	require.Len(t, cred.Certificate.Certificate, 2)
	leaf, err := x509.ParseCertificate(cred.Certificate.Certificate[0])
	require.NoError(t, err)
	assert.Equal(t, "leaf", leaf.Subject.CommonName)
}

func TestLoadCredentialEncryptedKey(t *testing.T) {
	orig, certPEM, _ := generate(t, "encrypted")

	der, err := x509.MarshalPKCS8PrivateKey(orig.Certificate.PrivateKey)
	require.NoError(t, err)
	//nolint:staticcheck // produces the legacy format under test
	block, err := x509.EncryptPEMBlock(rand.Reader, "PRIVATE KEY", der, []byte("s3cret"), x509.PEMCipherAES256)
	require.NoError(t, err)
	bundle := append(append([]byte{}, certPEM...), pem.EncodeToMemory(block)...)

	t.Run("WithPassphrase", func(t *testing.T) {
		cred, err := LoadCredential(bundle, "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "encrypted", cred.Subject())
	})

	t.Run("MissingPassphrase", func(t *testing.T) {
		_, err := LoadCredential(bundle, "")
		assert.ErrorIs(t, err, ErrPassphrase)
	})

	t.Run("WrongPassphrase", func(t *testing.T) {
		_, err := LoadCredential(bundle, "wrong")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestLoadCredentialErrors(t *testing.T) {
	_, certPEM, _ := generate(t, "a")
	_, _, otherKeyPEM := generate(t, "b")

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"Empty", nil, ErrNoCertificate},
		{"CertOnly", certPEM, ErrInvalidPEM},
		{"KeyMismatch", append(append([]byte{}, certPEM...), otherKeyPEM...), ErrKeyMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCredential(tt.data, "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadCredentialInvalidPKCS12(t *testing.T) {
	_, err := LoadCredential([]byte{0x30, 0x03, 0x02, 0x01, 0x03}, "pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PKCS#12")
}

func TestLoadCredentialFile(t *testing.T) {
	_, certPEM, keyPEM := generate(t, "from-file")
	path := filepath.Join(t.TempDir(), "client.pem")
	require.NoError(t, os.WriteFile(path, append(certPEM, keyPEM...), 0600))

	cred, err := LoadCredentialFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, "from-file", cred.Subject())

	_, err = LoadCredentialFile(filepath.Join(t.TempDir(), "missing.pem"), "")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCredentialExpiry(t *testing.T) {
	now := time.Now()
	cred, _, _, err := GenerateSelfSigned(SelfSignedConfig{
		CommonName: "short-lived",
		NotBefore:  now.Add(-time.Hour),
		NotAfter:   now.Add(10 * 24 * time.Hour),
	})
	require.NoError(t, err)

	assert.False(t, cred.IsExpired(now))
	assert.True(t, cred.NeedsRenewal(now))
	assert.True(t, cred.IsExpired(now.Add(11*24*time.Hour)))
	assert.WithinDuration(t, now.Add(10*24*time.Hour), cred.ExpiresAt(), time.Second)

	var nilCred *Credential
	assert.True(t, nilCred.IsExpired(now))
	assert.Equal(t, "", nilCred.Subject())
	assert.True(t, nilCred.ExpiresAt().IsZero())
}

func TestCheckValidity(t *testing.T) {
	cred, _, _ := generate(t, "validity")
	leaf := cred.Leaf

	assert.NoError(t, CheckValidity(leaf, time.Now()))
	assert.ErrorIs(t, CheckValidity(leaf, leaf.NotAfter.Add(time.Second)), ErrCertExpired)
	assert.ErrorIs(t, CheckValidity(leaf, leaf.NotBefore.Add(-time.Second)), ErrCertNotYetValid)
	assert.ErrorIs(t, CheckValidity(nil, time.Now()), ErrNoCertificate)
}

func TestLoadRootCAs(t *testing.T) {
	_, certPEM, _ := generate(t, "gateway-ca")

	pool, err := LoadRootCAs(certPEM)
	require.NoError(t, err)
	assert.NotNil(t, pool)

	_, err = LoadRootCAs([]byte("not pem"))
	assert.ErrorIs(t, err, ErrInvalidPEM)
}

func TestPEMRoundTrip(t *testing.T) {
	cred, certPEM, _ := generate(t, "round-trip")

	decoded, err := DecodeCertPEM(certPEM)
	require.NoError(t, err)
	assert.Equal(t, cred.Leaf.Raw, decoded.Raw)

	_, err = DecodeCertPEM([]byte("garbage"))
	assert.ErrorIs(t, err, ErrInvalidPEM)
}
