package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestSignAndVerify(t *testing.T) {
	s, err := NewRSASigner(testKey(t))
	require.NoError(t, err)

	sig, err := s.Sign([]byte("abc"))
	require.NoError(t, err)
	assert.NoError(t, s.Verify([]byte("abc"), sig))
	assert.Error(t, s.Verify([]byte("abd"), sig))
	assert.Regexp(t, `^SHA256:[0-9a-f]{64}$`, s.Fingerprint())
}

func TestParseSignerFormats(t *testing.T) {
	key := testKey(t)
	want, err := NewRSASigner(key)
	require.NoError(t, err)

	pkcs1 := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	plain, err := EncodeKeyPEM(key, "")
	require.NoError(t, err)
	encrypted, err := EncodeKeyPEM(key, "s3cret")
	require.NoError(t, err)

	for name, data := range map[string][]byte{"pkcs1": pkcs1, "pkcs8": plain} {
		t.Run(name, func(t *testing.T) {
			s, err := ParseSigner(data, "")
			require.NoError(t, err)
			assert.Equal(t, want.Fingerprint(), s.Fingerprint())
			assert.True(t, s.CanSign())
		})
	}

	t.Run("encrypted pkcs8", func(t *testing.T) {
		s, err := ParseSigner(encrypted, "s3cret")
		require.NoError(t, err)
		assert.Equal(t, want.Fingerprint(), s.Fingerprint())

		_, err = ParseSigner(encrypted, "")
		assert.ErrorIs(t, err, apperrors.ErrConfiguration)
		_, err = ParseSigner(encrypted, "wrong")
		assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	})
}

func TestVerifierCannotSign(t *testing.T) {
	signer, err := NewRSASigner(testKey(t))
	require.NoError(t, err)
	pubPEM, err := signer.PublicKeyPEM()
	require.NoError(t, err)

	verifier, err := ParseSigner(pubPEM, "")
	require.NoError(t, err)
	assert.False(t, verifier.CanSign())
	assert.Equal(t, signer.Fingerprint(), verifier.Fingerprint())

	sig, err := signer.Sign([]byte("payload"))
	require.NoError(t, err)
	assert.NoError(t, verifier.Verify([]byte("payload"), sig))

	_, err = verifier.Sign([]byte("payload"))
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestRejectsWeakOrMissingKeys(t *testing.T) {
	weak, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	_, err = NewRSASigner(weak)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)

	_, err = LoadSignerFromFile("", "")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	_, err = LoadSignerFromFile(filepath.Join(t.TempDir(), "missing.pem"), "")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	_, err = ParseSigner([]byte("not pem"), "")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestLoadSignerFromFile(t *testing.T) {
	data, err := GenerateKeyPEM(2048, "pass")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "signing.pem")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	s, err := LoadSignerFromFile(path, "pass")
	require.NoError(t, err)
	assert.True(t, s.CanSign())
}
