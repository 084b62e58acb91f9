// Package keys loads the document signing key and signs seal payloads with
// RSA-SHA256 PKCS#1 v1.5.
package keys

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/youmark/pkcs8"

	"github.com/SscSPs/ledger_integrity/internal/apperrors"
	portssvc "github.com/SscSPs/ledger_integrity/internal/core/ports/services"
)

// MinKeyBits is the smallest accepted modulus.
const MinKeyBits = 2048

// PEM block types.
const (
	blockPKCS1     = "RSA PRIVATE KEY"
	blockPKCS8     = "PRIVATE KEY"
	blockEncrypted = "ENCRYPTED PRIVATE KEY"
	blockPublic    = "PUBLIC KEY"
)

var errVerifyOnly = errors.New("key holds no private part")

// RSASigner signs with a private key, or only verifies when loaded from a
// public key.
type RSASigner struct {
	private     *rsa.PrivateKey
	public      *rsa.PublicKey
	fingerprint string
}

var _ portssvc.Signer = (*RSASigner)(nil)

// NewRSASigner wraps a private key.
func NewRSASigner(key *rsa.PrivateKey) (*RSASigner, error) {
	if key == nil {
		return nil, apperrors.NewConfigurationError("signing key is nil")
	}
	s, err := NewRSAVerifier(&key.PublicKey)
	if err != nil {
		return nil, err
	}
	s.private = key
	return s, nil
}

// NewRSAVerifier wraps a public key. Sign always fails on the result.
func NewRSAVerifier(pub *rsa.PublicKey) (*RSASigner, error) {
	if pub == nil {
		return nil, apperrors.NewConfigurationError("public key is nil")
	}
	if bits := pub.N.BitLen(); bits < MinKeyBits {
		return nil, apperrors.NewConfigurationError("RSA key has %d bits, at least %d required", bits, MinKeyBits)
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, apperrors.NewConfigurationError("encode public key: %v", err)
	}
	sum := sha256.Sum256(der)
	return &RSASigner{public: pub, fingerprint: "SHA256:" + hex.EncodeToString(sum[:])}, nil
}

// LoadSignerFromFile reads a PEM file. passphrase is only used for an
// encrypted PKCS#8 key.
func LoadSignerFromFile(path, passphrase string) (*RSASigner, error) {
	if path == "" {
		return nil, apperrors.NewConfigurationError("no signing key path configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigurationError("read signing key: %v", err)
	}
	return ParseSigner(data, passphrase)
}

// ParseSigner decodes the first PEM block of data.
func ParseSigner(data []byte, passphrase string) (*RSASigner, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, apperrors.NewConfigurationError("signing key is not PEM encoded")
	}

	switch block.Type {
	case blockPKCS1:
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, apperrors.NewConfigurationError("parse PKCS#1 key: %v", err)
		}
		return NewRSASigner(key)
	case blockPKCS8:
		key, err := pkcs8.ParsePKCS8PrivateKeyRSA(block.Bytes)
		if err != nil {
			return nil, apperrors.NewConfigurationError("parse PKCS#8 key: %v", err)
		}
		return NewRSASigner(key)
	case blockEncrypted:
		if passphrase == "" {
			return nil, apperrors.NewConfigurationError("signing key is encrypted and no passphrase is configured")
		}
		key, err := pkcs8.ParsePKCS8PrivateKeyRSA(block.Bytes, []byte(passphrase))
		if err != nil {
			return nil, apperrors.NewConfigurationError("decrypt signing key: %v", err)
		}
		return NewRSASigner(key)
	case blockPublic:
		pub, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, apperrors.NewConfigurationError("parse public key: %v", err)
		}
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, apperrors.NewConfigurationError("public key is %T, want RSA", pub)
		}
		return NewRSAVerifier(rsaPub)
	default:
		return nil, apperrors.NewConfigurationError("unsupported PEM block %q", block.Type)
	}
}

// Sign returns the PKCS#1 v1.5 signature of SHA-256(payload).
func (s *RSASigner) Sign(payload []byte) ([]byte, error) {
	if s.private == nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConfiguration, errVerifyOnly)
	}
	digest := sha256.Sum256(payload)
	return rsa.SignPKCS1v15(rand.Reader, s.private, crypto.SHA256, digest[:])
}

// Verify checks a signature produced by Sign.
func (s *RSASigner) Verify(payload, signature []byte) error {
	digest := sha256.Sum256(payload)
	return rsa.VerifyPKCS1v15(s.public, crypto.SHA256, digest[:], signature)
}

// Fingerprint is the SHA-256 of the DER encoded public key.
func (s *RSASigner) Fingerprint() string {
	return s.fingerprint
}

// CanSign reports whether a private key is loaded.
func (s *RSASigner) CanSign() bool {
	return s.private != nil
}

// PublicKeyPEM returns the public key in PKIX PEM form.
func (s *RSASigner) PublicKeyPEM() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(s.public)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: blockPublic, Bytes: der}), nil
}

// GenerateKeyPEM creates a new key and encodes it as PKCS#8, encrypted when
// passphrase is set.
func GenerateKeyPEM(bits int, passphrase string) ([]byte, error) {
	if bits < MinKeyBits {
		return nil, apperrors.NewConfigurationError("RSA key must have at least %d bits", MinKeyBits)
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, err
	}
	return EncodeKeyPEM(key, passphrase)
}

// EncodeKeyPEM encodes key as PKCS#8, encrypted when passphrase is set.
func EncodeKeyPEM(key *rsa.PrivateKey, passphrase string) ([]byte, error) {
	if passphrase == "" {
		der, err := pkcs8.MarshalPrivateKey(key, nil, nil)
		if err != nil {
			return nil, err
		}
		return pem.EncodeToMemory(&pem.Block{Type: blockPKCS8, Bytes: der}), nil
	}
	der, err := pkcs8.MarshalPrivateKey(key, []byte(passphrase), nil)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: blockEncrypted, Bytes: der}), nil
}
