package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/tokengate/internal/crypto/domain"
)

// CryptoService provides the cryptographic operations backing token issuance.
//
// Each instance exclusively owns one master key, set at construction (or
// generated there) and never mutated afterwards, so the service is safe for
// concurrent use from multiple goroutines.
type CryptoService struct {
	masterKey *cryptoDomain.MasterKey
	aead      AEAD

	// now is the clock source, overridable in tests for blob age checks.
	now func() time.Time
}

// NewCryptoService creates a CryptoService bound to the given master key.
//
// Passing a nil master key generates a fresh random one: this service holds
// no persistent state, so an ephemeral per-process key is a valid default.
// Construction fails immediately on invalid key material.
func NewCryptoService(masterKey *cryptoDomain.MasterKey) (*CryptoService, error) {
	if masterKey == nil {
		keyBytes := make([]byte, cryptoDomain.KeySize)
		if _, err := rand.Read(keyBytes); err != nil {
			return nil, fmt.Errorf("failed to generate master key: %w", err)
		}

		generated, err := cryptoDomain.NewMasterKey(
			fmt.Sprintf("ephemeral-%s", time.Now().UTC().Format("2006-01-02")),
			keyBytes,
		)
		cryptoDomain.Zero(keyBytes)
		if err != nil {
			return nil, err
		}
		masterKey = generated
	}

	aead, err := NewAESGCM(masterKey.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidMasterKey, err)
	}

	return &CryptoService{
		masterKey: masterKey,
		aead:      aead,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// MasterKeyID returns the identifier of the master key owned by this service.
// The key material itself is never exposed.
func (s *CryptoService) MasterKeyID() string {
	return s.masterKey.ID
}

// GenerateRandomBytes generates length cryptographically secure random bytes.
// Returns ErrInvalidLength if length is not positive.
func (s *CryptoService) GenerateRandomBytes(length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: got %d", cryptoDomain.ErrInvalidLength, length)
	}

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// GenerateRandomHex generates length random bytes and returns them hex-encoded
// (2x length characters).
func (s *CryptoService) GenerateRandomHex(length int) (string, error) {
	b, err := s.GenerateRandomBytes(length)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateRandomURLSafe generates length random bytes and returns them as an
// unpadded URL-safe base64 string, suitable for token identifiers.
func (s *CryptoService) GenerateRandomURLSafe(length int) (string, error) {
	b, err := s.GenerateRandomBytes(length)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Encrypt encrypts plaintext under the master key and returns a
// self-describing blob that embeds the creation timestamp.
//
// A fresh random nonce is used per call, so encrypting identical plaintext
// twice yields different blobs. The blob header (version and timestamp) is
// bound as AAD, so header tampering is detected at decryption.
func (s *CryptoService) Encrypt(plaintext []byte) (cryptoDomain.EncryptedBlob, error) {
	blob := cryptoDomain.EncryptedBlob{
		Version:   cryptoDomain.BlobVersion,
		CreatedAt: s.now().Truncate(time.Second),
	}

	ciphertext, nonce, err := s.aead.Encrypt(plaintext, blob.Header())
	if err != nil {
		return cryptoDomain.EncryptedBlob{}, fmt.Errorf("%w: %v", cryptoDomain.ErrEncryptionFailed, err)
	}

	blob.Nonce = nonce
	blob.Ciphertext = ciphertext
	return blob, nil
}

// Decrypt decrypts a blob produced by Encrypt under the same master key.
//
// A non-zero maxAge additionally rejects blobs whose embedded creation
// timestamp is older than that bound. All failure causes (wrong key,
// tampered bytes, malformed blob, too old) surface as ErrDecryptionFailed;
// only the message differs.
func (s *CryptoService) Decrypt(blob cryptoDomain.EncryptedBlob, maxAge time.Duration) ([]byte, error) {
	plaintext, err := s.aead.Decrypt(blob.Ciphertext, blob.Nonce, blob.Header())
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", cryptoDomain.ErrDecryptionFailed)
	}

	// Age is enforced only after the tag verifies: the timestamp is
	// attacker-controlled until authenticated.
	if maxAge > 0 && blob.Age(s.now()) > maxAge {
		cryptoDomain.Zero(plaintext)
		return nil, fmt.Errorf("%w: blob exceeds maximum age", cryptoDomain.ErrDecryptionFailed)
	}

	return plaintext, nil
}

// DecryptBytes parses a serialized blob and decrypts it. Parse failures and
// decryption failures are indistinguishable by error type.
func (s *CryptoService) DecryptBytes(data []byte, maxAge time.Duration) ([]byte, error) {
	blob, err := cryptoDomain.ParseEncryptedBlob(data)
	if err != nil {
		return nil, err
	}
	return s.Decrypt(blob, maxAge)
}

// Hash computes the salted SHA-256 digest of data.
//
// A nil salt generates a fresh random one (16 bytes); the salt actually used
// is returned inside the SaltedDigest so callers can verify later.
func (s *CryptoService) Hash(data, salt []byte) (cryptoDomain.SaltedDigest, error) {
	if salt == nil {
		generated, err := s.GenerateRandomBytes(cryptoDomain.DefaultSaltLength)
		if err != nil {
			return cryptoDomain.SaltedDigest{}, err
		}
		salt = generated
	}

	hasher := sha256.New()
	hasher.Write(salt)
	hasher.Write(data)

	return cryptoDomain.SaltedDigest{
		Digest: hasher.Sum(nil),
		Salt:   salt,
	}, nil
}

// Verify reports whether data hashes to expectedDigest under salt.
//
// The comparison is constant-time so the result timing does not reveal where
// the digests first differ.
func (s *CryptoService) Verify(data, expectedDigest, salt []byte) bool {
	computed, err := s.Hash(data, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(computed.Digest, expectedDigest) == 1
}

// DeriveKey derives a 32-byte key from a password using PBKDF2-HMAC-SHA256
// with 480000 iterations. A nil salt generates a fresh 16-byte one; the salt
// used is returned so the derivation can be repeated. The same (password,
// salt) pair always yields the same key.
func (s *CryptoService) DeriveKey(password string, salt []byte) (key, usedSalt []byte, err error) {
	if salt == nil {
		salt, err = s.GenerateRandomBytes(cryptoDomain.DefaultSaltLength)
		if err != nil {
			return nil, nil, err
		}
	}

	key = pbkdf2.Key([]byte(password), salt, cryptoDomain.PBKDF2Iterations, cryptoDomain.KeySize, sha256.New)
	return key, salt, nil
}

// RotateBlob re-encrypts a blob from oldKey to newKey.
//
// Decryption failures under the old key propagate unchanged as
// ErrDecryptionFailed. The recovered plaintext is zeroed before returning.
func RotateBlob(
	oldKey, newKey *cryptoDomain.MasterKey,
	blob cryptoDomain.EncryptedBlob,
) (cryptoDomain.EncryptedBlob, error) {
	oldService, err := NewCryptoService(oldKey)
	if err != nil {
		return cryptoDomain.EncryptedBlob{}, err
	}

	newService, err := NewCryptoService(newKey)
	if err != nil {
		return cryptoDomain.EncryptedBlob{}, err
	}

	plaintext, err := oldService.Decrypt(blob, 0)
	if err != nil {
		return cryptoDomain.EncryptedBlob{}, err
	}
	defer cryptoDomain.Zero(plaintext)

	rotated, err := newService.Encrypt(plaintext)
	if err != nil {
		return cryptoDomain.EncryptedBlob{}, err
	}

	return rotated, nil
}
