package domain

import (
	"github.com/allisson/tokengate/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// All keys (master keys and derived keys) must be exactly 32 bytes
	// (256 bits) for AES-256-GCM. This error is returned when a key of
	// incorrect length is provided at construction time.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidLength indicates a non-positive length was requested for
	// random byte or salt generation.
	ErrInvalidLength = errors.Wrap(errors.ErrInvalidInput, "length must be positive")

	// ErrInvalidMasterKey indicates the configured master key material could
	// not be parsed (bad format, bad base64, or wrong size). Construction
	// with invalid key material fails immediately.
	ErrInvalidMasterKey = errors.Wrap(errors.ErrInvalidInput, "invalid master key")

	// ErrEncryptionFailed indicates an encryption operation failed.
	ErrEncryptionFailed = errors.Wrap(errors.ErrInvalidInput, "encryption failed")

	// ErrDecryptionFailed indicates a decryption operation failed.
	//
	// This error can occur due to:
	//   - Wrong decryption key used
	//   - Ciphertext has been tampered with (authentication failure)
	//   - Malformed or truncated blob
	//   - Blob older than the requested maximum age
	//
	// For security reasons, the specific cause is not disclosed through the
	// error type. Only the message differs, which prevents callers from
	// building a decryption oracle on the error taxonomy.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")
)
