package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// MasterKey represents the symmetric key at the root of this service's
// cryptography. It encrypts blobs and backs salted hashing and key rotation.
//
// Security considerations:
//   - The key must be exactly 32 bytes (256 bits) for AES-256-GCM
//   - Keys should be generated with a cryptographically secure random source
//   - Key material must never be logged or persisted by this service
//   - In production the configured key should be KMS-wrapped; the plaintext
//     form only exists in process memory
//
// Fields:
//   - ID: Unique identifier for the master key (e.g., "master-key-2026-08-30")
//   - Key: The raw 32-byte master key material
type MasterKey struct {
	ID  string
	Key []byte
}

// NewMasterKey builds a MasterKey from raw material, validating the size and
// taking a private copy so callers can zero their own buffer afterwards.
func NewMasterKey(id string, key []byte) (*MasterKey, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty key id", ErrInvalidMasterKey)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(key))
	}

	owned := make([]byte, KeySize)
	copy(owned, key)

	return &MasterKey{ID: id, Key: owned}, nil
}

// ParseMasterKeyEntry parses a configured master key entry in "id:base64"
// format and returns the id and the decoded material. No size validation is
// performed here: when the entry is KMS-wrapped the material is ciphertext of
// arbitrary length and must be unwrapped before NewMasterKey sees it.
func ParseMasterKeyEntry(entry string) (string, []byte, error) {
	parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", nil, fmt.Errorf("%w: expected format 'id:base64', got %q", ErrInvalidMasterKey, entry)
	}

	material, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid base64 for %s: %v", ErrInvalidMasterKey, parts[0], err)
	}

	return parts[0], material, nil
}

// Close securely clears the key material from memory. The master key must not
// be used after Close.
func (m *MasterKey) Close() {
	Zero(m.Key)
	m.Key = nil
}
