// Package service provides API key authentication using Argon2id hashing.
// Plaintext keys from configuration are hashed at startup and discarded;
// verification compares presented keys against the stored hashes only.
package service

import (
	"crypto/sha256"
	"sync"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/tokengate/internal/errors"
)

// APIKeyService defines the interface for API key verification.
type APIKeyService interface {
	// Verify reports whether the presented key matches a registered one.
	Verify(apiKey string) bool
}

// apiKeyService implements APIKeyService using Argon2id hashes.
//
// Argon2id verification is deliberately slow, so a fingerprint cache
// remembers keys that have already verified. The cache stores SHA-256
// fingerprints, never the keys themselves.
type apiKeyService struct {
	hasher *pwdhash.PasswordHasher
	hashes []string

	mu       sync.RWMutex
	verified map[[sha256.Size]byte]struct{}
}

// NewAPIKeyService creates an API key service from the configured plaintext
// keys. Each key is hashed with Argon2id; the plaintext is not retained.
func NewAPIKeyService(apiKeys []string) (APIKeyService, error) {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	hashes := make([]string, 0, len(apiKeys))
	for _, key := range apiKeys {
		hash, err := hasher.Hash([]byte(key))
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to hash api key")
		}
		hashes = append(hashes, hash)
	}

	return &apiKeyService{
		hasher:   hasher,
		hashes:   hashes,
		verified: make(map[[sha256.Size]byte]struct{}),
	}, nil
}

// Verify reports whether apiKey matches one of the registered keys.
func (s *apiKeyService) Verify(apiKey string) bool {
	if apiKey == "" || len(s.hashes) == 0 {
		return false
	}

	fingerprint := sha256.Sum256([]byte(apiKey))

	s.mu.RLock()
	_, cached := s.verified[fingerprint]
	s.mu.RUnlock()
	if cached {
		return true
	}

	for _, hash := range s.hashes {
		ok, err := s.hasher.Verify([]byte(apiKey), hash)
		if err == nil && ok {
			s.mu.Lock()
			s.verified[fingerprint] = struct{}{}
			s.mu.Unlock()
			return true
		}
	}

	return false
}
