// Package service provides the cryptographic primitives used by token
// issuance: secure random generation, authenticated encryption with an
// embedded freshness timestamp, salted hashing with constant-time
// verification, password-based key derivation, and key rotation.
package service

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}
