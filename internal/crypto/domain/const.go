package domain

const (
	// KeySize is the required master key size in bytes (256 bits, AES-256 compatible).
	KeySize = 32

	// DefaultSecretLength is the default number of random bytes for generated secrets.
	DefaultSecretLength = 32

	// DefaultSaltLength is the default salt size in bytes for salted hashing
	// and key derivation (128 bits).
	DefaultSaltLength = 16

	// DigestLength is the fixed digest size in bytes produced by salted hashing (SHA-256).
	DigestLength = 32

	// PBKDF2Iterations is the work factor for password-based key derivation.
	// Follows the OWASP recommendation for PBKDF2-HMAC-SHA256.
	PBKDF2Iterations = 480000
)
