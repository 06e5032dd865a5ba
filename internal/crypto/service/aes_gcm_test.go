package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAESGCM(t *testing.T) {
	t.Run("valid 256-bit key", func(t *testing.T) {
		key := make([]byte, 32)
		_, err := rand.Read(key)
		require.NoError(t, err)

		cipher, err := NewAESGCM(key)
		assert.NoError(t, err)
		assert.NotNil(t, cipher)
	})

	t.Run("invalid key size - too small", func(t *testing.T) {
		key := make([]byte, 16)
		_, err := rand.Read(key)
		require.NoError(t, err)

		cipher, err := NewAESGCM(key)
		assert.Error(t, err)
		assert.Nil(t, cipher)
	})

	t.Run("invalid key size - too large", func(t *testing.T) {
		key := make([]byte, 64)
		_, err := rand.Read(key)
		require.NoError(t, err)

		cipher, err := NewAESGCM(key)
		assert.Error(t, err)
		assert.Nil(t, cipher)
	})
}

func TestAESGCMCipher_Encrypt(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cipher, err := NewAESGCM(key)
	require.NoError(t, err)

	t.Run("encrypt with plaintext and AAD", func(t *testing.T) {
		plaintext := []byte("Hello, World!")
		aad := []byte("additional authenticated data")

		ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
		assert.NoError(t, err)
		assert.NotNil(t, ciphertext)
		assert.Len(t, nonce, 12)
		assert.NotEqual(t, plaintext, ciphertext)
		// Ciphertext carries the 16-byte authentication tag.
		assert.Len(t, ciphertext, len(plaintext)+16)
	})

	t.Run("encrypt with nil AAD", func(t *testing.T) {
		plaintext := []byte("no associated data")

		ciphertext, nonce, err := cipher.Encrypt(plaintext, nil)
		assert.NoError(t, err)
		assert.NotNil(t, ciphertext)
		assert.Len(t, nonce, 12)
	})

	t.Run("unique nonce per call", func(t *testing.T) {
		plaintext := []byte("same plaintext")

		_, firstNonce, err := cipher.Encrypt(plaintext, nil)
		require.NoError(t, err)
		_, secondNonce, err := cipher.Encrypt(plaintext, nil)
		require.NoError(t, err)

		assert.NotEqual(t, firstNonce, secondNonce)
	})
}

func TestAESGCMCipher_Decrypt(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cipher, err := NewAESGCM(key)
	require.NoError(t, err)

	t.Run("round trip with AAD", func(t *testing.T) {
		plaintext := []byte("Hello, World!")
		aad := []byte("additional authenticated data")

		ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
		require.NoError(t, err)

		decrypted, err := cipher.Decrypt(ciphertext, nonce, aad)
		assert.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	})

	t.Run("mismatched AAD fails", func(t *testing.T) {
		ciphertext, nonce, err := cipher.Encrypt([]byte("secret"), []byte("aad-one"))
		require.NoError(t, err)

		decrypted, err := cipher.Decrypt(ciphertext, nonce, []byte("aad-two"))
		assert.Error(t, err)
		assert.Nil(t, decrypted)
	})

	t.Run("tampered ciphertext fails", func(t *testing.T) {
		ciphertext, nonce, err := cipher.Encrypt([]byte("secret"), nil)
		require.NoError(t, err)

		ciphertext[0] ^= 0xff

		decrypted, err := cipher.Decrypt(ciphertext, nonce, nil)
		assert.Error(t, err)
		assert.Nil(t, decrypted)
	})

	t.Run("wrong key fails", func(t *testing.T) {
		otherKey := make([]byte, 32)
		_, err := rand.Read(otherKey)
		require.NoError(t, err)

		otherCipher, err := NewAESGCM(otherKey)
		require.NoError(t, err)

		ciphertext, nonce, err := cipher.Encrypt([]byte("secret"), nil)
		require.NoError(t, err)

		decrypted, err := otherCipher.Decrypt(ciphertext, nonce, nil)
		assert.Error(t, err)
		assert.Nil(t, decrypted)
	})

	t.Run("wrong nonce fails", func(t *testing.T) {
		ciphertext, _, err := cipher.Encrypt([]byte("secret"), nil)
		require.NoError(t, err)

		wrongNonce := make([]byte, 12)
		_, err = rand.Read(wrongNonce)
		require.NoError(t, err)

		decrypted, err := cipher.Decrypt(ciphertext, wrongNonce, nil)
		assert.Error(t, err)
		assert.Nil(t, decrypted)
	})
}
