package commands

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/tokengate/internal/crypto/domain"
	cryptoService "github.com/allisson/tokengate/internal/crypto/service"
)

// newKeyEntry returns an "id:base64" entry with fresh 32-byte key material.
func newKeyEntry(t *testing.T, id string) string {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return id + ":" + base64.StdEncoding.EncodeToString(key)
}

// encryptWithEntry encrypts plaintext under the key entry and returns the blob base64.
func encryptWithEntry(t *testing.T, entry string, plaintext []byte) string {
	t.Helper()
	key, err := parseMasterKeyEntry(entry)
	require.NoError(t, err)

	svc, err := cryptoService.NewCryptoService(key)
	require.NoError(t, err)

	blob, err := svc.Encrypt(plaintext)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(blob.Bytes())
}

// lastOutputLine returns the final non-empty line of command output.
func lastOutputLine(t *testing.T, output string) string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.NotEmpty(t, lines)
	return lines[len(lines)-1]
}

func TestRunRotateBlob(t *testing.T) {
	t.Run("rotated blob decrypts under new key only", func(t *testing.T) {
		oldEntry := newKeyEntry(t, "old-key")
		newEntry := newKeyEntry(t, "new-key")
		plaintext := []byte("rotate me")
		blobB64 := encryptWithEntry(t, oldEntry, plaintext)

		var out bytes.Buffer
		require.NoError(t, RunRotateBlob(&out, oldEntry, newEntry, blobB64))

		data, err := base64.StdEncoding.DecodeString(lastOutputLine(t, out.String()))
		require.NoError(t, err)
		rotated, err := cryptoDomain.ParseEncryptedBlob(data)
		require.NoError(t, err)

		newKey, err := parseMasterKeyEntry(newEntry)
		require.NoError(t, err)
		newService, err := cryptoService.NewCryptoService(newKey)
		require.NoError(t, err)

		decrypted, err := newService.Decrypt(rotated, 0)
		require.NoError(t, err)
		require.Equal(t, plaintext, decrypted)

		oldKey, err := parseMasterKeyEntry(oldEntry)
		require.NoError(t, err)
		oldService, err := cryptoService.NewCryptoService(oldKey)
		require.NoError(t, err)

		_, err = oldService.Decrypt(rotated, 0)
		require.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("parsed key is independent of the decoded buffer", func(t *testing.T) {
		entry := newKeyEntry(t, "scrub-key")
		key, err := parseMasterKeyEntry(entry)
		require.NoError(t, err)

		// Key material must remain usable after the entry's decoded
		// buffer has been scrubbed.
		svc, err := cryptoService.NewCryptoService(key)
		require.NoError(t, err)

		blob, err := svc.Encrypt([]byte("still usable"))
		require.NoError(t, err)

		decrypted, err := svc.Decrypt(blob, 0)
		require.NoError(t, err)
		require.Equal(t, []byte("still usable"), decrypted)
	})

	t.Run("wrong old key", func(t *testing.T) {
		oldEntry := newKeyEntry(t, "old-key")
		wrongEntry := newKeyEntry(t, "wrong-key")
		newEntry := newKeyEntry(t, "new-key")
		blobB64 := encryptWithEntry(t, oldEntry, []byte("rotate me"))

		err := RunRotateBlob(&bytes.Buffer{}, wrongEntry, newEntry, blobB64)
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to rotate blob")
	})

	t.Run("invalid key entries", func(t *testing.T) {
		newEntry := newKeyEntry(t, "new-key")

		err := RunRotateBlob(&bytes.Buffer{}, "missing-separator", newEntry, "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid --old-key")

		err = RunRotateBlob(&bytes.Buffer{}, newEntry, "id:not-base64!!", "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid --new-key")
	})

	t.Run("invalid blob", func(t *testing.T) {
		oldEntry := newKeyEntry(t, "old-key")
		newEntry := newKeyEntry(t, "new-key")

		err := RunRotateBlob(&bytes.Buffer{}, oldEntry, newEntry, "not-base64!!")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to decode blob")

		err = RunRotateBlob(&bytes.Buffer{}, oldEntry, newEntry, base64.StdEncoding.EncodeToString([]byte("x")))
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse blob")
	})
}
