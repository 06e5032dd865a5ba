package commands

import (
	"encoding/base64"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/tokengate/internal/crypto/domain"
	cryptoService "github.com/allisson/tokengate/internal/crypto/service"
)

// RunRotateBlob re-encrypts a base64-encoded encrypted blob from an old
// master key to a new one. Both keys are given as "id:base64-key" entries.
// The rotated blob is printed in base64 on success.
//
// Decryption failures under the old key are indistinguishable from a wrong
// key, a tampered blob, or a mismatched format.
func RunRotateBlob(out io.Writer, oldEntry, newEntry, blobB64 string) error {
	oldKey, err := parseMasterKeyEntry(oldEntry)
	if err != nil {
		return fmt.Errorf("invalid --old-key: %w", err)
	}
	defer oldKey.Close()

	newKey, err := parseMasterKeyEntry(newEntry)
	if err != nil {
		return fmt.Errorf("invalid --new-key: %w", err)
	}
	defer newKey.Close()

	data, err := base64.StdEncoding.DecodeString(blobB64)
	if err != nil {
		return fmt.Errorf("failed to decode blob: %w", err)
	}

	blob, err := cryptoDomain.ParseEncryptedBlob(data)
	if err != nil {
		return fmt.Errorf("failed to parse blob: %w", err)
	}

	rotated, err := cryptoService.RotateBlob(oldKey, newKey, blob)
	if err != nil {
		return fmt.Errorf("failed to rotate blob: %w", err)
	}

	fmt.Fprintln(out, "# Rotated blob (base64)")
	fmt.Fprintln(out, base64.StdEncoding.EncodeToString(rotated.Bytes()))

	return nil
}

// parseMasterKeyEntry builds a MasterKey from an "id:base64-key" entry.
// NewMasterKey copies the material, so the decoded buffer is zeroed here.
func parseMasterKeyEntry(entry string) (*cryptoDomain.MasterKey, error) {
	id, material, err := cryptoDomain.ParseMasterKeyEntry(entry)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(material)

	return cryptoDomain.NewMasterKey(id, material)
}
