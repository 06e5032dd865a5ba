package commands

import (
	"encoding/base64"
	"fmt"
	"io"
	"time"

	cryptoDomain "github.com/allisson/tokengate/internal/crypto/domain"
	cryptoService "github.com/allisson/tokengate/internal/crypto/service"
)

// RunDeriveMasterKey derives a 32-byte master key from a password using
// PBKDF2-HMAC-SHA256. If saltB64 is empty a fresh salt is generated and
// printed so the derivation can be repeated later. The same password and salt
// always produce the same key, so the output is stable across machines.
//
// Derived keys are weaker than random ones when the password is weak. Prefer
// create-master-key unless the key must be reproducible from a passphrase.
func RunDeriveMasterKey(out io.Writer, keyID, password, saltB64 string) error {
	if password == "" {
		return fmt.Errorf("--password is required")
	}

	if keyID == "" {
		keyID = fmt.Sprintf("derived-master-key-%s", time.Now().Format("2006-01-02"))
	}

	var salt []byte
	if saltB64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(saltB64)
		if err != nil {
			return fmt.Errorf("failed to decode salt: %w", err)
		}
		salt = decoded
	}

	svc, err := cryptoService.NewCryptoService(nil)
	if err != nil {
		return fmt.Errorf("failed to create crypto service: %w", err)
	}

	key, usedSalt, err := svc.DeriveKey(password, salt)
	if err != nil {
		return fmt.Errorf("failed to derive master key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	fmt.Fprintln(out, "# Master Key Configuration (derived, development only)")
	fmt.Fprintln(out, "# Keep the salt to re-derive the same key from the password")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "MASTER_KEY=\"%s:%s\"\n", keyID, base64.StdEncoding.EncodeToString(key))
	fmt.Fprintf(out, "# Salt: %s\n", base64.StdEncoding.EncodeToString(usedSalt))

	return nil
}
