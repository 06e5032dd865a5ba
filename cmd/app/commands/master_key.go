package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	cryptoDomain "github.com/allisson/tokengate/internal/crypto/domain"
	cryptoService "github.com/allisson/tokengate/internal/crypto/service"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key
// for token encryption. Key material is zeroed from memory after encoding.
// If keyID is empty, generates a default ID in format "master-key-YYYY-MM-DD".
//
// When kmsProvider and kmsKeyURI are both set, the key is wrapped with KMS
// before output and the service must be configured with the same KMS settings
// to unwrap it at startup. When both are empty, the key is printed in plain
// "id:base64" form, suitable only for development.
//
// Security: never use the plain form or the localsecrets provider in
// production. Use a cloud KMS provider (hashivault, gcpkms, awskms).
func RunCreateMasterKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	out io.Writer,
	keyID, kmsProvider, kmsKeyURI string,
) error {
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf(
			"--kms-provider and --kms-key-uri are required together\n\nFor local development, use:\n  --kms-provider=localsecrets --kms-key-uri=\"base64key://<32-byte-base64-key>\"\n\nFor production, use a cloud KMS provider:\n  --kms-provider=hashivault --kms-key-uri=\"hashivault://mykey\"",
		)
	}

	// Generate default key ID if not provided
	if keyID == "" {
		keyID = fmt.Sprintf("master-key-%s", time.Now().Format("2006-01-02"))
	}

	// Generate a cryptographically secure 32-byte master key
	masterKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	if kmsProvider == "" {
		fmt.Fprintln(out, "# Master Key Configuration (plain mode, development only)")
		fmt.Fprintln(out, "# Copy this environment variable to your .env file")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "MASTER_KEY=\"%s:%s\"\n", keyID, base64.StdEncoding.EncodeToString(masterKey))
		return nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			fmt.Fprintf(out, "# Warning: failed to close KMS keeper: %v\n", closeErr)
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, masterKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt master key with KMS: %w", err)
	}

	fmt.Fprintln(out, "# Master Key Configuration (KMS mode)")
	fmt.Fprintln(out, "# Copy these environment variables to your .env file or secrets manager")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
	fmt.Fprintf(out, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	fmt.Fprintf(out, "MASTER_KEY=\"%s:%s\"\n", keyID, base64.StdEncoding.EncodeToString(ciphertext))

	return nil
}
