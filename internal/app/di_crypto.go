package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cryptoDomain "github.com/allisson/tokengate/internal/crypto/domain"
	cryptoService "github.com/allisson/tokengate/internal/crypto/service"
)

// CryptoService returns the crypto service with the master key loaded.
func (c *Container) CryptoService() (*cryptoService.CryptoService, error) {
	var err error
	c.cryptoServiceInit.Do(func() {
		c.cryptoService, err = c.initCryptoService()
		if err != nil {
			c.initErrors["cryptoService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cryptoService"]; exists {
		return nil, storedErr
	}
	return c.cryptoService, nil
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// initCryptoService loads the master key and builds the crypto service.
//
// Three configurations are supported:
//   - No MASTER_KEY: a fresh key is generated at startup. Tokens live only in
//     memory, so losing the key on restart loses nothing extra.
//   - MASTER_KEY as "id:base64": the key material is used directly.
//   - MASTER_KEY plus KMS_KEY_URI: the base64 payload is a KMS-wrapped key
//     and is unwrapped through gocloud.dev/secrets before use.
func (c *Container) initCryptoService() (*cryptoService.CryptoService, error) {
	logger := c.Logger()

	if c.config.MasterKey == "" {
		logger.Info("no master key configured, generating an ephemeral one")
		return cryptoService.NewCryptoService(nil)
	}

	keyID, keyMaterial, err := cryptoDomain.ParseMasterKeyEntry(c.config.MasterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse master key: %w", err)
	}

	if c.config.KMSKeyURI != "" {
		keyMaterial, err = c.unwrapMasterKey(keyMaterial)
		if err != nil {
			return nil, err
		}
		logger.Info("master key unwrapped via KMS",
			slog.String("key_id", keyID),
			slog.String("kms_provider", c.config.KMSProvider),
		)
	}

	masterKey, err := cryptoDomain.NewMasterKey(keyID, keyMaterial)
	cryptoDomain.Zero(keyMaterial)
	if err != nil {
		return nil, fmt.Errorf("failed to load master key: %w", err)
	}

	logger.Info("master key loaded", slog.String("key_id", keyID))
	return cryptoService.NewCryptoService(masterKey)
}

// unwrapMasterKey decrypts KMS-wrapped master key material.
func (c *Container) unwrapMasterKey(wrapped []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	unwrapped, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap master key: %w", err)
	}

	return unwrapped, nil
}
