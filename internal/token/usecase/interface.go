// Package usecase defines the interfaces and implementations for ephemeral
// token issuance. Use cases orchestrate the token store and cryptographic
// services to issue, validate, and revoke short-lived scoped credentials.
package usecase

import (
	"context"

	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
)

// TokenRepository defines the interface for active token storage.
type TokenRepository interface {
	Put(token *tokenDomain.Token)
	Get(tokenID string) *tokenDomain.Token
	Remove(tokenID string) bool
	Sweep() int
	Count() int
	Shutdown()
}

// RandomGenerator defines the interface for generating token identifiers.
type RandomGenerator interface {
	GenerateRandomURLSafe(length int) (string, error)
}

// TokenUseCase defines the interface for token lifecycle business logic.
type TokenUseCase interface {
	// Issue creates a token granting scope for ttlSeconds seconds. The
	// lifetime must be within the configured bounds; defaulting an omitted
	// lifetime is the caller's concern.
	Issue(ctx context.Context, scope tokenDomain.Scope, ttlSeconds int, metadata map[string]string) (*tokenDomain.Token, error)

	// Validate reports whether tokenID identifies an active token. An absent
	// or expired token yields a result with Valid set to false, not an error.
	Validate(ctx context.Context, tokenID string) (*tokenDomain.ValidationResult, error)

	// Revoke removes the token and reports whether a record was removed.
	Revoke(ctx context.Context, tokenID string) (bool, error)

	// Cleanup removes expired tokens and returns the number reclaimed.
	Cleanup(ctx context.Context) (int, error)

	// ActiveCount returns the number of currently active tokens.
	ActiveCount(ctx context.Context) (int, error)

	// Shutdown stops background maintenance. Idempotent.
	Shutdown()
}
