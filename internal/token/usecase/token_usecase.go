package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/allisson/tokengate/internal/errors"
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
)

// reasonNotFoundOrExpired is the single reason reported for any absent token.
// Never-issued, revoked, and expired are indistinguishable on purpose.
const reasonNotFoundOrExpired = "token not found or has expired"

// tokenUseCase implements the TokenUseCase interface.
type tokenUseCase struct {
	repo   TokenRepository
	random RandomGenerator
	logger *slog.Logger

	// now is the clock used for expiry computation, replaceable in tests.
	now func() time.Time
}

// NewTokenUseCase creates a new token use case.
func NewTokenUseCase(repo TokenRepository, random RandomGenerator, logger *slog.Logger) TokenUseCase {
	return &tokenUseCase{
		repo:   repo,
		random: random,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Issue creates and stores a new token.
func (uc *tokenUseCase) Issue(
	ctx context.Context,
	scope tokenDomain.Scope,
	ttlSeconds int,
	metadata map[string]string,
) (*tokenDomain.Token, error) {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl < tokenDomain.MinTTL || ttl > tokenDomain.MaxTTL {
		return nil, fmt.Errorf("%w: ttl_seconds must be between %d and %d",
			tokenDomain.ErrTokenIssuance,
			int(tokenDomain.MinTTL.Seconds()),
			int(tokenDomain.MaxTTL.Seconds()),
		)
	}

	tokenID, err := uc.random.GenerateRandomURLSafe(tokenDomain.TokenIDBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tokenDomain.ErrTokenIssuance, err)
	}

	// With 32 bytes of entropy a collision is statistically impossible; if
	// one ever shows up the random source is broken and worth knowing about.
	if existing := uc.repo.Get(tokenID); existing != nil {
		uc.logger.Warn("token identifier collision",
			slog.String("token_id", truncateID(tokenID)),
		)
	}

	now := uc.now()
	token := &tokenDomain.Token{
		ID:        tokenID,
		Scope:     scope,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Metadata:  metadata,
	}
	uc.repo.Put(token)

	uc.logger.Info("token issued",
		slog.String("token_id", truncateID(tokenID)),
		slog.String("resource", scope.Resource),
		slog.Int("ttl_seconds", int(ttl.Seconds())),
	)

	return token, nil
}

// Validate looks up a token identifier and reports its status.
func (uc *tokenUseCase) Validate(ctx context.Context, tokenID string) (*tokenDomain.ValidationResult, error) {
	if tokenID == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "token_id must not be empty")
	}

	token := uc.repo.Get(tokenID)
	if token == nil {
		return &tokenDomain.ValidationResult{
			Valid:  false,
			Reason: reasonNotFoundOrExpired,
		}, nil
	}

	return &tokenDomain.ValidationResult{
		Valid:        true,
		TokenID:      token.ID,
		Scope:        token.Scope,
		ExpiresAt:    token.ExpiresAt,
		TTLRemaining: token.TTLRemaining(uc.now()),
	}, nil
}

// Revoke removes a token. Revoking an absent token is not an error; the
// caller only learns whether a record was removed.
func (uc *tokenUseCase) Revoke(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, errors.Wrap(errors.ErrInvalidInput, "token_id must not be empty")
	}

	removed := uc.repo.Remove(tokenID)
	if removed {
		uc.logger.Info("token revoked", slog.String("token_id", truncateID(tokenID)))
	}
	return removed, nil
}

// Cleanup sweeps expired tokens out of the store.
func (uc *tokenUseCase) Cleanup(ctx context.Context) (int, error) {
	removed := uc.repo.Sweep()
	if removed > 0 {
		uc.logger.Info("expired tokens removed", slog.Int("count", removed))
	}
	return removed, nil
}

// ActiveCount returns the number of active tokens.
func (uc *tokenUseCase) ActiveCount(ctx context.Context) (int, error) {
	return uc.repo.Count(), nil
}

// Shutdown stops the store's background maintenance.
func (uc *tokenUseCase) Shutdown() {
	uc.repo.Shutdown()
}

// truncateID shortens a token identifier for logging. Full identifiers never
// reach the logs.
func truncateID(tokenID string) string {
	const visible = 8
	if len(tokenID) <= visible {
		return tokenID
	}
	return tokenID[:visible] + "..."
}
