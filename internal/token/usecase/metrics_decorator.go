package usecase

import (
	"context"
	"time"

	"github.com/allisson/tokengate/internal/metrics"
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Issue records metrics for token issuance operations.
func (t *tokenUseCaseWithMetrics) Issue(
	ctx context.Context,
	scope tokenDomain.Scope,
	ttlSeconds int,
	metadata map[string]string,
) (*tokenDomain.Token, error) {
	start := time.Now()
	token, err := t.next.Issue(ctx, scope, ttlSeconds, metadata)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "token_issue", status)
	t.metrics.RecordDuration(ctx, "token", "token_issue", time.Since(start), status)

	return token, err
}

// Validate records metrics for token validation operations.
func (t *tokenUseCaseWithMetrics) Validate(
	ctx context.Context,
	tokenID string,
) (*tokenDomain.ValidationResult, error) {
	start := time.Now()
	result, err := t.next.Validate(ctx, tokenID)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "token_validate", status)
	t.metrics.RecordDuration(ctx, "token", "token_validate", time.Since(start), status)

	return result, err
}

// Revoke records metrics for token revocation operations.
func (t *tokenUseCaseWithMetrics) Revoke(ctx context.Context, tokenID string) (bool, error) {
	start := time.Now()
	removed, err := t.next.Revoke(ctx, tokenID)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "token_revoke", status)
	t.metrics.RecordDuration(ctx, "token", "token_revoke", time.Since(start), status)

	return removed, err
}

// Cleanup records metrics for expired token cleanup operations.
func (t *tokenUseCaseWithMetrics) Cleanup(ctx context.Context) (int, error) {
	start := time.Now()
	removed, err := t.next.Cleanup(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "token_cleanup", status)
	t.metrics.RecordDuration(ctx, "token", "token_cleanup", time.Since(start), status)

	return removed, err
}

// ActiveCount records metrics for active token count queries.
func (t *tokenUseCaseWithMetrics) ActiveCount(ctx context.Context) (int, error) {
	start := time.Now()
	count, err := t.next.ActiveCount(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "token", "token_active_count", status)
	t.metrics.RecordDuration(ctx, "token", "token_active_count", time.Since(start), status)

	return count, err
}

// Shutdown delegates to the wrapped use case.
func (t *tokenUseCaseWithMetrics) Shutdown() {
	t.next.Shutdown()
}
