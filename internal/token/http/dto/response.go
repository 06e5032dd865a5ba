package dto

import (
	"time"

	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
)

// ScopeResponse represents a token's scope in API responses.
type ScopeResponse struct {
	Resource string            `json:"resource"`
	Actions  []string          `json:"actions"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// IssueTokenResponse represents a newly issued token.
type IssueTokenResponse struct {
	TokenID    string        `json:"token_id"`
	Scope      ScopeResponse `json:"scope"`
	ExpiresAt  time.Time     `json:"expires_at"`
	TTLSeconds int           `json:"ttl_seconds"`
}

// ValidateTokenResponse represents the outcome of a token validation.
// Fields beyond Valid are populated only for valid tokens; Reason is
// populated only for invalid ones.
type ValidateTokenResponse struct {
	Valid        bool           `json:"valid"`
	TokenID      string         `json:"token_id,omitempty"`
	Scope        *ScopeResponse `json:"scope,omitempty"`
	ExpiresAt    *time.Time     `json:"expires_at,omitempty"`
	TTLRemaining *float64       `json:"ttl_remaining,omitempty"`
	Reason       string         `json:"reason,omitempty"`
}

// StatsResponse reports the number of currently active tokens.
type StatsResponse struct {
	ActiveTokens int `json:"active_tokens"`
}

// CleanupResponse reports the number of expired tokens reclaimed.
type CleanupResponse struct {
	RemovedTokens int `json:"removed_tokens"`
}

func mapScope(scope tokenDomain.Scope) ScopeResponse {
	return ScopeResponse{
		Resource: scope.Resource,
		Actions:  scope.Actions,
		Metadata: scope.Metadata,
	}
}

// MapTokenToIssueResponse converts an issued token to an API response.
func MapTokenToIssueResponse(token *tokenDomain.Token) IssueTokenResponse {
	return IssueTokenResponse{
		TokenID:    token.ID,
		Scope:      mapScope(token.Scope),
		ExpiresAt:  token.ExpiresAt,
		TTLSeconds: int(token.ExpiresAt.Sub(token.CreatedAt).Seconds()),
	}
}

// MapValidationResult converts a domain validation result to an API response.
func MapValidationResult(result *tokenDomain.ValidationResult) ValidateTokenResponse {
	if !result.Valid {
		return ValidateTokenResponse{
			Valid:  false,
			Reason: result.Reason,
		}
	}

	scope := mapScope(result.Scope)
	expiresAt := result.ExpiresAt
	ttlRemaining := result.TTLRemaining.Seconds()

	return ValidateTokenResponse{
		Valid:        true,
		TokenID:      result.TokenID,
		Scope:        &scope,
		ExpiresAt:    &expiresAt,
		TTLRemaining: &ttlRemaining,
	}
}
