// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
)

// ScopeRequest carries the scope of a token issuance request.
type ScopeRequest struct {
	Resource string            `json:"resource"`
	Actions  []string          `json:"actions"`
	Metadata map[string]string `json:"metadata"`
}

// Validate checks if the scope is valid.
func (r ScopeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Resource, validation.Required),
		validation.Field(&r.Actions, validation.Required, validation.Length(1, 0)),
	)
}

// IssueTokenRequest contains the parameters for issuing a token.
// TTLSeconds is a pointer so an omitted field (nil, defaulted) is
// distinguishable from an explicit zero (rejected by validation).
type IssueTokenRequest struct {
	Scope      ScopeRequest      `json:"scope"`
	TTLSeconds *int              `json:"ttl_seconds"`
	Metadata   map[string]string `json:"metadata"`
}

// ApplyDefaults fills in the configured default lifetime when the request
// omits one. An explicit value, including zero, is left untouched.
func (r *IssueTokenRequest) ApplyDefaults(defaultTTLSeconds int) {
	if r.TTLSeconds == nil {
		r.TTLSeconds = &defaultTTLSeconds
	}
}

// Validate checks if the issue token request is valid. Required rejects both
// a nil and an explicit zero ttl_seconds; the threshold rules skip empty
// values, so Required is what keeps zero out.
func (r *IssueTokenRequest) Validate() error {
	minTTL := int(tokenDomain.MinTTL.Seconds())
	maxTTL := int(tokenDomain.MaxTTL.Seconds())

	return validation.ValidateStruct(r,
		validation.Field(&r.Scope, validation.Required),
		validation.Field(&r.TTLSeconds, validation.Required, validation.Min(minTTL), validation.Max(maxTTL)),
	)
}

// ToScope converts the request scope to its domain representation.
func (r *IssueTokenRequest) ToScope() tokenDomain.Scope {
	return tokenDomain.Scope{
		Resource: r.Scope.Resource,
		Actions:  r.Scope.Actions,
		Metadata: r.Scope.Metadata,
	}
}

// ValidateTokenRequest contains the parameters for validating a token.
type ValidateTokenRequest struct {
	TokenID string `json:"token_id"`
}

// Validate checks if the validate token request is valid.
func (r *ValidateTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TokenID, validation.Required),
	)
}
