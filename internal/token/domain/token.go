// Package domain defines the core domain models for ephemeral token issuance.
// Tokens are opaque, time-bounded credentials held only in memory; a token is
// never mutated after creation and disappears on revocation or expiry.
package domain

import (
	"time"
)

// Scope describes the capability a token grants: a resource, the actions
// permitted on it, and free-form metadata. Immutable once attached to a token.
type Scope struct {
	// Resource is the logical target the token grants access to.
	Resource string `json:"resource"`
	// Actions lists the operations permitted on the resource, in request order.
	Actions []string `json:"actions"`
	// Metadata carries caller-defined key/value pairs.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Token represents an issued credential. Created only by the token usecase's
// issue operation and never mutated afterwards.
type Token struct {
	// ID is the opaque URL-safe identifier, unique among active tokens.
	ID string
	// Scope is the capability this token grants.
	Scope Scope
	// CreatedAt is the UTC timestamp of issuance.
	CreatedAt time.Time
	// ExpiresAt is the UTC timestamp after which the token is invalid.
	// Always strictly after CreatedAt.
	ExpiresAt time.Time
	// Metadata carries caller-defined key/value pairs attached at issuance.
	Metadata map[string]string
}

// IsExpired reports whether the token is no longer valid at the given instant.
func (t *Token) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// TTLRemaining returns the duration until expiry at the given instant,
// clamped at zero.
func (t *Token) TTLRemaining(now time.Time) time.Duration {
	remaining := t.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
