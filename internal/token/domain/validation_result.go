package domain

import "time"

// ValidationResult is the outcome of validating a token identifier.
//
// An absent token is a normal outcome, not an error: Valid is false and
// Reason explains why without distinguishing never-issued, revoked, and
// expired.
type ValidationResult struct {
	Valid bool
	// TokenID echoes the validated identifier when Valid is true.
	TokenID string
	// Scope is the capability the token grants, set when Valid is true.
	Scope Scope
	// ExpiresAt is the token's expiry instant, set when Valid is true.
	ExpiresAt time.Time
	// TTLRemaining is the time left until expiry, never negative.
	TTLRemaining time.Duration
	// Reason explains an invalid result in human-readable form.
	Reason string
}
