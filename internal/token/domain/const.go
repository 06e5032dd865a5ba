package domain

import "time"

// Token lifetime and identifier constants.
const (
	// MinTTL is the shortest accepted token lifetime.
	MinTTL = 1 * time.Second
	// MaxTTL is the longest accepted token lifetime.
	MaxTTL = 3600 * time.Second
	// DefaultTTL is used when a request does not specify a lifetime.
	DefaultTTL = 300 * time.Second

	// TokenIDBytes is the entropy of a token identifier before encoding.
	TokenIDBytes = 32
)
