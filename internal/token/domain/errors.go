package domain

import (
	"github.com/allisson/tokengate/internal/errors"
)

// Token-specific error definitions.
var (
	// ErrTokenNotFound indicates the token does not exist or has expired.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")
	// ErrTokenIssuance indicates the issuance request was rejected.
	ErrTokenIssuance = errors.Wrap(errors.ErrInvalidInput, "token issuance failed")
)
