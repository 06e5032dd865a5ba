// Package http provides HTTP middleware for API key authentication.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authService "github.com/allisson/tokengate/internal/auth/service"
	apperrors "github.com/allisson/tokengate/internal/errors"
	"github.com/allisson/tokengate/internal/httputil"
)

// APIKeyHeader is the request header carrying the caller's API key.
const APIKeyHeader = "X-API-Key"

// AuthenticationMiddleware provides authentication via the X-API-Key header.
//
// Error handling:
//   - Missing header: 401 Unauthorized
//   - Unknown key: 401 Unauthorized
//
// Usage:
//
//	router.Use(AuthenticationMiddleware(apiKeyService, logger))
func AuthenticationMiddleware(apiKeyService authService.APIKeyService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(APIKeyHeader)
		if apiKey == "" {
			logger.Debug("authentication failed: missing api key header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !apiKeyService.Verify(apiKey) {
			logger.Debug("authentication failed: unknown api key")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
