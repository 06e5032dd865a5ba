// Package http provides HTTP handlers for token lifecycle operations: issue,
// validate, revoke, stats, and cleanup.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/tokengate/internal/httputil"
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
	"github.com/allisson/tokengate/internal/token/http/dto"
	tokenUseCase "github.com/allisson/tokengate/internal/token/usecase"
	customValidation "github.com/allisson/tokengate/internal/validation"
)

// TokenHandler handles HTTP requests for token lifecycle operations.
type TokenHandler struct {
	tokenUseCase tokenUseCase.TokenUseCase
	defaultTTL   time.Duration
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
// defaultTTL is the lifetime applied when an issuance request omits
// ttl_seconds; a non-positive value falls back to the domain default.
func NewTokenHandler(useCase tokenUseCase.TokenUseCase, defaultTTL time.Duration, logger *slog.Logger) *TokenHandler {
	if defaultTTL <= 0 {
		defaultTTL = tokenDomain.DefaultTTL
	}
	return &TokenHandler{
		tokenUseCase: useCase,
		defaultTTL:   defaultTTL,
		logger:       logger,
	}
}

// IssueHandler issues a new token.
// POST /v1/tokens/issue
// Returns 201 Created with the token identifier, scope, and expiry.
func (h *TokenHandler) IssueHandler(c *gin.Context) {
	var req dto.IssueTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	req.ApplyDefaults(int(h.defaultTTL.Seconds()))

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	token, err := h.tokenUseCase.Issue(c.Request.Context(), req.ToScope(), *req.TTLSeconds, req.Metadata)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTokenToIssueResponse(token))
}

// ValidateHandler reports whether a token identifier is active.
// POST /v1/tokens/validate
// Returns 200 OK for both valid and invalid tokens; an absent token is a
// normal outcome, not an error.
func (h *TokenHandler) ValidateHandler(c *gin.Context) {
	var req dto.ValidateTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.tokenUseCase.Validate(c.Request.Context(), req.TokenID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapValidationResult(result))
}

// RevokeHandler revokes a token by identifier.
// DELETE /v1/tokens/:token_id
// Returns 204 No Content on removal, 404 Not Found if nothing was removed.
func (h *TokenHandler) RevokeHandler(c *gin.Context) {
	tokenID := c.Param("token_id")
	if tokenID == "" {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("token_id cannot be empty"),
			h.logger,
		)
		return
	}

	removed, err := h.tokenUseCase.Revoke(c.Request.Context(), tokenID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if !removed {
		httputil.HandleErrorGin(c, tokenDomain.ErrTokenNotFound, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// StatsHandler reports the number of currently active tokens.
// GET /v1/tokens/stats
func (h *TokenHandler) StatsHandler(c *gin.Context) {
	count, err := h.tokenUseCase.ActiveCount(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{ActiveTokens: count})
}

// CleanupHandler removes expired tokens immediately.
// POST /v1/tokens/cleanup
func (h *TokenHandler) CleanupHandler(c *gin.Context) {
	removed, err := h.tokenUseCase.Cleanup(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CleanupResponse{RemovedTokens: removed})
}
