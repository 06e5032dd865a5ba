package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/tokengate/internal/errors"
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
	"github.com/allisson/tokengate/internal/token/http/dto"
)

// fakeTokenUseCase is a canned-response TokenUseCase for handler tests.
type fakeTokenUseCase struct {
	issueToken     *tokenDomain.Token
	issueErr       error
	issueCalled    bool
	issuedTTL      int
	validateResult *tokenDomain.ValidationResult
	validateErr    error
	revokeRemoved  bool
	revokeErr      error
	cleanupRemoved int
	activeCount    int
}

func (f *fakeTokenUseCase) Issue(
	ctx context.Context,
	scope tokenDomain.Scope,
	ttlSeconds int,
	metadata map[string]string,
) (*tokenDomain.Token, error) {
	f.issueCalled = true
	f.issuedTTL = ttlSeconds
	return f.issueToken, f.issueErr
}

func (f *fakeTokenUseCase) Validate(ctx context.Context, tokenID string) (*tokenDomain.ValidationResult, error) {
	return f.validateResult, f.validateErr
}

func (f *fakeTokenUseCase) Revoke(ctx context.Context, tokenID string) (bool, error) {
	return f.revokeRemoved, f.revokeErr
}

func (f *fakeTokenUseCase) Cleanup(ctx context.Context) (int, error) {
	return f.cleanupRemoved, nil
}

func (f *fakeTokenUseCase) ActiveCount(ctx context.Context) (int, error) {
	return f.activeCount, nil
}

func (f *fakeTokenUseCase) Shutdown() {}

// setupTestHandler creates a test handler backed by the given fake use case.
func setupTestHandler(t *testing.T, fake *fakeTokenUseCase) *TokenHandler {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewTokenHandler(fake, tokenDomain.DefaultTTL, logger)
}

func intPtr(v int) *int {
	return &v
}

func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func issuedToken(ttl time.Duration) *tokenDomain.Token {
	now := time.Now().UTC()
	return &tokenDomain.Token{
		ID: "dGVzdC10b2tlbi1pZA",
		Scope: tokenDomain.Scope{
			Resource: "reports",
			Actions:  []string{"read"},
		},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestTokenHandler_IssueHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler := setupTestHandler(t, &fakeTokenUseCase{issueToken: issuedToken(600 * time.Second)})

		request := dto.IssueTokenRequest{
			Scope:      dto.ScopeRequest{Resource: "reports", Actions: []string{"read"}},
			TTLSeconds: intPtr(600),
		}

		c, w := createTestContext(http.MethodPost, "/v1/tokens/issue", request)
		handler.IssueHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.IssueTokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "dGVzdC10b2tlbi1pZA", response.TokenID)
		assert.Equal(t, "reports", response.Scope.Resource)
		assert.Equal(t, 600, response.TTLSeconds)
	})

	t.Run("Error_MissingScope", func(t *testing.T) {
		handler := setupTestHandler(t, &fakeTokenUseCase{})

		request := dto.IssueTokenRequest{TTLSeconds: intPtr(600)}

		c, w := createTestContext(http.MethodPost, "/v1/tokens/issue", request)
		handler.IssueHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Success_OmittedTTLUsesConfiguredDefault", func(t *testing.T) {
		fake := &fakeTokenUseCase{issueToken: issuedToken(120 * time.Second)}
		gin.SetMode(gin.TestMode)
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		handler := NewTokenHandler(fake, 120*time.Second, logger)

		request := dto.IssueTokenRequest{
			Scope: dto.ScopeRequest{Resource: "reports", Actions: []string{"read"}},
		}

		c, w := createTestContext(http.MethodPost, "/v1/tokens/issue", request)
		handler.IssueHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, fake.issueCalled)
		assert.Equal(t, 120, fake.issuedTTL)
	})

	t.Run("Error_ExplicitZeroTTL", func(t *testing.T) {
		fake := &fakeTokenUseCase{}
		handler := setupTestHandler(t, fake)

		request := dto.IssueTokenRequest{
			Scope:      dto.ScopeRequest{Resource: "reports", Actions: []string{"read"}},
			TTLSeconds: intPtr(0),
		}

		c, w := createTestContext(http.MethodPost, "/v1/tokens/issue", request)
		handler.IssueHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.False(t, fake.issueCalled)
	})

	t.Run("Error_TTLOutOfBounds", func(t *testing.T) {
		handler := setupTestHandler(t, &fakeTokenUseCase{})

		request := dto.IssueTokenRequest{
			Scope:      dto.ScopeRequest{Resource: "reports", Actions: []string{"read"}},
			TTLSeconds: intPtr(3601),
		}

		c, w := createTestContext(http.MethodPost, "/v1/tokens/issue", request)
		handler.IssueHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler := setupTestHandler(t, &fakeTokenUseCase{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/v1/tokens/issue", bytes.NewReader([]byte("{invalid")))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.IssueHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_IssuanceRejected", func(t *testing.T) {
		handler := setupTestHandler(t, &fakeTokenUseCase{issueErr: tokenDomain.ErrTokenIssuance})

		request := dto.IssueTokenRequest{
			Scope:      dto.ScopeRequest{Resource: "reports", Actions: []string{"read"}},
			TTLSeconds: intPtr(600),
		}

		c, w := createTestContext(http.MethodPost, "/v1/tokens/issue", request)
		handler.IssueHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestTokenHandler_ValidateHandler(t *testing.T) {
	t.Run("Success_ValidToken", func(t *testing.T) {
		expiresAt := time.Now().UTC().Add(5 * time.Minute)
		handler := setupTestHandler(t, &fakeTokenUseCase{
			validateResult: &tokenDomain.ValidationResult{
				Valid:        true,
				TokenID:      "active-token",
				Scope:        tokenDomain.Scope{Resource: "reports", Actions: []string{"read"}},
				ExpiresAt:    expiresAt,
				TTLRemaining: 5 * time.Minute,
			},
		})

		c, w := createTestContext(http.MethodPost, "/v1/tokens/validate", dto.ValidateTokenRequest{TokenID: "active-token"})
		handler.ValidateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ValidateTokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Valid)
		assert.Equal(t, "active-token", response.TokenID)
		require.NotNil(t, response.TTLRemaining)
		assert.InDelta(t, 300, *response.TTLRemaining, 1)
		assert.Empty(t, response.Reason)
	})

	t.Run("Success_UnknownToken", func(t *testing.T) {
		handler := setupTestHandler(t, &fakeTokenUseCase{
			validateResult: &tokenDomain.ValidationResult{
				Valid:  false,
				Reason: "token not found or has expired",
			},
		})

		c, w := createTestContext(http.MethodPost, "/v1/tokens/validate", dto.ValidateTokenRequest{TokenID: "unknown"})
		handler.ValidateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ValidateTokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.False(t, response.Valid)
		assert.Equal(t, "token not found or has expired", response.Reason)
		assert.Nil(t, response.Scope)
	})

	t.Run("Error_EmptyTokenID", func(t *testing.T) {
		handler := setupTestHandler(t, &fakeTokenUseCase{})

		c, w := createTestContext(http.MethodPost, "/v1/tokens/validate", dto.ValidateTokenRequest{})
		handler.ValidateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_UseCaseFailure", func(t *testing.T) {
		handler := setupTestHandler(t, &fakeTokenUseCase{
			validateErr: errors.Wrap(errors.ErrInvalidInput, "token_id must not be empty"),
		})

		c, w := createTestContext(http.MethodPost, "/v1/tokens/validate", dto.ValidateTokenRequest{TokenID: "x"})
		handler.ValidateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestTokenHandler_RevokeHandler(t *testing.T) {
	t.Run("Success_TokenRemoved", func(t *testing.T) {
		handler := setupTestHandler(t, &fakeTokenUseCase{revokeRemoved: true})

		c, w := createTestContext(http.MethodDelete, "/v1/tokens/some-token", nil)
		c.Params = gin.Params{{Key: "token_id", Value: "some-token"}}

		handler.RevokeHandler(c)
		c.Writer.WriteHeaderNow()

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("Error_TokenNotFound", func(t *testing.T) {
		handler := setupTestHandler(t, &fakeTokenUseCase{revokeRemoved: false})

		c, w := createTestContext(http.MethodDelete, "/v1/tokens/unknown", nil)
		c.Params = gin.Params{{Key: "token_id", Value: "unknown"}}

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_EmptyTokenID", func(t *testing.T) {
		handler := setupTestHandler(t, &fakeTokenUseCase{})

		c, w := createTestContext(http.MethodDelete, "/v1/tokens/", nil)
		c.Params = gin.Params{{Key: "token_id", Value: ""}}

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestTokenHandler_StatsHandler(t *testing.T) {
	handler := setupTestHandler(t, &fakeTokenUseCase{activeCount: 42})

	c, w := createTestContext(http.MethodGet, "/v1/tokens/stats", nil)
	handler.StatsHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 42, response.ActiveTokens)
}

func TestTokenHandler_CleanupHandler(t *testing.T) {
	handler := setupTestHandler(t, &fakeTokenUseCase{cleanupRemoved: 3})

	c, w := createTestContext(http.MethodPost, "/v1/tokens/cleanup", nil)
	handler.CleanupHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.CleanupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 3, response.RemovedTokens)
}
