package app

import (
	"strings"

	authService "github.com/allisson/tokengate/internal/auth/service"
	"github.com/allisson/tokengate/internal/http"
	"github.com/allisson/tokengate/internal/metrics"
	tokenHTTP "github.com/allisson/tokengate/internal/token/http"
	tokenRepository "github.com/allisson/tokengate/internal/token/repository"
	tokenUseCase "github.com/allisson/tokengate/internal/token/usecase"
)

// TokenUseCase returns the token use case with the in-memory store and its
// background sweeper, wrapped with business metrics.
func (c *Container) TokenUseCase() (tokenUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// initTokenUseCase wires the token store, crypto service, and metrics.
func (c *Container) initTokenUseCase() (tokenUseCase.TokenUseCase, error) {
	crypto, err := c.CryptoService()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	logger := c.Logger()
	repo := tokenRepository.NewInMemoryTokenRepository(c.config.TokenCleanupInterval, logger)
	useCase := tokenUseCase.NewTokenUseCase(repo, crypto, logger)

	if _, ok := businessMetrics.(*metrics.NoOpBusinessMetrics); ok {
		return useCase, nil
	}
	return tokenUseCase.NewTokenUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initHTTPServer builds the API server with routes, auth, and metrics wired.
func (c *Container) initHTTPServer() (*http.Server, error) {
	useCase, err := c.TokenUseCase()
	if err != nil {
		return nil, err
	}

	logger := c.Logger()
	handler := tokenHTTP.NewTokenHandler(useCase, c.config.TokenDefaultTTL, logger)

	var apiKeyService authService.APIKeyService
	if c.config.AuthEnabled {
		keys := parseAPIKeys(c.config.APIKeys)
		apiKeyService, err = authService.NewAPIKeyService(keys)
		if err != nil {
			return nil, err
		}
		logger.Info("api key authentication enabled")
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}

	if provider != nil {
		return http.NewServer(c.config, logger, handler, apiKeyService, provider.MeterProvider()), nil
	}
	return http.NewServer(c.config, logger, handler, apiKeyService, nil), nil
}

// parseAPIKeys splits the comma-separated API key list and trims whitespace.
func parseAPIKeys(apiKeysStr string) []string {
	parts := strings.Split(apiKeysStr, ",")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
