package strapiclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/strapi-client/internal/client"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
)

// New creates a new Strapi API client. When the users-permissions strategy is
// configured the login is performed right away, bounded by ctx.
func New(ctx context.Context, config *strapi.Config) (strapi.Client, error) {
	if config == nil {
		return nil, strapi.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, strapi.ErrBaseURLRequired
	}

	normalized := *config
	normalized.BaseURL = NormalizeBaseURL(config.BaseURL)

	cli, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	if normalized.Auth != nil && normalized.Auth.Strategy == strapi.AuthStrategyUsersPermissions {
		err = cli.Authenticate(ctx)
		if err != nil {
			return nil, err
		}
	}

	return cli, nil
}

// NormalizeBaseURL trims trailing slashes and adds "https://" when no scheme
// is present.
func NormalizeBaseURL(baseURL string) string {
	normalized := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "https://" + normalized
	}

	return normalized
}

// NewWithEndpoint creates a new client with just a base URL (no auth).
func NewWithEndpoint(ctx context.Context, baseURL string) (strapi.Client, error) {
	return New(ctx, &strapi.Config{
		BaseURL: baseURL,
	})
}

// NewWithToken creates a new client authenticating with an API token.
func NewWithToken(ctx context.Context, baseURL, token string) (strapi.Client, error) {
	return New(ctx, &strapi.Config{
		BaseURL: baseURL,
		Auth: &strapi.AuthConfig{
			Strategy: strapi.AuthStrategyAPIToken,
			Options:  map[string]interface{}{"token": token},
		},
	})
}

// NewWithCredentials creates a new client logging in through the
// users-permissions plugin with identifier (username or email) and password.
func NewWithCredentials(ctx context.Context, baseURL, identifier, password string) (strapi.Client, error) {
	return New(ctx, &strapi.Config{
		BaseURL: baseURL,
		Auth: &strapi.AuthConfig{
			Strategy: strapi.AuthStrategyUsersPermissions,
			Options: map[string]interface{}{
				"identifier": identifier,
				"password":   password,
			},
		},
	})
}
