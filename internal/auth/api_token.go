package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fivetwenty-io/strapi-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/strapi-client/internal/http"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
)

// APITokenProvider authenticates with a static API token created in the
// admin panel.
type APITokenProvider struct {
	token string
}

// NewAPITokenProvider creates a provider for token.
func NewAPITokenProvider(token string) *APITokenProvider {
	return &APITokenProvider{token: token}
}

// NewAPITokenProviderFromOptions reads the "token" option.
func NewAPITokenProviderFromOptions(options map[string]interface{}) (Provider, error) {
	token, err := stringOption(options, "token")
	if err != nil {
		return nil, err
	}

	return NewAPITokenProvider(token), nil
}

// Name implements Provider.
func (p *APITokenProvider) Name() string {
	return strapi.AuthStrategyAPIToken
}

// Validate implements Provider.
func (p *APITokenProvider) Validate() error {
	if strings.TrimSpace(p.token) == "" {
		return fmt.Errorf("%w: %s requires a non-empty \"token\"", strapi.ErrInvalidAuthOptions, p.Name())
	}

	return nil
}

// Authenticate implements internalhttp.Authenticator. API tokens never expire
// client side.
func (p *APITokenProvider) Authenticate(ctx context.Context, c *internalhttp.Client) error {
	return nil
}

// AuthenticateRequest implements internalhttp.Authenticator.
func (p *APITokenProvider) AuthenticateRequest(req *http.Request) {
	req.Header.Set(constants.HeaderAuthorization, "Bearer "+p.token)
}
