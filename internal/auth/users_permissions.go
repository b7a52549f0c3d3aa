package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/fivetwenty-io/strapi-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/strapi-client/internal/http"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
)

// UsersPermissionsProvider logs in through the users-permissions plugin and
// caches the returned JWT until it expires.
type UsersPermissionsProvider struct {
	identifier string
	password   string
	store      *TokenStore

	// loginMu serialises logins so concurrent requests share one token.
	loginMu sync.Mutex
	userMu  sync.RWMutex
	user    strapi.Document
}

type loginResponse struct {
	JWT  string          `json:"jwt"`
	User strapi.Document `json:"user"`
}

// NewUsersPermissionsProvider creates a provider for identifier (username or
// email) and password.
func NewUsersPermissionsProvider(identifier, password string) *UsersPermissionsProvider {
	return &UsersPermissionsProvider{
		identifier: identifier,
		password:   password,
		store:      NewTokenStore(),
	}
}

// NewUsersPermissionsProviderFromOptions reads the "identifier" and
// "password" options.
func NewUsersPermissionsProviderFromOptions(options map[string]interface{}) (Provider, error) {
	identifier, err := stringOption(options, "identifier")
	if err != nil {
		return nil, err
	}

	password, err := stringOption(options, "password")
	if err != nil {
		return nil, err
	}

	return NewUsersPermissionsProvider(identifier, password), nil
}

// Name implements Provider.
func (p *UsersPermissionsProvider) Name() string {
	return strapi.AuthStrategyUsersPermissions
}

// Validate implements Provider.
func (p *UsersPermissionsProvider) Validate() error {
	if strings.TrimSpace(p.identifier) == "" {
		return fmt.Errorf("%w: %s requires a non-empty \"identifier\"", strapi.ErrInvalidAuthOptions, p.Name())
	}

	if p.password == "" {
		return fmt.Errorf("%w: %s requires a non-empty \"password\"", strapi.ErrInvalidAuthOptions, p.Name())
	}

	return nil
}

// Authenticate logs in unless a valid JWT is cached.
func (p *UsersPermissionsProvider) Authenticate(ctx context.Context, c *internalhttp.Client) error {
	if p.store.Get().Valid() {
		return nil
	}

	p.loginMu.Lock()
	defer p.loginMu.Unlock()

	if p.store.Get().Valid() {
		return nil
	}

	resp, err := c.Do(ctx, &internalhttp.Request{
		Method: http.MethodPost,
		Path:   constants.LocalAuthPath,
		Body: map[string]string{
			"identifier": p.identifier,
			"password":   p.password,
		},
		NoAuth: true,
	})
	if err != nil {
		return fmt.Errorf("logging in as %s: %w", p.identifier, err)
	}

	var login loginResponse

	err = json.Unmarshal(resp.Body, &login)
	if err != nil {
		return fmt.Errorf("parsing login response: %w", err)
	}

	if login.JWT == "" {
		return constants.ErrNoJWTInResponse
	}

	token := &Token{AccessToken: login.JWT, TokenType: "bearer"}

	// Tokens without a readable exp claim are kept until the server rejects them.
	expiresAt, err := ParseJWTExpiry(login.JWT)
	if err == nil {
		token.ExpiresAt = expiresAt
	}

	p.store.Set(token)

	p.userMu.Lock()
	p.user = login.User
	p.userMu.Unlock()

	return nil
}

// AuthenticateRequest implements internalhttp.Authenticator.
func (p *UsersPermissionsProvider) AuthenticateRequest(req *http.Request) {
	token := p.store.Get()
	if token == nil {
		return
	}

	req.Header.Set(constants.HeaderAuthorization, "Bearer "+token.AccessToken)
}

// Invalidate drops the cached JWT.
func (p *UsersPermissionsProvider) Invalidate() {
	p.store.Clear()
}

// Token returns the cached token, or nil before the first login.
func (p *UsersPermissionsProvider) Token() *Token {
	return p.store.Get()
}

// User returns the user document of the last login.
func (p *UsersPermissionsProvider) User() strapi.Document {
	p.userMu.RLock()
	defer p.userMu.RUnlock()

	return p.user
}
