package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	internalhttp "github.com/fivetwenty-io/strapi-client/internal/http"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenPersister = errors.New("no token persister configured")
)

// TokenPersister stores tokens obtained by a login, keyed by base URL.
type TokenPersister interface {
	SaveToken(baseURL string, token *Token) error
}

// TokenSource is implemented by providers that obtain tokens at runtime.
type TokenSource interface {
	Token() *Token
}

// PersistingProvider wraps a provider whose tokens come from a login and
// hands every new token to a TokenPersister.
type PersistingProvider struct {
	Provider

	source    TokenSource
	persister TokenPersister
	baseURL   string

	mutex     sync.Mutex
	lastSaved string
	onError   func(error)
}

// NewPersistingProvider wraps source. onError, when not nil, receives
// persistence failures; they never fail the request itself.
func NewPersistingProvider(source interface {
	Provider
	TokenSource
}, persister TokenPersister, baseURL string, onError func(error),
) *PersistingProvider {
	return &PersistingProvider{
		Provider:  source,
		source:    source,
		persister: persister,
		baseURL:   baseURL,
		onError:   onError,
	}
}

// Authenticate delegates to the wrapped provider and persists a token that
// was not saved before.
func (p *PersistingProvider) Authenticate(ctx context.Context, c *internalhttp.Client) error {
	err := p.Provider.Authenticate(ctx, c)
	if err != nil {
		return err //nolint:wrapcheck // wrapped provider already adds context
	}

	token := p.source.Token()
	if token == nil {
		return nil
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if token.AccessToken == p.lastSaved {
		return nil
	}

	persistErr := p.persist(token)
	if persistErr != nil {
		if p.onError != nil {
			p.onError(persistErr)
		}

		return nil
	}

	p.lastSaved = token.AccessToken

	return nil
}

// Invalidate forwards to the wrapped provider when it supports invalidation.
func (p *PersistingProvider) Invalidate() {
	if invalidator, ok := p.Provider.(Invalidator); ok {
		invalidator.Invalidate()
	}
}

func (p *PersistingProvider) persist(token *Token) error {
	if p.persister == nil {
		return ErrNoTokenPersister
	}

	err := p.persister.SaveToken(p.baseURL, token)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}
