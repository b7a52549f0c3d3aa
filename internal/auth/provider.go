package auth

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	internalhttp "github.com/fivetwenty-io/strapi-client/internal/http"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
)

// Provider is an authentication strategy. Every provider satisfies the
// transport's Authenticator interface.
type Provider interface {
	internalhttp.Authenticator
	// Name returns the strategy identifier.
	Name() string
	// Validate checks the provider options.
	Validate() error
}

// Invalidator is implemented by providers holding credentials that can go
// stale on the server side.
type Invalidator interface {
	Invalidate()
}

// Factory builds a provider from strategy options.
type Factory func(options map[string]interface{}) (Provider, error)

// Registry maps strategy names to provider factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with the built-in strategies.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(strapi.AuthStrategyAPIToken, NewAPITokenProviderFromOptions)
	registry.Register(strapi.AuthStrategyUsersPermissions, NewUsersPermissionsProviderFromOptions)

	return registry
}

// Register adds or replaces a strategy.
func (r *Registry) Register(strategy string, factory Factory) {
	r.factories[strategy] = factory
}

// Strategies returns the registered strategy names, sorted.
func (r *Registry) Strategies() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Create builds and validates the provider for strategy.
func (r *Registry) Create(strategy string, options map[string]interface{}) (Provider, error) {
	factory, ok := r.factories[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", strapi.ErrUnknownAuthStrategy, strategy, strings.Join(r.Strategies(), ", "))
	}

	provider, err := factory(options)
	if err != nil {
		return nil, err
	}

	err = provider.Validate()
	if err != nil {
		return nil, err
	}

	return provider, nil
}

// InvalidateOnUnauthorized drops cached credentials when the server answers
// 401, so the next request authenticates again.
func InvalidateOnUnauthorized(provider Provider) strapi.ResponseInterceptor {
	return func(ctx context.Context, req *strapi.Request, resp *strapi.Response) error {
		invalidator, ok := provider.(Invalidator)
		if ok && resp.StatusCode == http.StatusUnauthorized {
			invalidator.Invalidate()
		}

		return nil
	}
}

func stringOption(options map[string]interface{}, key string) (string, error) {
	raw, ok := options[key]
	if !ok || raw == nil {
		return "", nil
	}

	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string, got %T", strapi.ErrInvalidAuthOptions, key, raw)
	}

	return value, nil
}
