package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fivetwenty-io/strapi-client/internal/auth"
	"github.com/fivetwenty-io/strapi-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/strapi-client/internal/http"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
)

// Client implements the strapi.Client interface.
type Client struct {
	httpClient *internalhttp.Client
	provider   auth.Provider
	baseURL    string
	logger     strapi.Logger
	files      *FilesManager
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *strapi.Config) []internalhttp.Option {
	var httpOpts []internalhttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if len(config.Headers) > 0 {
		httpOpts = append(httpOpts, internalhttp.WithHeaders(config.Headers))
	}

	if config.Timeout > 0 {
		httpOpts = append(httpOpts, internalhttp.WithTimeout(config.Timeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, internalhttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	for _, interceptor := range config.RequestInterceptors {
		httpOpts = append(httpOpts, internalhttp.WithRequestInterceptor(interceptor))
	}

	for _, interceptor := range config.ResponseInterceptors {
		httpOpts = append(httpOpts, internalhttp.WithResponseInterceptor(interceptor))
	}

	if config.Cache != nil {
		httpOpts = append(httpOpts, internalhttp.WithCache(config.Cache, config.CacheTTL))
	}

	return httpOpts
}

// uploadTimeout picks the timeout of file requests. An explicit Config.Timeout
// is never exceeded unless UploadTimeout asks for it.
func uploadTimeout(config *strapi.Config) time.Duration {
	switch {
	case config.UploadTimeout > 0:
		return config.UploadTimeout
	case config.Timeout > 0:
		return config.Timeout
	default:
		return constants.UploadHTTPTimeout
	}
}

// New creates a new client. config must already be validated and normalised.
func New(config *strapi.Config) (*Client, error) {
	return NewWithRegistry(config, auth.DefaultRegistry())
}

// NewWithRegistry creates a new client resolving config.Auth through registry.
func NewWithRegistry(config *strapi.Config, registry *auth.Registry) (*Client, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	var provider auth.Provider

	if config.Auth != nil {
		provider, err = registry.Create(config.Auth.Strategy, config.Auth.Options)
		if err != nil {
			return nil, fmt.Errorf("creating auth provider: %w", err)
		}
	}

	return NewWithProvider(config, provider), nil
}

// NewWithProvider creates a new client using provider directly. provider may
// be nil for unauthenticated access.
func NewWithProvider(config *strapi.Config, provider auth.Provider) *Client {
	httpOpts := createHTTPClientOptions(config)

	var authenticator internalhttp.Authenticator
	if provider != nil {
		authenticator = provider
		httpOpts = append(httpOpts, internalhttp.WithResponseInterceptor(auth.InvalidateOnUnauthorized(provider)))
	}

	httpClient := internalhttp.NewClient(config.BaseURL, authenticator, httpOpts...)

	return &Client{
		httpClient: httpClient,
		provider:   provider,
		baseURL:    httpClient.BaseURL(),
		logger:     config.Logger,
		files:      NewFilesManager(httpClient, uploadTimeout(config)),
	}
}

// BaseURL implements strapi.Client.BaseURL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AuthProvider returns the configured auth provider, or nil.
func (c *Client) AuthProvider() auth.Provider {
	return c.provider
}

// Collection implements strapi.Client.Collection.
func (c *Client) Collection(name string, opts ...strapi.ResourceOption) strapi.CollectionTypeManager {
	return NewCollectionTypeManager(c.httpClient, strapi.NewResourceDescriptor(name, opts...))
}

// Single implements strapi.Client.Single.
func (c *Client) Single(name string, opts ...strapi.ResourceOption) strapi.SingleTypeManager {
	return NewSingleTypeManager(c.httpClient, strapi.NewResourceDescriptor(name, opts...))
}

// Files implements strapi.Client.Files.
func (c *Client) Files() strapi.FilesManager {
	return c.files
}

// Fetch implements strapi.Client.Fetch. Non-2xx responses return both the raw
// response and the error.
func (c *Client) Fetch(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*strapi.RawResponse, error) {
	if method == "" {
		method = http.MethodGet
	}

	req := &internalhttp.Request{
		Method:  method,
		Path:    path,
		Headers: headers,
	}

	if body != nil {
		req.Body = body
	}

	resp, err := c.httpClient.Do(ctx, req)

	var raw *strapi.RawResponse
	if resp != nil {
		raw = &strapi.RawResponse{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
		}
	}

	if err != nil {
		return raw, fmt.Errorf("fetching %s %s: %w", method, path, err)
	}

	return raw, nil
}

// Authenticate forces the auth provider to obtain credentials now.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.provider == nil {
		return constants.ErrNotAuthenticated
	}

	err := c.provider.Authenticate(ctx, c.httpClient)
	if err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}

	return nil
}
