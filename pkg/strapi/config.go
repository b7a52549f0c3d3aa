package strapi

import (
	"fmt"
	"net/url"
	"time"
)

// Auth strategy identifiers understood by the auth registry.
const (
	AuthStrategyAPIToken         = "api-token"
	AuthStrategyUsersPermissions = "users-permissions"
)

// AuthConfig selects an authentication strategy and its options.
//
// Options per strategy:
//   - "api-token": {"token": "<api token>"}
//   - "users-permissions": {"identifier": "<username or email>", "password": "<password>"}
type AuthConfig struct {
	Strategy string                 `json:"strategy"          yaml:"strategy"`
	Options  map[string]interface{} `json:"options,omitempty" yaml:"options,omitempty"`
}

// Config represents client configuration for building a strapi.Client.
//
// BaseURL is the content API root including its prefix, e.g.
// "http://localhost:1337/api". strapiclient.New trims a trailing slash and
// adds "https://" when no scheme is present.
//
// Per-request deadlines should be set on the context passed to each method.
// Timeout bounds every request regardless of context. Retries are disabled
// unless RetryMax is positive.
type Config struct {
	// BaseURL: content API root. Required.
	BaseURL string
	// Auth: optional authentication strategy. Nil sends requests unauthenticated.
	Auth *AuthConfig
	// Headers: extra headers sent with every request. Per-request headers win.
	Headers map[string]string
	// Timeout: overall HTTP client timeout. Zero uses the library default.
	Timeout time.Duration
	// UploadTimeout: timeout of file manager requests. Zero uses Timeout when
	// set, otherwise the longer upload default.
	UploadTimeout time.Duration
	// RetryMax: maximum retries on connection errors, 429 and 5xx responses.
	// Only idempotent methods are retried; POST and PATCH go out once.
	RetryMax int
	// RetryWaitMin and RetryWaitMax bound the backoff between retries.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// RequestInterceptors and ResponseInterceptors run around every request,
	// in order.
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
	// Cache: optional store for successful GET responses. Nil disables caching.
	Cache Cache
	// CacheTTL: lifetime of cached responses. Zero uses the library default.
	CacheTTL time.Duration
}

// Validate checks the configuration for structural errors. Strategy specific
// auth options are validated when the provider is created.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigRequired
	}

	err := ValidateBaseURL(c.BaseURL)
	if err != nil {
		return err
	}

	if c.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Timeout)
	}

	if c.UploadTimeout < 0 {
		return fmt.Errorf("%w: upload %s", ErrInvalidTimeout, c.UploadTimeout)
	}

	if c.RetryMax < 0 || c.RetryWaitMin < 0 || c.RetryWaitMax < 0 {
		return fmt.Errorf("%w: values must not be negative", ErrInvalidRetryConfig)
	}

	if c.RetryWaitMax > 0 && c.RetryWaitMin > c.RetryWaitMax {
		return fmt.Errorf("%w: wait min %s exceeds wait max %s", ErrInvalidRetryConfig, c.RetryWaitMin, c.RetryWaitMax)
	}

	if c.Auth != nil && c.Auth.Strategy == "" {
		return fmt.Errorf("%w: strategy is required", ErrUnknownAuthStrategy)
	}

	return nil
}

// ValidateBaseURL requires an absolute http or https URL with a host.
func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return ErrBaseURLRequired
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: %q must use http or https", ErrInvalidBaseURL, rawURL)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%w: %q has no host", ErrInvalidBaseURL, rawURL)
	}

	return nil
}
