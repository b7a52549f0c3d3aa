package constants

import "errors"

// Configuration errors.
var (
	ErrNoBaseURL         = errors.New("no base URL configured, use 'strapi config set base_url <url>' or STRAPI_BASE_URL")
	ErrInvalidJWTFormat  = errors.New("invalid JWT format")
	ErrNoExpirationClaim = errors.New("no expiration claim found")
	ErrNoJWTInResponse   = errors.New("login response did not contain a jwt")
	ErrNotAuthenticated  = errors.New("not authenticated, use 'strapi login' or set an API token")
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrInvalidFileID       = errors.New("file ID must be a positive integer")
	ErrNoFilesGiven        = errors.New("at least one file is required")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrNotConfirmed        = errors.New("operation not confirmed")
	ErrDataRequired        = errors.New("data is required, pass JSON inline, as @file or - for stdin")
	ErrIdentifierRequired  = errors.New("identifier and password are required")
	ErrInvalidHeader       = errors.New("invalid header, expected 'Name: value'")
	ErrPrefixWithoutPlugin = errors.New("--plugin-prefix requires --plugin")
)

// File system errors.
var (
	ErrNotRegularFile             = errors.New("path is not a regular file")
	ErrDirectoryTraversalDetected = errors.New("directory traversal detected in file path")
)
