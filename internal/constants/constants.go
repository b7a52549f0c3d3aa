package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// UploadHTTPTimeout is used for multipart uploads.
	UploadHTTPTimeout = 5 * time.Minute
)

// Retry and concurrency limits.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// DefaultConcurrencyLimit limits concurrent CLI operations.
	DefaultConcurrencyLimit = 3
)

// Authentication.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second

	// TokenPartsCount is the expected number of parts in a JWT token.
	TokenPartsCount = 3

	// LocalAuthPath is the users-permissions login endpoint.
	LocalAuthPath = "/auth/local"
)

// Header names and values.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderUserAgent     = "User-Agent"
	HeaderRequestID     = "X-Request-ID"

	ContentTypeJSON = "application/json"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "strapi-client-go/1.0"
)

// Upload plugin paths.
const (
	// UploadPath accepts multipart uploads and file info updates.
	UploadPath = "/upload"

	// UploadFilesPath lists and addresses stored files.
	UploadFilesPath = "/upload/files"

	// UploadFilesField is the multipart field name for binary parts.
	UploadFilesField = "files"

	// UploadFileInfoField is the multipart field name for file metadata.
	UploadFileInfoField = "fileInfo"
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// StringTruncationLength is the default length for truncating strings.
	StringTruncationLength = 60

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// Confirmation constants.
const (
	// ConfirmationYes for positive confirmations.
	ConfirmationYes = "yes"
)

// Response caching.
const (
	// DefaultCacheSize is the default number of entries of the memory cache.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is how long cached GET responses stay fresh.
	DefaultCacheTTL = time.Minute

	// DefaultCacheBucket is the NATS key-value bucket used for caching.
	DefaultCacheBucket = "strapi_cache"
)
