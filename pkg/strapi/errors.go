package strapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrBaseURLRequired     = errors.New("base URL is required")
	ErrInvalidBaseURL      = errors.New("invalid base URL")
	ErrInvalidQueryParams  = errors.New("invalid query parameters")
	ErrUnknownAuthStrategy = errors.New("unknown auth strategy")
	ErrInvalidAuthOptions  = errors.New("invalid auth options")
	ErrInvalidTimeout      = errors.New("timeout must not be negative")
	ErrInvalidRetryConfig  = errors.New("invalid retry configuration")
	ErrConnection          = errors.New("connection failed")
	errNoErrorMember       = errors.New("no error member")
)

// Status class errors. An *HTTPError unwraps to exactly one of these when its
// status matches.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrTimeout        = errors.New("request timeout")
	ErrInternalServer = errors.New("internal server error")
)

// ErrorDetail is the error member of an error body:
// {"data": null, "error": {"status": 404, "name": "NotFoundError", ...}}.
type ErrorDetail struct {
	Status  int                    `json:"status"            yaml:"status"`
	Name    string                 `json:"name"              yaml:"name"`
	Message string                 `json:"message"           yaml:"message"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// HTTPError is returned for any response outside the 2xx range.
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	Headers    http.Header
	Body       []byte
	Detail     *ErrorDetail
}

// NewHTTPError builds an HTTPError, parsing the error body when possible.
func NewHTTPError(method, rawURL string, statusCode int, headers http.Header, body []byte) *HTTPError {
	httpErr := &HTTPError{
		StatusCode: statusCode,
		Method:     method,
		URL:        rawURL,
		Headers:    headers,
		Body:       body,
	}

	detail, err := ParseErrorDetail(body)
	if err == nil {
		httpErr.Detail = detail
	}

	return httpErr
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	text := http.StatusText(e.StatusCode)
	if e.Detail != nil && e.Detail.Message != "" {
		text = e.Detail.Message
	}

	return fmt.Sprintf("%s %s: %d %s", e.Method, ReadablePath(e.URL), e.StatusCode, text)
}

// Unwrap returns the status class sentinel, or nil for unclassified statuses.
func (e *HTTPError) Unwrap() error {
	return statusClassError(e.StatusCode)
}

func statusClassError(statusCode int) error {
	switch {
	case statusCode == http.StatusBadRequest:
		return ErrBadRequest
	case statusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case statusCode == http.StatusForbidden:
		return ErrForbidden
	case statusCode == http.StatusNotFound:
		return ErrNotFound
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusGatewayTimeout:
		return ErrTimeout
	case statusCode >= http.StatusInternalServerError:
		return ErrInternalServer
	default:
		return nil
	}
}

// ParseErrorDetail parses an error body.
func ParseErrorDetail(data []byte) (*ErrorDetail, error) {
	var body struct {
		Error *ErrorDetail `json:"error"`
	}

	err := json.Unmarshal(data, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal error body: %w", err)
	}

	if body.Error == nil {
		return nil, fmt.Errorf("failed to unmarshal error body: %w", errNoErrorMember)
	}

	return body.Error, nil
}

// ConnectionError is returned when no response was received at all.
type ConnectionError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, ReadablePath(e.URL), e.Err)
}

// Unwrap exposes both ErrConnection and the underlying cause.
func (e *ConnectionError) Unwrap() []error {
	return []error{ErrConnection, e.Err}
}

// FileNotFoundError is returned by the files manager for a 404 on a known file.
type FileNotFoundError struct {
	FileID int64
	Err    *HTTPError
}

// Error implements the error interface.
func (e *FileNotFoundError) Error() string {
	return "file " + strconv.FormatInt(e.FileID, 10) + " not found: " + e.Err.Error()
}

// Unwrap returns the original HTTP error.
func (e *FileNotFoundError) Unwrap() error {
	return e.Err
}

// FileForbiddenError is returned by the files manager for a 403 on a known file.
type FileForbiddenError struct {
	FileID int64
	Err    *HTTPError
}

// Error implements the error interface.
func (e *FileForbiddenError) Error() string {
	return "access to file " + strconv.FormatInt(e.FileID, 10) + " forbidden: " + e.Err.Error()
}

// Unwrap returns the original HTTP error.
func (e *FileForbiddenError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	httpErr := &HTTPError{}
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}

	return 0
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsConnectionError checks if no response was received.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnection)
}
