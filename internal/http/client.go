package http

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/fivetwenty-io/strapi-client/internal/constants"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

// Authenticator prepares credentials for requests sent by a Client.
type Authenticator interface {
	// Authenticate makes sure credentials are fresh. It may issue requests
	// through c with Request.NoAuth set.
	Authenticate(ctx context.Context, c *Client) error
	// AuthenticateRequest injects credentials into an outgoing request.
	AuthenticateRequest(req *http.Request)
}

// Client is the HTTP transport shared by all managers.
type Client struct {
	baseURL       string
	authenticator Authenticator
	httpClient    *retryablehttp.Client
	transport     http.RoundTripper
	logger        strapi.Logger
	debug         bool
	userAgent     string
	headers       map[string]string
	timeout       time.Duration
	retryMax      int
	retryWaitMin  time.Duration
	retryWaitMax  time.Duration
	interceptors  *strapi.InterceptorChain
	cache         strapi.Cache
	cacheTTL      time.Duration
}

// Request represents an HTTP request.
//
// Path is appended to the base URL verbatim and may already carry a query
// string. Body is sent as-is when it is []byte or an io.Reader and JSON
// encoded otherwise.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
	// NoAuth skips the authenticator, e.g. for the login request itself.
	NoAuth bool
}

// Response represents an HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	RequestID  string
	// Cached is set when the response was served from the cache.
	Cached bool
}

// FormFile is one file part of a multipart request.
type FormFile struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     io.Reader
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger strapi.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables debug logging of requests and responses.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		merged := make(map[string]string, len(c.headers)+len(headers))
		for key, value := range c.headers {
			merged[key] = value
		}

		for key, value := range headers {
			merged[key] = value
		}

		c.headers = merged
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the overall HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetryConfig enables retries on connection errors, 429 and 5xx. POST and
// PATCH requests are never retried since a repeat could duplicate a write.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = retryMax
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// WithRequestInterceptor appends a request interceptor.
func WithRequestInterceptor(interceptor strapi.RequestInterceptor) Option {
	return func(c *Client) {
		c.interceptors.AddRequestInterceptor(interceptor)
	}
}

// WithResponseInterceptor appends a response interceptor.
func WithResponseInterceptor(interceptor strapi.ResponseInterceptor) Option {
	return func(c *Client) {
		c.interceptors.AddResponseInterceptor(interceptor)
	}
}

// WithCache caches successful GET responses for ttl. Any successful request
// with another method clears the cache. Cache hits skip the response
// interceptors.
func WithCache(cache strapi.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			ttl = constants.DefaultCacheTTL
		}

		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithTransport replaces the underlying round tripper.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// NewClient creates a new HTTP client. authenticator may be nil.
func NewClient(baseURL string, authenticator Authenticator, opts ...Option) *Client {
	client := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		authenticator: authenticator,
		userAgent:     constants.DefaultUserAgent,
		timeout:       constants.DefaultHTTPTimeout,
		retryWaitMin:  constants.DefaultRetryWaitMin,
		retryWaitMax:  constants.DefaultRetryWaitMax,
		interceptors:  strapi.NewInterceptorChain(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.transport == nil {
		client.transport = http.DefaultTransport.(*http.Transport).Clone()
	}

	client.httpClient = client.newRetryableClient()

	return client
}

// Clone returns a client sharing the base URL, authenticator and connection
// pool, with an independent interceptor chain. opts are applied on top.
func (c *Client) Clone(opts ...Option) *Client {
	clone := *c
	clone.interceptors = c.interceptors.Clone()

	for _, opt := range opts {
		opt(&clone)
	}

	clone.httpClient = clone.newRetryableClient()

	return &clone
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newRetryableClient() *retryablehttp.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{
		Transport: c.transport,
		Timeout:   c.timeout,
	}
	retryClient.RetryMax = c.retryMax
	retryClient.RetryWaitMin = c.retryWaitMin
	retryClient.RetryWaitMax = c.retryWaitMax
	retryClient.CheckRetry = checkRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	// retryablehttp logs every attempt; only surface that when retrying.
	if c.logger != nil && c.debug && c.retryMax > 0 {
		retryClient.Logger = &leveledLogger{logger: c.logger}
	}

	return retryClient
}

type skipRetryKey struct{}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if skip, _ := ctx.Value(skipRetryKey{}).(bool); skip {
		return false, ctx.Err()
	}

	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

func idempotent(method string) bool {
	return method != http.MethodPost && method != http.MethodPatch
}

// Do executes an HTTP request. On a non-2xx status the response is returned
// together with a *strapi.HTTPError.
//
//nolint:funlen,cyclop
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.resolveURL(req.Path, req.Query)

	body, jsonBody, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	headers := c.buildHeaders(req.Headers, jsonBody)

	if !req.NoAuth && c.authenticator != nil {
		err = c.authenticator.Authenticate(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("authenticating: %w", err)
		}
	}

	interceptedReq := &strapi.Request{
		ID:       headers.Get(constants.HeaderRequestID),
		Method:   req.Method,
		URL:      fullURL,
		Headers:  headers,
		Body:     body,
		Metadata: make(map[string]interface{}),
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, interceptedReq)
	if err != nil {
		return nil, err
	}

	var rawBody interface{}
	if len(interceptedReq.Body) > 0 {
		rawBody = interceptedReq.Body
	}

	sendCtx := ctx
	if !idempotent(interceptedReq.Method) {
		sendCtx = context.WithValue(ctx, skipRetryKey{}, true)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(sendCtx, interceptedReq.Method, interceptedReq.URL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = interceptedReq.Headers

	if !req.NoAuth && c.authenticator != nil {
		c.authenticator.AuthenticateRequest(httpReq.Request)
	}

	var cacheKey string

	if c.cache != nil && interceptedReq.Method == http.MethodGet {
		cacheKey = requestCacheKey(httpReq.Request)

		if cached := c.lookupCache(ctx, cacheKey, interceptedReq.ID); cached != nil {
			return cached, nil
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"request_id": interceptedReq.ID,
			"method":     interceptedReq.Method,
			"url":        strapi.ReadablePath(interceptedReq.URL),
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		interceptedResp := &strapi.Response{
			Error: &strapi.ConnectionError{Method: interceptedReq.Method, URL: interceptedReq.URL, Err: err},
		}

		interceptErr := c.interceptors.ExecuteResponseInterceptors(ctx, interceptedReq, interceptedResp)
		if interceptErr != nil {
			return nil, interceptErr
		}

		return nil, interceptedResp.Error
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &strapi.ConnectionError{Method: interceptedReq.Method, URL: interceptedReq.URL, Err: err}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"request_id":  interceptedReq.ID,
			"status_code": httpResp.StatusCode,
			"body_size":   len(respBody),
		})
	}

	response := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
		RequestID:  interceptedReq.ID,
	}

	interceptedResp := &strapi.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		interceptedResp.Error = strapi.NewHTTPError(interceptedReq.Method, interceptedReq.URL, httpResp.StatusCode, httpResp.Header, respBody)
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, interceptedReq, interceptedResp)
	if err != nil {
		return response, err
	}

	if interceptedResp.Error == nil {
		c.updateCache(ctx, cacheKey, interceptedReq.Method, response)
	}

	return response, interceptedResp.Error
}

// requestCacheKey identifies a GET by URL and a digest of its credentials, so
// callers with different permissions never share entries.
func requestCacheKey(req *http.Request) string {
	key := req.Method + " " + req.URL.String()

	if authorization := req.Header.Get(constants.HeaderAuthorization); authorization != "" {
		sum := sha256.Sum256([]byte(authorization))
		key += " " + hex.EncodeToString(sum[:8])
	}

	return key
}

func (c *Client) lookupCache(ctx context.Context, key, requestID string) *Response {
	entry, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Cache Hit", map[string]interface{}{
			"request_id":  requestID,
			"status_code": entry.StatusCode,
			"expires_at":  entry.ExpiresAt,
		})
	}

	return &Response{
		StatusCode: entry.StatusCode,
		Headers:    entry.Headers,
		Body:       entry.Data,
		RequestID:  requestID,
		Cached:     true,
	}
}

func (c *Client) updateCache(ctx context.Context, key, method string, resp *Response) {
	if c.cache == nil {
		return
	}

	var err error

	switch {
	case key != "":
		err = c.cache.Set(ctx, key, &strapi.CacheEntry{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Data:       resp.Body,
			ETag:       resp.Headers.Get("ETag"),
			ExpiresAt:  time.Now().Add(c.cacheTTL),
		})
	case method != http.MethodHead && method != http.MethodOptions:
		err = c.cache.Clear(ctx)
	}

	if err != nil && c.logger != nil {
		c.logger.Warn("HTTP Cache Update Failed", map[string]interface{}{
			"method": method,
			"error":  err.Error(),
		})
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   path,
		Body:   body,
	})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   path,
	})
}

// PostMultipart performs a multipart/form-data POST. Fields are written in
// sorted key order before the files.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []FormFile) (*Response, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		err := writer.WriteField(key, fields[key])
		if err != nil {
			return nil, fmt.Errorf("writing form field %s: %w", key, err)
		}
	}

	for _, file := range files {
		err := writeFormFile(writer, file)
		if err != nil {
			return nil, err
		}
	}

	err := writer.Close()
	if err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   buf.Bytes(),
		Headers: map[string]string{
			constants.HeaderContentType: writer.FormDataContentType(),
		},
	})
}

func writeFormFile(writer *multipart.Writer, file FormFile) error {
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.FieldName, file.FileName))
	header.Set(constants.HeaderContentType, contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("creating form file %s: %w", file.FileName, err)
	}

	if file.Content == nil {
		return nil
	}

	_, err = io.Copy(part, file.Content)
	if err != nil {
		return fmt.Errorf("writing form file %s: %w", file.FileName, err)
	}

	return nil
}

func (c *Client) resolveURL(path string, query url.Values) string {
	fullURL := c.baseURL + path
	if len(query) == 0 {
		return fullURL
	}

	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}

	return fullURL + separator + query.Encode()
}

// buildHeaders layers defaults, client headers and request headers, in that
// order of increasing precedence.
func (c *Client) buildHeaders(requestHeaders map[string]string, jsonBody bool) http.Header {
	headers := make(http.Header)
	headers.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	headers.Set(constants.HeaderUserAgent, c.userAgent)

	if jsonBody {
		headers.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}

	for key, value := range c.headers {
		headers.Set(key, value)
	}

	for key, value := range requestHeaders {
		headers.Set(key, value)
	}

	if headers.Get(constants.HeaderRequestID) == "" {
		headers.Set(constants.HeaderRequestID, uuid.NewString())
	}

	return headers
}

// encodeBody returns the bytes to send and whether they were JSON encoded here.
func encodeBody(body interface{}) ([]byte, bool, error) {
	switch typed := body.(type) {
	case nil:
		return nil, false, nil
	case []byte:
		return typed, false, nil
	case io.Reader:
		data, err := io.ReadAll(typed)
		if err != nil {
			return nil, false, fmt.Errorf("reading request body: %w", err)
		}

		return data, false, nil
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return nil, false, fmt.Errorf("marshaling request body: %w", err)
		}

		return data, true, nil
	}
}

// leveledLogger adapts strapi.Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger strapi.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keyValueFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keyValueFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keyValueFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keyValueFields(keysAndValues))
}

func keyValueFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}
