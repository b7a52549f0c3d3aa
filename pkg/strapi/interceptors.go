package strapi

import (
	"context"
	"fmt"
	"net/http"
)

// Request represents an HTTP request that can be intercepted.
type Request struct {
	ID       string
	Method   string
	URL      string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response represents an HTTP response that can be intercepted. Response
// interceptors may replace Error, e.g. to map a status to a more specific
// error type.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain runs request interceptors before a request is sent and
// response interceptors after the response (or connection error) arrives, in
// registration order. The first failing interceptor stops the chain.
type InterceptorChain struct {
	onRequest  []RequestInterceptor
	onResponse []ResponseInterceptor
}

// NewInterceptorChain creates an empty chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// Clone returns a copy that can be extended without affecting c.
func (c *InterceptorChain) Clone() *InterceptorChain {
	return &InterceptorChain{
		onRequest:  append([]RequestInterceptor(nil), c.onRequest...),
		onResponse: append([]ResponseInterceptor(nil), c.onResponse...),
	}
}

// AddRequestInterceptor appends a request interceptor.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.onRequest = append(c.onRequest, interceptor)
}

// AddResponseInterceptor appends a response interceptor.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.onResponse = append(c.onResponse, interceptor)
}

// ExecuteRequestInterceptors runs the request interceptors against req.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	for i, interceptor := range c.onRequest {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor %d: %w", i, err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs the response interceptors against resp.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	for i, interceptor := range c.onResponse {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor %d: %w", i, err)
		}
	}

	return nil
}

// LoggingInterceptor logs every outgoing request at debug level.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(_ context.Context, req *Request) error {
		logger.Debug("Strapi Request", requestFields(req))

		return nil
	}
}

// LoggingResponseInterceptor logs every response. Failed requests are logged
// at error level with the error text.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(_ context.Context, req *Request, resp *Response) error {
		fields := requestFields(req)
		fields["status_code"] = resp.StatusCode

		if resp.Error == nil {
			logger.Debug("Strapi Response", fields)

			return nil
		}

		fields["error"] = resp.Error.Error()
		logger.Error("Strapi Response Error", fields)

		return nil
	}
}

func requestFields(req *Request) map[string]interface{} {
	return map[string]interface{}{
		"request_id": req.ID,
		"method":     req.Method,
		"url":        ReadablePath(req.URL),
	}
}

// HeaderInterceptor sets headers on every request unless the request already
// carries them.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(_ context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header, len(headers))
		}

		for key, value := range headers {
			if req.Headers.Get(key) == "" {
				req.Headers.Set(key, value)
			}
		}

		return nil
	}
}
