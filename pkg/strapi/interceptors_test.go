package strapi_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, level+" "+msg)
}

func (l *recordingLogger) Debug(msg string, _ map[string]interface{}) { l.record("debug", msg) }
func (l *recordingLogger) Info(msg string, _ map[string]interface{})  { l.record("info", msg) }
func (l *recordingLogger) Warn(msg string, _ map[string]interface{})  { l.record("warn", msg) }
func (l *recordingLogger) Error(msg string, _ map[string]interface{}) { l.record("error", msg) }

func TestInterceptorChain_RequestInterceptors(t *testing.T) {
	t.Parallel()

	chain := strapi.NewInterceptorChain()
	ctx := context.Background()

	var executionOrder []string

	chain.AddRequestInterceptor(func(ctx context.Context, req *strapi.Request) error {
		executionOrder = append(executionOrder, "first")

		return nil
	})

	chain.AddRequestInterceptor(func(ctx context.Context, req *strapi.Request) error {
		executionOrder = append(executionOrder, "second")

		return nil
	})

	req := &strapi.Request{
		Method: "GET",
		URL:    "http://localhost:1337/api/articles",
	}

	err := chain.ExecuteRequestInterceptors(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, executionOrder)
}

func TestInterceptorChain_StopsOnError(t *testing.T) {
	t.Parallel()

	chain := strapi.NewInterceptorChain()
	failure := errors.New("stop")
	called := false

	chain.AddRequestInterceptor(func(ctx context.Context, req *strapi.Request) error {
		return failure
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *strapi.Request) error {
		called = true

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &strapi.Request{})
	require.ErrorIs(t, err, failure)
	assert.False(t, called)
}

func TestInterceptorChain_ResponseInterceptors(t *testing.T) {
	t.Parallel()

	chain := strapi.NewInterceptorChain()
	ctx := context.Background()

	var executionOrder []string

	chain.AddResponseInterceptor(func(ctx context.Context, req *strapi.Request, resp *strapi.Response) error {
		executionOrder = append(executionOrder, "first")

		return nil
	})

	chain.AddResponseInterceptor(func(ctx context.Context, req *strapi.Request, resp *strapi.Response) error {
		executionOrder = append(executionOrder, "second")

		return nil
	})

	err := chain.ExecuteResponseInterceptors(ctx, &strapi.Request{Method: "GET"}, &strapi.Response{StatusCode: 200})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, executionOrder)
}

func TestInterceptorChain_Clone(t *testing.T) {
	t.Parallel()

	chain := strapi.NewInterceptorChain()
	count := 0

	chain.AddRequestInterceptor(func(ctx context.Context, req *strapi.Request) error {
		count++

		return nil
	})

	clone := chain.Clone()
	clone.AddRequestInterceptor(func(ctx context.Context, req *strapi.Request) error {
		count += 10

		return nil
	})

	require.NoError(t, chain.ExecuteRequestInterceptors(context.Background(), &strapi.Request{}))
	assert.Equal(t, 1, count)

	require.NoError(t, clone.ExecuteRequestInterceptors(context.Background(), &strapi.Request{}))
	assert.Equal(t, 12, count)
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	headers := map[string]string{
		"X-Custom-Header": "custom-value",
		"X-Request-ID":    "123456",
	}

	interceptor := strapi.HeaderInterceptor(headers)
	req := &strapi.Request{
		Method:  "GET",
		Headers: http.Header{"X-Request-Id": []string{"existing"}},
	}

	err := interceptor(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "custom-value", req.Headers.Get("X-Custom-Header"))
	assert.Equal(t, "existing", req.Headers.Get("X-Request-ID"))
}

func TestLoggingInterceptors(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	req := &strapi.Request{ID: "1", Method: "GET", URL: "http://localhost:1337/api/articles?populate=*"}

	require.NoError(t, strapi.LoggingInterceptor(logger)(context.Background(), req))
	require.NoError(t, strapi.LoggingResponseInterceptor(logger)(context.Background(), req, &strapi.Response{StatusCode: 200}))
	require.NoError(t, strapi.LoggingResponseInterceptor(logger)(context.Background(), req,
		&strapi.Response{StatusCode: 404, Error: strapi.NewHTTPError("GET", req.URL, 404, nil, nil)}))

	assert.Equal(t, []string{"debug Strapi Request", "debug Strapi Response", "error Strapi Response Error"}, logger.entries)
}

func TestInterceptorChain_ErrorNamesInterceptor(t *testing.T) {
	t.Parallel()

	chain := strapi.NewInterceptorChain()
	failure := errors.New("rejected")

	chain.AddResponseInterceptor(func(ctx context.Context, req *strapi.Request, resp *strapi.Response) error {
		return nil
	})
	chain.AddResponseInterceptor(func(ctx context.Context, req *strapi.Request, resp *strapi.Response) error {
		return failure
	})

	err := chain.ExecuteResponseInterceptors(context.Background(), &strapi.Request{}, &strapi.Response{})
	require.ErrorIs(t, err, failure)
	assert.Contains(t, err.Error(), "response interceptor 1")
}

func TestMetricsCollector(t *testing.T) {
	t.Parallel()

	collector := strapi.NewMetricsCollector()
	requestInterceptor := strapi.MetricsRequestInterceptor(collector)
	responseInterceptor := strapi.MetricsResponseInterceptor(collector)

	ctx := context.Background()
	req := &strapi.Request{
		Method: "GET",
		URL:    "http://localhost:1337/api/articles?sort=title",
	}

	err := requestInterceptor(ctx, req)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	err = responseInterceptor(ctx, req, &strapi.Response{StatusCode: 200})
	require.NoError(t, err)

	endpoint := "GET http://localhost:1337/api/articles"

	metrics, ok := collector.GetMetrics(endpoint)
	require.True(t, ok)
	assert.Equal(t, int64(1), metrics.TotalRequests)
	assert.Equal(t, int64(0), metrics.TotalErrors)
	assert.Positive(t, metrics.AverageLatency)

	// A request without a recorded start time still counts.
	req2 := &strapi.Request{Method: "GET", URL: "http://localhost:1337/api/articles"}

	err = responseInterceptor(ctx, req2, &strapi.Response{StatusCode: 500})
	require.NoError(t, err)

	metrics, ok = collector.GetMetrics(endpoint)
	require.True(t, ok)
	assert.Equal(t, int64(2), metrics.TotalRequests)
	assert.Equal(t, int64(1), metrics.TotalErrors)

	err = responseInterceptor(ctx, &strapi.Request{Method: "DELETE", URL: "http://localhost:1337/api/articles/1"},
		&strapi.Response{Error: errors.New("connection refused")})
	require.NoError(t, err)

	assert.Equal(t, []string{"DELETE http://localhost:1337/api/articles/1", endpoint}, collector.Endpoints())

	_, ok = collector.GetMetrics("DELETE /nothing")
	assert.False(t, ok)
}
