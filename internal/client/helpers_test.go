package client_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fivetwenty-io/strapi-client/internal/client"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// recordedRequest is what the fake server saw.
type recordedRequest struct {
	Method      string
	RequestURI  string
	ContentType string
	Body        string
}

// fakeStrapi is a chi router under /api that records every request.
type fakeStrapi struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeStrapi(t *testing.T, routes func(r chi.Router)) *fakeStrapi {
	t.Helper()

	fake := &fakeStrapi{}

	router := chi.NewRouter()
	router.Use(fake.record)
	router.Route("/api", routes)

	fake.Server = httptest.NewServer(router)
	t.Cleanup(fake.Close)

	return fake
}

func (f *fakeStrapi) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		recorded := recordedRequest{
			Method:      request.Method,
			RequestURI:  request.RequestURI,
			ContentType: request.Header.Get("Content-Type"),
		}

		// Multipart bodies are parsed by the handlers themselves.
		if request.Body != nil && recorded.ContentType == "application/json" {
			body, _ := io.ReadAll(request.Body)
			recorded.Body = string(body)
			request.Body = io.NopCloser(strings.NewReader(recorded.Body))
		}

		f.mu.Lock()
		f.requests = append(f.requests, recorded)
		f.mu.Unlock()

		next.ServeHTTP(writer, request)
	})
}

func (f *fakeStrapi) last(t *testing.T) recordedRequest {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	require.NotEmpty(t, f.requests)

	return f.requests[len(f.requests)-1]
}

func (f *fakeStrapi) client(t *testing.T) *client.Client {
	t.Helper()

	cli, err := client.New(&strapi.Config{BaseURL: f.URL + "/api"})
	require.NoError(t, err)

	return cli
}

func writeJSON(writer http.ResponseWriter, status int, body string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_, _ = writer.Write([]byte(body))
}

func notFound(writer http.ResponseWriter, _ *http.Request) {
	writeJSON(writer, http.StatusNotFound,
		`{"data":null,"error":{"status":404,"name":"NotFoundError","message":"Not Found","details":{}}}`)
}

func echoBody(writer http.ResponseWriter, request *http.Request) {
	body, _ := io.ReadAll(request.Body)
	writeJSON(writer, http.StatusOK, string(body))
}
