package strapi_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPError(t *testing.T) {
	t.Parallel()

	body := []byte(`{"data":null,"error":{"status":400,"name":"ValidationError","message":"title must be defined","details":{"errors":[]}}}`)

	httpErr := strapi.NewHTTPError("POST", "http://localhost:1337/api/articles?populate=*", 400, http.Header{}, body)

	require.NotNil(t, httpErr.Detail)
	assert.Equal(t, "ValidationError", httpErr.Detail.Name)
	assert.Equal(t, "POST http://localhost:1337/api/articles: 400 title must be defined", httpErr.Error())
	require.ErrorIs(t, httpErr, strapi.ErrBadRequest)
	assert.Equal(t, 400, strapi.StatusCode(fmt.Errorf("creating articles: %w", httpErr)))
}

func TestHTTPError_WithoutBody(t *testing.T) {
	t.Parallel()

	httpErr := strapi.NewHTTPError("GET", "http://localhost:1337/api/articles", 502, nil, []byte("<html>bad gateway</html>"))

	assert.Nil(t, httpErr.Detail)
	assert.Equal(t, "GET http://localhost:1337/api/articles: 502 Bad Gateway", httpErr.Error())
	assert.ErrorIs(t, httpErr, strapi.ErrInternalServer)
}

func TestHTTPError_StatusClasses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   int
		expected error
	}{
		{http.StatusBadRequest, strapi.ErrBadRequest},
		{http.StatusUnauthorized, strapi.ErrUnauthorized},
		{http.StatusForbidden, strapi.ErrForbidden},
		{http.StatusNotFound, strapi.ErrNotFound},
		{http.StatusRequestTimeout, strapi.ErrTimeout},
		{http.StatusGatewayTimeout, strapi.ErrTimeout},
		{http.StatusInternalServerError, strapi.ErrInternalServer},
		{http.StatusServiceUnavailable, strapi.ErrInternalServer},
		{http.StatusConflict, nil},
	}

	for _, testCase := range tests {
		testCase := testCase

		t.Run(http.StatusText(testCase.status), func(t *testing.T) {
			t.Parallel()

			httpErr := strapi.NewHTTPError("GET", "/x", testCase.status, nil, nil)
			if testCase.expected == nil {
				assert.NoError(t, errors.Unwrap(httpErr))

				return
			}

			assert.ErrorIs(t, httpErr, testCase.expected)
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	notFound := fmt.Errorf("finding articles abc: %w", strapi.NewHTTPError("GET", "/articles/abc", 404, nil, nil))
	assert.True(t, strapi.IsNotFound(notFound))
	assert.False(t, strapi.IsForbidden(notFound))

	assert.True(t, strapi.IsUnauthorized(strapi.NewHTTPError("GET", "/me", 401, nil, nil)))
	assert.True(t, strapi.IsForbidden(strapi.NewHTTPError("GET", "/me", 403, nil, nil)))
	assert.Equal(t, 0, strapi.StatusCode(errors.New("plain")))
}

func TestConnectionError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := &strapi.ConnectionError{Method: "GET", URL: "http://localhost:1337/api/articles?sort=title", Err: cause}

	assert.Equal(t, "GET http://localhost:1337/api/articles: connection refused", err.Error())
	require.ErrorIs(t, err, strapi.ErrConnection)
	require.ErrorIs(t, err, cause)
	assert.True(t, strapi.IsConnectionError(fmt.Errorf("wrapped: %w", err)))
}

func TestFileErrors(t *testing.T) {
	t.Parallel()

	httpErr := strapi.NewHTTPError("GET", "/upload/files/7", 404, nil, nil)

	notFound := &strapi.FileNotFoundError{FileID: 7, Err: httpErr}
	assert.Contains(t, notFound.Error(), "file 7 not found")
	require.ErrorIs(t, notFound, strapi.ErrNotFound)

	forbidden := &strapi.FileForbiddenError{FileID: 7, Err: strapi.NewHTTPError("GET", "/upload/files/7", 403, nil, nil)}
	assert.Contains(t, forbidden.Error(), "access to file 7 forbidden")
	require.ErrorIs(t, forbidden, strapi.ErrForbidden)
}

func TestParseErrorDetail(t *testing.T) {
	t.Parallel()

	detail, err := strapi.ParseErrorDetail([]byte(`{"error":{"status":403,"name":"ForbiddenError","message":"Forbidden"}}`))
	require.NoError(t, err)
	assert.Equal(t, 403, detail.Status)
	assert.Equal(t, "Forbidden", detail.Message)

	_, err = strapi.ParseErrorDetail([]byte(`{"data":[]}`))
	require.Error(t, err)

	_, err = strapi.ParseErrorDetail([]byte(`not json`))
	require.Error(t, err)
}
