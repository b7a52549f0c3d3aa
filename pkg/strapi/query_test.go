package strapi_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestAppendQueryParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   *strapi.QueryParams
		expected string
	}{
		{
			name:     "nil params",
			params:   nil,
			expected: "/articles",
		},
		{
			name:     "empty params",
			params:   strapi.NewQueryParams(),
			expected: "/articles",
		},
		{
			name:     "empty filters",
			params:   strapi.NewQueryParams().WithFilters(strapi.Object{}),
			expected: "/articles",
		},
		{
			name:     "single sort",
			params:   strapi.NewQueryParams().WithSort("name:asc"),
			expected: "/articles?sort=name%3Aasc",
		},
		{
			name:     "sort array",
			params:   strapi.NewQueryParams().WithSort("name:asc", "size:desc"),
			expected: "/articles?sort%5B0%5D=name%3Aasc&sort%5B1%5D=size%3Adesc",
		},
		{
			name: "nested filters",
			params: strapi.NewQueryParams().WithFilters(strapi.Object{
				strapi.F("mime", strapi.Object{strapi.F("$contains", "image")}),
			}),
			expected: "/articles?filters%5Bmime%5D%5B%24contains%5D=image",
		},
		{
			name: "filters then sort keep insertion order",
			params: strapi.NewQueryParams().
				WithFilters(strapi.Object{strapi.F("title", strapi.Object{strapi.F("$eq", "Hello")})}).
				WithSort("createdAt:desc"),
			expected: "/articles?filters%5Btitle%5D%5B%24eq%5D=Hello&sort=createdAt%3Adesc",
		},
		{
			name: "deep nesting through arrays",
			params: strapi.NewQueryParams().WithFilters(strapi.Object{
				strapi.F("$or", []interface{}{
					strapi.Object{strapi.F("mime", strapi.Object{strapi.F("$contains", "image")})},
					strapi.Object{strapi.F("mime", strapi.Object{strapi.F("$contains", "video")})},
				}),
			}),
			expected: "/articles?filters%5B%24or%5D%5B0%5D%5Bmime%5D%5B%24contains%5D=image" +
				"&filters%5B%24or%5D%5B1%5D%5Bmime%5D%5B%24contains%5D=video",
		},
		{
			name:     "undefined top-level value is dropped",
			params:   strapi.NewQueryParams().Set("locale", strapi.Undefined).Set("status", "draft"),
			expected: "/articles?status=draft",
		},
		{
			name:     "nil top-level value is the literal null",
			params:   strapi.NewQueryParams().Set("locale", nil),
			expected: "/articles?locale=null",
		},
		{
			name:     "undefined elements are dropped before indexing, nil elements are kept",
			params:   strapi.NewQueryParams().Set("fields", []interface{}{"a", strapi.Undefined, nil, "b"}),
			expected: "/articles?fields%5B0%5D=a&fields%5B1%5D=null&fields%5B2%5D=b",
		},
		{
			name:     "populate star stays readable",
			params:   strapi.NewQueryParams().WithPopulate("*"),
			expected: "/articles?populate=*",
		},
		{
			name:     "spaces and reserved characters",
			params:   strapi.NewQueryParams().Set("q", "a b&c=d~"),
			expected: "/articles?q=a+b%26c%3Dd%7E",
		},
		{
			name:     "offset pagination",
			params:   strapi.NewQueryParams().WithOffsetPagination(20, 10),
			expected: "/articles?pagination%5Bstart%5D=20&pagination%5Blimit%5D=10",
		},
		{
			name: "go maps are sorted by key",
			params: strapi.NewQueryParams().Set("filters", map[string]interface{}{
				"b": 2,
				"a": true,
			}),
			expected: "/articles?filters%5Ba%5D=true&filters%5Bb%5D=2",
		},
	}

	for _, testCase := range tests {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, strapi.AppendQueryParams("/articles", testCase.params))
		})
	}
}

func TestAppendQueryParams_FindScenario(t *testing.T) {
	t.Parallel()

	params := strapi.NewQueryParams().
		WithLocale("en").
		WithPopulate("author").
		WithFields("title", "description").
		WithFilters(strapi.Object{strapi.F("published", true)}).
		WithSort("createdAt:desc").
		WithPagination(1, 10)

	assert.Equal(t,
		"/articles?locale=en&populate=author&fields%5B0%5D=title&fields%5B1%5D=description"+
			"&filters%5Bpublished%5D=true&sort=createdAt%3Adesc&pagination%5Bpage%5D=1&pagination%5BpageSize%5D=10",
		strapi.AppendQueryParams("/articles", params))
}

func TestAppendQueryParams_PrimitivesDecodeAsStrings(t *testing.T) {
	t.Parallel()

	params := strapi.QueryParamsFromObject(strapi.Object{strapi.F("a", 1), strapi.F("b", "x")})

	encoded := strapi.AppendQueryParams("/articles", params)

	parsed, err := url.Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, url.Values{"a": {"1"}, "b": {"x"}}, parsed.Query())
}

func TestFlattenQueryParams_Scalars(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	pairs := strapi.FlattenQueryParams(strapi.NewQueryParams().
		Set("int", 42).
		Set("float", 1.5).
		Set("big", 1e21).
		Set("bool", false).
		Set("time", when).
		Set("ptr", (*string)(nil)))

	assert.Equal(t, []strapi.QueryPair{
		{Key: "int", Value: "42"},
		{Key: "float", Value: "1.5"},
		{Key: "big", Value: "1e+21"},
		{Key: "bool", Value: "false"},
		{Key: "time", Value: "2024-05-01T12:30:00.000Z"},
		{Key: "ptr", Value: "null"},
	}, pairs)
}

func TestFlattenQueryParams_Struct(t *testing.T) {
	t.Parallel()

	type pagination struct {
		Page     int `json:"page"`
		PageSize int `json:"pageSize"`
	}

	pairs := strapi.FlattenQueryParams(strapi.NewQueryParams().Set("pagination", pagination{Page: 2, PageSize: 25}))

	assert.Equal(t, []strapi.QueryPair{
		{Key: "pagination[page]", Value: "2"},
		{Key: "pagination[pageSize]", Value: "25"},
	}, pairs)
}

//nolint:funlen // Test functions can be longer for detailed testing
func TestQueryParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  *strapi.QueryParams
		wantErr bool
	}{
		{name: "nil params", params: nil},
		{name: "empty params", params: strapi.NewQueryParams()},
		{name: "object filters", params: strapi.NewQueryParams().WithFilters(strapi.Object{strapi.F("a", 1)})},
		{name: "map filters", params: strapi.NewQueryParams().Set("filters", map[string]interface{}{"a": 1})},
		{name: "nil filters", params: strapi.NewQueryParams().Set("filters", nil)},
		{name: "undefined filters", params: strapi.NewQueryParams().Set("filters", strapi.Undefined)},
		{name: "string filters", params: strapi.NewQueryParams().Set("filters", "title"), wantErr: true},
		{name: "array filters", params: strapi.NewQueryParams().Set("filters", []string{"a"}), wantErr: true},
		{name: "string sort", params: strapi.NewQueryParams().Set("sort", "title")},
		{name: "string slice sort", params: strapi.NewQueryParams().Set("sort", []string{"a", "b"})},
		{name: "interface slice sort", params: strapi.NewQueryParams().Set("sort", []interface{}{"a", "b"})},
		{name: "numeric sort", params: strapi.NewQueryParams().Set("sort", 1), wantErr: true},
		{name: "mixed sort array", params: strapi.NewQueryParams().Set("sort", []interface{}{"a", 1}), wantErr: true},
		{name: "map sort", params: strapi.NewQueryParams().Set("sort", map[string]string{"a": "asc"}), wantErr: true},
	}

	for _, testCase := range tests {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := testCase.params.Validate()
			if testCase.wantErr {
				require.ErrorIs(t, err, strapi.ErrInvalidQueryParams)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestQueryParams_Set(t *testing.T) {
	t.Parallel()

	params := strapi.NewQueryParams().Set("a", 1).Set("b", 2).Set("a", 3)

	assert.Equal(t, strapi.Object{strapi.F("a", 3), strapi.F("b", 2)}, params.Fields())

	value, ok := params.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, value)

	_, ok = params.Get("missing")
	assert.False(t, ok)
}

func TestParseQueryParamsJSON(t *testing.T) {
	t.Parallel()

	params, err := strapi.ParseQueryParamsJSON([]byte(`{"sort":["b","a"],"filters":{"z":{"$eq":1},"a":null},"populate":"*"}`))
	require.NoError(t, err)
	require.NoError(t, params.Validate())

	assert.Equal(t,
		"sort%5B0%5D=b&sort%5B1%5D=a&filters%5Bz%5D%5B%24eq%5D=1&filters%5Ba%5D=null&populate=*",
		strapi.EncodeQueryParams(params))

	_, err = strapi.ParseQueryParamsJSON([]byte(`["not","an","object"]`))
	require.ErrorIs(t, err, strapi.ErrInvalidQueryParams)

	_, err = strapi.ParseQueryParamsJSON([]byte(`{"a":1} {"b":2}`))
	require.ErrorIs(t, err, strapi.ErrInvalidQueryParams)

	_, err = strapi.ParseQueryParamsJSON([]byte(`{"a":`))
	require.Error(t, err)
}

func TestReadablePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://localhost:1337/api/articles",
		strapi.ReadablePath("http://localhost:1337/api/articles?populate=*#top"))
	assert.Equal(t, "https://cms.example.com/", strapi.ReadablePath("https://cms.example.com?x=1"))
	assert.Equal(t, "/articles", strapi.ReadablePath("/articles?sort=title"))
	assert.Equal(t, "https://h.io/a%20b", strapi.ReadablePath("https://h.io:443/a%20b?x=1#f"))
	assert.Equal(t, "http://h.io/a", strapi.ReadablePath("http://H.io:80/a"))
	assert.Equal(t, "http://h.io:443/a", strapi.ReadablePath("http://h.io:443/a"))
	assert.Equal(t, "https://[::1]:8443/a", strapi.ReadablePath("https://[::1]:8443/a"))
}
