package strapi_test

import (
	"testing"

	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
	"github.com/stretchr/testify/assert"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestResolveRootPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		descriptor strapi.ResourceDescriptor
		expected   string
	}{
		{
			name:       "no plugin",
			descriptor: strapi.ResourceDescriptor{Name: "articles"},
			expected:   "/articles",
		},
		{
			name: "plugin name is the default prefix",
			descriptor: strapi.ResourceDescriptor{
				Name:   "posts",
				Plugin: &strapi.Plugin{Name: "blog"},
			},
			expected: "/blog/posts",
		},
		{
			name: "explicit prefix",
			descriptor: strapi.ResourceDescriptor{
				Name:   "posts",
				Plugin: &strapi.Plugin{Name: "blog", Prefix: strapi.String("cms")},
			},
			expected: "/cms/posts",
		},
		{
			name: "empty prefix drops the segment",
			descriptor: strapi.ResourceDescriptor{
				Name:   "users",
				Plugin: &strapi.Plugin{Name: "users-permissions", Prefix: strapi.String("")},
			},
			expected: "/users",
		},
		{
			name: "explicit path wins over plugin",
			descriptor: strapi.ResourceDescriptor{
				Name:   "posts",
				Path:   "/custom/endpoint",
				Plugin: &strapi.Plugin{Name: "blog", Prefix: strapi.String("custom")},
			},
			expected: "/custom/endpoint",
		},
		{
			name:       "explicit path that looks like a name",
			descriptor: strapi.ResourceDescriptor{Name: "articles", Path: "articles"},
			expected:   "articles",
		},
		{
			name:       "empty name is not validated",
			descriptor: strapi.ResourceDescriptor{},
			expected:   "/",
		},
	}

	for _, testCase := range tests {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			first := strapi.ResolveRootPath(testCase.descriptor)
			assert.Equal(t, testCase.expected, first)
			assert.Equal(t, first, strapi.ResolveRootPath(testCase.descriptor))
		})
	}
}

func TestResolveRootPath_ExplicitPathPrecedence(t *testing.T) {
	t.Parallel()

	plugins := []*strapi.Plugin{
		nil,
		{Name: "blog"},
		{Name: "blog", Prefix: strapi.String("")},
		{Name: "users-permissions", Prefix: strapi.String("x")},
	}

	for _, plugin := range plugins {
		for _, name := range []string{"", "articles", "homepage"} {
			descriptor := strapi.ResourceDescriptor{Name: name, Path: "/explicit", Plugin: plugin}
			assert.Equal(t, "/explicit", strapi.ResolveRootPath(descriptor))
		}
	}
}

func TestResourceDescriptor_PluginName(t *testing.T) {
	t.Parallel()

	assert.Empty(t, strapi.ResourceDescriptor{Name: "articles"}.PluginName())
	assert.Equal(t, "blog", strapi.ResourceDescriptor{Name: "posts", Plugin: &strapi.Plugin{Name: "blog"}}.PluginName())
}

//nolint:funlen // Test functions can be longer for detailed testing
func TestNewResourceDescriptor(t *testing.T) {
	t.Parallel()

	t.Run("plain content type", func(t *testing.T) {
		t.Parallel()

		descriptor := strapi.NewResourceDescriptor("articles")
		assert.Equal(t, "articles", descriptor.Name)
		assert.Nil(t, descriptor.Plugin)
		assert.Equal(t, "/articles", strapi.ResolveRootPath(descriptor))
	})

	t.Run("well-known users resource", func(t *testing.T) {
		t.Parallel()

		descriptor := strapi.NewResourceDescriptor("users")
		assert.Equal(t, strapi.UsersPermissionsPlugin, descriptor.PluginName())
		assert.Equal(t, "/users", strapi.ResolveRootPath(descriptor))
		assert.False(t, strapi.ShouldWrapPayload(descriptor.PluginName()))
	})

	t.Run("explicit plugin overrides the table", func(t *testing.T) {
		t.Parallel()

		descriptor := strapi.NewResourceDescriptor("users", strapi.WithPlugin("crm"))
		assert.Equal(t, "crm", descriptor.PluginName())
		assert.Equal(t, "/crm/users", strapi.ResolveRootPath(descriptor))
	})

	t.Run("path and plugin prefix options", func(t *testing.T) {
		t.Parallel()

		descriptor := strapi.NewResourceDescriptor("homepage", strapi.WithPath("/custom-homepage"))
		assert.Equal(t, "/custom-homepage", strapi.ResolveRootPath(descriptor))

		descriptor = strapi.NewResourceDescriptor("posts", strapi.WithPluginPrefix("blog", ""))
		assert.Equal(t, "/posts", strapi.ResolveRootPath(descriptor))
		assert.Equal(t, "blog", descriptor.PluginName())
	})

	t.Run("table entries cannot be altered through descriptors", func(t *testing.T) {
		t.Parallel()

		descriptor := strapi.NewResourceDescriptor("users")
		*descriptor.Plugin.Prefix = "mutated"

		again := strapi.NewResourceDescriptor("users")
		assert.Equal(t, "/users", strapi.ResolveRootPath(again))
	})
}
