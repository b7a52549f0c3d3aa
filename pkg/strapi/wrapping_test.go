package strapi_test

import (
	"testing"

	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
	"github.com/stretchr/testify/assert"
)

func TestShouldWrapPayload(t *testing.T) {
	t.Parallel()

	assert.True(t, strapi.ShouldWrapPayload(""))
	assert.False(t, strapi.ShouldWrapPayload("users-permissions"))
	assert.True(t, strapi.ShouldWrapPayload("any-other-plugin"))
}

func TestWrapPayload(t *testing.T) {
	t.Parallel()

	payload := map[string]interface{}{"title": "t"}

	assert.Equal(t, map[string]interface{}{"data": payload}, strapi.WrapPayload("", payload))
	assert.Equal(t, map[string]interface{}{"data": payload}, strapi.WrapPayload("blog", payload))
	assert.Equal(t, payload, strapi.WrapPayload(strapi.UsersPermissionsPlugin, payload))
}

func TestLookupWellKnownResource(t *testing.T) {
	t.Parallel()

	config, ok := strapi.LookupWellKnownResource("users")
	assert.True(t, ok)
	assert.Equal(t, strapi.UsersPermissionsPlugin, config.Plugin.Name)
	assert.False(t, config.WrapsData)

	if assert.NotNil(t, config.Plugin.Prefix) {
		assert.Empty(t, *config.Plugin.Prefix)
	}

	_, ok = strapi.LookupWellKnownResource("articles")
	assert.False(t, ok)
}
