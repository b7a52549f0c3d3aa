package strapi

// UsersPermissionsPlugin is the identifier of the built-in user management plugin.
const UsersPermissionsPlugin = "users-permissions"

// WellKnownResourceConfig records how a resource deviates from the default
// content API contract.
type WellKnownResourceConfig struct {
	Plugin    Plugin
	WrapsData bool
}

// wellKnownResources is keyed by resource name and never mutated.
var wellKnownResources = map[string]WellKnownResourceConfig{
	"users": {
		Plugin:    Plugin{Name: UsersPermissionsPlugin, Prefix: String("")},
		WrapsData: false,
	},
}

// unwrappedPlugins lists the plugins whose write endpoints expect the raw
// payload instead of a {"data": ...} envelope.
var unwrappedPlugins = map[string]struct{}{
	UsersPermissionsPlugin: {},
}

// LookupWellKnownResource returns the contract override for a resource name.
func LookupWellKnownResource(name string) (WellKnownResourceConfig, bool) {
	config, ok := wellKnownResources[name]
	if !ok {
		return WellKnownResourceConfig{}, false
	}

	// Copy the prefix so callers cannot alter the table through the pointer.
	if config.Plugin.Prefix != nil {
		config.Plugin.Prefix = String(*config.Plugin.Prefix)
	}

	return config, true
}

// ShouldWrapPayload reports whether a create or update body must be sent as
// {"data": payload}. An empty plugin name means a regular content type.
func ShouldWrapPayload(pluginName string) bool {
	if pluginName == "" {
		return true
	}

	_, unwrapped := unwrappedPlugins[pluginName]

	return !unwrapped
}

// WrapPayload applies ShouldWrapPayload to data.
func WrapPayload(pluginName string, data interface{}) interface{} {
	if ShouldWrapPayload(pluginName) {
		return map[string]interface{}{"data": data}
	}

	return data
}
