package strapi

// Plugin identifies the backend plugin that owns a resource.
type Plugin struct {
	// Name is the plugin identifier, e.g. "users-permissions".
	Name string `json:"name" yaml:"name"`
	// Prefix is the route prefix of the plugin. When nil the plugin name is
	// used; a non-nil empty string means "no prefix segment".
	Prefix *string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// String returns a pointer to s, for optional string fields such as
// Plugin.Prefix.
func String(s string) *string {
	return &s
}

// ResourceDescriptor identifies a manageable resource.
type ResourceDescriptor struct {
	// Name is the resource name, e.g. "articles" or "homepage".
	Name string
	// Path overrides the root path entirely when non-empty.
	Path string
	// Plugin is the owning plugin, if any.
	Plugin *Plugin
}

// PluginName returns the plugin identifier, or "" when no plugin is set.
func (d ResourceDescriptor) PluginName() string {
	if d.Plugin == nil {
		return ""
	}

	return d.Plugin.Name
}

// ResolveRootPath derives the root path of a resource: the explicit path when
// set, otherwise /{prefix}/{name} when a non-empty prefix resolves, otherwise
// /{name}.
func ResolveRootPath(descriptor ResourceDescriptor) string {
	if descriptor.Path != "" {
		return descriptor.Path
	}

	prefix := resolvePrefix(descriptor.Plugin)
	if prefix != "" {
		return "/" + prefix + "/" + descriptor.Name
	}

	return "/" + descriptor.Name
}

func resolvePrefix(plugin *Plugin) string {
	if plugin == nil {
		return ""
	}

	if plugin.Prefix != nil {
		return *plugin.Prefix
	}

	return plugin.Name
}
