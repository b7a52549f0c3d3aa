package strapi

import (
	"context"
	"io"
)

// Client is the root of the API. Managers returned by Collection and Single
// are cheap to create and safe for concurrent use.
type Client interface {
	// BaseURL returns the normalised content API root.
	BaseURL() string
	// Collection returns a manager for a collection-type resource.
	Collection(name string, opts ...ResourceOption) CollectionTypeManager
	// Single returns a manager for a single-type resource.
	Single(name string, opts ...ResourceOption) SingleTypeManager
	// Files returns the media library manager.
	Files() FilesManager
	// Fetch sends a raw request relative to BaseURL through the configured
	// transport, including authentication and error mapping.
	Fetch(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*RawResponse, error)
}

// CollectionTypeManager manages a resource with many documents.
type CollectionTypeManager interface {
	Descriptor() ResourceDescriptor
	Find(ctx context.Context, params *QueryParams) (*CollectionResponse, error)
	FindOne(ctx context.Context, id string, params *QueryParams) (*SingleResponse, error)
	Create(ctx context.Context, data interface{}, params *QueryParams) (*SingleResponse, error)
	Update(ctx context.Context, id string, data interface{}, params *QueryParams) (*SingleResponse, error)
	Delete(ctx context.Context, id string, params *QueryParams) error
}

// SingleTypeManager manages a resource with exactly one document.
type SingleTypeManager interface {
	Descriptor() ResourceDescriptor
	Find(ctx context.Context, params *QueryParams) (*SingleResponse, error)
	Update(ctx context.Context, data interface{}, params *QueryParams) (*SingleResponse, error)
	Delete(ctx context.Context, params *QueryParams) error
}

// FilesManager manages media library files of the upload plugin.
type FilesManager interface {
	Find(ctx context.Context, params *QueryParams) ([]File, error)
	FindOne(ctx context.Context, id int64) (*File, error)
	Update(ctx context.Context, id int64, info FileInfo) (*File, error)
	Upload(ctx context.Context, files []UploadFile, info *FileInfo) ([]File, error)
	Delete(ctx context.Context, id int64) (*File, error)
}

// ResourceOption customises a ResourceDescriptor.
type ResourceOption func(*ResourceDescriptor)

// WithPath overrides the root path. An empty path leaves derivation in place.
func WithPath(path string) ResourceOption {
	return func(d *ResourceDescriptor) {
		d.Path = path
	}
}

// WithPlugin marks the resource as owned by plugin, which is also used as the
// path prefix.
func WithPlugin(name string) ResourceOption {
	return func(d *ResourceDescriptor) {
		d.Plugin = &Plugin{Name: name}
	}
}

// WithPluginPrefix marks the resource as owned by plugin and uses prefix as
// the path prefix. An empty prefix drops the prefix segment.
func WithPluginPrefix(name, prefix string) ResourceOption {
	return func(d *ResourceDescriptor) {
		d.Plugin = &Plugin{Name: name, Prefix: String(prefix)}
	}
}

// NewResourceDescriptor builds a descriptor for name. When no option sets a
// plugin, the well-known resource table is consulted.
func NewResourceDescriptor(name string, opts ...ResourceOption) ResourceDescriptor {
	descriptor := ResourceDescriptor{Name: name}

	for _, opt := range opts {
		opt(&descriptor)
	}

	if descriptor.Plugin == nil {
		if known, ok := LookupWellKnownResource(name); ok {
			plugin := known.Plugin
			descriptor.Plugin = &plugin
		}
	}

	return descriptor
}
