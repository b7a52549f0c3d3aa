package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fivetwenty-io/strapi-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/strapi-client/internal/http"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
)

// CollectionTypeManager implements strapi.CollectionTypeManager.
type CollectionTypeManager struct {
	httpClient *internalhttp.Client
	descriptor strapi.ResourceDescriptor
}

// NewCollectionTypeManager creates a new collection-type manager.
func NewCollectionTypeManager(httpClient *internalhttp.Client, descriptor strapi.ResourceDescriptor) *CollectionTypeManager {
	return &CollectionTypeManager{
		httpClient: httpClient,
		descriptor: descriptor,
	}
}

// Descriptor implements strapi.CollectionTypeManager.Descriptor.
func (m *CollectionTypeManager) Descriptor() strapi.ResourceDescriptor {
	return m.descriptor
}

// Find implements strapi.CollectionTypeManager.Find.
func (m *CollectionTypeManager) Find(ctx context.Context, params *strapi.QueryParams) (*strapi.CollectionResponse, error) {
	err := params.Validate()
	if err != nil {
		return nil, err
	}

	path := strapi.AppendQueryParams(m.rootPath(), params)

	resp, err := m.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("finding %s: %w", m.descriptor.Name, err)
	}

	var list strapi.CollectionResponse

	err = decodeBody(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing %s list: %w", m.descriptor.Name, err)
	}

	return &list, nil
}

// FindOne implements strapi.CollectionTypeManager.FindOne.
func (m *CollectionTypeManager) FindOne(ctx context.Context, id string, params *strapi.QueryParams) (*strapi.SingleResponse, error) {
	err := params.Validate()
	if err != nil {
		return nil, err
	}

	path := strapi.AppendQueryParams(m.documentPath(id), params)

	resp, err := m.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("finding %s %s: %w", m.descriptor.Name, id, err)
	}

	return parseSingle(resp, m.descriptor.Name)
}

// Create implements strapi.CollectionTypeManager.Create.
func (m *CollectionTypeManager) Create(ctx context.Context, data interface{}, params *strapi.QueryParams) (*strapi.SingleResponse, error) {
	err := params.Validate()
	if err != nil {
		return nil, err
	}

	resp, err := m.httpClient.Do(ctx, &internalhttp.Request{
		Method:  http.MethodPost,
		Path:    strapi.AppendQueryParams(m.rootPath(), params),
		Body:    strapi.WrapPayload(m.descriptor.PluginName(), data),
		Headers: jsonHeaders(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", m.descriptor.Name, err)
	}

	return parseSingle(resp, m.descriptor.Name)
}

// Update implements strapi.CollectionTypeManager.Update.
func (m *CollectionTypeManager) Update(ctx context.Context, id string, data interface{}, params *strapi.QueryParams) (*strapi.SingleResponse, error) {
	err := params.Validate()
	if err != nil {
		return nil, err
	}

	resp, err := m.httpClient.Do(ctx, &internalhttp.Request{
		Method:  http.MethodPut,
		Path:    strapi.AppendQueryParams(m.documentPath(id), params),
		Body:    strapi.WrapPayload(m.descriptor.PluginName(), data),
		Headers: jsonHeaders(),
	})
	if err != nil {
		return nil, fmt.Errorf("updating %s %s: %w", m.descriptor.Name, id, err)
	}

	return parseSingle(resp, m.descriptor.Name)
}

// Delete implements strapi.CollectionTypeManager.Delete.
func (m *CollectionTypeManager) Delete(ctx context.Context, id string, params *strapi.QueryParams) error {
	err := params.Validate()
	if err != nil {
		return err
	}

	_, err = m.httpClient.Delete(ctx, strapi.AppendQueryParams(m.documentPath(id), params))
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", m.descriptor.Name, id, err)
	}

	return nil
}

// rootPath is derived on every call; descriptors are immutable.
func (m *CollectionTypeManager) rootPath() string {
	return strapi.ResolveRootPath(m.descriptor)
}

func (m *CollectionTypeManager) documentPath(id string) string {
	return m.rootPath() + "/" + url.PathEscape(id)
}

func jsonHeaders() map[string]string {
	return map[string]string{constants.HeaderContentType: constants.ContentTypeJSON}
}

func parseSingle(resp *internalhttp.Response, name string) (*strapi.SingleResponse, error) {
	var single strapi.SingleResponse

	err := decodeBody(resp.Body, &single)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	return &single, nil
}

// decodeBody leaves out untouched when the body is empty, e.g. on 204.
func decodeBody(body []byte, out interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	return json.Unmarshal(body, out) //nolint:wrapcheck
}
