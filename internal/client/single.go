package client

import (
	"context"
	"fmt"
	"net/http"

	internalhttp "github.com/fivetwenty-io/strapi-client/internal/http"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
)

// SingleTypeManager implements strapi.SingleTypeManager.
type SingleTypeManager struct {
	httpClient *internalhttp.Client
	descriptor strapi.ResourceDescriptor
}

// NewSingleTypeManager creates a new single-type manager.
func NewSingleTypeManager(httpClient *internalhttp.Client, descriptor strapi.ResourceDescriptor) *SingleTypeManager {
	return &SingleTypeManager{
		httpClient: httpClient,
		descriptor: descriptor,
	}
}

// Descriptor implements strapi.SingleTypeManager.Descriptor.
func (m *SingleTypeManager) Descriptor() strapi.ResourceDescriptor {
	return m.descriptor
}

// Find implements strapi.SingleTypeManager.Find.
func (m *SingleTypeManager) Find(ctx context.Context, params *strapi.QueryParams) (*strapi.SingleResponse, error) {
	err := params.Validate()
	if err != nil {
		return nil, err
	}

	resp, err := m.httpClient.Get(ctx, strapi.AppendQueryParams(strapi.ResolveRootPath(m.descriptor), params), nil)
	if err != nil {
		return nil, fmt.Errorf("finding %s: %w", m.descriptor.Name, err)
	}

	return parseSingle(resp, m.descriptor.Name)
}

// Update implements strapi.SingleTypeManager.Update.
func (m *SingleTypeManager) Update(ctx context.Context, data interface{}, params *strapi.QueryParams) (*strapi.SingleResponse, error) {
	err := params.Validate()
	if err != nil {
		return nil, err
	}

	resp, err := m.httpClient.Do(ctx, &internalhttp.Request{
		Method:  http.MethodPut,
		Path:    strapi.AppendQueryParams(strapi.ResolveRootPath(m.descriptor), params),
		Body:    strapi.WrapPayload(m.descriptor.PluginName(), data),
		Headers: jsonHeaders(),
	})
	if err != nil {
		return nil, fmt.Errorf("updating %s: %w", m.descriptor.Name, err)
	}

	return parseSingle(resp, m.descriptor.Name)
}

// Delete implements strapi.SingleTypeManager.Delete.
func (m *SingleTypeManager) Delete(ctx context.Context, params *strapi.QueryParams) error {
	err := params.Validate()
	if err != nil {
		return err
	}

	_, err = m.httpClient.Delete(ctx, strapi.AppendQueryParams(strapi.ResolveRootPath(m.descriptor), params))
	if err != nil {
		return fmt.Errorf("deleting %s: %w", m.descriptor.Name, err)
	}

	return nil
}
