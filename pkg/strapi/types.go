package strapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Document is a single entry as returned by the content API.
type Document map[string]interface{}

// DocumentID returns the documentId attribute, or "" when absent.
func (d Document) DocumentID() string {
	if id, ok := d["documentId"].(string); ok {
		return id
	}

	return ""
}

// Pagination represents the pagination block of a list response.
type Pagination struct {
	Page      int `json:"page,omitempty"      yaml:"page,omitempty"`
	PageSize  int `json:"pageSize,omitempty"  yaml:"pageSize,omitempty"`
	PageCount int `json:"pageCount,omitempty" yaml:"pageCount,omitempty"`
	Total     int `json:"total"               yaml:"total"`
	Start     int `json:"start,omitempty"     yaml:"start,omitempty"`
	Limit     int `json:"limit,omitempty"     yaml:"limit,omitempty"`
}

// ResponseMeta represents the meta block of a response envelope.
type ResponseMeta struct {
	Pagination *Pagination `json:"pagination,omitempty" yaml:"pagination,omitempty"`
}

// CollectionResponse is the envelope returned when listing documents.
//
// Endpoints of the users-permissions plugin answer with a bare JSON array;
// such bodies are decoded into Data with an empty Meta. Raw always holds the
// body exactly as received.
type CollectionResponse struct {
	Data []Document      `json:"data" yaml:"data"`
	Meta ResponseMeta    `json:"meta" yaml:"meta"`
	Raw  json.RawMessage `json:"-"    yaml:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *CollectionResponse) UnmarshalJSON(data []byte) error {
	r.Raw = append(r.Raw[:0], data...)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &r.Data)
	}

	var envelope struct {
		Data []Document   `json:"data"`
		Meta ResponseMeta `json:"meta"`
	}

	err := json.Unmarshal(trimmed, &envelope)
	if err != nil {
		return fmt.Errorf("decoding collection envelope: %w", err)
	}

	r.Data = envelope.Data
	r.Meta = envelope.Meta

	return nil
}

// SingleResponse is the envelope returned for a single document.
//
// A body that is a JSON object without a "data" key (users-permissions) is
// decoded into Data as-is.
type SingleResponse struct {
	Data Document        `json:"data" yaml:"data"`
	Meta ResponseMeta    `json:"meta" yaml:"meta"`
	Raw  json.RawMessage `json:"-"    yaml:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *SingleResponse) UnmarshalJSON(data []byte) error {
	r.Raw = append(r.Raw[:0], data...)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var fields map[string]json.RawMessage

	err := json.Unmarshal(trimmed, &fields)
	if err != nil {
		return fmt.Errorf("decoding single envelope: %w", err)
	}

	rawData, wrapped := fields["data"]
	if !wrapped {
		return json.Unmarshal(trimmed, &r.Data)
	}

	err = json.Unmarshal(rawData, &r.Data)
	if err != nil {
		return fmt.Errorf("decoding single envelope data: %w", err)
	}

	if rawMeta, ok := fields["meta"]; ok {
		err = json.Unmarshal(rawMeta, &r.Meta)
		if err != nil {
			return fmt.Errorf("decoding single envelope meta: %w", err)
		}
	}

	return nil
}

// DecodeData decodes the data member of a raw response body into T. Bodies
// without an envelope are decoded whole.
func DecodeData[T any](raw json.RawMessage) (T, error) {
	var out T

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		err := json.Unmarshal(trimmed, &envelope)
		if err == nil && envelope.Data != nil {
			trimmed = envelope.Data
		}
	}

	err := json.Unmarshal(trimmed, &out)
	if err != nil {
		return out, fmt.Errorf("decoding response data: %w", err)
	}

	return out, nil
}

// RawResponse is returned by Client.Fetch.
type RawResponse struct {
	StatusCode int
	Headers    map[string][]string
	Body       []byte
}

// FileFormat represents one generated rendition of an uploaded image.
type FileFormat struct {
	Name   string  `json:"name"   yaml:"name"`
	Hash   string  `json:"hash"   yaml:"hash"`
	Ext    string  `json:"ext"    yaml:"ext"`
	Mime   string  `json:"mime"   yaml:"mime"`
	Path   *string `json:"path"   yaml:"path"`
	Width  int     `json:"width"  yaml:"width"`
	Height int     `json:"height" yaml:"height"`
	Size   float64 `json:"size"   yaml:"size"`
	URL    string  `json:"url"    yaml:"url"`
}

// File describes a media asset managed by the upload plugin.
type File struct {
	ID               int64                 `json:"id"                          yaml:"id"`
	DocumentID       string                `json:"documentId"                  yaml:"documentId"`
	Name             string                `json:"name"                        yaml:"name"`
	AlternativeText  *string               `json:"alternativeText"             yaml:"alternativeText"`
	Caption          *string               `json:"caption"                     yaml:"caption"`
	Width            *int                  `json:"width"                       yaml:"width"`
	Height           *int                  `json:"height"                      yaml:"height"`
	Formats          map[string]FileFormat `json:"formats,omitempty"           yaml:"formats,omitempty"`
	Hash             string                `json:"hash"                        yaml:"hash"`
	Ext              string                `json:"ext"                         yaml:"ext"`
	Mime             string                `json:"mime"                        yaml:"mime"`
	Size             float64               `json:"size"                        yaml:"size"`
	URL              string                `json:"url"                         yaml:"url"`
	PreviewURL       *string               `json:"previewUrl"                  yaml:"previewUrl"`
	Provider         string                `json:"provider"                    yaml:"provider"`
	ProviderMetadata interface{}           `json:"provider_metadata,omitempty" yaml:"provider_metadata,omitempty"`
	FolderPath       string                `json:"folderPath,omitempty"        yaml:"folderPath,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"                   yaml:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"                   yaml:"updatedAt"`
	PublishedAt      *time.Time            `json:"publishedAt,omitempty"       yaml:"publishedAt,omitempty"`
}

// FileInfo holds the editable metadata of a file.
type FileInfo struct {
	Name            string `json:"name,omitempty"            yaml:"name,omitempty"`
	AlternativeText string `json:"alternativeText,omitempty" yaml:"alternativeText,omitempty"`
	Caption         string `json:"caption,omitempty"         yaml:"caption,omitempty"`
}

// UploadFile is one binary part of an upload request.
type UploadFile struct {
	// Name is the file name sent in the multipart part.
	Name string
	// ContentType defaults to application/octet-stream when empty.
	ContentType string
	// Content is read until EOF.
	Content io.Reader
}
