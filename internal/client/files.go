package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fivetwenty-io/strapi-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/strapi-client/internal/http"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
)

type fileIDKey struct{}

// FilesManager implements strapi.FilesManager on top of the upload plugin.
type FilesManager struct {
	httpClient *internalhttp.Client
}

// NewFilesManager creates a files manager. It uses its own clone of
// httpClient so the file error mapping and timeout do not leak into other
// managers.
func NewFilesManager(httpClient *internalhttp.Client, timeout time.Duration) *FilesManager {
	return &FilesManager{
		httpClient: httpClient.Clone(
			internalhttp.WithTimeout(timeout),
			internalhttp.WithResponseInterceptor(FileErrorInterceptor()),
		),
	}
}

// FileErrorInterceptor maps 404 and 403 responses of requests addressing a
// known file to *strapi.FileNotFoundError and *strapi.FileForbiddenError.
func FileErrorInterceptor() strapi.ResponseInterceptor {
	return func(ctx context.Context, req *strapi.Request, resp *strapi.Response) error {
		fileID, ok := ctx.Value(fileIDKey{}).(int64)
		if !ok || resp.Error == nil {
			return nil
		}

		httpErr := &strapi.HTTPError{}
		if !errors.As(resp.Error, &httpErr) {
			return nil
		}

		switch httpErr.StatusCode {
		case http.StatusNotFound:
			resp.Error = &strapi.FileNotFoundError{FileID: fileID, Err: httpErr}
		case http.StatusForbidden:
			resp.Error = &strapi.FileForbiddenError{FileID: fileID, Err: httpErr}
		}

		return nil
	}
}

// Find implements strapi.FilesManager.Find.
func (m *FilesManager) Find(ctx context.Context, params *strapi.QueryParams) ([]strapi.File, error) {
	err := params.Validate()
	if err != nil {
		return nil, err
	}

	resp, err := m.httpClient.Get(ctx, strapi.AppendQueryParams(constants.UploadFilesPath, params), nil)
	if err != nil {
		return nil, fmt.Errorf("finding files: %w", err)
	}

	var files []strapi.File

	err = decodeBody(resp.Body, &files)
	if err != nil {
		return nil, fmt.Errorf("parsing files list: %w", err)
	}

	return files, nil
}

// FindOne implements strapi.FilesManager.FindOne.
func (m *FilesManager) FindOne(ctx context.Context, id int64) (*strapi.File, error) {
	resp, err := m.httpClient.Get(withFileID(ctx, id), filePath(id), nil)
	if err != nil {
		return nil, fmt.Errorf("finding file %d: %w", id, err)
	}

	return parseFile(resp)
}

// Update implements strapi.FilesManager.Update. Only metadata is changed.
func (m *FilesManager) Update(ctx context.Context, id int64, info strapi.FileInfo) (*strapi.File, error) {
	fileInfo, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("marshaling file info: %w", err)
	}

	path := constants.UploadPath + "?id=" + strconv.FormatInt(id, 10)

	resp, err := m.httpClient.PostMultipart(withFileID(ctx, id), path, map[string]string{
		constants.UploadFileInfoField: string(fileInfo),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("updating file %d: %w", id, err)
	}

	return parseFile(resp)
}

// Upload implements strapi.FilesManager.Upload. info, when set, applies to
// every uploaded file.
func (m *FilesManager) Upload(ctx context.Context, files []strapi.UploadFile, info *strapi.FileInfo) ([]strapi.File, error) {
	if len(files) == 0 {
		return nil, constants.ErrNoFilesGiven
	}

	fields := map[string]string{}

	if info != nil {
		fileInfo, err := json.Marshal(info)
		if err != nil {
			return nil, fmt.Errorf("marshaling file info: %w", err)
		}

		fields[constants.UploadFileInfoField] = string(fileInfo)
	}

	parts := make([]internalhttp.FormFile, 0, len(files))
	for _, file := range files {
		parts = append(parts, internalhttp.FormFile{
			FieldName:   constants.UploadFilesField,
			FileName:    file.Name,
			ContentType: file.ContentType,
			Content:     file.Content,
		})
	}

	resp, err := m.httpClient.PostMultipart(ctx, constants.UploadPath, fields, parts)
	if err != nil {
		return nil, fmt.Errorf("uploading files: %w", err)
	}

	var uploaded []strapi.File

	err = decodeBody(resp.Body, &uploaded)
	if err != nil {
		return nil, fmt.Errorf("parsing uploaded files: %w", err)
	}

	return uploaded, nil
}

// Delete implements strapi.FilesManager.Delete.
func (m *FilesManager) Delete(ctx context.Context, id int64) (*strapi.File, error) {
	resp, err := m.httpClient.Delete(withFileID(ctx, id), filePath(id))
	if err != nil {
		return nil, fmt.Errorf("deleting file %d: %w", id, err)
	}

	return parseFile(resp)
}

func withFileID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, fileIDKey{}, id)
}

func filePath(id int64) string {
	return constants.UploadFilesPath + "/" + strconv.FormatInt(id, 10)
}

func parseFile(resp *internalhttp.Response) (*strapi.File, error) {
	var file strapi.File

	err := decodeBody(resp.Body, &file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	return &file, nil
}
