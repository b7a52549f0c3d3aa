package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fivetwenty-io/strapi-client/internal/client"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storedFile = `{"id":7,"documentId":"f7","name":"cat.png","alternativeText":null,"caption":null,` +
	`"hash":"cat_1","ext":".png","mime":"image/png","size":12.5,"url":"/uploads/cat_1.png",` +
	`"previewUrl":null,"provider":"local","createdAt":"2024-05-01T12:00:00.000Z","updatedAt":"2024-05-01T12:00:00.000Z"}`

// uploadForm is the decoded multipart request seen by the fake server.
type uploadForm struct {
	FileInfo string
	Files    map[string]string
}

func uploadRoutes(forms chan<- uploadForm) func(r chi.Router) {
	return func(r chi.Router) {
		r.Get("/upload/files", func(writer http.ResponseWriter, _ *http.Request) {
			writeJSON(writer, http.StatusOK, "["+storedFile+"]")
		})
		r.Get("/upload/files/{id}", func(writer http.ResponseWriter, request *http.Request) {
			switch chi.URLParam(request, "id") {
			case "7":
				writeJSON(writer, http.StatusOK, storedFile)
			case "8":
				writeJSON(writer, http.StatusForbidden,
					`{"data":null,"error":{"status":403,"name":"ForbiddenError","message":"Forbidden"}}`)
			default:
				notFound(writer, request)
			}
		})
		r.Delete("/upload/files/{id}", func(writer http.ResponseWriter, request *http.Request) {
			if chi.URLParam(request, "id") != "7" {
				notFound(writer, request)

				return
			}

			writeJSON(writer, http.StatusOK, storedFile)
		})
		r.Post("/upload", func(writer http.ResponseWriter, request *http.Request) {
			err := request.ParseMultipartForm(1 << 20)
			if err != nil {
				writer.WriteHeader(http.StatusBadRequest)

				return
			}

			form := uploadForm{Files: map[string]string{}}
			if values := request.MultipartForm.Value["fileInfo"]; len(values) > 0 {
				form.FileInfo = values[0]
			}

			for _, header := range request.MultipartForm.File["files"] {
				file, _ := header.Open()
				content, _ := io.ReadAll(file)
				_ = file.Close()
				form.Files[header.Filename] = header.Header.Get("Content-Type") + ":" + string(content)
			}

			forms <- form

			if request.URL.Query().Get("id") != "" {
				writeJSON(writer, http.StatusOK, storedFile)

				return
			}

			writeJSON(writer, http.StatusCreated, "["+storedFile+"]")
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestFilesManager(t *testing.T) {
	t.Parallel()

	t.Run("find", func(t *testing.T) {
		t.Parallel()

		fake := newFakeStrapi(t, uploadRoutes(nil))

		files, err := fake.client(t).Files().Find(context.Background(),
			strapi.NewQueryParams().WithFilters(strapi.Object{
				strapi.F("mime", strapi.Object{strapi.F("$contains", "image")}),
			}).WithSort("name:asc"))
		require.NoError(t, err)

		assert.Equal(t, "/api/upload/files?filters%5Bmime%5D%5B%24contains%5D=image&sort=name%3Aasc",
			fake.last(t).RequestURI)
		require.Len(t, files, 1)
		assert.Equal(t, int64(7), files[0].ID)
		assert.Equal(t, "image/png", files[0].Mime)
		assert.Nil(t, files[0].AlternativeText)
	})

	t.Run("find one", func(t *testing.T) {
		t.Parallel()

		fake := newFakeStrapi(t, uploadRoutes(nil))

		file, err := fake.client(t).Files().FindOne(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "cat.png", file.Name)
		assert.Equal(t, "/api/upload/files/7", fake.last(t).RequestURI)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		fake := newFakeStrapi(t, uploadRoutes(nil))

		_, err := fake.client(t).Files().FindOne(context.Background(), 99)

		notFoundErr := &strapi.FileNotFoundError{}
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, int64(99), notFoundErr.FileID)
		require.ErrorIs(t, err, strapi.ErrNotFound)
	})

	t.Run("forbidden file", func(t *testing.T) {
		t.Parallel()

		fake := newFakeStrapi(t, uploadRoutes(nil))

		_, err := fake.client(t).Files().FindOne(context.Background(), 8)

		forbiddenErr := &strapi.FileForbiddenError{}
		require.ErrorAs(t, err, &forbiddenErr)
		assert.Equal(t, int64(8), forbiddenErr.FileID)
	})

	t.Run("file errors do not leak into documents", func(t *testing.T) {
		t.Parallel()

		fake := newFakeStrapi(t, func(r chi.Router) {
			uploadRoutes(nil)(r)
			articleRoutes(r)
		})
		cli := fake.client(t)

		_, err := cli.Files().FindOne(context.Background(), 99)
		require.Error(t, err)

		_, err = cli.Collection("articles").FindOne(context.Background(), "missing", nil)
		require.ErrorIs(t, err, strapi.ErrNotFound)

		notFoundErr := &strapi.FileNotFoundError{}
		assert.NotErrorAs(t, err, &notFoundErr)
	})

	t.Run("upload", func(t *testing.T) {
		t.Parallel()

		forms := make(chan uploadForm, 1)
		fake := newFakeStrapi(t, uploadRoutes(forms))

		uploaded, err := fake.client(t).Files().Upload(context.Background(), []strapi.UploadFile{
			{Name: "cat.png", ContentType: "image/png", Content: strings.NewReader("png-bytes")},
		}, &strapi.FileInfo{AlternativeText: "A cat"})
		require.NoError(t, err)
		require.Len(t, uploaded, 1)

		form := <-forms
		assert.JSONEq(t, `{"alternativeText":"A cat"}`, form.FileInfo)
		assert.Equal(t, map[string]string{"cat.png": "image/png:png-bytes"}, form.Files)
		assert.True(t, strings.HasPrefix(fake.last(t).ContentType, "multipart/form-data"))
	})

	t.Run("upload without files", func(t *testing.T) {
		t.Parallel()

		fake := newFakeStrapi(t, uploadRoutes(nil))

		_, err := fake.client(t).Files().Upload(context.Background(), nil, nil)
		require.Error(t, err)
	})

	t.Run("update sends only file info", func(t *testing.T) {
		t.Parallel()

		forms := make(chan uploadForm, 1)
		fake := newFakeStrapi(t, uploadRoutes(forms))

		file, err := fake.client(t).Files().Update(context.Background(), 7, strapi.FileInfo{Name: "kitten.png", Caption: "cute"})
		require.NoError(t, err)
		assert.Equal(t, int64(7), file.ID)

		form := <-forms
		assert.Empty(t, form.Files)

		var info map[string]string
		require.NoError(t, json.Unmarshal([]byte(form.FileInfo), &info))
		assert.Equal(t, map[string]string{"name": "kitten.png", "caption": "cute"}, info)
		assert.Equal(t, "/api/upload?id=7", fake.last(t).RequestURI)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		fake := newFakeStrapi(t, uploadRoutes(nil))

		file, err := fake.client(t).Files().Delete(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "cat.png", file.Name)
		assert.Equal(t, http.MethodDelete, fake.last(t).Method)

		_, err = fake.client(t).Files().Delete(context.Background(), 12)

		notFoundErr := &strapi.FileNotFoundError{}
		require.ErrorAs(t, err, &notFoundErr)
	})
}

func TestFilesManager_Timeout(t *testing.T) {
	t.Parallel()

	slowRoutes := func(r chi.Router) {
		r.Get("/upload/files", func(writer http.ResponseWriter, request *http.Request) {
			select {
			case <-time.After(300 * time.Millisecond):
			case <-request.Context().Done():
			}

			writeJSON(writer, http.StatusOK, "[]")
		})
	}

	t.Run("configured timeout bounds file requests", func(t *testing.T) {
		t.Parallel()

		fake := newFakeStrapi(t, slowRoutes)

		cli, err := client.New(&strapi.Config{BaseURL: fake.URL + "/api", Timeout: 50 * time.Millisecond})
		require.NoError(t, err)

		_, err = cli.Files().Find(context.Background(), nil)
		require.Error(t, err)
		assert.True(t, strapi.IsConnectionError(err))
	})

	t.Run("upload timeout overrides it", func(t *testing.T) {
		t.Parallel()

		fake := newFakeStrapi(t, slowRoutes)

		cli, err := client.New(&strapi.Config{
			BaseURL:       fake.URL + "/api",
			Timeout:       50 * time.Millisecond,
			UploadTimeout: 5 * time.Second,
		})
		require.NoError(t, err)

		files, err := cli.Files().Find(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}
