package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func homepageRoutes(r chi.Router) {
	r.Get("/custom-homepage", func(writer http.ResponseWriter, _ *http.Request) {
		writeJSON(writer, http.StatusOK, `{"data":{"id":1,"documentId":"home","headline":"Welcome"},"meta":{}}`)
	})
	r.Put("/custom-homepage", echoBody)
	r.Delete("/custom-homepage", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})
}

func TestSingleTypeManager(t *testing.T) {
	t.Parallel()

	t.Run("find", func(t *testing.T) {
		t.Parallel()

		fake := newFakeStrapi(t, homepageRoutes)

		doc, err := fake.client(t).Single("custom-homepage").
			Find(context.Background(), strapi.NewQueryParams().WithLocale("en"))
		require.NoError(t, err)

		assert.Equal(t, "/api/custom-homepage?locale=en", fake.last(t).RequestURI)
		assert.Equal(t, "home", doc.Data.DocumentID())
		assert.Equal(t, "Welcome", doc.Data["headline"])
	})

	t.Run("update wraps the payload", func(t *testing.T) {
		t.Parallel()

		fake := newFakeStrapi(t, homepageRoutes)

		_, err := fake.client(t).Single("custom-homepage").
			Update(context.Background(), map[string]interface{}{"headline": "Hi"}, nil)
		require.NoError(t, err)

		request := fake.last(t)
		assert.Equal(t, http.MethodPut, request.Method)
		assert.Equal(t, "/api/custom-homepage", request.RequestURI)
		assert.JSONEq(t, `{"data":{"headline":"Hi"}}`, request.Body)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		fake := newFakeStrapi(t, homepageRoutes)

		err := fake.client(t).Single("custom-homepage").
			Delete(context.Background(), strapi.NewQueryParams().WithLocale("fr"))
		require.NoError(t, err)

		assert.Equal(t, http.MethodDelete, fake.last(t).Method)
		assert.Equal(t, "/api/custom-homepage?locale=fr", fake.last(t).RequestURI)
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()

		fake := newFakeStrapi(t, func(r chi.Router) {
			r.Get("/custom-homepage", func(writer http.ResponseWriter, _ *http.Request) {
				writeJSON(writer, http.StatusInternalServerError,
					`{"data":null,"error":{"status":500,"name":"InternalServerError","message":"boom"}}`)
			})
		})

		_, err := fake.client(t).Single("custom-homepage").Find(context.Background(), nil)
		require.ErrorIs(t, err, strapi.ErrInternalServer)
		assert.Contains(t, err.Error(), "boom")
	})
}
