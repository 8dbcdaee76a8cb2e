package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokoternak/catalog-admin/pkg/catalog"
	"github.com/tokoternak/catalog-admin/pkg/catalog/repo/memory"
)

func TestContactSettingsEndpoints(t *testing.T) {
	t.Run("first read creates empty defaults", func(t *testing.T) {
		handler := NewSettingsHandler(memory.New()).Routes()

		req := httptest.NewRequest(http.MethodGet, "/whatsapp", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp ContactSettings
		decodeJSON(t, rec, &resp)
		assert.Empty(t, resp.WhatsappNumber)
		assert.Empty(t, resp.MessageTemplate)
	})

	t.Run("update then read back", func(t *testing.T) {
		repo := memory.New()
		handler := NewSettingsHandler(repo).Routes()

		payload := `{"whatsapp_number": "6281234567890", "message_template": "Halo, saya tertarik dengan {name}"}`
		req := httptest.NewRequest(http.MethodPut, "/whatsapp", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whatsapp", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ContactSettings
		decodeJSON(t, rec, &resp)
		assert.Equal(t, "6281234567890", resp.WhatsappNumber)
		assert.Equal(t, "Halo, saya tertarik dengan {name}", resp.MessageTemplate)

		// One logical record backs the endpoint.
		rec2, err := repo.FirstSettings(context.Background(), "setting_wa")
		require.NoError(t, err)
		assert.Equal(t, "6281234567890", rec2.Fields["whatsapp_number"])
	})

	t.Run("reuses the discovered record across updates", func(t *testing.T) {
		repo := memory.New()
		handler := NewSettingsHandler(repo).Routes()

		for _, number := range []string{"628111", "628222", "628333"} {
			req := httptest.NewRequest(http.MethodPut, "/whatsapp", strings.NewReader(`{"whatsapp_number": "`+number+`", "message_template": ""}`))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
		}

		rec, err := repo.FirstSettings(context.Background(), "setting_wa")
		require.NoError(t, err)
		assert.Equal(t, "628333", rec.Fields["whatsapp_number"])
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := NewSettingsHandler(memory.New()).Routes()

		req := httptest.NewRequest(http.MethodPut, "/whatsapp", strings.NewReader("not-json"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSEOEndpoints(t *testing.T) {
	t.Run("unset SEO reads as empty object", func(t *testing.T) {
		handler := NewSettingsHandler(memory.New()).Routes()

		req := httptest.NewRequest(http.MethodGet, "/seo/landing", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp SEOSettings
		decodeJSON(t, rec, &resp)
		assert.Empty(t, resp.Title)
	})

	t.Run("upsert writes the fixed id", func(t *testing.T) {
		repo := memory.New()
		handler := NewSettingsHandler(repo).Routes()

		payload := `{"title": "Toko Ternak", "description": "Jual sapi dan kambing", "keywords": "sapi, kambing", "og_image": "https://cdn.test/og.png"}`
		req := httptest.NewRequest(http.MethodPut, "/seo/landing", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		stored, err := repo.GetSettings(context.Background(), "seo", seoLandingID)
		require.NoError(t, err)
		assert.Equal(t, "Toko Ternak", stored.Fields["title"])
	})

	t.Run("repeated upserts replace in place", func(t *testing.T) {
		repo := memory.New()
		handler := NewSettingsHandler(repo).Routes()

		for _, title := range []string{"v1", "v2"} {
			req := httptest.NewRequest(http.MethodPut, "/seo/landing", strings.NewReader(`{"title": "`+title+`"}`))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/seo/landing", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp SEOSettings
		decodeJSON(t, rec, &resp)
		assert.Equal(t, "v2", resp.Title)

		// Only one record exists in the collection.
		first, err := repo.FirstSettings(context.Background(), "seo")
		require.NoError(t, err)
		assert.Equal(t, seoLandingID, first.ID)
	})
}

var _ catalog.DocumentStore = (*memory.Repository)(nil)
