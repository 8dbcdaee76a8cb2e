package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokoternak/catalog-admin/pkg/catalog"
)

func itemForm(name, price, weight string) map[string]string {
	return map[string]string{
		"name":      name,
		"category":  "sapi",
		"price":     price,
		"weight":    weight,
		"available": "true",
	}
}

func createItemViaAPI(t *testing.T, handler http.Handler, name string) catalog.CatalogItem {
	t.Helper()

	body, contentType := multipartUpload(t, itemForm(name, "1500000", "250"), name+".png", "image/png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var item catalog.CatalogItem
	decodeJSON(t, rec, &item)
	return item
}

func TestCreateItemEndpoint(t *testing.T) {
	t.Run("creates with uploaded asset", func(t *testing.T) {
		svc, _, store := newTestService(t)
		handler := NewItemsHandler(svc).Routes()

		item := createItemViaAPI(t, handler, "limousin")
		assert.Equal(t, "limousin", item.Name)
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.True(t, strings.HasPrefix(item.AssetURL, "https://cdn.test/assets/"))
		assert.Equal(t, 1, store.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		handler := NewItemsHandler(svc).Routes()

		body, contentType := multipartUpload(t, itemForm("limousin", "1500000", "250"), "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unparseable price", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		handler := NewItemsHandler(svc).Routes()

		body, contentType := multipartUpload(t, itemForm("limousin", "murah", "250"), "a.png", "image/png", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp ErrorResponse
		decodeJSON(t, rec, &resp)
		assert.Equal(t, "Invalid price", resp.Message)
	})

	t.Run("non-image file leaves no record", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		handler := NewItemsHandler(svc).Routes()

		body, contentType := multipartUpload(t, itemForm("limousin", "1500000", "250"), "notes.txt", "text/plain", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		count, err := repo.CountItems(context.Background())
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestGetItemEndpoint(t *testing.T) {
	svc, _, _ := newTestService(t)
	handler := NewItemsHandler(svc).Routes()
	created := createItemViaAPI(t, handler, "limousin")

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/"+created.ID.String(), nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var item catalog.CatalogItem
		decodeJSON(t, rec, &item)
		assert.Equal(t, created.ID, item.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateItemEndpoint(t *testing.T) {
	svc, _, _ := newTestService(t)
	handler := NewItemsHandler(svc).Routes()
	created := createItemViaAPI(t, handler, "limousin")

	t.Run("partial merge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/"+created.ID.String(), strings.NewReader(`{"price": 2000000}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var item catalog.CatalogItem
		decodeJSON(t, rec, &item)
		assert.Equal(t, float64(2000000), item.Price)
		assert.Equal(t, "limousin", item.Name, "absent fields stay unchanged")
		assert.Equal(t, created.AssetURL, item.AssetURL)
	})

	t.Run("validation failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/"+created.ID.String(), strings.NewReader(`{"price": -5}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/"+uuid.NewString(), strings.NewReader(`{"price": 100}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteItemEndpoint(t *testing.T) {
	svc, repo, store := newTestService(t)
	handler := NewItemsHandler(svc).Routes()
	created := createItemViaAPI(t, handler, "limousin")

	req := httptest.NewRequest(http.MethodDelete, "/"+created.ID.String(), nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Zero(t, store.Len(), "asset removed with the record")

	_, err := repo.GetItem(context.Background(), created.ID)
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)

	// Second delete is a 404.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/"+created.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListItemsEndpoint(t *testing.T) {
	svc, repo, _ := newTestService(t)
	handler := NewItemsHandler(svc).Routes()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		require.NoError(t, repo.CreateItem(context.Background(), &catalog.CatalogItem{
			ID:        uuid.New(),
			Name:      fmt.Sprintf("item-%02d", i+1),
			Category:  "sapi",
			Price:     1000,
			Weight:    250,
			Available: true,
			AssetURL:  "https://cdn.test/assets/a.png",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	t.Run("paginates with cursor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var first ListItemsResponse
		decodeJSON(t, rec, &first)
		require.Len(t, first.Items, catalog.DefaultPageSize)
		assert.True(t, first.HasMore)
		require.NotEmpty(t, first.NextCursor)
		assert.Equal(t, "item-12", first.Items[0].Name)

		req = httptest.NewRequest(http.MethodGet, "/?cursor="+first.NextCursor, nil)
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var second ListItemsResponse
		decodeJSON(t, rec, &second)
		require.Len(t, second.Items, 2)
		assert.Equal(t, "item-02", second.Items[0].Name)
		assert.Equal(t, "item-01", second.Items[1].Name)
		assert.False(t, second.HasMore)
	})

	t.Run("custom page size", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?page_size=5", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ListItemsResponse
		decodeJSON(t, rec, &resp)
		assert.Len(t, resp.Items, 5)
		assert.True(t, resp.HasMore)
	})

	t.Run("invalid page size", func(t *testing.T) {
		for _, v := range []string{"0", "-1", "101", "ten"} {
			req := httptest.NewRequest(http.MethodGet, "/?page_size="+v, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code, "page_size=%s", v)
		}
	})

	t.Run("invalid cursor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?cursor=garbage", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListItemsEmptyStore(t *testing.T) {
	svc, _, _ := newTestService(t)
	handler := NewItemsHandler(svc).Routes()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// items must encode as [], not null.
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

// listFailingService stubs ListItems; everything else panics if reached.
type listFailingService struct {
	catalog.Service
	err error
}

func (s *listFailingService) ListItems(ctx context.Context, cursor *catalog.Cursor, pageSize int) (*catalog.Page, error) {
	return nil, s.err
}

func TestListItemsErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing index is operator-actionable",
			err:        fmt.Errorf("query items: %w", catalog.ErrIndexMissing),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "index_missing",
		},
		{
			name:       "not authorized",
			err:        fmt.Errorf("query items: %w", catalog.ErrNotAuthorized),
			wantStatus: http.StatusForbidden,
			wantCode:   "not_authorized",
		},
		{
			name:       "transport failure invites retry",
			err:        &catalog.TransportError{Op: "query", Err: fmt.Errorf("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "transient",
		},
		{
			name:       "unclassified failure",
			err:        fmt.Errorf("something else"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewItemsHandler(&listFailingService{err: tt.err}).Routes()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ErrorResponse
			decodeJSON(t, rec, &resp)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestStatsEndpoint(t *testing.T) {
	svc, repo, _ := newTestService(t)
	handler := NewStatsHandler(svc).Routes()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatsResponse
	decodeJSON(t, rec, &resp)
	assert.Zero(t, resp.TotalItems)

	require.NoError(t, repo.CreateItem(context.Background(), &catalog.CatalogItem{
		ID:        uuid.New(),
		Name:      "limousin",
		CreatedAt: time.Now().UTC(),
	}))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &resp)
	assert.Equal(t, int64(1), resp.TotalItems)
}
