package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/tokoternak/catalog-admin/pkg/catalog"
)

// ItemsHandler handles catalog item API endpoints
type ItemsHandler struct {
	service catalog.Service
}

func NewItemsHandler(service catalog.Service) *ItemsHandler {
	return &ItemsHandler{service: service}
}

// Routes returns the router for item endpoints
func (h *ItemsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListItems)
	r.Post("/", h.CreateItem)
	r.Get("/{id}", h.GetItem)
	r.Patch("/{id}", h.UpdateItem)
	r.Delete("/{id}", h.DeleteItem)
	return r
}

// ListItemsResponse is one page of items plus pagination state
type ListItemsResponse struct {
	Items      []*catalog.CatalogItem `json:"items"`
	NextCursor string                 `json:"next_cursor,omitempty"`
	HasMore    bool                   `json:"has_more"`
}

// ErrorResponse carries a message plus a machine-readable code for
// failures the UI handles differently (index provisioning vs retry).
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ListItems returns one page ordered by created_at descending. The cursor
// query parameter resumes a previous page; absence means first page.
func (h *ItemsHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	var cursor *catalog.Cursor
	if token := r.URL.Query().Get("cursor"); token != "" {
		c, err := catalog.DecodeCursor(token)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Message: "Invalid cursor"})
			return
		}
		cursor = &c
	}

	pageSize := catalog.DefaultPageSize
	if v := r.URL.Query().Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Message: "Invalid page size"})
			return
		}
		pageSize = n
	}

	page, err := h.service.ListItems(r.Context(), cursor, pageSize)
	if err != nil {
		h.renderListError(w, r, err)
		return
	}

	resp := ListItemsResponse{
		Items:   page.Items,
		HasMore: page.HasMore,
	}
	if resp.Items == nil {
		resp.Items = []*catalog.CatalogItem{}
	}
	if page.NextCursor != nil {
		resp.NextCursor = page.NextCursor.Encode()
	}
	render.JSON(w, r, resp)
}

// renderListError distinguishes operator-actionable schema problems from
// transient store failures so the UI can re-arm its load-more control on
// the latter.
func (h *ItemsHandler) renderListError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrIndexMissing):
		slog.Error("Listing requires a store index", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{
			Message: "The store is missing the index required for ordered listing",
			Code:    "index_missing",
		})
	case errors.Is(err, catalog.ErrNotAuthorized):
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, ErrorResponse{Message: "Not authorized", Code: "not_authorized"})
	case catalog.IsTransient(err):
		slog.Warn("Listing failed on transport", "error", err)
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, ErrorResponse{Message: "Store unavailable, retry", Code: "transient"})
	default:
		slog.Error("Listing failed", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Message: "Failed to load items"})
	}
}

// CreateItem accepts a multipart form: item fields plus a required "file"
// image. The asset is uploaded before the record is written; an upload
// failure leaves no record behind.
func (h *ItemsHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Message: "Failed to process form data"})
		return
	}

	req := catalog.CreateItemRequest{
		Name:        r.FormValue("name"),
		Category:    r.FormValue("category"),
		Available:   r.FormValue("available") == "true",
		Description: r.FormValue("description"),
	}

	var err error
	if v := r.FormValue("price"); v != "" {
		if req.Price, err = strconv.ParseFloat(v, 64); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Message: "Invalid price"})
			return
		}
	}
	if v := r.FormValue("weight"); v != "" {
		if req.Weight, err = strconv.ParseFloat(v, 64); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Message: "Invalid weight"})
			return
		}
	}

	if file, header, ferr := r.FormFile("file"); ferr == nil {
		defer file.Close()
		req.Asset = &catalog.AssetUpload{
			Data:        file,
			ContentType: header.Header.Get("Content-Type"),
			FileName:    header.Filename,
		}
	}

	item, err := h.service.CreateItem(r.Context(), req)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidInput) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Message: err.Error()})
			return
		}
		if errors.Is(err, catalog.ErrUploadFailed) {
			slog.Error("Asset upload failed during item create", "name", req.Name, "error", err)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, ErrorResponse{Message: "Upload failed"})
			return
		}
		slog.Error("Item create failed", "name", req.Name, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Message: "Failed to save item"})
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, item)
}

// GetItem returns a single item by id
func (h *ItemsHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, ErrorResponse{Message: "Item not found"})
			return
		}
		slog.Error("Item get failed", "item_id", id, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Message: "Failed to load item"})
		return
	}
	render.JSON(w, r, item)
}

// UpdateItemRequest is a partial JSON update; absent fields stay unchanged
type UpdateItemRequest struct {
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Available   *bool    `json:"available,omitempty"`
	Description *string  `json:"description,omitempty"`
	AssetURL    *string  `json:"asset_url,omitempty"`
}

// UpdateItem merges the provided fields into an existing item
func (h *ItemsHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Message: "Invalid request body"})
		return
	}

	item, err := h.service.UpdateItem(r.Context(), catalog.UpdateItemRequest{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Weight:      req.Weight,
		Available:   req.Available,
		Description: req.Description,
		AssetURL:    req.AssetURL,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, ErrorResponse{Message: "Item not found"})
			return
		}
		if errors.Is(err, catalog.ErrInvalidInput) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Message: err.Error()})
			return
		}
		slog.Error("Item update failed", "item_id", id, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Message: "Failed to update item"})
		return
	}
	render.JSON(w, r, item)
}

// DeleteItem removes an item and best-effort removes its asset
func (h *ItemsHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, ErrorResponse{Message: "Item not found"})
			return
		}
		slog.Error("Item delete failed", "item_id", id, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Message: "Failed to delete item"})
		return
	}
	render.JSON(w, r, MessageResponse{Message: "Item deleted successfully"})
}

func (h *ItemsHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Message: "Invalid item ID"})
		return uuid.Nil, false
	}
	return id, true
}

// StatsHandler exposes aggregate counters for the dashboard
type StatsHandler struct {
	service catalog.Service
}

func NewStatsHandler(service catalog.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetStats)
	return r
}

// StatsResponse carries dashboard counters
type StatsResponse struct {
	TotalItems int64 `json:"total_items"`
}

func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountItems(r.Context())
	if err != nil {
		slog.Error("Item count failed", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Message: "Failed to load stats"})
		return
	}
	render.JSON(w, r, StatsResponse{TotalItems: count})
}
