package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tokoternak/catalog-admin/pkg/catalog"
)

// maxUploadBytes caps multipart memory buffering for asset uploads.
const maxUploadBytes = 32 << 20

// AssetsHandler handles asset upload and deletion API endpoints
type AssetsHandler struct {
	service catalog.Service
}

func NewAssetsHandler(service catalog.Service) *AssetsHandler {
	return &AssetsHandler{service: service}
}

// Routes returns the router for asset endpoints
func (h *AssetsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/upload", h.UploadAsset)
	r.Delete("/delete-image", h.DeleteAsset)
	return r
}

// UploadResponse is the response body for a successful upload
type UploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// MessageResponse is a bare message body, used for errors and deletions
type MessageResponse struct {
	Message string `json:"message"`
}

// UploadAsset accepts a multipart form with a "file" field, stores the
// asset and returns its public URL
func (h *AssetsHandler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.Error("Failed to parse multipart form", "content_type", r.Header.Get("Content-Type"), "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, MessageResponse{Message: "Failed to process form data"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, MessageResponse{Message: "No file found"})
		return
	}
	defer file.Close()

	url, err := h.service.UploadAsset(r.Context(), catalog.UploadAssetRequest{
		Data:        file,
		ContentType: header.Header.Get("Content-Type"),
		FileName:    header.Filename,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidInput) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, MessageResponse{Message: "Invalid file type. Only images allowed."})
			return
		}
		slog.Error("Upload failed", "file_name", header.Filename, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, MessageResponse{Message: "Upload failed"})
		return
	}

	render.JSON(w, r, UploadResponse{Message: "Upload successful", URL: url})
}

// DeleteAssetRequest is the request body for deleting an asset by URL or key
type DeleteAssetRequest struct {
	URL string `json:"url,omitempty"`
	Key string `json:"key,omitempty"`
}

// DeleteAsset removes a stored asset identified by key or public URL
func (h *AssetsHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	var req DeleteAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, MessageResponse{Message: "Invalid request body"})
		return
	}

	if req.URL == "" && req.Key == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, MessageResponse{Message: "URL or Key is required"})
		return
	}

	err := h.service.DeleteAsset(r.Context(), catalog.DeleteAssetRequest{URL: req.URL, Key: req.Key})
	if err != nil {
		// Deleting an already-absent object is a success for the caller.
		if errors.Is(err, catalog.ErrAssetNotFound) {
			render.JSON(w, r, MessageResponse{Message: "Image deleted successfully"})
			return
		}
		if errors.Is(err, catalog.ErrInvalidInput) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, MessageResponse{Message: "Could not determine object key"})
			return
		}
		slog.Error("Delete asset failed", "url", req.URL, "key", req.Key, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, MessageResponse{Message: "Failed to delete image"})
		return
	}

	render.JSON(w, r, MessageResponse{Message: "Image deleted successfully"})
}
