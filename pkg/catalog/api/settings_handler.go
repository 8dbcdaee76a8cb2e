package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/tokoternak/catalog-admin/pkg/catalog"
)

// seoLandingID is the deterministic id of the landing-page SEO record.
// Fixed up front, so concurrent writers upsert the same row instead of
// racing a discover-then-create.
var seoLandingID = uuid.MustParse("6f9e0d8a-3c41-4b87-9a52-1de07c55b2f4")

// SettingsHandler handles the contact settings and SEO configuration
// endpoints. Contact settings are a discovered singleton (the resolver
// finds the record's id on first read); SEO uses a fixed id.
type SettingsHandler struct {
	contact *catalog.SettingsResolver
	seo     *catalog.SettingsResolver
}

func NewSettingsHandler(docs catalog.DocumentStore) *SettingsHandler {
	return &SettingsHandler{
		contact: catalog.NewSettingsResolver(docs, "setting_wa"),
		seo:     catalog.NewSettingsResolver(docs, "seo"),
	}
}

// Routes returns the router for settings endpoints
func (h *SettingsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/whatsapp", h.GetContactSettings)
	r.Put("/whatsapp", h.UpdateContactSettings)
	r.Get("/seo/landing", h.GetSEO)
	r.Put("/seo/landing", h.UpdateSEO)
	return r
}

// ContactSettings is the WhatsApp contact configuration
type ContactSettings struct {
	WhatsappNumber  string `json:"whatsapp_number"`
	MessageTemplate string `json:"message_template"`
}

func (h *SettingsHandler) GetContactSettings(w http.ResponseWriter, r *http.Request) {
	rec, err := h.contact.GetOrCreate(r.Context(), map[string]any{
		"whatsapp_number":  "",
		"message_template": "",
	})
	if err != nil {
		slog.Error("Contact settings load failed", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, MessageResponse{Message: "Failed to load settings"})
		return
	}
	render.JSON(w, r, contactFromFields(rec.Fields))
}

func (h *SettingsHandler) UpdateContactSettings(w http.ResponseWriter, r *http.Request) {
	var req ContactSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, MessageResponse{Message: "Invalid request body"})
		return
	}

	rec, err := h.contact.Update(r.Context(), map[string]any{
		"whatsapp_number":  req.WhatsappNumber,
		"message_template": req.MessageTemplate,
	})
	if err != nil {
		slog.Error("Contact settings update failed", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, MessageResponse{Message: "Failed to save settings"})
		return
	}
	render.JSON(w, r, contactFromFields(rec.Fields))
}

// SEOSettings is the landing-page SEO configuration
type SEOSettings struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	OGImage     string `json:"og_image"`
}

func (h *SettingsHandler) GetSEO(w http.ResponseWriter, r *http.Request) {
	rec, err := h.seo.GetFixed(r.Context(), seoLandingID)
	if err != nil {
		if errors.Is(err, catalog.ErrSettingsNotFound) {
			render.JSON(w, r, SEOSettings{})
			return
		}
		slog.Error("SEO settings load failed", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, MessageResponse{Message: "Failed to load SEO settings"})
		return
	}
	render.JSON(w, r, seoFromFields(rec.Fields))
}

func (h *SettingsHandler) UpdateSEO(w http.ResponseWriter, r *http.Request) {
	var req SEOSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, MessageResponse{Message: "Invalid request body"})
		return
	}

	rec, err := h.seo.UpsertFixed(r.Context(), seoLandingID, map[string]any{
		"title":       req.Title,
		"description": req.Description,
		"keywords":    req.Keywords,
		"og_image":    req.OGImage,
	})
	if err != nil {
		slog.Error("SEO settings update failed", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, MessageResponse{Message: "Failed to save SEO settings"})
		return
	}
	render.JSON(w, r, seoFromFields(rec.Fields))
}

func contactFromFields(fields map[string]any) ContactSettings {
	return ContactSettings{
		WhatsappNumber:  stringField(fields, "whatsapp_number"),
		MessageTemplate: stringField(fields, "message_template"),
	}
}

func seoFromFields(fields map[string]any) SEOSettings {
	return SEOSettings{
		Title:       stringField(fields, "title"),
		Description: stringField(fields, "description"),
		Keywords:    stringField(fields, "keywords"),
		OGImage:     stringField(fields, "og_image"),
	}
}

func stringField(fields map[string]any, key string) string {
	if fields == nil {
		return ""
	}
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
