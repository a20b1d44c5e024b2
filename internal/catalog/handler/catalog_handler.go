// Package handler exposes the media catalog endpoints.
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pelicanmedia/pelican/internal/catalog/service"
	"github.com/pelicanmedia/pelican/internal/httpx"
	"github.com/pelicanmedia/pelican/internal/middleware"
	"github.com/pelicanmedia/pelican/pkg/errors"
	"github.com/pelicanmedia/pelican/pkg/interfaces"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxUploadBytes  = 512 << 20
)

// CatalogHandler serves the /api/media routes.
type CatalogHandler struct {
	catalog *service.CatalogService
	logger  interfaces.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog *service.CatalogService, logger interfaces.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// List returns one page of the catalog.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	items, total, err := h.catalog.ListMedia(r.Context(), limit, offset)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"media":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// Search matches the q parameter against title, category, and description.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.SearchMedia(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"media": items})
}

// Categories returns the distinct categories in the catalog.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// Get returns one media item. When the caller is signed in, the access lands
// in their watch history.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	mediaID, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var viewerID *uuid.UUID
	if id, ok := middleware.UserIDFrom(r.Context()); ok {
		viewerID = &id
	}

	media, err := h.catalog.GetMedia(r.Context(), mediaID, viewerID)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, media)
}

// Upload creates a media item from a multipart form.
func (h *CatalogHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Error(w, errors.BadRequest("invalid multipart form"))
		return
	}
	// Multipart parsing may stage large parts in temp files; remove them no
	// matter how the upload turns out.
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	tags, err := service.ParseTags(r.MultipartForm.Value["tags"])
	if err != nil {
		httpx.Error(w, err)
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		httpx.Error(w, errors.BadRequest("media file is required"))
		return
	}
	defer file.Close()

	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		httpx.Error(w, errors.Unauthorized("authentication required"))
		return
	}

	media, err := h.catalog.Upload(r.Context(), service.UploadInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Tags:        tags,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
		UploadedBy:  userID,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, media)
}

// Update applies a partial metadata update, with an optional replacement
// file when the request is multipart.
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	mediaID, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var input service.UpdateInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		input, err = h.multipartUpdate(r)
		if err != nil {
			httpx.Error(w, err)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	} else {
		var req updateRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, err)
			return
		}
		input = service.UpdateInput{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Tags:        req.Tags,
			TagsSet:     req.Tags != nil,
		}
	}

	media, err := h.catalog.Update(r.Context(), mediaID, input)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, media)
}

// Delete removes a media item and its stored binary.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mediaID, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.catalog.Delete(r.Context(), mediaID); err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.Message(w, http.StatusOK, "media deleted")
}

type updateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags"`
}

func (h *CatalogHandler) multipartUpdate(r *http.Request) (service.UpdateInput, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return service.UpdateInput{}, errors.BadRequest("invalid multipart form")
	}

	var input service.UpdateInput
	form := r.MultipartForm

	if values, ok := form.Value["title"]; ok && len(values) > 0 {
		input.Title = &values[0]
	}
	if values, ok := form.Value["description"]; ok && len(values) > 0 {
		input.Description = &values[0]
	}
	if values, ok := form.Value["category"]; ok && len(values) > 0 {
		input.Category = &values[0]
	}
	if values, ok := form.Value["tags"]; ok {
		tags, err := service.ParseTags(values)
		if err != nil {
			return service.UpdateInput{}, err
		}
		input.Tags = tags
		input.TagsSet = true
	}

	if file, header, err := r.FormFile("media"); err == nil {
		input.Filename = header.Filename
		input.ContentType = header.Header.Get("Content-Type")
		input.Content = file
	}

	return input, nil
}

func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, maxPageSize)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errors.BadRequest("invalid media id")
	}
	return id, nil
}
