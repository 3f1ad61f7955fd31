package handlers

import (
	"net/http"
	"strconv"

	"communityhub/application/services"
	"communityhub/domain/content"
	"communityhub/pkg/common"
	apperrors "communityhub/pkg/errors"
	"communityhub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodyBytes caps request body size for content writes.
const maxBodyBytes = 1 << 20

// ContentHandler serves the HTTP surface of one content type. The same
// handler type covers news, gallery and board; the service it wraps
// carries the per-type rules.
type ContentHandler struct {
	service *services.ContentService
	errors  *apperrors.ErrorHandler
	logger  *zap.Logger
}

// NewContentHandler creates a handler backed by the given service
func NewContentHandler(service *services.ContentService, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		service: service,
		errors:  errorHandler,
		logger:  logger,
	}
}

// UploadURLRequest asks for a presigned upload target.
type UploadURLRequest struct {
	ContentType string `json:"content_type" validate:"required"`
	Extension   string `json:"extension,omitempty" validate:"omitempty,startswith=.,max=10"`
}

// List handles GET /{contentType}
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPaginationParams(r)
	category := r.URL.Query().Get("category")

	page, err := h.service.List(r.Context(), params.Page, params.Limit, category)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	meta := &common.MetaInfo{
		RequestID:  common.ExtractRequestID(r),
		Pagination: common.BuildPaginationMeta(page.Page, page.Limit, page.Total),
	}
	common.RespondWithMeta(w, http.StatusOK, page, meta)
}

// Recent handles GET /{contentType}/recent
func (h *ContentHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	items, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

// Get handles GET /{contentType}/{id}
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if item == nil {
		h.errors.Handle(w, r, apperrors.NewNotFoundError(h.service.ContentType()))
		return
	}

	common.RespondJSON(w, http.StatusOK, item)
}

// Categories handles GET /{contentType}/categories
func (h *ContentHandler) Categories(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"content_type": h.service.ContentType(),
		"categories":   h.service.Categories(),
	})
}

// Create handles POST /{contentType}
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input content.Item
	if err := common.ParseJSONBody(r, &input, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body"))
		return
	}

	id, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.logger.Info("Content created",
		zap.String("contentType", h.service.ContentType()),
		zap.String("id", id),
	)
	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Update handles PUT /{contentType}/{id}
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input content.Item
	if err := common.ParseJSONBody(r, &input, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body"))
		return
	}

	updatedID, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if updatedID == "" {
		h.errors.Handle(w, r, apperrors.NewNotFoundError(h.service.ContentType()))
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"id": updatedID})
}

// Delete handles DELETE /{contentType}/{id}
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if result == nil {
		h.errors.Handle(w, r, apperrors.NewNotFoundError(h.service.ContentType()))
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// UploadURL handles POST /{contentType}/upload-url
func (h *ContentHandler) UploadURL(w http.ResponseWriter, r *http.Request) {
	var req UploadURLRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	upload, err := h.service.PresignUpload(r.Context(), req.ContentType, req.Extension)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, upload)
}
