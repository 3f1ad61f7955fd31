package handlers

import (
	"net/http"

	"communityhub/domain/content"
	"communityhub/pkg/common"
)

// CategoryHandler serves the full category registry.
type CategoryHandler struct {
	registry content.Registry
}

// NewCategoryHandler creates the category handler
func NewCategoryHandler(registry content.Registry) *CategoryHandler {
	return &CategoryHandler{registry: registry}
}

// ListAll handles GET /categories, returning every content type's
// allowed categories and defaults.
func (h *CategoryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.registry.All())
}
