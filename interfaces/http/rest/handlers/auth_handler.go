package handlers

import (
	"net/http"

	"communityhub/application/services"
	"communityhub/pkg/auth"
	"communityhub/pkg/common"
	apperrors "communityhub/pkg/errors"
	"communityhub/pkg/utils"

	"go.uber.org/zap"
)

// AuthHandler serves login and token validation.
type AuthHandler struct {
	service *services.AuthService
	errors  *apperrors.ErrorHandler
	logger  *zap.Logger
}

// NewAuthHandler creates the auth handler
func NewAuthHandler(service *services.AuthService, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		errors:  errorHandler,
		logger:  logger,
	}
}

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	result, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.logger.Info("Admin login", zap.String("username", result.Username))
	common.RespondJSON(w, http.StatusOK, result)
}

// Validate handles GET /auth/validate. It runs behind the authentication
// middleware, so reaching it means the token is good.
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("Unauthorized"))
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":    true,
		"username": user.Username,
		"role":     user.Role,
	})
}
