package services

import (
	"crypto/subtle"
	"time"

	"communityhub/pkg/auth"
	apperrors "communityhub/pkg/errors"

	"go.uber.org/zap"
)

// LoginResult carries a freshly issued admin token.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// AuthService issues and validates admin tokens. Credentials come from
// deployment configuration; there is no user store.
type AuthService struct {
	adminUsername string
	adminPassword string
	generator     *auth.JWTGenerator
	validator     *auth.JWTValidator
	logger        *zap.Logger
}

// NewAuthService creates the admin authentication service.
func NewAuthService(adminUsername, adminPassword string, config auth.JWTConfig, logger *zap.Logger) (*AuthService, error) {
	generator, err := auth.NewJWTGenerator(config)
	if err != nil {
		return nil, err
	}
	validator, err := auth.NewJWTValidator(config)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		generator:     generator,
		validator:     validator,
		logger:        logger,
	}, nil
}

// Login verifies the admin credentials and returns a signed token.
func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	if !userOK || !passOK {
		s.logger.Warn("Login rejected", zap.String("username", username))
		return nil, apperrors.NewUnauthorizedError("Invalid credentials")
	}

	token, expiresAt, err := s.generator.GenerateToken(s.adminUsername, auth.RoleAdmin)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token").WithCause(err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  s.adminUsername,
		Role:      auth.RoleAdmin,
	}, nil
}

// Validate checks a bearer token and returns the claims it carries.
func (s *AuthService) Validate(token string) (*auth.Claims, error) {
	claims, err := s.validator.ValidateToken(token)
	if err != nil {
		switch err {
		case auth.ErrExpiredToken:
			return nil, apperrors.NewUnauthorizedError("Token has expired")
		default:
			return nil, apperrors.NewUnauthorizedError("Invalid token")
		}
	}
	return claims, nil
}

// Validator exposes the token validator for HTTP middleware.
func (s *AuthService) Validator() *auth.JWTValidator {
	return s.validator
}
