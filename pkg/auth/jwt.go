package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token validation errors.
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// Claims carries the authenticated identity inside a signed token.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTConfig holds signing configuration shared by generator and validator.
type JWTConfig struct {
	SecretKey string
	Issuer    string
	Expiry    time.Duration
}

// JWTGenerator issues HMAC-signed tokens. The unsigned base64 token format
// of earlier deployments is intentionally not supported.
type JWTGenerator struct {
	secret []byte
	issuer string
	expiry time.Duration
}

// NewJWTGenerator creates a token generator
func NewJWTGenerator(cfg JWTConfig) (*JWTGenerator, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret key is required")
	}
	expiry := cfg.Expiry
	if expiry == 0 {
		expiry = time.Hour
	}
	return &JWTGenerator{
		secret: []byte(cfg.SecretKey),
		issuer: cfg.Issuer,
		expiry: expiry,
	}, nil
}

// GenerateToken issues a signed token for the given identity. It returns
// the token string and its expiry time.
func (g *JWTGenerator) GenerateToken(username, role string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(g.expiry)

	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// JWTValidator verifies tokens issued by JWTGenerator.
type JWTValidator struct {
	secret []byte
	issuer string
}

// NewJWTValidator creates a token validator
func NewJWTValidator(cfg JWTConfig) (*JWTValidator, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret key is required")
	}
	return &JWTValidator{
		secret: []byte(cfg.SecretKey),
		issuer: cfg.Issuer,
	}, nil
}

// ValidateToken checks the signature, expiry and issuer of a token and
// returns its claims.
func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
