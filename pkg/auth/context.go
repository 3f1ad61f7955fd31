package auth

import (
	"context"
	"errors"
)

// RoleAdmin marks users allowed to mutate content.
const RoleAdmin = "admin"

// UserContext is the authenticated identity attached to a request.
type UserContext struct {
	Username string
	Role     string
}

// IsAdmin reports whether the user holds the admin role.
func (u *UserContext) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type contextKey struct{}

var userContextKey = contextKey{}

// ErrNoUserInContext is returned when a request carries no identity.
var ErrNoUserInContext = errors.New("no user in context")

// SetUserInContext attaches the user to the request context.
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the user from the request context.
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}
