// Package identity answers "who is calling" from the user the auth middleware placed in
// the request context.
package identity

import (
	"context"

	"storefront-backend/internal/domain"
)

// ContextIdentity implements domain.Identity over the request context.
type ContextIdentity struct{}

func New() domain.Identity {
	return ContextIdentity{}
}

// WithUser returns a context carrying the given user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, domain.UserContextKey, user)
}

// UserFrom returns the signed-in user, if any.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(domain.UserContextKey).(*domain.User)
	if !ok || user == nil || user.ID == "" {
		return nil, false
	}
	return user, true
}

func (ContextIdentity) CurrentUserID(ctx context.Context) (string, bool) {
	user, ok := UserFrom(ctx)
	if !ok {
		return "", false
	}
	return user.ID, true
}

func (ContextIdentity) IsEmailVerified(ctx context.Context) bool {
	user, ok := UserFrom(ctx)
	return ok && user.EmailVerified
}

// CurrentUserRole is empty for anonymous callers.
func (ContextIdentity) CurrentUserRole(ctx context.Context) domain.Role {
	user, ok := UserFrom(ctx)
	if !ok {
		return ""
	}
	return user.Role
}
