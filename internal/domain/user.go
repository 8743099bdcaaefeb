package domain

import "context"

type ContextKey string

const UserContextKey ContextKey = "user"

type Role string

// User is the signed-in principal as asserted by the identity provider's token.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	Role          Role   `json:"role"`
}

// Identity exposes who is calling. Admin-gated operations consult CurrentUserRole
// instead of re-checking roles ad hoc.
type Identity interface {
	CurrentUserID(ctx context.Context) (string, bool)
	IsEmailVerified(ctx context.Context) bool
	CurrentUserRole(ctx context.Context) Role
}
