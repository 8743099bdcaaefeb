package middleware

import (
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/utils"
)

// NewAdminMiddleware ensures the caller has the admin role.
// MUST be used AFTER AuthMiddleware.
func NewAdminMiddleware(id domain.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := id.CurrentUserID(r.Context()); !ok {
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: No user found in context")
				return
			}
			if id.CurrentUserRole(r.Context()) != domain.RoleAdmin {
				utils.WriteError(w, http.StatusForbidden, "Forbidden: Admins only")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
