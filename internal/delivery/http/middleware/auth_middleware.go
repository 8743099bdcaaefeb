package middleware

import (
	"errors"
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/identity"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

func userFromClaims(c *utils.Claims) *domain.User {
	return &domain.User{
		ID:            c.UserID,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		Role:          domain.Role(c.Role),
	}
}

// Authenticate places the token's user in the context when a valid token is present.
// Anonymous requests pass through; cart endpoints work without signing in.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.ExtractClaims(r)
		if err != nil {
			if !errors.Is(err, utils.ErrNoToken) {
				logger.WithContext(r.Context()).Debug().Err(err).Msg("Ignoring invalid token")
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := identity.WithUser(r.Context(), userFromClaims(claims))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.ExtractClaims(r)
		if errors.Is(err, utils.ErrNoToken) {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		}
		if err != nil || claims.UserID == "" {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		}

		ctx := identity.WithUser(r.Context(), userFromClaims(claims))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
