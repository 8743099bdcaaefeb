package middleware

import (
	"context"
	"net/http"
	"time"

	"storefront-backend/pkg/logger"

	"github.com/google/uuid"
)

const SessionCookieName = "cartSession"

type sessionKey struct{}

// SessionIDFrom returns the cart session id set by NewSessionMiddleware.
func SessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// WithSessionID is used by tests and the CLI to act on a specific session.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// NewSessionMiddleware ties every request to a cart session. A missing or malformed
// cookie starts a new session; the cookie is refreshed on each request so it lives as
// long as the server-side session.
func NewSessionMiddleware(ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(SessionCookieName); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithSessionID(r.Context(), id)
			l := logger.WithSessionID(*logger.WithContext(ctx), id)
			ctx = logger.NewContext(ctx, &l)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
