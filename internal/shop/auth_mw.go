package shop

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"CampusStore/internal/auth"
	"CampusStore/pkg/kit"
)

type ctxKey string

const userKey ctxKey = "user"

func UserFromContext(ctx context.Context) (auth.User, bool) {
	u, ok := ctx.Value(userKey).(auth.User)
	return u, ok
}

// SessionAuth resolves the session cookie to a user before any handler runs.
// Anyone it cannot authenticate gets redirected to the login page; they never
// reach authorization checks.
func SessionAuth(g *auth.Gateway, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cookieValue string
			if c, err := r.Cookie(auth.SessionCookie); err == nil {
				cookieValue = c.Value
			}

			u, err := g.CurrentUser(r.Context(), cookieValue)
			if err != nil {
				if !errors.Is(err, auth.ErrUnauthenticated) && log != nil {
					log.Error("resolve session", zap.Error(err))
				}
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates the admin surface. Unlike a missing login this is a hard
// 403, not a redirect.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		if !u.IsAdmin {
			kit.WriteError(w, r, http.StatusForbidden, "administrator access required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
