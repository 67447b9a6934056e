package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	models "shop-backend/model"
)

type ctxKey struct{}

// UserIDFrom returns the authenticated user id stored by RequireAuth.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// RequireAuth rejects requests without a valid "Authorization: Bearer"
// token and stores the token's user id in the request context.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeErr(w, http.StatusUnauthorized, models.Kind(models.ErrUnauthorized), "missing bearer token")
			return
		}
		userID, err := h.svc.VerifyToken(r.Context(), strings.TrimSpace(token))
		if err != nil {
			hlog.FromRequest(r).Debug().Err(err).Msg("token rejected")
			writeServiceErr(w, r, err)
			return
		}
		hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("user_id", userID)
		})
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
	})
}
