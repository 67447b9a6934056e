package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// NewRouter builds the mux router with request-scoped logging: every request
// gets a request id and a logger, and one access line is written per request.
func NewRouter(h *Handler, log zerolog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(
		hlog.NewHandler(log),
		hlog.RequestIDHandler("req_id", "Request-Id"),
		hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Int("size", size).
				Dur("duration", d).
				Msg("request")
		}),
	)
	h.RegisterRoutes(r)
	return r
}
