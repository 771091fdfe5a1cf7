package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/payload"
)

const healthPingTimeout = 2 * time.Second

type healthHTTPHandler struct {
	pinger Pinger
	now    func() time.Time
}

func (h *healthHTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("health check failed")
		respond(w, r, http.StatusServiceUnavailable, payload.HealthResponse{
			Message:   "Database unavailable",
			Timestamp: h.now().UTC(),
		})
		return
	}

	respond(w, r, http.StatusOK, payload.HealthResponse{
		Success:   true,
		Message:   "Islamic App Server is running!",
		Timestamp: h.now().UTC(),
	})
}
