package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/usecase"
)

const requestIDHeader = "X-Request-ID"

type contextKey struct{}

var userContextKey = contextKey{}

// UserFromContext returns the account attached by SessionGuard.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

// RequestLogger tags each request with an id, stores a request-scoped logger
// in the context and logs the outcome.
func RequestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			reqLogger := logger.With().Str("request_id", requestID).Logger()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				reqLogger.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Dur("duration", time.Since(start)).
					Str("remote_addr", r.RemoteAddr).
					Msg("request completed")
			}()

			next.ServeHTTP(ww, r.WithContext(reqLogger.WithContext(r.Context())))
		})
	}
}

// SessionGuard admits requests carrying a valid bearer session token and
// attaches the resolved account to the request context. It never mutates
// state.
func SessionGuard(authUsecase usecase.AuthUsecase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respondError(w, r, http.StatusUnauthorized, "missing token")
				return
			}

			user, err := authUsecase.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, usecase.ErrInvalidOrExpiredToken):
					respondError(w, r, http.StatusUnauthorized, "invalid token")
				case errors.Is(err, usecase.ErrNotFound):
					respondError(w, r, http.StatusUnauthorized, "user not found")
				default:
					internalError(w, r, err, messageServerError)
				}
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// currentUser fetches the guarded account; routes using it are always
// mounted behind SessionGuard.
func currentUser(r *http.Request) *model.User {
	user, _ := UserFromContext(r.Context())
	return user
}
