package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/config"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/islamic-app-api/shared/validation"
)

// Pinger reports datastore reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams holds everything the HTTP surface depends on.
type RouterParams struct {
	Config               *config.AuthServiceConfig
	Logger               *zerolog.Logger
	AuthUsecase          usecase.AuthUsecase
	VerificationUsecase  usecase.VerificationUsecase
	PasswordResetUsecase usecase.PasswordResetUsecase
	AccountUsecase       usecase.AccountUsecase
	Pinger               Pinger
}

// NewRouter mounts the auth and protected routes under /api.
func NewRouter(p RouterParams) http.Handler {
	v := validation.New()

	authHandler := &authHTTPHandler{
		authUsecase:          p.AuthUsecase,
		verificationUsecase:  p.VerificationUsecase,
		passwordResetUsecase: p.PasswordResetUsecase,
		validator:            v,
		secureCookies:        p.Config.IsProduction(),
	}
	accountHandler := &accountHTTPHandler{
		accountUsecase: p.AccountUsecase,
		validator:      v,
		now:            time.Now,
	}
	healthHandler := &healthHTTPHandler{pinger: p.Pinger, now: time.Now}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(p.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{p.Config.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.AllowContentType("application/json"))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	guard := SessionGuard(p.AuthUsecase)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Route("/auth", func(r chi.Router) {
			if !p.Config.IsProduction() {
				r.Post("/test-email", authHandler.TestEmail)
			}

			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Get("/verify-email/{token}", authHandler.VerifyEmail)
			r.Post("/verify-code", authHandler.VerifyCode)
			r.Post("/resend-verification", authHandler.ResendVerification)
			r.Post("/resend-verification-link", authHandler.ResendVerificationLink)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Put("/reset-password/{token}", authHandler.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(guard)
				r.Get("/me", authHandler.Me)
				r.Get("/logout", authHandler.Logout)
			})
		})

		r.Route("/protected", func(r chi.Router) {
			r.Use(guard)
			r.Get("/profile", accountHandler.GetProfile)
			r.Put("/profile", accountHandler.UpdateProfile)
			r.Get("/dashboard", accountHandler.Dashboard)
			r.Put("/change-password", accountHandler.ChangePassword)
			r.Delete("/account", accountHandler.DeleteAccount)
		})
	})

	return r
}
