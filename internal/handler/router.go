package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// NewRouter wires all routes with request-id, real-ip, recovery and zerolog
// access logging.
func NewRouter(h *AuthHandler, logger *zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(hlog.NewHandler(*logger))
	r.Use(hlog.AccessHandler(func(req *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(req).Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg("request")
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, response{Success: true, Message: "OK"})
	})

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/auth/google", h.GoogleLogin)
	r.Post("/reset-password-email", h.RequestPasswordReset)
	r.Post("/reset-password/{token}", h.ResetPassword)
	r.Post("/2fa/generate/{id}", h.GenerateTwoFactor)
	r.Post("/2fa/verify/{id}", h.VerifyTwoFactor)
	r.Post("/account/verify/{token}", h.VerifyAccount)
	r.Post("/account/reverify/{userId}/{token}", h.ResendVerification)

	r.Group(func(r chi.Router) {
		r.Use(h.Authenticated)

		r.Post("/logout", h.Logout)
		r.Get("/refresh", h.Refresh)
		r.Get("/hasnopassword/{id}", h.HasNoPassword)
		r.Put("/change-password/{id}", h.ChangePassword)
	})

	return r
}
