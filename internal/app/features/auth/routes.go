// internal/app/features/auth/routes.go
package authapi

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
)

// Routes mounts the auth endpoints (typically under /api/v1/auth).
// The OTP and refresh endpoints are public; everything else requires a
// bearer token.
func Routes(h *Handler, am *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Post("/send-otp", h.ServeSendOTP)
	r.Post("/verify-otp", h.ServeVerifyOTP)
	r.Post("/complete-registration", h.ServeCompleteRegistration)
	r.Post("/refresh-token", h.ServeRefreshToken)

	r.Group(func(pr chi.Router) {
		pr.Use(am.RequireUser)

		pr.Post("/logout", h.ServeLogout)
		pr.Get("/profile", h.ServeProfile)
		pr.Put("/profile", h.ServeUpdateProfile)
		pr.Post("/change-phone", h.ServeChangePhone)
		pr.Post("/register-device", h.ServeRegisterDevice)
	})

	return r
}
