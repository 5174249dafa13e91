// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
)

// Routes mounts the notification endpoints (typically under
// /api/v1/notifications).
func Routes(h *Handler, am *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(am.RequireUser)

		pr.Get("/", h.ServeList)
		pr.Get("/unread-count", h.ServeUnreadCount)
		pr.Post("/read-all", h.ServeReadAll)
		pr.Post("/{id}/read", h.ServeMarkRead)
	})

	return r
}
