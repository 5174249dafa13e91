// internal/app/features/newsevents/routes.go
package newsevents

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/rbac"
)

// Routes mounts the news/events endpoints (typically under
// /api/v1/news-events). Any signed-in user may read; mutations require
// content.manage.
func Routes(h *Handler, am *auth.Middleware, perms *rbac.Service) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(am.RequireUser)

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeGet)

		pr.Group(func(mr chi.Router) {
			mr.Use(perms.RequirePermission(rbac.PermContentManage))
			mr.Post("/", h.ServeCreate)
			mr.Put("/{id}", h.ServeUpdate)
			mr.Delete("/{id}", h.ServeDelete)
		})
	})

	return r
}
