// internal/app/features/websettings/routes.go
package websettings

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/rbac"
)

// Routes mounts the website settings endpoints (typically under
// /api/v1/website/settings). Reads need a signed-in user; writes need
// settings.manage.
func Routes(h *Handler, am *auth.Middleware, perms *rbac.Service) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(am.RequireUser)

		pr.Get("/", h.ServeGet)
		pr.With(perms.RequirePermission(rbac.PermSettingsManage)).
			Put("/", h.ServeUpdate)
	})

	return r
}
