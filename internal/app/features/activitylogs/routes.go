// internal/app/features/activitylogs/routes.go
package activitylogs

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/rbac"
)

// Routes mounts the activity log endpoints (typically under
// /api/v1/activity-logs). Reads require activity_logs.view; the
// retention endpoint requires activity_logs.clean.
func Routes(h *Handler, am *auth.Middleware, perms *rbac.Service) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(am.RequireUser)

		pr.Group(func(vr chi.Router) {
			vr.Use(perms.RequirePermission(rbac.PermActivityLogsView))
			vr.Get("/", h.ServeList)
			vr.Get("/stats", h.ServeStats)
			vr.Get("/export", h.ServeExport)
			vr.Get("/{id}", h.ServeGet)
		})

		pr.With(perms.RequirePermission(rbac.PermActivityLogsClean)).
			Post("/clean", h.ServeClean)
	})

	return r
}
