// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/rbac"
)

// Routes mounts the dashboard endpoints (typically under
// /api/v1/dashboard). All of them require dashboard.view.
func Routes(h *Handler, am *auth.Middleware, perms *rbac.Service) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(am.RequireUser)
		pr.Use(perms.RequirePermission(rbac.PermDashboardView))

		pr.Get("/overview", h.ServeOverview)
		pr.Get("/recent-applications", h.ServeRecentApplications)
		pr.Get("/recent-payments", h.ServeRecentPayments)
		pr.Get("/monthly-trends", h.ServeMonthlyTrends)
	})

	return r
}
