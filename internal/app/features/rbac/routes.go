// internal/app/features/rbac/routes.go
package rbacapi

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/rbac"
)

// Routes mounts the RBAC endpoints (typically under /api/v1/rbac).
// Reads and assignment operations require roles.assign, which
// roles.manage implies; role definition changes and per-assignment
// permission overrides require roles.manage.
func Routes(h *Handler, am *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(am.RequireUser)

		pr.Group(func(ar chi.Router) {
			ar.Use(h.Resolver.RequirePermission(rbac.PermRolesAssign))

			ar.Get("/roles", h.ServeListRoles)
			ar.Get("/roles/{id}", h.ServeGetRole)
			ar.Get("/permissions", h.ServeListPermissions)

			ar.Post("/users/{userID}/roles", h.ServeAssignRole)
			ar.Get("/users/{userID}/roles", h.ServeListUserRoles)
			ar.Delete("/users/{userID}/roles/{assignmentID}", h.ServeRemoveRole)
			ar.Post("/users/{userID}/check-permission", h.ServeCheckPermission)
		})

		pr.Group(func(mr chi.Router) {
			mr.Use(h.Resolver.RequirePermission(rbac.PermRolesManage))

			mr.Post("/roles", h.ServeCreateRole)
			mr.Put("/roles/{id}", h.ServeUpdateRole)
			mr.Delete("/roles/{id}", h.ServeDeleteRole)

			mr.Post("/assignments/{assignmentID}/grants", h.ServeAddGrant)
			mr.Post("/assignments/{assignmentID}/restrictions", h.ServeAddRestriction)
			mr.Post("/assignments/cleanup", h.ServeCleanup)
		})
	})

	return r
}
