// internal/app/system/rbac/middleware.go
package rbac

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
)

// RequirePermission gates a route on one effective permission. It must be
// mounted inside auth.RequireUser so the current user is in context.
// Super admins bypass the membership check.
func (s *Service) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.CurrentUser(r)
			if !ok {
				httpx.Fail(w, http.StatusUnauthorized, "Authentication required.", "unauthorized")
				return
			}

			if user.IsSuperAdmin {
				next.ServeHTTP(w, r)
				return
			}

			has, err := s.HasPermission(r.Context(), user.ID, permission)
			if err != nil {
				s.logger.Error("permission check failed",
					zap.String("user_id", user.ID.Hex()),
					zap.String("permission", permission),
					zap.Error(err))
				httpx.Fail(w, http.StatusInternalServerError, "An unexpected error occurred.", "internal_error")
				return
			}
			if !has {
				httpx.Fail(w, http.StatusForbidden, "You do not have permission to perform this action.", "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
