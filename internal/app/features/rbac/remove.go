// internal/app/features/rbac/remove.go
package rbacapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeRemoveRole handles DELETE /users/{userID}/roles/{assignmentID}.
// The assignment is deactivated, not deleted, so the audit trail keeps
// who held what and when. An optional reason query parameter is stored
// with the removal.
func (h *Handler) ServeRemoveRole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "remove role")
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("userID must be a valid object ID"))
		return
	}
	assignmentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "assignmentID"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("assignmentID must be a valid object ID"))
		return
	}
	reason := strings.TrimSpace(httpx.Query(r, "reason"))

	assignment, err := h.Assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("role assignment"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}
	// An assignment reached through the wrong user's path is treated as
	// absent rather than revealing which user it belongs to.
	if assignment.UserID != userID {
		httpx.FailErr(w, h.Log, apperr.NotFound("role assignment"))
		return
	}
	if !assignment.IsActive {
		httpx.FailErr(w, h.Log, apperr.Conflict("assignment is already inactive"))
		return
	}

	actor := auth.MustCurrentUser(r)
	matched, err := h.Assignments.Deactivate(ctx, assignmentID, actor.ID, reason)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if matched == 0 {
		httpx.FailErr(w, h.Log, apperr.Conflict("assignment is already inactive"))
		return
	}

	roleName := assignment.RoleID.Hex()
	roleDisplay := "removed"
	var lastAssigned *time.Time
	role, err := h.Roles.GetByID(ctx, assignment.RoleID)
	if err != nil {
		h.Log.Warn("load role for removal", zap.String("role_id", assignment.RoleID.Hex()), zap.Error(err))
	} else {
		roleName = role.Name
		roleDisplay = role.DisplayName
		lastAssigned = role.Stats.LastAssigned
	}

	h.refreshRoleStats(ctx, assignment.RoleID, lastAssigned)
	h.Resolver.Invalidate(ctx, userID)
	h.Recorder.RoleRemoved(ctx, r, actor.ID, userID, assignmentID, roleName, reason)
	h.notifyRoleChange(ctx, userID, models.NotificationRoleRemoved,
		"Role removed",
		"Your "+roleDisplay+" role has been removed.",
		map[string]string{"role_id": assignment.RoleID.Hex(), "assignment_id": assignmentID.Hex()},
	)

	httpx.OK(w, "Role removed.", nil)
}
