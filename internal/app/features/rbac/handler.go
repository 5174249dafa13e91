// internal/app/features/rbac/handler.go
package rbacapi

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	notifstore "github.com/dalemusser/reliefhub/internal/app/store/notifications"
	"github.com/dalemusser/reliefhub/internal/app/store/permissions"
	"github.com/dalemusser/reliefhub/internal/app/store/roleassign"
	"github.com/dalemusser/reliefhub/internal/app/store/roles"
	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"
	"github.com/dalemusser/reliefhub/internal/app/system/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/rbac"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// Handler serves role definitions, the permission catalog, and user
// role assignments.
type Handler struct {
	Roles       *roles.Store
	Perms       *permissions.Store
	Assignments *roleassign.Store
	Users       *userstore.Store
	Notifs      *notifstore.Store
	Resolver    *rbac.Service
	Recorder    *activity.Recorder
	Log         *zap.Logger
}

// Deps carries the handler's collaborators.
type Deps struct {
	Roles       *roles.Store
	Perms       *permissions.Store
	Assignments *roleassign.Store
	Users       *userstore.Store
	Notifs      *notifstore.Store
	Resolver    *rbac.Service
	Recorder    *activity.Recorder
	Log         *zap.Logger
}

// NewHandler constructs the RBAC feature handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		Roles:       d.Roles,
		Perms:       d.Perms,
		Assignments: d.Assignments,
		Users:       d.Users,
		Notifs:      d.Notifs,
		Resolver:    d.Resolver,
		Recorder:    d.Recorder,
		Log:         d.Log,
	}
}

// refreshRoleStats recomputes a role's denormalized usage counters after
// an assignment mutation. The counters are display-only, so failures are
// logged rather than surfaced to the caller.
func (h *Handler) refreshRoleStats(ctx context.Context, roleID primitive.ObjectID, lastAssigned *time.Time) {
	total, err := h.Assignments.CountByRole(ctx, roleID)
	if err != nil {
		h.Log.Warn("refresh role stats", zap.String("role_id", roleID.Hex()), zap.Error(err))
		return
	}
	active, err := h.Assignments.CountActiveByRole(ctx, roleID)
	if err != nil {
		h.Log.Warn("refresh role stats", zap.String("role_id", roleID.Hex()), zap.Error(err))
		return
	}
	stats := models.RoleStats{TotalUsers: total, ActiveUsers: active, LastAssigned: lastAssigned}
	if err := h.Roles.UpdateStats(ctx, roleID, stats); err != nil {
		h.Log.Warn("refresh role stats", zap.String("role_id", roleID.Hex()), zap.Error(err))
	}
}

// notifyRoleChange tells the affected user their role set changed.
// Best effort: a failed insert is logged and the request continues.
func (h *Handler) notifyRoleChange(ctx context.Context, recipientID primitive.ObjectID, typ, title, body string, payload map[string]string) {
	_, err := h.Notifs.Insert(ctx, models.Notification{
		RecipientID: recipientID,
		Type:        typ,
		Title:       title,
		Body:        body,
		Payload:     payload,
	})
	if err != nil {
		h.Log.Warn("insert role notification", zap.String("recipient_id", recipientID.Hex()), zap.Error(err))
	}
}
