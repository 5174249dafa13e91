// internal/app/system/activity/recorder.go
package activity

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/store/activitylog"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// Config holds activity recording configuration.
type Config struct {
	// Mode controls where activity entries are written.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Mode string
}

// Recorder writes activity log entries for auditable actions.
// It records to MongoDB (via activitylog.Store) and structured logs (via zap).
type Recorder struct {
	store  *activitylog.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new activity Recorder.
func New(store *activitylog.Store, zapLog *zap.Logger, config Config) *Recorder {
	return &Recorder{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap mirrors the entry into structured logs.
func (rec *Recorder) logToZap(entry models.ActivityLogEntry) {
	fields := []zap.Field{
		zap.Bool("activity", true),
		zap.String("action", entry.Action),
		zap.String("resource", entry.Resource),
		zap.String("status", entry.Status),
		zap.String("severity", entry.Severity),
		zap.String("ip", entry.IPAddress),
	}
	if entry.ActorID != nil {
		fields = append(fields, zap.String("actor_id", entry.ActorID.Hex()))
	}
	if entry.ResourceID != "" {
		fields = append(fields, zap.String("resource_id", entry.ResourceID))
	}
	if entry.Description != "" {
		fields = append(fields, zap.String("description", entry.Description))
	}
	for k, v := range entry.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if entry.Status == models.ActivityStatusSuccess {
		rec.zapLog.Info("activity", fields...)
	} else {
		rec.zapLog.Warn("activity", fields...)
	}
}

// Record writes an activity entry based on configuration.
// If the recorder is nil, this is a no-op (allows tests to pass a nil recorder).
// Destination is controlled by config Mode: "all", "db", "log", or "off".
func (rec *Recorder) Record(ctx context.Context, entry models.ActivityLogEntry) {
	if rec == nil {
		return
	}
	if rec.config.Mode == "off" {
		return
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Status == "" {
		entry.Status = models.ActivityStatusSuccess
	}
	if entry.Severity == "" {
		entry.Severity = models.SeverityLow
	}

	if rec.config.Mode == "all" || rec.config.Mode == "log" {
		rec.logToZap(entry)
	}

	if rec.config.Mode == "all" || rec.config.Mode == "db" {
		if err := rec.store.Insert(ctx, &entry); err != nil {
			rec.zapLog.Error("failed to store activity entry",
				zap.Error(err),
				zap.String("action", entry.Action),
			)
		}
	}
}

// --- Authentication events ---

// OTPSent records a verification code send.
func (rec *Recorder) OTPSent(ctx context.Context, r *http.Request, phone, purpose string) {
	rec.Record(ctx, models.ActivityLogEntry{
		Action:      "auth.otp_sent",
		Resource:    "auth",
		Description: "Verification code sent",
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"phone":   phone,
			"purpose": purpose,
		},
	})
}

// OTPVerifyFailed records a failed verification code attempt.
func (rec *Recorder) OTPVerifyFailed(ctx context.Context, r *http.Request, phone, reason string) {
	rec.Record(ctx, models.ActivityLogEntry{
		Action:      "auth.otp_failed",
		Resource:    "auth",
		Description: "Verification code check failed",
		Status:      models.ActivityStatusFailed,
		Severity:    models.SeverityMedium,
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"phone":  phone,
			"reason": reason,
		},
	})
}

// LoginSuccess records a successful login.
func (rec *Recorder) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, phone string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &userID,
		Action:      "auth.login",
		Resource:    "auth",
		Description: "User logged in",
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"phone": phone,
		},
	})
}

// RegistrationCompleted records a new account registration.
func (rec *Recorder) RegistrationCompleted(ctx context.Context, r *http.Request, userID primitive.ObjectID, phone string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &userID,
		Action:      "auth.register",
		Resource:    "user",
		ResourceID:  userID.Hex(),
		Description: "Registration completed",
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"phone": phone,
		},
	})
}

// Logout records a logout.
func (rec *Recorder) Logout(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &userID,
		Action:      "auth.logout",
		Resource:    "auth",
		Description: "User logged out",
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
	})
}

// ProfileUpdated records a profile change by its owner.
func (rec *Recorder) ProfileUpdated(ctx context.Context, r *http.Request, userID primitive.ObjectID, fieldsChanged string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &userID,
		Action:      "profile.update",
		Resource:    "user",
		ResourceID:  userID.Hex(),
		Description: "Profile updated",
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"fields_changed": fieldsChanged,
		},
	})
}

// PhoneChanged records a verified phone number change.
func (rec *Recorder) PhoneChanged(ctx context.Context, r *http.Request, userID primitive.ObjectID, oldPhone, newPhone string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &userID,
		Action:      "profile.change_phone",
		Resource:    "user",
		ResourceID:  userID.Hex(),
		Description: "Phone number changed",
		Severity:    models.SeverityMedium,
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"old_phone": oldPhone,
			"new_phone": newPhone,
		},
	})
}

// DeviceRegistered records a push-notification device registration.
func (rec *Recorder) DeviceRegistered(ctx context.Context, r *http.Request, userID primitive.ObjectID, platform string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &userID,
		Action:      "device.register",
		Resource:    "device",
		Description: "Device registered for notifications",
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"platform": platform,
		},
	})
}

// --- RBAC events ---

// RoleCreated records creation of a custom role.
func (rec *Recorder) RoleCreated(ctx context.Context, r *http.Request, actorID, roleID primitive.ObjectID, roleName string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &actorID,
		Action:      "role.create",
		Resource:    "role",
		ResourceID:  roleID.Hex(),
		Description: "Role created",
		Severity:    models.SeverityMedium,
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"role_name": roleName,
		},
	})
}

// RoleUpdated records an update to a custom role.
func (rec *Recorder) RoleUpdated(ctx context.Context, r *http.Request, actorID, roleID primitive.ObjectID, roleName, fieldsChanged string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &actorID,
		Action:      "role.update",
		Resource:    "role",
		ResourceID:  roleID.Hex(),
		Description: "Role updated",
		Severity:    models.SeverityMedium,
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"role_name":      roleName,
			"fields_changed": fieldsChanged,
		},
	})
}

// RoleDeleted records deletion of a custom role.
func (rec *Recorder) RoleDeleted(ctx context.Context, r *http.Request, actorID, roleID primitive.ObjectID, roleName string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &actorID,
		Action:      "role.delete",
		Resource:    "role",
		ResourceID:  roleID.Hex(),
		Description: "Role deleted",
		Severity:    models.SeverityHigh,
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"role_name": roleName,
		},
	})
}

// RoleAssigned records a role assignment to a user.
func (rec *Recorder) RoleAssigned(ctx context.Context, r *http.Request, actorID, targetUserID, roleID primitive.ObjectID, roleName string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &actorID,
		Action:      "role.assign",
		Resource:    "role_assignment",
		Description: "Role assigned to user",
		Severity:    models.SeverityMedium,
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"target_user_id": targetUserID.Hex(),
			"role_id":        roleID.Hex(),
			"role_name":      roleName,
		},
	})
}

// RoleRemoved records removal (deactivation) of a role assignment.
func (rec *Recorder) RoleRemoved(ctx context.Context, r *http.Request, actorID, targetUserID, assignmentID primitive.ObjectID, roleName, reason string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &actorID,
		Action:      "role.remove",
		Resource:    "role_assignment",
		ResourceID:  assignmentID.Hex(),
		Description: "Role removed from user",
		Severity:    models.SeverityMedium,
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"target_user_id": targetUserID.Hex(),
			"role_name":      roleName,
			"reason":         reason,
		},
	})
}

// PermissionGranted records an extra permission granted on an assignment.
func (rec *Recorder) PermissionGranted(ctx context.Context, r *http.Request, actorID, assignmentID primitive.ObjectID, permission string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &actorID,
		Action:      "permission.grant",
		Resource:    "role_assignment",
		ResourceID:  assignmentID.Hex(),
		Description: "Additional permission granted",
		Severity:    models.SeverityMedium,
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"permission": permission,
		},
	})
}

// PermissionRestricted records a permission restriction on an assignment.
func (rec *Recorder) PermissionRestricted(ctx context.Context, r *http.Request, actorID, assignmentID primitive.ObjectID, permission string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &actorID,
		Action:      "permission.restrict",
		Resource:    "role_assignment",
		ResourceID:  assignmentID.Hex(),
		Description: "Permission restricted",
		Severity:    models.SeverityHigh,
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"permission": permission,
		},
	})
}

// AssignmentsCleaned records a batch expiry sweep over role assignments.
func (rec *Recorder) AssignmentsCleaned(ctx context.Context, actorID *primitive.ObjectID, count int64) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     actorID,
		Action:      "assignment.cleanup",
		Resource:    "role_assignment",
		Description: "Expired role assignments deactivated",
		Severity:    models.SeverityMedium,
		Details: map[string]string{
			"deactivated": strconv.FormatInt(count, 10),
		},
	})
}

// --- Content events ---

// ContentCreated records creation of a content entity (banner, brochure, news event).
func (rec *Recorder) ContentCreated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, resource, resourceID, title string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &actorID,
		Action:      resource + ".create",
		Resource:    resource,
		ResourceID:  resourceID,
		Description: "Content created",
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"title": title,
		},
	})
}

// ContentUpdated records an update to a content entity.
func (rec *Recorder) ContentUpdated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, resource, resourceID, title string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &actorID,
		Action:      resource + ".update",
		Resource:    resource,
		ResourceID:  resourceID,
		Description: "Content updated",
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"title": title,
		},
	})
}

// ContentDeleted records deletion of a content entity.
func (rec *Recorder) ContentDeleted(ctx context.Context, r *http.Request, actorID primitive.ObjectID, resource, resourceID, title string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &actorID,
		Action:      resource + ".delete",
		Resource:    resource,
		ResourceID:  resourceID,
		Description: "Content deleted",
		Severity:    models.SeverityMedium,
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"title": title,
		},
	})
}

// SettingsUpdated records a website settings change.
func (rec *Recorder) SettingsUpdated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, fieldsChanged string) {
	rec.Record(ctx, models.ActivityLogEntry{
		ActorID:     &actorID,
		Action:      "settings.update",
		Resource:    "site_settings",
		Description: "Website settings updated",
		Severity:    models.SeverityMedium,
		IPAddress:   clientIP(r),
		UserAgent:   r.UserAgent(),
		Details: map[string]string{
			"fields_changed": fieldsChanged,
		},
	})
}

// --- Retention events ---

// LogsCleaned records an activity log retention sweep. Recorded at high
// severity so the cleanup itself stays visible in the log.
func (rec *Recorder) LogsCleaned(ctx context.Context, r *http.Request, actorID *primitive.ObjectID, daysKept int, removed int64, mode string) {
	entry := models.ActivityLogEntry{
		ActorID:     actorID,
		Action:      "activity_log.clean",
		Resource:    "activity_log",
		Description: "Old activity logs removed",
		Severity:    models.SeverityHigh,
		Details: map[string]string{
			"days_kept": strconv.Itoa(daysKept),
			"removed":   strconv.FormatInt(removed, 10),
			"mode":      mode,
		},
	}
	if r != nil {
		entry.IPAddress = clientIP(r)
		entry.UserAgent = r.UserAgent()
	}
	rec.Record(ctx, entry)
}
