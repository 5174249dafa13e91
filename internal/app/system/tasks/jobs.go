// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/store/activitylog"
	"github.com/dalemusser/reliefhub/internal/app/store/roleassign"
	"github.com/dalemusser/reliefhub/internal/app/system/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/rbac"
)

// AssignmentExpiryJob creates a job that deactivates role assignments
// whose validity window has passed. Resolution already ignores expired
// assignments at query time; the sweep keeps the stored rows honest and
// drops stale cached permission sets.
func AssignmentExpiryJob(assignStore *roleassign.Store, perms *rbac.Service, logger *zap.Logger) Job {
	return Job{
		Name:     "assignment-expiry",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := assignStore.DeactivateExpired(ctx, time.Now())
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("deactivated expired role assignments",
					zap.Int64("count", count))
				perms.InvalidateAll(ctx)
			}
			return nil
		},
	}
}

// LogRetentionJob creates a job that removes activity log entries older
// than retentionDays. The sweep itself is recorded as a high-severity
// activity entry so the log shows its own pruning.
func LogRetentionJob(logStore *activitylog.Store, recorder *activity.Recorder, logger *zap.Logger, retentionDays int, hardDelete bool) Job {
	return Job{
		Name:     "activity-log-retention",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := logStore.Clean(ctx, retentionDays, hardDelete)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("removed old activity log entries",
					zap.Int64("count", count),
					zap.Int("days_kept", retentionDays))
				mode := "soft"
				if hardDelete {
					mode = "hard"
				}
				recorder.LogsCleaned(ctx, nil, nil, retentionDays, count, mode)
			}
			return nil
		},
	}
}
