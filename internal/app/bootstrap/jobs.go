// internal/app/bootstrap/jobs.go
package bootstrap

import (
	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/store/activitylog"
	"github.com/dalemusser/reliefhub/internal/app/store/permissions"
	"github.com/dalemusser/reliefhub/internal/app/store/roleassign"
	"github.com/dalemusser/reliefhub/internal/app/store/roles"
	"github.com/dalemusser/reliefhub/internal/app/system/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/rbac"
	"github.com/dalemusser/reliefhub/internal/app/system/tasks"
)

// NewTaskRunner assembles the background maintenance jobs.
//
// The assignment sweep always runs; the log retention sweep is added
// only when a retention window is configured. Stores here are separate
// instances from the HTTP layer's, which is fine: they are thin
// collection handles with no state of their own.
func NewTaskRunner(cfg AppConfig, deps DBDeps, logger *zap.Logger) *tasks.Runner {
	assignStore := roleassign.New(deps.MongoDB)
	logStore := activitylog.New(deps.MongoDB)
	roleStore := roles.New(deps.MongoDB)
	permStore := permissions.New(deps.MongoDB)

	permCache := rbac.NewCache(deps.Redis, cfg.PermCacheTTL, logger)
	resolver := rbac.NewService(assignStore, roleStore, permStore, permCache, logger)
	recorder := activity.New(logStore, logger, activity.Config{Mode: cfg.ActivityLogMode})

	jobs := []tasks.Job{
		tasks.AssignmentExpiryJob(assignStore, resolver, logger),
	}
	if cfg.RetentionDays > 0 {
		jobs = append(jobs, tasks.LogRetentionJob(logStore, recorder, logger, cfg.RetentionDays, cfg.CleanHard))
	}

	return tasks.NewRunner(logger, jobs...)
}
