// internal/app/features/activitylogs/handler.go
package activitylogs

import (
	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/store/activitylog"
	"github.com/dalemusser/reliefhub/internal/app/system/activity"
)

// Handler serves the activity log query surface.
type Handler struct {
	Logs     *activitylog.Store
	Recorder *activity.Recorder

	// CleanHard selects hard deletion for the retention endpoint; the
	// default is a soft delete sweep.
	CleanHard bool

	Log *zap.Logger
}

// NewHandler constructs an activity log feature handler.
func NewHandler(logs *activitylog.Store, recorder *activity.Recorder, cleanHard bool, logger *zap.Logger) *Handler {
	return &Handler{
		Logs:      logs,
		Recorder:  recorder,
		CleanHard: cleanHard,
		Log:       logger,
	}
}
