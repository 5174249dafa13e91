// internal/app/features/websettings/handler.go
package websettings

import (
	"go.uber.org/zap"

	settingsstore "github.com/dalemusser/reliefhub/internal/app/store/sitesettings"
	"github.com/dalemusser/reliefhub/internal/app/system/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/storage"
)

// Handler serves the singleton website settings document.
type Handler struct {
	Settings *settingsstore.Store
	Files    storage.Store
	Recorder *activity.Recorder
	Log      *zap.Logger
}

// NewHandler constructs a website settings feature handler.
func NewHandler(settings *settingsstore.Store, files storage.Store, recorder *activity.Recorder, logger *zap.Logger) *Handler {
	return &Handler{
		Settings: settings,
		Files:    files,
		Recorder: recorder,
		Log:      logger,
	}
}
