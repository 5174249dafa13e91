// internal/app/features/newsevents/handler.go
package newsevents

import (
	"go.uber.org/zap"

	newseventstore "github.com/dalemusser/reliefhub/internal/app/store/newsevents"
	"github.com/dalemusser/reliefhub/internal/app/system/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/storage"
)

// Handler serves news article and event CRUD. Bodies arrive as rich
// text and are sanitized before storage; images follow the same
// storage-then-record order as banners.
type Handler struct {
	News     *newseventstore.Store
	Files    storage.Store
	Recorder *activity.Recorder
	Log      *zap.Logger
}

// NewHandler constructs a news/events feature handler.
func NewHandler(news *newseventstore.Store, files storage.Store, recorder *activity.Recorder, logger *zap.Logger) *Handler {
	return &Handler{
		News:     news,
		Files:    files,
		Recorder: recorder,
		Log:      logger,
	}
}
