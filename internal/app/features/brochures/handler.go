// internal/app/features/brochures/handler.go
package brochures

import (
	"go.uber.org/zap"

	brochurestore "github.com/dalemusser/reliefhub/internal/app/store/brochures"
	"github.com/dalemusser/reliefhub/internal/app/system/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/storage"
)

// Handler serves brochure CRUD. Files are written to object storage
// before the record, same trade-off as banners.
type Handler struct {
	Brochures *brochurestore.Store
	Files     storage.Store
	Recorder  *activity.Recorder
	Log       *zap.Logger
}

// NewHandler constructs a brochure feature handler.
func NewHandler(brochures *brochurestore.Store, files storage.Store, recorder *activity.Recorder, logger *zap.Logger) *Handler {
	return &Handler{
		Brochures: brochures,
		Files:     files,
		Recorder:  recorder,
		Log:       logger,
	}
}
