// internal/app/features/banners/handler.go
package banners

import (
	"go.uber.org/zap"

	bannerstore "github.com/dalemusser/reliefhub/internal/app/store/banners"
	"github.com/dalemusser/reliefhub/internal/app/system/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/storage"
)

// Handler serves banner CRUD. Banner images are written to object
// storage before the record; a crash between the two leaves an orphaned
// file, which is reconciled operationally rather than transactionally.
type Handler struct {
	Banners  *bannerstore.Store
	Files    storage.Store
	Recorder *activity.Recorder
	Log      *zap.Logger
}

// NewHandler constructs a banner feature handler.
func NewHandler(banners *bannerstore.Store, files storage.Store, recorder *activity.Recorder, logger *zap.Logger) *Handler {
	return &Handler{
		Banners:  banners,
		Files:    files,
		Recorder: recorder,
		Log:      logger,
	}
}
