// internal/app/features/notifications/handler.go
package notifications

import (
	"go.uber.org/zap"

	notifstore "github.com/dalemusser/reliefhub/internal/app/store/notifications"
)

// Handler serves the signed-in user's notification feed. Everything is
// scoped to the caller; there is no cross-user read path here.
type Handler struct {
	Notifs *notifstore.Store
	Log    *zap.Logger
}

// NewHandler constructs a notifications feature handler.
func NewHandler(notifs *notifstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Notifs: notifs, Log: logger}
}
