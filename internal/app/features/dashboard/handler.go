// internal/app/features/dashboard/handler.go
package dashboard

import (
	"go.uber.org/zap"

	dashstore "github.com/dalemusser/reliefhub/internal/app/store/dashboard"
)

// Handler serves scoped dashboard aggregates. The caller's scope is
// derived from their user record on every request and pushed into each
// aggregation; a restricted admin can never see outside their region.
type Handler struct {
	Dash *dashstore.Store
	Log  *zap.Logger
}

// NewHandler constructs a dashboard feature handler.
func NewHandler(dash *dashstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Dash: dash, Log: logger}
}
