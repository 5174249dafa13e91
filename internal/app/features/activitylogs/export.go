// internal/app/features/activitylogs/export.go
package activitylogs

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/system/csvutil"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeExport handles GET /activity-logs/export: the filtered entries
// as a CSV download, oldest first, capped at the store's export limit.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "activity log export")
	defer cancel()

	filter, err := parseFilter(r)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	entries, err := h.Logs.Export(ctx, filter)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	cw := csvutil.Begin(w, csvutil.Filename("activity-logs", time.Now()))
	_ = cw.Write([]string{
		"timestamp", "actor_id", "action", "resource", "resource_id",
		"description", "status", "severity", "ip_address",
	})
	for _, e := range entries {
		actor := ""
		if e.ActorID != nil {
			actor = e.ActorID.Hex()
		}
		_ = cw.Write([]string{
			e.Timestamp.UTC().Format(time.RFC3339),
			actor,
			e.Action,
			e.Resource,
			e.ResourceID,
			e.Description,
			e.Status,
			e.Severity,
			e.IPAddress,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Log.Warn("activity export write failed",
			zap.Int("rows", len(entries)), zap.Error(err))
		return
	}
	h.Log.Info("activity logs exported", zap.Int("rows", len(entries)))
}
