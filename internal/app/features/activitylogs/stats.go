// internal/app/features/activitylogs/stats.go
package activitylogs

import (
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/store/activitylog"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeStats handles GET /activity-logs/stats: summary counts plus
// per-bucket trends over a trailing window. The window comes from
// ?period (7d/30d/90d/1y) and the bucket from ?group_by
// (hour/day/week/month).
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "activity log stats")
	defer cancel()

	start, end, period, err := parseWindow(r)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	groupBy := httpx.Query(r, "group_by")
	if groupBy == "" {
		groupBy = "day"
	}
	if !activitylog.ValidBucket(groupBy) {
		httpx.FailErr(w, h.Log, apperr.Invalid("group_by must be one of hour, day, week, month"))
		return
	}

	summary, err := h.Logs.Summarize(ctx, start, end)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	trends, err := h.Logs.Trends(ctx, start, end, groupBy)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if trends == nil {
		trends = []activitylog.TrendBucket{}
	}

	httpx.OK(w, "Activity stats retrieved.", statsResponse{
		Period:  period,
		GroupBy: groupBy,
		Summary: summary,
		Trends:  trends,
	})
}
