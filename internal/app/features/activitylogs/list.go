// internal/app/features/activitylogs/list.go
package activitylogs

import (
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/store/activitylog"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/paging"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeList handles GET /activity-logs: a filtered, sorted page of
// entries plus the total for pagination math.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "activity log list")
	defer cancel()

	filter, err := parseFilter(r)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	page := paging.Parse(r)
	opts := activitylog.QueryOptions{
		SortBy:    httpx.Query(r, "sort_by"),
		SortOrder: httpx.Query(r, "sort_order"),
		Limit:     int64(page.Limit),
		Skip:      page.Skip(),
	}

	items, err := h.Logs.Query(ctx, filter, opts)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	total, err := h.Logs.CountByFilter(ctx, filter)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	if items == nil {
		items = []models.ActivityLogEntry{}
	}
	httpx.OK(w, "Activity logs retrieved.", listResponse{
		Items:      items,
		Pagination: page.Info(total),
	})
}
