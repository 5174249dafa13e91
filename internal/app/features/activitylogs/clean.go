// internal/app/features/activitylogs/clean.go
package activitylogs

import (
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeClean handles POST /activity-logs/clean: removes entries older
// than days_to_keep (soft or hard per configuration) and records the
// cleanup itself as a high-severity entry.
func (h *Handler) ServeClean(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "activity log clean")
	defer cancel()

	user := auth.MustCurrentUser(r)

	var req cleanRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if req.DaysToKeep < 1 {
		httpx.FailErr(w, h.Log, apperr.Invalid("days_to_keep must be at least 1"))
		return
	}

	removed, err := h.Logs.Clean(ctx, req.DaysToKeep, h.CleanHard)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	mode := "soft"
	if h.CleanHard {
		mode = "hard"
	}
	h.Recorder.LogsCleaned(ctx, r, &user.ID, req.DaysToKeep, removed, mode)

	httpx.OK(w, "Old activity logs cleaned.", cleanResponse{
		Removed:  removed,
		DaysKept: req.DaysToKeep,
		Mode:     mode,
	})
}
