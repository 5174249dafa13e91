// internal/app/features/rbac/cleanup.go
package rbacapi

import (
	"net/http"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeCleanup handles POST /assignments/cleanup. It sweeps assignments
// whose valid_until has passed and deactivates them. Safe to call
// repeatedly; already-swept rows no longer match.
func (h *Handler) ServeCleanup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "cleanup assignments")
	defer cancel()

	count, err := h.Assignments.DeactivateExpired(ctx, time.Now().UTC())
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if count > 0 {
		h.Resolver.InvalidateAll(ctx)
	}

	actor := auth.MustCurrentUser(r)
	h.Recorder.AssignmentsCleaned(ctx, &actor.ID, count)

	httpx.OK(w, "Expired assignments deactivated.", cleanupResponse{Deactivated: count})
}
