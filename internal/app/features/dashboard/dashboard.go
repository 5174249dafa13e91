// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/scope"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// recentDefault bounds the recent-activity lists; limit query values
// above recentMax are clamped rather than rejected.
const (
	recentDefault = 10
	recentMax     = 50
)

// ServeOverview handles GET /overview.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "dashboard overview")
	defer cancel()

	sc := scope.FromUser(auth.MustCurrentUser(r))
	overview, err := h.Dash.Overview(ctx, sc)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	httpx.OK(w, "Dashboard overview retrieved.", overview)
}

// ServeRecentApplications handles GET /recent-applications.
func (h *Handler) ServeRecentApplications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "recent applications")
	defer cancel()

	sc := scope.FromUser(auth.MustCurrentUser(r))
	apps, err := h.Dash.RecentApplications(ctx, sc, recentLimit(r))
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if apps == nil {
		apps = []models.AidApplication{}
	}
	httpx.OK(w, "Recent applications retrieved.", apps)
}

// ServeRecentPayments handles GET /recent-payments.
func (h *Handler) ServeRecentPayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "recent payments")
	defer cancel()

	sc := scope.FromUser(auth.MustCurrentUser(r))
	payments, err := h.Dash.RecentPayments(ctx, sc, recentLimit(r))
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	httpx.OK(w, "Recent payments retrieved.", payments)
}

// ServeMonthlyTrends handles GET /monthly-trends. The months parameter
// selects the window length; out-of-range values are rejected rather
// than clamped so charts never silently change their span.
func (h *Handler) ServeMonthlyTrends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "monthly trends")
	defer cancel()

	months := 0
	if s := httpx.Query(r, "months"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 24 {
			httpx.FailErr(w, h.Log, apperr.Invalid("months must be between 1 and 24"))
			return
		}
		months = n
	}

	sc := scope.FromUser(auth.MustCurrentUser(r))
	points, err := h.Dash.MonthlyTrends(ctx, sc, months)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	httpx.OK(w, "Monthly trends retrieved.", points)
}

func recentLimit(r *http.Request) int64 {
	limit := int64(recentDefault)
	if s := httpx.Query(r, "limit"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 1 {
			limit = n
		}
	}
	if limit > recentMax {
		limit = recentMax
	}
	return limit
}
