// internal/app/features/websettings/get.go
package websettings

import (
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeGet handles GET /. When nothing has been saved yet the response
// carries the built-in defaults rather than a 404.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "get website settings")
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	httpx.OK(w, "Settings retrieved.", settings)
}
