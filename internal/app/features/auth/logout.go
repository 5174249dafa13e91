// internal/app/features/auth/logout.go
package authapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeLogout handles POST /auth/logout: revokes every refresh token
// the user holds. The access token stays valid until it expires, which
// is why its lifetime is short.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "logout")
	defer cancel()

	user := auth.MustCurrentUser(r)

	revoked, err := h.Tokens.RevokeAllForUser(ctx, user.ID)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	h.Log.Info("user signed out",
		zap.String("user_id", user.ID.Hex()), zap.Int64("tokens_revoked", revoked))
	h.Recorder.Logout(ctx, r, user.ID)

	httpx.OK(w, "Signed out.", nil)
}
