// internal/app/features/auth/refresh.go
package authapi

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/store/tokens"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeRefreshToken handles POST /auth/refresh-token: rotates a refresh
// token into a fresh access/refresh pair. The old token is consumed
// even if the account turns out to be disabled.
func (h *Handler) ServeRefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "refresh token")
	defer cancel()

	var req refreshRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if req.RefreshToken == "" {
		httpx.FailErr(w, h.Log, apperr.Invalid("refresh_token is required"))
		return
	}

	token, err := h.Tokens.Consume(ctx, req.RefreshToken)
	if err != nil {
		if err == tokens.ErrNotFound {
			httpx.Fail(w, http.StatusUnauthorized,
				"Invalid or expired refresh token.", "unauthorized")
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	user, err := h.Users.GetByID(ctx, token.UserID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpx.Fail(w, http.StatusUnauthorized,
				"Invalid or expired refresh token.", "unauthorized")
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}
	if !user.IsActive() {
		// A disabled account keeps no live sessions.
		_, _ = h.Tokens.RevokeAllForUser(ctx, user.ID)
		httpx.Fail(w, http.StatusForbidden, "Account is disabled.", "forbidden")
		return
	}

	data, err := h.issueTokens(ctx, &user)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	httpx.OK(w, "Token refreshed.", data)
}
