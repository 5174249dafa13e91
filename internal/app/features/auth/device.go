// internal/app/features/auth/device.go
package authapi

import (
	"net/http"
	"strings"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeRegisterDevice handles POST /auth/register-device: records or
// refreshes a push-capable device for the current user.
func (h *Handler) ServeRegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "register device")
	defer cancel()

	user := auth.MustCurrentUser(r)

	var req registerDeviceRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	deviceID := strings.TrimSpace(req.DeviceID)
	if deviceID == "" {
		httpx.FailErr(w, h.Log, apperr.Invalid("device_id is required"))
		return
	}
	if !inputval.IsValidPlatform(req.Platform) {
		httpx.FailErr(w, h.Log, apperr.Invalid("platform must be ios, android, or web"))
		return
	}
	platform := strings.ToLower(strings.TrimSpace(req.Platform))

	err := h.Devices.Upsert(ctx, models.Device{
		UserID:    user.ID,
		DeviceID:  deviceID,
		Platform:  platform,
		PushToken: strings.TrimSpace(req.PushToken),
	})
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	h.Recorder.DeviceRegistered(ctx, r, user.ID, platform)

	httpx.OK(w, "Device registered.", nil)
}
