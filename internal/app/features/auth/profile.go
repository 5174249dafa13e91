// internal/app/features/auth/profile.go
package authapi

import (
	"net/http"
	"strings"

	"github.com/dalemusser/reliefhub/internal/app/store/users"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/app/system/normalize"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeProfile handles GET /auth/profile: the current user plus their
// effective permission names, so clients can build navigation without a
// second round trip.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "profile")
	defer cancel()

	user := auth.MustCurrentUser(r)

	perms, err := h.Perms.EffectivePermissionsForUser(ctx, user)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	httpx.OK(w, "Profile retrieved.", profileResponse{
		User:        user,
		Permissions: perms,
	})
}

// ServeUpdateProfile handles PUT /auth/profile: a partial update of the
// self-service fields. Absent fields keep their stored values.
func (h *Handler) ServeUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "profile update")
	defer cancel()

	user := auth.MustCurrentUser(r)

	var req updateProfileRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	var changed []string
	upd := userstore.ProfileUpdate{}

	if req.FullName != nil {
		name := normalize.Name(*req.FullName)
		if name == "" {
			httpx.FailErr(w, h.Log, apperr.Invalid("full_name cannot be empty"))
			return
		}
		upd.FullName = &name
		changed = append(changed, "full_name")
	}
	if req.Email != nil {
		email := normalize.Email(*req.Email)
		if email != "" && !inputval.IsValidEmail(email) {
			httpx.FailErr(w, h.Log, apperr.Invalid("email must be a valid email address"))
			return
		}
		upd.Email = &email
		changed = append(changed, "email")
	}
	if req.Area != nil {
		area := normalize.Name(*req.Area)
		upd.Area = &area
		changed = append(changed, "area")
	}
	if req.District != nil {
		district := normalize.Name(*req.District)
		upd.District = &district
		changed = append(changed, "district")
	}

	if len(changed) == 0 {
		httpx.FailErr(w, h.Log, apperr.Invalid("no fields to update"))
		return
	}

	if err := h.Users.UpdateProfile(ctx, user.ID, upd); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	fresh, err := h.Users.GetByID(ctx, user.ID)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	h.Recorder.ProfileUpdated(ctx, r, user.ID, strings.Join(changed, ", "))

	httpx.OK(w, "Profile updated.", &fresh)
}
