// internal/app/features/auth/register.go
package authapi

import (
	"errors"
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/store/otp"
	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/app/system/normalize"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeCompleteRegistration handles POST /auth/complete-registration:
// verifies the pending login code for an unregistered phone, creates
// the account, and signs it in.
func (h *Handler) ServeCompleteRegistration(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "complete registration")
	defer cancel()

	var req completeRegistrationRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	phone := normalize.Phone(req.Phone)
	if !inputval.IsValidPhone(phone) {
		httpx.FailErr(w, h.Log, apperr.Invalid("phone must be a valid phone number"))
		return
	}
	if req.OTP == "" {
		httpx.FailErr(w, h.Log, apperr.Invalid("otp is required"))
		return
	}
	fullName := normalize.Name(req.FullName)
	if fullName == "" {
		httpx.FailErr(w, h.Log, apperr.Invalid("full_name is required"))
		return
	}
	email := normalize.Email(req.Email)
	if email != "" && !inputval.IsValidEmail(email) {
		httpx.FailErr(w, h.Log, apperr.Invalid("email must be a valid email address"))
		return
	}

	if !h.verifyCode(ctx, w, r, phone, otp.PurposeLogin, req.OTP) {
		return
	}

	user, err := h.Users.Create(ctx, models.User{
		Phone:    phone,
		FullName: fullName,
		Email:    email,
		Area:     normalize.Name(req.Area),
		District: normalize.Name(req.District),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicatePhone) {
			httpx.FailErr(w, h.Log, apperr.Conflict("phone number already registered"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	data, err := h.issueTokens(ctx, &user)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	_ = h.Users.TouchLastLogin(ctx, user.ID)
	h.Limiter.ResetPhone(phone)
	h.Recorder.RegistrationCompleted(ctx, r, user.ID, phone)

	httpx.Created(w, "Registration completed.", data)
}
