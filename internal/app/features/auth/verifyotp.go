// internal/app/features/auth/verifyotp.go
package authapi

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/store/otp"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/app/system/normalize"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeVerifyOTP handles POST /auth/verify-otp: exchanges a valid code
// for tokens. An unregistered phone gets registration_required back
// without consuming the code, so complete-registration can still use
// it.
func (h *Handler) ServeVerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "verify otp")
	defer cancel()

	var req verifyOTPRequest
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

	user, err := h.Users.GetByPhone(ctx, phone)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpx.OK(w, "Phone is not registered yet.", registrationRequired{RegistrationRequired: true})
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	if !h.verifyCode(ctx, w, r, phone, otp.PurposeLogin, req.OTP) {
		return
	}

	if !user.IsActive() {
		httpx.Fail(w, http.StatusForbidden, "Account is disabled.", "forbidden")
		return
	}

	data, err := h.issueTokens(ctx, &user)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	_ = h.Users.TouchLastLogin(ctx, user.ID)
	h.Limiter.ResetPhone(phone)
	h.Recorder.LoginSuccess(ctx, r, user.ID, phone)

	httpx.OK(w, "Signed in successfully.", data)
}

// verifyCode checks an OTP and writes the failure response itself when
// the code doesn't pass. Returns true when verification succeeded.
func (h *Handler) verifyCode(ctx context.Context, w http.ResponseWriter, r *http.Request, phone, purpose, code string) bool {
	err := h.OTP.Verify(ctx, phone, purpose, code)
	switch err {
	case nil:
		return true
	case otp.ErrTooManyAttempts:
		h.Recorder.OTPVerifyFailed(ctx, r, phone, "too many attempts")
		httpx.Fail(w, http.StatusTooManyRequests,
			"Too many verification attempts. Request a new code.", "rate_limited")
	case otp.ErrNotFound, otp.ErrInvalidCode:
		h.Recorder.OTPVerifyFailed(ctx, r, phone, err.Error())
		httpx.Fail(w, http.StatusUnauthorized,
			"Invalid or expired verification code.", "unauthorized")
	default:
		httpx.FailErr(w, h.Log, err)
	}
	return false
}

// issueTokens mints the access/refresh pair for a signed-in user.
func (h *Handler) issueTokens(ctx context.Context, user *models.User) (*tokenData, error) {
	access, expiresAt, err := h.TokenMgr.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := h.Tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &tokenData{
		AccessToken:  access,
		ExpiresAt:    expiresAt,
		RefreshToken: refresh,
		User:         user,
	}, nil
}
