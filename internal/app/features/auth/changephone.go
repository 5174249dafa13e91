// internal/app/features/auth/changephone.go
package authapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/store/otp"
	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/app/system/normalize"
	"github.com/dalemusser/reliefhub/internal/app/system/ratelimit"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeChangePhone handles POST /auth/change-phone, a two-step flow on
// one endpoint. Without otp in the body it sends a code to the new
// phone; with otp it verifies the code and moves the account.
func (h *Handler) ServeChangePhone(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "change phone")
	defer cancel()

	user := auth.MustCurrentUser(r)

	var req changePhoneRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	newPhone := normalize.Phone(req.NewPhone)
	if !inputval.IsValidPhone(newPhone) {
		httpx.FailErr(w, h.Log, apperr.Invalid("new_phone must be a valid phone number"))
		return
	}
	if newPhone == user.Phone {
		httpx.FailErr(w, h.Log, apperr.Invalid("new_phone must differ from the current phone"))
		return
	}

	if req.OTP == "" {
		h.sendChangePhoneCode(ctx, w, r, newPhone)
		return
	}

	if !h.verifyCode(ctx, w, r, newPhone, otp.PurposeChangePhone, req.OTP) {
		return
	}

	oldPhone := user.Phone
	if err := h.Users.UpdatePhone(ctx, user.ID, newPhone); err != nil {
		if errors.Is(err, userstore.ErrDuplicatePhone) {
			httpx.FailErr(w, h.Log, apperr.Conflict("phone number already registered"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	fresh, err := h.Users.GetByID(ctx, user.ID)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	h.Recorder.PhoneChanged(ctx, r, user.ID, oldPhone, newPhone)

	httpx.OK(w, "Phone number updated.", &fresh)
}

// sendChangePhoneCode is step one: verify the new number is free and
// deliver a code to it.
func (h *Handler) sendChangePhoneCode(ctx context.Context, w http.ResponseWriter, r *http.Request, newPhone string) {
	taken, err := h.Users.PhoneExists(ctx, newPhone)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if taken {
		httpx.FailErr(w, h.Log, apperr.Conflict("phone number already registered"))
		return
	}

	ip := ratelimit.ClientIP(r)
	if ok, reason := h.Limiter.Check(ip, newPhone); !ok {
		h.Log.Warn("change-phone otp rate limited",
			zap.String("reason", reason), zap.String("ip", ip))
		httpx.Fail(w, http.StatusTooManyRequests,
			"Too many verification requests. Try again later.", "rate_limited")
		return
	}

	res, err := h.OTP.Create(ctx, newPhone, otp.PurposeChangePhone)
	if err != nil {
		if err == otp.ErrTooManyResends {
			httpx.Fail(w, http.StatusTooManyRequests,
				"Too many codes requested. Try again later.", "rate_limited")
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	expiry := h.OTP.Expiry()
	msg := fmt.Sprintf(otpMessage, res.Code, int(expiry.Minutes()))
	if err := h.SMS.Send(ctx, newPhone, msg); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	h.Recorder.OTPSent(ctx, r, newPhone, otp.PurposeChangePhone)

	httpx.OK(w, "Verification code sent to the new phone.", sendOTPResponse{
		ExpiresInSeconds: int(expiry.Seconds()),
		ResendCount:      res.ResendCount,
	})
}
