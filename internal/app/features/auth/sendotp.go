// internal/app/features/auth/sendotp.go
package authapi

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/store/otp"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/app/system/normalize"
	"github.com/dalemusser/reliefhub/internal/app/system/ratelimit"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

const otpMessage = "Your ReliefHub verification code is %s. It expires in %d minutes."

// ServeSendOTP handles POST /auth/send-otp: issues a login code and
// delivers it over SMS. Rate limited per IP and per phone.
func (h *Handler) ServeSendOTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "send otp")
	defer cancel()

	var req sendOTPRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	phone := normalize.Phone(req.Phone)
	if !inputval.IsValidPhone(phone) {
		httpx.FailErr(w, h.Log, apperr.Invalid("phone must be a valid phone number"))
		return
	}

	ip := ratelimit.ClientIP(r)
	if ok, reason := h.Limiter.Check(ip, phone); !ok {
		h.Log.Warn("otp request rate limited",
			zap.String("reason", reason), zap.String("ip", ip))
		httpx.Fail(w, http.StatusTooManyRequests,
			"Too many verification requests. Try again later.", "rate_limited")
		return
	}

	res, err := h.OTP.Create(ctx, phone, otp.PurposeLogin)
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
	if err := h.SMS.Send(ctx, phone, msg); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	h.Recorder.OTPSent(ctx, r, phone, otp.PurposeLogin)

	httpx.OK(w, "Verification code sent.", sendOTPResponse{
		ExpiresInSeconds: int(expiry.Seconds()),
		ResendCount:      res.ResendCount,
	})
}
