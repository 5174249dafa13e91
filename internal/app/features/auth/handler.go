// internal/app/features/auth/handler.go
package authapi

import (
	"go.uber.org/zap"

	devicestore "github.com/dalemusser/reliefhub/internal/app/store/devices"
	"github.com/dalemusser/reliefhub/internal/app/store/otp"
	"github.com/dalemusser/reliefhub/internal/app/store/tokens"
	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"
	"github.com/dalemusser/reliefhub/internal/app/system/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/ratelimit"
	"github.com/dalemusser/reliefhub/internal/app/system/rbac"
	"github.com/dalemusser/reliefhub/internal/app/system/sms"
)

// Handler serves the OTP authentication and account surface.
type Handler struct {
	Users    *userstore.Store
	OTP      *otp.Store
	Tokens   *tokens.Store
	Devices  *devicestore.Store
	TokenMgr *auth.TokenManager
	SMS      sms.Sender
	Perms    *rbac.Service
	Recorder *activity.Recorder
	Limiter  *ratelimit.OTPLimiter
	Log      *zap.Logger
}

// Deps carries the handler's collaborators; there are too many for
// positional construction to stay readable.
type Deps struct {
	Users    *userstore.Store
	OTP      *otp.Store
	Tokens   *tokens.Store
	Devices  *devicestore.Store
	TokenMgr *auth.TokenManager
	SMS      sms.Sender
	Perms    *rbac.Service
	Recorder *activity.Recorder
	Limiter  *ratelimit.OTPLimiter
	Log      *zap.Logger
}

// NewHandler constructs the auth feature handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		Users:    d.Users,
		OTP:      d.OTP,
		Tokens:   d.Tokens,
		Devices:  d.Devices,
		TokenMgr: d.TokenMgr,
		SMS:      d.SMS,
		Perms:    d.Perms,
		Recorder: d.Recorder,
		Limiter:  d.Limiter,
		Log:      d.Log,
	}
}
