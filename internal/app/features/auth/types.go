// internal/app/features/auth/types.go
package authapi

import (
	"time"

	"github.com/dalemusser/reliefhub/internal/domain/models"
)

type sendOTPRequest struct {
	Phone string `json:"phone"`
}

type sendOTPResponse struct {
	ExpiresInSeconds int `json:"expires_in_seconds"`
	ResendCount      int `json:"resend_count"`
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// registrationRequired tells the client the phone has no account yet;
// the already-issued code is still pending for complete-registration.
type registrationRequired struct {
	RegistrationRequired bool `json:"registration_required"`
}

type completeRegistrationRequest struct {
	Phone    string `json:"phone"`
	OTP      string `json:"otp"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Area     string `json:"area,omitempty"`
	District string `json:"district,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// tokenData is the payload of every endpoint that signs a user in.
type tokenData struct {
	AccessToken  string       `json:"access_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

type profileResponse struct {
	User        *models.User `json:"user"`
	Permissions []string     `json:"permissions"`
}

type updateProfileRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Area     *string `json:"area"`
	District *string `json:"district"`
}

type changePhoneRequest struct {
	NewPhone string `json:"new_phone"`
	OTP      string `json:"otp,omitempty"`
}

type registerDeviceRequest struct {
	DeviceID  string `json:"device_id"`
	Platform  string `json:"platform"`
	PushToken string `json:"push_token,omitempty"`
}
