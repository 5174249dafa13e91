// internal/app/system/sms/sms.go

// Package sms delivers OTP codes and alerts to phones. The gateway sender
// talks to an HTTP SMS provider; the log sender prints messages to the
// application log for development.
package sms

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Sender delivers a text message to a phone number in E.164 form.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// Config selects and configures the SMS provider.
type Config struct {
	// Provider is "gateway" or "log".
	Provider string

	// Gateway provider settings.
	GatewayURL string
	APIKey     string
	SenderID   string
}

// New builds the configured sender.
func New(cfg Config, logger *zap.Logger) (Sender, error) {
	switch cfg.Provider {
	case "", "log":
		logger.Info("using log sms sender; codes will appear in application logs")
		return NewLogSender(logger), nil
	case "gateway":
		if cfg.GatewayURL == "" {
			return nil, fmt.Errorf("sms gateway provider requires a gateway url")
		}
		logger.Info("using sms gateway", zap.String("url", cfg.GatewayURL))
		return NewGateway(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q (want gateway or log)", cfg.Provider)
	}
}
