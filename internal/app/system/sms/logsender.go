// internal/app/system/sms/logsender.go
package sms

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes messages to the application log instead of delivering
// them. Used in development and tests.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, phone, message string) error {
	s.logger.Info("sms (log sender)",
		zap.String("phone", phone),
		zap.String("message", message))
	return nil
}
