// internal/app/system/sms/gateway.go
package sms

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
)

// Gateway sends messages through an HTTP SMS provider using a form POST.
type Gateway struct {
	gatewayURL string
	apiKey     string
	senderID   string
	client     *http.Client
	logger     *zap.Logger
}

// NewGateway builds a gateway sender from config.
func NewGateway(cfg Config, logger *zap.Logger) *Gateway {
	return &Gateway{
		gatewayURL: cfg.GatewayURL,
		apiKey:     cfg.APIKey,
		senderID:   cfg.SenderID,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Send posts the message to the gateway. Failures are surfaced to the
// caller immediately; there is no retry.
func (g *Gateway) Send(ctx context.Context, phone, message string) error {
	start := time.Now()

	form := url.Values{}
	form.Set("mobile", phone)
	form.Set("msg", message)
	form.Set("msgType", "text")
	form.Set("output", "json")
	if g.senderID != "" {
		form.Set("senderid", g.senderID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.gatewayURL, strings.NewReader(form.Encode()))
	if err != nil {
		return apperr.Upstream("sms", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if g.apiKey != "" {
		req.Header.Set("apikey", g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("sms gateway request failed",
			zap.String("phone", phone),
			zap.Error(err))
		return apperr.Upstream("sms", err)
	}
	defer resp.Body.Close()

	// Read a bounded amount of the response for the log; providers return
	// small JSON bodies.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		g.logger.Error("sms gateway rejected message",
			zap.String("phone", phone),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body),
			zap.Duration("duration", time.Since(start)))
		return apperr.Upstream("sms", &statusError{code: resp.StatusCode})
	}

	g.logger.Info("sms sent",
		zap.String("phone", phone),
		zap.Duration("duration", time.Since(start)))
	return nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "gateway returned status " + http.StatusText(e.code)
}
