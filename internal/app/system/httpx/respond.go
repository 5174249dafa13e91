// internal/app/system/httpx/respond.go

// Package httpx writes the uniform response envelope used by every
// endpoint: {success, message, data} on success, {success, message,
// error} on failure.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies. Multipart uploads have their
// own limits in the uploads package.
const maxBodyBytes = 1 << 20 // 1 MiB

// Envelope is the wire shape of every response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a failure envelope with an explicit status and error code.
func Fail(w http.ResponseWriter, status int, message, code string) {
	write(w, status, Envelope{Success: false, Message: message, Error: code})
}

// FailErr classifies err through the apperr taxonomy and writes the
// matching failure envelope. Expected errors (4xx) surface their own
// message; anything unclassified is a 500 with a generic message, and
// the cause is logged instead of leaked.
func FailErr(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := apperr.Status(err)
	code := apperr.Code(err)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		if logger != nil {
			logger.Error("request failed", zap.Error(err))
		}
		msg = "An unexpected error occurred."
		if errors.Is(err, apperr.ErrUpstream) {
			msg = "An upstream service is unavailable."
		}
	}

	write(w, status, Envelope{Success: false, Message: msg, Error: code})
}

// Decode reads a JSON body into dst with a size cap. Unknown fields are
// tolerated; malformed bodies come back as ErrInvalidInput.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("request body is required")
		}
		return fmt.Errorf("%w: malformed JSON body", apperr.ErrInvalidInput)
	}
	return nil
}

// Query returns a trimmed query parameter.
func Query(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// Encoding an Envelope cannot fail for the payloads this app
	// produces; a broken connection is the client's problem.
	_ = json.NewEncoder(w).Encode(env)
}
