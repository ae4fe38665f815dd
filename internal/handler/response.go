// Package handler provides shared JSON response helpers for the storefront
// API: success envelopes and the mapping from domain errors to HTTP status
// codes and user-facing payloads.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ravnkild/eira/internal/domain"
	"github.com/ravnkild/eira/internal/middleware"
)

// RespondJSON writes data as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(r).Error("failed to encode JSON response", "error", err)
	}
}

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`

	// Available carries the stock maximum for insufficient-stock errors so
	// the client can render the "only N available" notice.
	Available *int `json:"available,omitempty"`
}

// RespondError writes a domain error as a JSON error response, logging at
// error level for 5xx and info otherwise.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorToBody(err)

	log := logger(r)
	attrs := []any{
		"error", err.Error(),
		"code", body.Code,
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
	}
	if status >= 500 {
		log.Error("request failed", attrs...)
	} else {
		log.Info("request rejected", attrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]ErrorBody{"error": body})
}

// errorToBody maps an error to its HTTP status and JSON envelope.
func errorToBody(err error) (int, ErrorBody) {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		available := stockErr.Available
		return http.StatusConflict, ErrorBody{
			Code:      "insufficient_stock",
			Message:   fmt.Sprintf("Only %d available", stockErr.Available),
			Available: &available,
		}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ErrorBody{
			Code:    domain.EINVALID,
			Message: "Please correct the highlighted fields",
			Fields:  ve.Fields,
		}
	}

	code := domain.ErrorCode(err)
	return codeToStatus(code), ErrorBody{
		Code:    code,
		Message: domain.ErrorMessage(err),
	}
}

// codeToStatus maps domain error codes to HTTP status codes.
func codeToStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests
	case domain.EUNAVAILABLE:
		return http.StatusBadGateway
	case domain.ENOTIMPL:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func logger(r *http.Request) *slog.Logger {
	return middleware.GetLogger(r.Context())
}
