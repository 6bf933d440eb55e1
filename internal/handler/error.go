// Package handler exposes the back-office functions over HTTP.
//
// Each function is a single JSON request/response endpoint with a
// uniform error envelope. Domain error codes map to HTTP status codes;
// everything unexpected becomes a 500.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mycad/backoffice/internal/domain"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ECONFLICT:
		return http.StatusConflict // 409
	case domain.EINTERNAL:
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// logError logs a request failure at a level based on the status code:
// 5xx are server-side errors, 4xx are expected client errors.
func logError(logger *slog.Logger, r *http.Request, err error, status int) {
	attrs := []any{
		"error", err.Error(),
		"code", domain.ErrorCode(err),
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
	}

	if status >= 500 {
		logger.Error("server error", attrs...)
	} else {
		logger.Info("client error", attrs...)
	}
}
