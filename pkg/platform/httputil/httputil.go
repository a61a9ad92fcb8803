// Package httputil maps coded domain errors onto HTTP responses so handlers
// never hand-roll status codes. Transport stays a thin shell over services.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "fairworkly/pkg/domain-errors"
)

// errorBody is the wire shape for all error responses.
type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// statusFor maps domain error codes to HTTP status codes.
func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeInvalidInput,
		dErrors.CodeInvariantViolation, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// wireCode is the stable error identifier exposed to clients.
func wireCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeInternal:
		return "internal_error"
	case dErrors.CodeConfiguration:
		return "configuration_error"
	default:
		return string(code)
	}
}

// WriteError renders err as a JSON error response. Internal and configuration
// errors omit the description so operator details never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := errorBody{Error: wireCode(code)}
	if code != dErrors.CodeInternal && code != dErrors.CodeConfiguration {
		body.Description = dErrors.MessageOf(err)
	}
	WriteJSON(w, statusFor(code), body)
}

// WriteJSON renders v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
