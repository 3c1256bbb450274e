package apierror

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rpattn/bidash/internal/config"
	"github.com/rpattn/bidash/internal/domain"
	"github.com/rpattn/bidash/internal/savedfilters"
	"github.com/rpattn/bidash/internal/table"
)

const (
	CodeInvalidRequest       = "invalid_request"
	CodeNotFound             = "not_found"
	CodeConflict             = "conflict"
	CodeUnauthorized         = "unauthorized"
	CodeDatabaseUnavailable  = "database_unavailable"
	CodeConfigurationMissing = "configuration_missing"
	CodeTimeout              = "timeout"
	CodeInternal             = "internal_error"

	ActionRetry      = "retry"
	ActionClearCache = "clear_cache"
	ActionConfigure  = "configure"
	ActionLogin      = "login"
)

// ErrBadRequest marks malformed request input such as undecodable JSON.
var ErrBadRequest = errors.New("bad request")

// Body is the JSON error envelope returned by every API endpoint.
type Body struct {
	Code      string   `json:"error"`
	Message   string   `json:"message"`
	Retryable bool     `json:"retryable"`
	Actions   []string `json:"actions"`
	Missing   []string `json:"missing,omitempty"`
}

// Classify maps an error to its HTTP status and envelope.
func Classify(err error) (int, Body) {
	var missing *config.MissingError
	switch {
	case errors.As(err, &missing):
		return http.StatusServiceUnavailable, Body{
			Code:    CodeConfigurationMissing,
			Message: err.Error(),
			Actions: []string{ActionConfigure},
			Missing: missing.Keys,
		}
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, Body{
			Code:      CodeDatabaseUnavailable,
			Message:   "the database could not be reached; try again or clear the cache",
			Retryable: true,
			Actions:   []string{ActionRetry, ActionClearCache},
		}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, Body{
			Code:      CodeTimeout,
			Message:   "the request took too long",
			Retryable: true,
			Actions:   []string{ActionRetry},
		}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, Body{Code: CodeNotFound, Message: err.Error(), Actions: []string{}}
	case errors.Is(err, domain.ErrSavedFilterNameConflict):
		return http.StatusConflict, Body{Code: CodeConflict, Message: err.Error(), Actions: []string{}}
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, domain.ErrInvalidFilters),
		errors.Is(err, domain.ErrUnknownEntity),
		errors.Is(err, savedfilters.ErrInvalidName),
		errors.Is(err, table.ErrUnknownColumn):
		return http.StatusBadRequest, Body{Code: CodeInvalidRequest, Message: err.Error(), Actions: []string{}}
	default:
		return http.StatusInternalServerError, Body{
			Code:    CodeInternal,
			Message: "internal server error",
			Actions: []string{ActionRetry},
		}
	}
}

// Write classifies err and writes the envelope. Server side failures are logged.
func Write(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, body := Classify(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", zap.Int("status", status), zap.String("code", body.Code), zap.Error(err))
	}
	WriteJSON(w, status, body)
}

// Unauthorized writes the envelope for a failed basic auth check.
func Unauthorized(w http.ResponseWriter, realm string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`", charset="UTF-8"`)
	WriteJSON(w, http.StatusUnauthorized, Body{
		Code:    CodeUnauthorized,
		Message: "authentication required",
		Actions: []string{ActionLogin},
	})
}

// WriteJSON writes v as indented JSON with the given status. A value that
// cannot be encoded is answered with a 500 envelope instead.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		status = http.StatusInternalServerError
		payload, _ = json.MarshalIndent(Body{
			Code:    CodeInternal,
			Message: "response could not be encoded",
			Actions: []string{ActionRetry},
		}, "", "  ")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(payload, '\n'))
}
