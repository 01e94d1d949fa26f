package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rpggio/mediastudio/internal/domain/activity"
	"github.com/rpggio/mediastudio/internal/domain/generation"
	"github.com/rpggio/mediastudio/internal/domain/project"
	"github.com/rpggio/mediastudio/internal/media/video"
	"github.com/rpggio/mediastudio/internal/provider"
	"github.com/rpggio/mediastudio/internal/repository"
)

// APIError is an error response.
type APIError struct {
	HTTPStatus int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain, provider and storage errors to an API error.
// Anything unrecognised is treated as a storage failure.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var perr *provider.Error
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, generation.ErrInvalidInput),
		errors.Is(err, generation.ErrInvalidType),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidInput),
		errors.Is(err, video.ErrOutsideMediaRoot),
		errors.Is(err, video.ErrInvalidPath):
		return &APIError{HTTPStatus: http.StatusBadRequest, Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, generation.ErrProjectNotFound),
		errors.Is(err, repository.ErrNotFound):
		return &APIError{HTTPStatus: http.StatusNotFound, Code: "PROJECT_NOT_FOUND", Message: "project not found"}
	case errors.As(err, &perr):
		return providerError(perr)
	default:
		return &APIError{HTTPStatus: http.StatusInternalServerError, Code: "STORAGE_ERROR", Message: "internal storage error"}
	}
}

func providerError(perr *provider.Error) *APIError {
	e := &APIError{
		HTTPStatus: http.StatusBadGateway,
		Message:    fmt.Sprintf("%s %s failed: %s", perr.Provider, perr.Op, perr.Kind),
	}
	switch perr.Kind {
	case provider.KindUnconfigured:
		e.HTTPStatus = http.StatusServiceUnavailable
		e.Code = "PROVIDER_UNCONFIGURED"
		e.Message = fmt.Sprintf("%s is not configured", perr.Provider)
	case provider.KindRateLimited:
		e.HTTPStatus = http.StatusServiceUnavailable
		e.Code = "PROVIDER_RATE_LIMITED"
	case provider.KindTimeout:
		e.HTTPStatus = http.StatusGatewayTimeout
		e.Code = "PROVIDER_TIMEOUT"
	case provider.KindUnauthorized:
		e.Code = "PROVIDER_UNAUTHORIZED"
	case provider.KindRejected:
		e.Code = "PROVIDER_REJECTED"
	case provider.KindMalformed:
		e.Code = "PROVIDER_MALFORMED"
	default:
		e.Code = "PROVIDER_UNAVAILABLE"
	}
	return e
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := MapError(err)
	if apiErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "code", apiErr.Code, "error", err)
	}
	writeJSON(w, apiErr.HTTPStatus, envelope{
		"status":  statusError,
		"code":    apiErr.Code,
		"message": apiErr.Message,
	})
}
