package services

import (
	"errors"
	"fmt"
	"net/http"

	goa "goa.design/goa/v3/pkg"

	"moblind/internal/inquiry"
	apperrors "moblind/pkg/errors"
)

// Error names shared by every service; the HTTP layer maps them to status codes
const (
	ErrNameBadRequest   = "bad_request"
	ErrNameIncomplete   = "incomplete"
	ErrNameUnauthorized = "unauthorized"
	ErrNameForbidden    = "forbidden"
	ErrNameNotFound     = "not_found"
	ErrNameConflict     = "conflict"
	ErrNameUnavailable  = "unavailable"
	ErrNameInternal     = "internal"
)

// BadRequest creates a properly formatted bad request error
func BadRequest(format string, args ...interface{}) *goa.ServiceError {
	return goa.NewServiceError(fmt.Errorf(format, args...), ErrNameBadRequest, false, false, false)
}

// Unauthorized creates a properly formatted unauthorized error
func Unauthorized(message string) *goa.ServiceError {
	return goa.NewServiceError(errors.New(message), ErrNameUnauthorized, false, false, false)
}

// Forbidden creates a properly formatted forbidden error
func Forbidden(message string) *goa.ServiceError {
	return goa.NewServiceError(errors.New(message), ErrNameForbidden, false, false, false)
}

// NotFound creates a properly formatted not found error
func NotFound(message string) *goa.ServiceError {
	return goa.NewServiceError(errors.New(message), ErrNameNotFound, false, false, false)
}

// Internal wraps an unexpected failure. The cause is kept for logs but not
// shown to clients.
func Internal(message string, err error) *goa.ServiceError {
	return goa.NewServiceError(fmt.Errorf("%s: %w", message, err), ErrNameInternal, false, false, true)
}

// fromFormError converts controller and session store errors
func fromFormError(err error) *goa.ServiceError {
	var svcErr *goa.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	var incomplete *inquiry.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		return goa.NewServiceError(incomplete, ErrNameIncomplete, false, false, false)
	case errors.Is(err, inquiry.ErrNotOpen):
		return goa.NewServiceError(err, ErrNameConflict, false, false, false)
	case errors.Is(err, inquiry.ErrUnknownField):
		return goa.NewServiceError(err, ErrNameBadRequest, false, false, false)
	}

	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeConflict:
		return goa.NewServiceError(err, ErrNameConflict, false, true, false)
	case apperrors.ErrCodeUnavailable:
		return goa.NewServiceError(err, ErrNameUnavailable, false, true, true)
	}
	return Internal("inquiry form update failed", err)
}

// StatusCode returns the HTTP status for a service error name
func StatusCode(name string) int {
	switch name {
	case ErrNameBadRequest:
		return http.StatusBadRequest
	case ErrNameIncomplete:
		return http.StatusUnprocessableEntity
	case ErrNameUnauthorized:
		return http.StatusUnauthorized
	case ErrNameForbidden:
		return http.StatusForbidden
	case ErrNameNotFound:
		return http.StatusNotFound
	case ErrNameConflict:
		return http.StatusConflict
	case ErrNameUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
