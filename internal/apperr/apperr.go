// Package apperr holds the error kinds that cross the request boundary.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrValidation           = errors.New("validation failed")
	ErrSlugExhausted        = errors.New("slug retry budget exhausted")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrStorageWriteFailed   = errors.New("storage write failed")
	ErrStorageDeleteFailed  = errors.New("storage delete failed")
	ErrPayloadTooLarge      = errors.New("payload too large")
)

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
	cause  error
}

func NewValidationError(fields map[string]string, cause error) *ValidationError {
	return &ValidationError{Fields: fields, cause: cause}
}

func (e *ValidationError) Error() string {
	if e.cause != nil {
		return ErrValidation.Error() + ": " + e.cause.Error()
	}
	return ErrValidation.Error()
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.cause }

// HTTPStatus maps an error to the status code returned to clients.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrStorageWriteFailed), errors.Is(err, ErrStorageDeleteFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text shown to clients; internal failures stay opaque.
func PublicMessage(err error) string {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrUnsupportedMediaType):
		return "unsupported media type"
	case errors.Is(err, ErrPayloadTooLarge):
		return "upload too large"
	case errors.Is(err, ErrStorageWriteFailed):
		return "could not store file"
	case errors.Is(err, ErrStorageDeleteFailed):
		return "could not delete file"
	case errors.Is(err, ErrSlugExhausted):
		return "could not allocate a unique address, try another title"
	default:
		return "internal server error"
	}
}
