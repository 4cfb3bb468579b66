package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("article x: %w", ErrNotFound), http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{NewValidationError(map[string]string{"title": "cannot be blank"}, nil), http.StatusBadRequest},
		{ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
		{fmt.Errorf("put: %w", ErrStorageWriteFailed), http.StatusBadGateway},
		{ErrStorageDeleteFailed, http.StatusBadGateway},
		{ErrSlugExhausted, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatus(c.err), "%v", c.err)
	}
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("title: cannot be blank.")
	err := fmt.Errorf("create: %w", NewValidationError(map[string]string{"title": "cannot be blank"}, cause))

	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, PublicMessage(err), "title")
}

func TestPublicMessageHidesInternals(t *testing.T) {
	assert.Equal(t, "internal server error", PublicMessage(errors.New("pq: connection refused")))
}
