package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{NotFound("appointment not found"), http.StatusNotFound},
		{Unauthorized("bad credentials"), http.StatusBadRequest},
		{Forbidden("not allowed"), http.StatusForbidden},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
		{Validation("bad input"), http.StatusBadRequest},
		{Conflict("slot taken"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.StatusCode(), tc.err.Message)
	}
}

func TestIsKind(t *testing.T) {
	err := Conflict("slot taken")
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))

	wrapped := fmt.Errorf("booking failed: %w", err)
	assert.True(t, IsKind(wrapped, KindConflict))

	assert.False(t, IsKind(errors.New("plain"), KindConflict))
	assert.False(t, IsKind(nil, KindConflict))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "slot taken", Conflict("slot taken").Error())

	inner := errors.New("pq: serialization failure")
	appErr := Internal(inner)
	assert.Contains(t, appErr.Error(), "serialization failure")
	assert.ErrorIs(t, appErr, inner)
}
