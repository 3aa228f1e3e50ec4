package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	var nilErr *ValidationError
	assert.True(t, nilErr.Empty())

	e := &ValidationError{}
	assert.NoError(t, e.OrNil())

	e.Add("phone", "formato")
	e.Add("phone", "otro")
	e.Add("name", "obligatorio")
	assert.Equal(t, "formato", e.Fields["phone"], "conserva el primer mensaje")
	assert.Equal(t, "validación: name: obligatorio; phone: formato", e.Error())
	assert.True(t, errors.Is(e.OrNil(), ErrInvalidInput))
}

func TestBackendError_Unwrap(t *testing.T) {
	cases := map[int]error{401: ErrUnauthorized, 403: ErrForbidden, 404: ErrNotFound, 409: ErrConflict}
	for status, want := range cases {
		assert.ErrorIs(t, &BackendError{Status: status, Message: "x"}, want)
	}
	assert.Nil(t, errors.Unwrap(&BackendError{Status: 500}))
	assert.Equal(t, "backend: timeout", (&BackendError{Message: "timeout"}).Error())
}
