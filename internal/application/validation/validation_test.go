package validation

import (
	"errors"
	"testing"

	"github.com/jhoicas/clinic-console/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,idphone"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Inner struct {
		Price int `json:"price" validate:"min=1"`
	} `json:"inner"`
}

func TestStruct_MapsJSONFieldNames(t *testing.T) {
	s := sample{Phone: "0712", Color: "rojo"}
	err := Struct(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "es obligatorio", verr.Fields["name"])
	assert.Contains(t, verr.Fields, "phone")
	assert.Contains(t, verr.Fields, "color")
	assert.Contains(t, verr.Fields, "inner.price")
}

func TestStruct_Valid(t *testing.T) {
	s := sample{Name: "Siti", Phone: "81234567890", Color: "#A1B2C3"}
	s.Inner.Price = 10
	assert.NoError(t, Struct(s))
}

func TestPassword(t *testing.T) {
	cases := map[string]bool{
		"corta1A":   false,
		"sinmayus1": false,
		"SINMINUS1": false,
		"SinDigito": false,
		"Valida123": true,
	}
	for pw, want := range cases {
		_, ok := Password(pw)
		assert.Equal(t, want, ok, pw)
	}
}

func TestMerge(t *testing.T) {
	dst := &domain.ValidationError{}
	require.NoError(t, Merge(dst, domain.NewValidationError("a", "x")))
	require.NoError(t, Merge(dst, nil))
	assert.Equal(t, "x", dst.Fields["a"])

	other := errors.New("boom")
	assert.Equal(t, other, Merge(dst, other))
}
