package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string  `validate:"required"`
	Email *string `validate:"omitempty,email"`
}

func TestValidate(t *testing.T) {
	good := "ivan@example.com"
	bad := "not-an-email"

	assert.NoError(t, Validate(&sample{Name: "Иван"}))
	assert.NoError(t, Validate(&sample{Name: "Иван", Email: &good}))
	assert.ErrorIs(t, Validate(&sample{}), ErrInvalidInput)
	assert.ErrorIs(t, Validate(&sample{Name: "Иван", Email: &bad}), ErrInvalidInput)
}
