package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type itemForm struct {
	Name     string `validate:"required,max=10"`
	Kind     string `validate:"required,oneof=lost found"`
	Location string `validate:"min=3"`
}

func TestFormatValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(itemForm{Name: "a very long name", Kind: "stolen", Location: "x"})

	msg := FormatValidationError(err)
	assert.Contains(t, msg, "Item name must be at most 10 characters")
	assert.Contains(t, msg, "Item type must be one of: lost found")
	assert.Contains(t, msg, "Location must be at least 3 characters")
}

func TestFormatValidationError_Required(t *testing.T) {
	v := validator.New()

	err := v.Struct(itemForm{Location: "Cafe"})

	assert.Equal(t, "Item name is required; Item type is required", FormatValidationError(err))
}

func TestFormatValidationError_PlainError(t *testing.T) {
	assert.Equal(t, "unexpected EOF", FormatValidationError(errors.New("unexpected EOF")))
}
