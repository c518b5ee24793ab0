package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"InvalidFormat", &InvalidFormatError{Value: "ph1"}, fiber.StatusBadRequest},
		{"NotFound", NotFound("module", "PH1"), fiber.StatusNotFound},
		{"Conflict", Conflict("duplicate"), fiber.StatusConflict},
		{"Store", Store("find module", errors.New("boom")), fiber.StatusInternalServerError},
		{"Plain", errors.New("boom"), fiber.StatusInternalServerError},
		{"Wrapped", fmt.Errorf("row 3: %w", &InvalidFormatError{Value: "x"}), fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestStore_NilPassthrough(t *testing.T) {
	assert.NoError(t, Store("anything", nil))
}

func TestStore_Unwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := Store("count questions", inner)
	assert.ErrorIs(t, err, inner)
}
