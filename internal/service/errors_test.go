package service_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/pantry/backend/internal/service"
)

func TestAsValidation(t *testing.T) {
	one := service.ValidationError{Field: "title", Message: "this field is required"}
	many := service.ValidationErrors{one, {Field: "price", Message: "a valid number is required"}}

	got, ok := service.AsValidation(fmt.Errorf("wrapped: %w", one))
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"title": "this field is required"}, got.Fields())

	got, ok = service.AsValidation(many)
	assert.True(t, ok)
	assert.Len(t, got, 2)
	assert.Equal(t, "validation failed: title: this field is required; price: a valid number is required", many.Error())

	_, ok = service.AsValidation(errors.New("boom"))
	assert.False(t, ok)
	_, ok = service.AsValidation(service.ErrNotFound)
	assert.False(t, ok)
}
