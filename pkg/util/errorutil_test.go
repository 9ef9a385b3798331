package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	notFound := NewNotFound("ticket", map[string]any{"id": "x"})
	wrapped := fmt.Errorf("lookup: %w", notFound)
	de := ToDomainError(wrapped)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.True(t, IsNotFound(wrapped))

	de = ToDomainError(fiber.ErrMethodNotAllowed)
	assert.Equal(t, http.StatusMethodNotAllowed, de.HTTPStatus)

	de = ToDomainError(errors.New("disk on fire"))
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.False(t, IsNotFound(de))
}
