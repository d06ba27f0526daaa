package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		require.Nil(t, ToDomainError(nil))
	})

	t.Run("wrapped domain error", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", NewUnauthorizedReason("Unauthorized", "EXPIRED", nil))
		de := ToDomainError(err)
		require.Equal(t, "UNAUTHORIZED", de.Code)
		require.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
		require.Equal(t, "EXPIRED", de.Details["reason"])
	})

	t.Run("validation error", func(t *testing.T) {
		de := ToDomainError(NewValidationError("invalid payload", map[string]any{"body": "unexpected EOF"}))
		require.Equal(t, "VALIDATION_FAILED", de.Code)
		require.Equal(t, http.StatusBadRequest, de.HTTPStatus)
		require.Equal(t, "unexpected EOF", de.Details["body"])
	})

	t.Run("fiber error", func(t *testing.T) {
		de := ToDomainError(fiber.NewError(http.StatusNotFound, "Cannot GET /nope"))
		require.Equal(t, "NOT_FOUND", de.Code)
		require.Equal(t, http.StatusNotFound, de.HTTPStatus)
		require.Equal(t, "Cannot GET /nope", de.Message)
	})

	t.Run("unknown error hides message", func(t *testing.T) {
		cause := errors.New("pq: password authentication failed")
		de := ToDomainError(cause)
		require.Equal(t, "INTERNAL_ERROR", de.Code)
		require.Equal(t, "internal server error", de.Message)
		require.ErrorIs(t, de, cause)
	})
}
