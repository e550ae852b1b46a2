package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "validation",
			err:        NewValidationError("title is required", map[string]any{"field": "title"}),
			wantCode:   "VALIDATION_FAILED",
			wantStatus: http.StatusBadRequest,
			wantMsg:    "title is required",
		},
		{
			name:       "not found",
			err:        NewNotFound("ticket", nil),
			wantCode:   "NOT_FOUND",
			wantStatus: http.StatusNotFound,
			wantMsg:    "ticket not found",
		},
		{
			name:       "method not allowed",
			err:        NewMethodNotAllowed("DELETE", "/tickets/abc"),
			wantCode:   "METHOD_NOT_ALLOWED",
			wantStatus: http.StatusMethodNotAllowed,
			wantMsg:    "DELETE is not supported on /tickets/abc",
		},
		{
			name:       "unavailable",
			err:        NewUnavailable("classification down"),
			wantCode:   "SERVICE_UNAVAILABLE",
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "classification down",
		},
		{
			name:       "internal",
			err:        NewInternalError(errors.New("boom")),
			wantCode:   "INTERNAL_ERROR",
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var domainErr *DomainError
			require.ErrorAs(t, tt.err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
			assert.Equal(t, tt.wantStatus, domainErr.HTTPStatus)
			assert.Equal(t, tt.wantMsg, domainErr.Message)
		})
	}
}

func TestNotFoundDetailsNeverNil(t *testing.T) {
	var domainErr *DomainError
	require.ErrorAs(t, NewNotFound("ticket", nil), &domainErr)
	assert.NotNil(t, domainErr.Details)
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternalError(cause)
	assert.Contains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, cause)
}

func TestToDomainError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("domain error unchanged", func(t *testing.T) {
		original := NewValidationError("bad input", nil)
		mapped := ToDomainError(original)
		assert.Equal(t, "VALIDATION_FAILED", mapped.Code)
		assert.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)
	})

	t.Run("wrapped domain error unwrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("handling request: %w", NewUnavailable("down"))
		mapped := ToDomainError(wrapped)
		assert.Equal(t, "SERVICE_UNAVAILABLE", mapped.Code)
	})

	t.Run("router method mismatch becomes 405", func(t *testing.T) {
		mapped := ToDomainError(fiber.ErrMethodNotAllowed)
		assert.Equal(t, "METHOD_NOT_ALLOWED", mapped.Code)
		assert.Equal(t, http.StatusMethodNotAllowed, mapped.HTTPStatus)
	})

	t.Run("router miss becomes 404", func(t *testing.T) {
		mapped := ToDomainError(fiber.NewError(http.StatusNotFound, "Cannot GET /no-such-path"))
		assert.Equal(t, "NOT_FOUND", mapped.Code)
		assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
	})

	t.Run("other fiber errors stay internal", func(t *testing.T) {
		mapped := ToDomainError(fiber.NewError(http.StatusTeapot, "short and stout"))
		assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
		assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	})

	t.Run("no rows becomes not found", func(t *testing.T) {
		mapped := ToDomainError(pgx.ErrNoRows)
		assert.Equal(t, "NOT_FOUND", mapped.Code)
		assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
	})

	t.Run("wrapped no rows becomes not found", func(t *testing.T) {
		mapped := ToDomainError(fmt.Errorf("loading ticket: %w", pgx.ErrNoRows))
		assert.Equal(t, "NOT_FOUND", mapped.Code)
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		cause := errors.New("connection reset")
		mapped := ToDomainError(cause)
		assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
		assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
		assert.ErrorIs(t, mapped, cause)
	})
}
