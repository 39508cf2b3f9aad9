package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{NewNotFoundError("Contact", "c-1"), http.StatusNotFound, "NOT_FOUND"},
		{NewValidationError("email", "bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{NewUnauthorizedError("nope"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{NewPermissionError("edit", "user"), http.StatusForbidden, "PERMISSION_DENIED"},
		{NewConflictError("Account", "email", "a@b.co"), http.StatusConflict, "CONFLICT"},
		{NewRateLimitError("/api/users/me"), http.StatusTooManyRequests, "RATE_LIMITED"},
		{NewInternalError("boom", nil), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{errors.New("plain"), http.StatusInternalServerError, "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, GetHTTPStatus(tt.err), tt.err.Error())
		assert.Equal(t, tt.code, GetErrorCode(tt.err), tt.err.Error())
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "Contact with ID 'c-1' not found", NewNotFoundError("Contact", "c-1").Error())
	assert.Equal(t, "Upcoming birthdays not found", NewNotFoundError("Upcoming birthdays", "").Error())
	assert.Equal(t, "Account already exists with email='a@b.co'", NewConflictError("Account", "email", "a@b.co").Error())
}

func TestErrorPredicates(t *testing.T) {
	wrapped := NewInternalError("wrap", NewNotFoundError("User", ""))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.True(t, IsUnauthorized(NewUnauthorizedError("")))
}
