package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "Airport not found"},
			want: "Airport not found",
		},
		{
			name: "error with cause",
			err:  &AppError{Code: ErrCodeInternal, Message: "failed to load", Cause: errors.New("dial tcp")},
			want: "failed to load: dial tcp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeInternal, "wrapped error")

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "wrapped error"))
}

func TestWrapf(t *testing.T) {
	err := Wrapf(errors.New("boom"), ErrCodeTimeout, "call %s", "/airports/list")
	assert.Equal(t, ErrCodeTimeout, err.Code)
	assert.Equal(t, "call /airports/list", err.Message)
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCode
	}{
		{status: http.StatusBadRequest, want: ErrCodeValidation},
		{status: http.StatusUnauthorized, want: ErrCodeUnauthorized},
		{status: http.StatusForbidden, want: ErrCodeForbidden},
		{status: http.StatusNotFound, want: ErrCodeNotFound},
		{status: http.StatusConflict, want: ErrCodeConflict},
		{status: http.StatusTooManyRequests, want: ErrCodeRateLimited},
		{status: http.StatusGatewayTimeout, want: ErrCodeTimeout},
		{status: http.StatusInternalServerError, want: ErrCodeInternal},
		{status: http.StatusTeapot, want: ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := FromStatus(tt.status, "Airport code already exists")
			assert.Equal(t, tt.want, err.Code)
			assert.Equal(t, tt.status, err.Status)
			assert.Equal(t, "Airport code already exists", err.Message)
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("x")))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(fmt.Errorf("outer: %w", Forbidden("x"))))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ValidationField("code", "x")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Flight not found", UserMessage(NotFound("Flight not found"), "fallback"))
	assert.Equal(t, "Flight not found", UserMessage(fmt.Errorf("get flight: %w", NotFound("Flight not found")), "fallback"))
	assert.Equal(t, "fallback", UserMessage(errors.New("connection refused"), "fallback"))
	assert.Equal(t, "fallback", UserMessage(&AppError{Code: ErrCodeInternal}, "fallback"))
	assert.Equal(t, "fallback", UserMessage(nil, "fallback"))
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(error) bool
		hit  error
	}{
		{name: "not found", fn: IsNotFound, hit: NotFoundf("flight %d not found", 3)},
		{name: "conflict", fn: IsConflict, hit: Conflict("dup")},
		{name: "validation", fn: IsValidation, hit: Validationf("bad %s", "code")},
		{name: "unauthorized", fn: IsUnauthorized, hit: Unauthorized("login")},
		{name: "forbidden", fn: IsForbidden, hit: Forbidden("nope")},
		{name: "timeout", fn: IsTimeout, hit: &AppError{Code: ErrCodeTimeout}},
		{name: "canceled", fn: IsCanceled, hit: &AppError{Code: ErrCodeCanceled}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.fn(tt.hit))
			assert.True(t, tt.fn(fmt.Errorf("wrapped: %w", tt.hit)))
			assert.False(t, tt.fn(Internal("other")))
			assert.False(t, tt.fn(errors.New("standard")))
			assert.False(t, tt.fn(nil))
		})
	}
}

func TestGetCodeAndField(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, GetCode(NotFound("x")))
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("x")))
	assert.Equal(t, ErrorCode(""), GetCode(nil))

	assert.Equal(t, "email", GetField(ValidationField("email", "invalid")))
	assert.Equal(t, "", GetField(NotFound("x")))
	assert.Equal(t, "", GetField(nil))
}
