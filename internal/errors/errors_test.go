package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorIncludesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrCodeInternal, "database error")

	assert.Equal(t, "database error: connection refused", err.Error())

	bare := Internal("database error")
	assert.Equal(t, "database error", bare.Error())
}

func TestAppError_UnwrapPreservesCause(t *testing.T) {
	cause := stderrors.New("underlying")
	err := Wrap(cause, ErrCodeConflict, "wrapped")

	assert.True(t, stderrors.Is(err, cause))
}

func TestWrap_NilErrorReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
}

func TestCodePredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("missing")))
	assert.True(t, IsConflict(Conflict("dup")))
	assert.True(t, IsValidation(Validation("bad")))
	assert.False(t, IsConflict(NotFound("missing")))
	assert.False(t, IsNotFound(stderrors.New("plain")))
}

func TestCodePredicates_SeeThroughWrapping(t *testing.T) {
	inner := Conflict("dup")
	outer := fmt.Errorf("insert batch: %w", inner)

	assert.True(t, IsConflict(outer))
	assert.Equal(t, ErrCodeConflict, GetCode(outer))
}

func TestGetCodeAndField(t *testing.T) {
	err := &AppError{Code: ErrCodeValidation, Message: "bad", Field: "metric"}

	assert.Equal(t, ErrCodeValidation, GetCode(err))
	assert.Equal(t, "metric", GetField(err))

	plain := stderrors.New("plain")
	assert.Equal(t, ErrorCode(""), GetCode(plain))
	assert.Empty(t, GetField(plain))
}

func TestAppError_AsTarget(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Validation("invalid input"))

	var appErr *AppError
	require.True(t, stderrors.As(wrapped, &appErr))
	assert.Equal(t, ErrCodeValidation, appErr.Code)
}
