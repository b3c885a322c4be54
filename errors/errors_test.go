package errors

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAppError_Error 测试错误消息格式
func TestAppError_Error(t *testing.T) {
	err := NewError(ErrCodeNotFound, "order not found")
	assert.Equal(t, "[NOT_FOUND] order not found", err.Error())

	cause := stdErrors.New("disk full")
	wrapped := WrapError(cause, ErrCodeDatabase, "save order")
	assert.Equal(t, "[DATABASE_ERROR] save order: disk full", wrapped.Error())
	assert.True(t, stdErrors.Is(wrapped, cause))
}

func TestWrapError_Nil(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrCodeInternal, "noop"))
	assert.Nil(t, Wrap(context.Background(), nil, ErrCodeInternal, "noop"))
	assert.Nil(t, WrapWithLog(context.Background(), nil, nil, ErrCodeInternal, "noop"))
}

// TestAppError_Is 同错误码视为同类错误
func TestAppError_Is(t *testing.T) {
	err := Errorf(ErrCodeNotFound, "order %s not found", "x")
	assert.True(t, stdErrors.Is(err, ErrNotFound))
	assert.False(t, stdErrors.Is(err, ErrDatabase))

	outer := fmt.Errorf("use case: %w", err)
	assert.True(t, IsNotFound(outer))
	assert.Equal(t, ErrCodeNotFound, GetErrorCode(outer))
	assert.Equal(t, ErrCodeInternal, GetErrorCode(stdErrors.New("plain")))
	assert.Equal(t, ErrorCode(""), GetErrorCode(nil))
}

func TestAppError_WithContext(t *testing.T) {
	base := NewError(ErrCodeQueue, "publish failed")
	withTopic := base.WithContext("topic", "order-events")

	assert.Equal(t, "order-events", withTopic.Details()["topic"])
	assert.Empty(t, base.Details(), "原错误不应被修改")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "no rows", err: sql.ErrNoRows, want: ErrCodeNotFound},
		{name: "deadline", err: context.DeadlineExceeded, want: ErrCodeTimeout},
		{name: "unknown", err: stdErrors.New("boom"), want: ErrCodeDatabase},
		{name: "already app error", err: NewError(ErrCodeConflict, "dup"), want: ErrCodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.err, ErrCodeDatabase, "query")
			require.Error(t, got)
			assert.Equal(t, tt.want, GetErrorCode(got))
		})
	}
	assert.Nil(t, Normalize(nil, ErrCodeDatabase, "query"))
}

func TestRecovered(t *testing.T) {
	err := Recovered("bad state", ErrCodeInternal, "handler panicked")
	assert.Equal(t, ErrCodeInternal, err.Code())
	assert.Contains(t, err.Error(), "panic: bad state")

	cause := stdErrors.New("nil map")
	err = Recovered(cause, ErrCodeInternal, "handler panicked")
	assert.True(t, stdErrors.Is(err, cause))
}
