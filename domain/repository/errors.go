package repository

import (
	"fmt"

	"github.com/google/uuid"

	"ordering/errors"
)

// 仓储错误码
const (
	CodeEntityNotFound   = "ENTITY_NOT_FOUND"
	CodeInvalidEntity    = "INVALID_ENTITY"
	CodeRepositoryFailed = "REPOSITORY_FAILED"
)

// 常见错误
var (
	ErrEntityNotFound   = &RepositoryError{Code: CodeEntityNotFound, Message: "entity not found"}
	ErrInvalidEntity    = &RepositoryError{Code: CodeInvalidEntity, Message: "aggregate must not be nil"}
	ErrRepositoryFailed = &RepositoryError{Code: CodeRepositoryFailed, Message: "repository operation failed"}
)

// RepositoryError 仓储错误
type RepositoryError struct {
	Code     string
	Message  string
	EntityID uuid.UUID
	Cause    error
}

func (e *RepositoryError) Error() string {
	msg := e.Message
	if e.EntityID != uuid.Nil {
		msg = fmt.Sprintf("%s (id=%s)", msg, e.EntityID)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *RepositoryError) Unwrap() error {
	return e.Cause
}

// Is 按错误码匹配
func (e *RepositoryError) Is(target error) bool {
	t, ok := target.(*RepositoryError)
	return ok && t.Code == e.Code
}

// NewRepositoryError 包装底层失败
func NewRepositoryError(op string, id uuid.UUID, cause error) *RepositoryError {
	return &RepositoryError{
		Code:     CodeRepositoryFailed,
		Message:  op + " failed",
		EntityID: id,
		Cause:    errors.Normalize(cause, errors.ErrCodeDatabase, op),
	}
}

// NewRecoveredError 将 recover 得到的值转换为仓储错误
func NewRecoveredError(op string, rec any) *RepositoryError {
	return &RepositoryError{
		Code:    CodeRepositoryFailed,
		Message: op + " panicked",
		Cause:   errors.Recovered(rec, errors.ErrCodeInternal, op),
	}
}

// NewNotFoundError 聚合不存在，底层为 NOT_FOUND 的 AppError
func NewNotFoundError(kind string, id uuid.UUID) *RepositoryError {
	return &RepositoryError{
		Code:     CodeEntityNotFound,
		Message:  kind + " not found",
		EntityID: id,
		Cause:    errors.NewError(errors.ErrCodeNotFound, kind+" not found").WithContext("id", id.String()),
	}
}
