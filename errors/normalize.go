package errors

import (
	"context"
	"database/sql"
	stdErrors "errors"
)

// Normalize 将基础设施层的裸错误规范化为 AppError。
//
// 注意：
//   - 已经是 IError 的错误原样返回；
//   - 未识别的错误包装为 fallback 错误码，保留原始错误作为 cause。
func Normalize(err error, fallback ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(IError); ok {
		return err
	}

	switch {
	case stdErrors.Is(err, sql.ErrNoRows):
		return WrapError(err, ErrCodeNotFound, message)
	case stdErrors.Is(err, context.DeadlineExceeded):
		return WrapError(err, ErrCodeTimeout, message)
	case stdErrors.Is(err, context.Canceled):
		return WrapError(err, ErrCodeTimeout, message)
	}
	return WrapError(err, fallback, message)
}
