package errors

import (
	"context"
	"fmt"
	"runtime"

	"ordering/logging"
)

// Wrap 包装错误，添加错误码并以 Debug 级别记录调用位置
func Wrap(ctx context.Context, err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}

	_, file, line, _ := runtime.Caller(1)
	wrapped := WrapError(err, code, msg)
	logging.GetLogger().Debug(ctx, "error wrapped",
		logging.String("message", msg),
		logging.String("location", fmt.Sprintf("%s:%d", file, line)))

	return wrapped
}

// WrapWithLog 包装错误并记录警告日志
// 用于需要在基础设施边界立即记录的错误（如仓储、消息投递失败）
func WrapWithLog(ctx context.Context, logger logging.Logger, err error, code ErrorCode, msg string, fields ...logging.Field) error {
	if err == nil {
		return nil
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	_, file, line, _ := runtime.Caller(1)
	wrapped := WrapError(err, code, msg)

	allFields := append([]logging.Field{
		logging.Error(err),
		logging.String("error_code", string(code)),
		logging.String("location", fmt.Sprintf("%s:%d", file, line)),
	}, fields...)
	logger.Warn(ctx, msg, allFields...)

	return wrapped
}

// Recovered 将 recover() 得到的值转换为 AppError
func Recovered(r any, code ErrorCode, msg string) IError {
	if err, ok := r.(error); ok {
		return WrapError(err, code, msg)
	}
	return WrapError(fmt.Errorf("panic: %v", r), code, msg)
}
