// Package retry 指数退避重试
package retry

import (
	"context"
	stderrors "errors"
	"math"
	"time"
)

// Operation 可重试的操作
type Operation func(ctx context.Context) error

// OperationWithInfo 接收当前尝试次数（从 1 开始）的操作
type OperationWithInfo func(ctx context.Context, attempt int) error

// Config 重试配置
type Config struct {
	MaxAttempts   int           // 最大尝试次数（包括首次）
	InitialDelay  time.Duration // 初始退避延迟
	BackoffFactor float64       // 退避倍数
	MaxDelay      time.Duration // 最大延迟，0 表示不限制
}

// DefaultConfig 默认 3 次尝试，初始延迟 10ms，倍数 2，上限 1s
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   3,
		InitialDelay:  10 * time.Millisecond,
		BackoffFactor: 2.0,
		MaxDelay:      time.Second,
	}
}

// Delay 第 attempt 次失败后的等待时间
func (c Config) Delay(attempt int) time.Duration {
	factor := c.BackoffFactor
	if factor < 1 {
		factor = 1
	}
	delay := time.Duration(float64(c.InitialDelay) * math.Pow(factor, float64(attempt-1)))
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent 标记不应重试的错误；Do 返回时已解包
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do 执行带重试的操作，返回最后一次错误
//
//	err := retry.Do(ctx, func(ctx context.Context) error {
//	    return transport.Publish(ctx, msg)
//	}, retry.DefaultConfig())
func Do(ctx context.Context, op Operation, cfg Config) error {
	return DoWithInfo(ctx, func(ctx context.Context, _ int) error { return op(ctx) }, cfg)
}

// DoWithInfo 同 Do，操作可获知尝试次数
func DoWithInfo(ctx context.Context, op OperationWithInfo, cfg Config) error {
	attempts := max(cfg.MaxAttempts, 1)
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx, attempt)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if stderrors.As(err, &perm) {
			return perm.err
		}
		lastErr = err

		if attempt < attempts {
			select {
			case <-time.After(cfg.Delay(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}
