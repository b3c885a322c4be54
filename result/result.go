// Package result 提供显式的成功/失败返回值，替代以异常作为控制流。
//
// 预期内的失败（校验失败、仓储失败、投递失败）都以失败的 Result 返回，
// 由调用方决定是否继续传播；对失败结果调用 Value 属于调用方违约，直接 panic。
package result

import (
	"errors"
	"fmt"
)

// ErrInvalidResultState 在失败结果上访问值时 panic 的错误
var ErrInvalidResultState = errors.New("invalid state: cannot access value on failure result")

// Void 无返回值操作的占位类型
type Void = struct{}

// Result 成功值或错误列表二者之一
type Result[T any] struct {
	value T
	errs  []error
	ok    bool
}

// Ok 创建成功结果
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// OkVoid 创建无值的成功结果
func OkVoid() Result[Void] {
	return Result[Void]{ok: true}
}

// Fail 创建失败结果，错误列表会被复制
func Fail[T any](errs ...error) Result[T] {
	copied := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			copied = append(copied, err)
		}
	}
	return Result[T]{errs: copied}
}

// Propagate 将失败结果转换为另一种值类型，保留错误列表
func Propagate[U, T any](r Result[T]) Result[U] {
	if r.ok {
		panic(fmt.Errorf("result: propagate called on success result"))
	}
	return Fail[U](r.errs...)
}

// Map 对成功值做转换，失败结果原样传播
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if !r.ok {
		return Fail[U](r.errs...)
	}
	return Ok(fn(r.value))
}

// FlatMap 对成功值执行返回 Result 的函数
func FlatMap[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if !r.ok {
		return Fail[U](r.errs...)
	}
	return fn(r.value)
}

// IsSuccess 是否成功
func (r Result[T]) IsSuccess() bool { return r.ok }

// IsFailure 是否失败
func (r Result[T]) IsFailure() bool { return !r.ok }

// Value 返回成功值；失败结果上调用会 panic(ErrInvalidResultState)
func (r Result[T]) Value() T {
	if !r.ok {
		panic(ErrInvalidResultState)
	}
	return r.value
}

// ValueOr 返回成功值或默认值
func (r Result[T]) ValueOr(fallback T) T {
	if !r.ok {
		return fallback
	}
	return r.value
}

// Errors 返回错误列表的副本
func (r Result[T]) Errors() []error {
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

// Err 将错误列表合并为单个 error，成功时返回 nil
func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}
	if len(r.errs) == 0 {
		return errors.New("result: failure without errors")
	}
	return errors.Join(r.errs...)
}

func (r Result[T]) String() string {
	if r.ok {
		return fmt.Sprintf("Ok(%v)", r.value)
	}
	return fmt.Sprintf("Fail(%v)", r.errs)
}
