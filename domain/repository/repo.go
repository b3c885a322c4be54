// Package repository 定义聚合根仓储端口
//
// 仓储实现不得 panic 或向调用方抛出底层错误：失败统一以失败的 Result 返回。
package repository

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"ordering/domain/entity"
	"ordering/result"
)

// IRepository 聚合根仓储
type IRepository[T entity.IAggregate] interface {
	// Save 新增或覆盖保存
	Save(ctx context.Context, agg T) result.Result[result.Void]

	// GetByID 按 ID 查询，不存在时返回值为零值（nil）的成功结果
	GetByID(ctx context.Context, id uuid.UUID) result.Result[T]
}

// IQueryRepository 支持全量查询的仓储
type IQueryRepository[T entity.IAggregate] interface {
	IRepository[T]

	// GetAll 返回全部聚合（包括软删除的）
	GetAll(ctx context.Context) result.Result[[]T]

	// Count 统计总数
	Count(ctx context.Context) result.Result[int]
}

// Guard 执行仓储操作，将 panic 转换为失败结果
func Guard[T any](op string, fn func() result.Result[T]) (r result.Result[T]) {
	defer func() {
		if rec := recover(); rec != nil {
			r = result.Fail[T](NewRecoveredError(op, rec))
		}
	}()
	return fn()
}

// IsNil 判断泛型聚合值是否为 nil（含带类型的 nil 指针）
func IsNil[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
