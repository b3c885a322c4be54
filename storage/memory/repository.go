// Package memory 提供进程内的聚合根仓储
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"ordering/domain/customer"
	"ordering/domain/entity"
	"ordering/domain/order"
	"ordering/domain/repository"
	"ordering/result"
)

// Repository 以 ID 为键的内存仓储，保存聚合实例本身
type Repository[T entity.IAggregate] struct {
	items map[uuid.UUID]T
	order []uuid.UUID
	mutex sync.RWMutex
}

// NewRepository 创建内存仓储
func NewRepository[T entity.IAggregate]() *Repository[T] {
	return &Repository[T]{items: make(map[uuid.UUID]T)}
}

// NewOrderRepository 订单内存仓储
func NewOrderRepository() *Repository[*order.Order] {
	return NewRepository[*order.Order]()
}

// NewCustomerRepository 客户内存仓储
func NewCustomerRepository() *Repository[*customer.Customer] {
	return NewRepository[*customer.Customer]()
}

// Save 新增或覆盖
func (r *Repository[T]) Save(ctx context.Context, agg T) result.Result[result.Void] {
	return repository.Guard("save", func() result.Result[result.Void] {
		if repository.IsNil(agg) {
			return result.Fail[result.Void](repository.ErrInvalidEntity)
		}
		id := agg.GetID()

		r.mutex.Lock()
		defer r.mutex.Unlock()

		if _, exists := r.items[id]; !exists {
			r.order = append(r.order, id)
		}
		r.items[id] = agg
		return result.OkVoid()
	})
}

// GetByID 不存在时返回 nil 值的成功结果
func (r *Repository[T]) GetByID(ctx context.Context, id uuid.UUID) result.Result[T] {
	return repository.Guard("get", func() result.Result[T] {
		r.mutex.RLock()
		defer r.mutex.RUnlock()
		return result.Ok(r.items[id])
	})
}

// GetAll 按首次保存顺序返回
func (r *Repository[T]) GetAll(ctx context.Context) result.Result[[]T] {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return result.Ok(out)
}

func (r *Repository[T]) Count(ctx context.Context) result.Result[int] {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return result.Ok(len(r.items))
}

// Clear 清空
func (r *Repository[T]) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.items = make(map[uuid.UUID]T)
	r.order = nil
}
