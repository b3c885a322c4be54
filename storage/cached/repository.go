// Package cached 为仓储增加读缓存
package cached

import (
	"context"

	"github.com/google/uuid"

	"ordering/cache"
	"ordering/domain/entity"
	"ordering/domain/repository"
	"ordering/result"
)

// Repository 读穿透缓存装饰器：保存成功后写入缓存，查询优先读缓存。
// 不存在的 ID 不缓存。保存失败时移除缓存条目，聚合可能已被原地修改。
type Repository[T entity.IAggregate] struct {
	inner repository.IRepository[T]
	cache *cache.Cache[uuid.UUID, T]
}

// New 包装仓储
func New[T entity.IAggregate](inner repository.IRepository[T], c *cache.Cache[uuid.UUID, T]) *Repository[T] {
	return &Repository[T]{inner: inner, cache: c}
}

func (r *Repository[T]) Save(ctx context.Context, agg T) result.Result[result.Void] {
	res := r.inner.Save(ctx, agg)
	if repository.IsNil(agg) {
		return res
	}
	if res.IsFailure() {
		r.cache.Delete(agg.GetID())
		return res
	}
	r.cache.Set(agg.GetID(), agg)
	return res
}

func (r *Repository[T]) GetByID(ctx context.Context, id uuid.UUID) result.Result[T] {
	if agg, ok := r.cache.Get(id); ok {
		return result.Ok(agg)
	}
	res := r.inner.GetByID(ctx, id)
	if res.IsSuccess() && !repository.IsNil(res.Value()) {
		r.cache.Set(id, res.Value())
	}
	return res
}

// Invalidate 移除缓存条目
func (r *Repository[T]) Invalidate(id uuid.UUID) {
	r.cache.Delete(id)
}

// Stats 缓存统计
func (r *Repository[T]) Stats() cache.Stats {
	return r.cache.Stats()
}
