package ordering

import (
	"context"

	"github.com/google/uuid"

	"ordering/domain/order"
	"ordering/logging"
	"ordering/result"
)

const kindOrder = "order"

// CreateOrder 创建订单：校验 → 保存 → 进程内发布事件 → 分发到主题
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) result.Result[OrderOutput] {
	created := order.Create(in.CustomerID, in.Total)
	if created.IsFailure() {
		return result.Propagate[OrderOutput](created)
	}
	o := created.Value()

	if r := persist(ctx, s, s.orders, o); r.IsFailure() {
		return result.Propagate[OrderOutput](r)
	}
	s.logger.Info(ctx, "订单已创建",
		logging.String("order_id", o.GetID().String()),
		logging.String("customer_id", o.CustomerID().String()),
		logging.Float64("total", o.Total()))
	return result.Ok(NewOrderOutput(o))
}

// GetOrder 查询订单，已软删除的订单视为不存在
func (s *Service) GetOrder(ctx context.Context, id string) result.Result[OrderOutput] {
	return result.Map(s.findOrder(ctx, id, false), NewOrderOutput)
}

// UpdateOrderTotal 修改订单金额
func (s *Service) UpdateOrderTotal(ctx context.Context, in UpdateOrderTotalInput) result.Result[OrderOutput] {
	found := s.findOrder(ctx, in.ID, false)
	if found.IsFailure() {
		return result.Propagate[OrderOutput](found)
	}
	o := found.Value()

	if r := o.UpdateTotal(in.Total); r.IsFailure() {
		return result.Propagate[OrderOutput](r)
	}
	if r := persist(ctx, s, s.orders, o); r.IsFailure() {
		return result.Propagate[OrderOutput](r)
	}
	return result.Ok(NewOrderOutput(o))
}

// DeleteOrder 软删除订单；重复删除成功且保留首次删除时间
func (s *Service) DeleteOrder(ctx context.Context, id string) result.Result[OrderOutput] {
	found := s.findOrder(ctx, id, true)
	if found.IsFailure() {
		return result.Propagate[OrderOutput](found)
	}
	o := found.Value()
	if o.IsDeleted() {
		return result.Ok(NewOrderOutput(o))
	}

	o.Delete()
	if r := persist(ctx, s, s.orders, o); r.IsFailure() {
		return result.Propagate[OrderOutput](r)
	}
	s.logger.Info(ctx, "订单已删除", logging.String("order_id", o.GetID().String()))
	return result.Ok(NewOrderOutput(o))
}

func (s *Service) findOrder(ctx context.Context, rawID string, includeDeleted bool) result.Result[*order.Order] {
	return result.FlatMap(parseID(rawID), func(id uuid.UUID) result.Result[*order.Order] {
		return load(ctx, s.orders, kindOrder, id, includeDeleted)
	})
}
