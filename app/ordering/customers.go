package ordering

import (
	"context"

	"github.com/google/uuid"

	"ordering/domain/customer"
	"ordering/logging"
	"ordering/result"
)

const kindCustomer = "customer"

// CreateCustomer 创建客户
func (s *Service) CreateCustomer(ctx context.Context, in CreateCustomerInput) result.Result[CustomerOutput] {
	created := customer.Create(in.Name, in.Email)
	if created.IsFailure() {
		return result.Propagate[CustomerOutput](created)
	}
	c := created.Value()

	if r := persist(ctx, s, s.customers, c); r.IsFailure() {
		return result.Propagate[CustomerOutput](r)
	}
	s.logger.Info(ctx, "客户已创建", logging.String("customer_id", c.GetID().String()))
	return result.Ok(NewCustomerOutput(c))
}

// GetCustomer 查询客户
func (s *Service) GetCustomer(ctx context.Context, id string) result.Result[CustomerOutput] {
	return result.Map(s.findCustomer(ctx, id), NewCustomerOutput)
}

// UpdateCustomer 修改客户；未提供字段时只刷新 UpdatedAt 并保存
func (s *Service) UpdateCustomer(ctx context.Context, in UpdateCustomerInput) result.Result[CustomerOutput] {
	found := s.findCustomer(ctx, in.ID)
	if found.IsFailure() {
		return result.Propagate[CustomerOutput](found)
	}
	c := found.Value()

	if r := c.Update(in.Name, in.Email); r.IsFailure() {
		return result.Propagate[CustomerOutput](r)
	}
	if r := persist(ctx, s, s.customers, c); r.IsFailure() {
		return result.Propagate[CustomerOutput](r)
	}
	return result.Ok(NewCustomerOutput(c))
}

func (s *Service) findCustomer(ctx context.Context, rawID string) result.Result[*customer.Customer] {
	return result.FlatMap(parseID(rawID), func(id uuid.UUID) result.Result[*customer.Customer] {
		return load(ctx, s.customers, kindCustomer, id, false)
	})
}
