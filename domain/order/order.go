// Package order 订单聚合根
package order

import (
	"time"

	"github.com/google/uuid"

	"ordering/domain/entity"
	"ordering/domain/repository"
	"ordering/result"
	"ordering/validation"
)

// 字段名
const (
	FieldCustomerID = "customer_id"
	FieldTotal      = "total"
)

// Order 订单
type Order struct {
	entity.Aggregate
	customerID uuid.UUID
	total      float64
}

// Repository 订单仓储端口
type Repository = repository.IRepository[*Order]

// Create 校验并创建订单，成功时附带 OrderCreatedEvent。
// total 与 customer_id 的错误全部收集后一并返回。
func Create(customerID any, total any) result.Result[*Order] {
	v := validation.New()
	v.Field(total, FieldTotal).Required().Currency()
	v.Field(customerID, FieldCustomerID).Required().UUID()

	if r := v.Validate(); r.IsFailure() {
		return result.Propagate[*Order](r)
	}

	id, _ := validation.AsUUID(customerID)
	amount, _ := validation.AsFloat64(total)
	o := &Order{
		Aggregate:  entity.NewAggregate(),
		customerID: id,
		total:      amount,
	}
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return result.Ok(o)
}

// Load 从持久化数据重建订单，不做校验，不产生事件
func Load(id, customerID uuid.UUID, total float64, createdAt, updatedAt time.Time, deletedAt *time.Time) *Order {
	return &Order{
		Aggregate:  entity.RestoreAggregate(entity.RestoreEntity(id, createdAt, updatedAt, deletedAt)),
		customerID: customerID,
		total:      total,
	}
}

// FromMap 从 ToMap 的输出重建订单
func FromMap(data map[string]any) result.Result[*Order] {
	base, err := entity.ParseEntity(data)
	if err != nil {
		return result.Fail[*Order](err)
	}
	customerID, err := entity.ParseUUID(data[FieldCustomerID], FieldCustomerID)
	if err != nil {
		return result.Fail[*Order](err)
	}
	var total float64
	if raw := data[FieldTotal]; raw != nil {
		amount, ok := validation.AsFloat64(raw)
		if !ok {
			return result.Fail[*Order](entity.NewFieldError(FieldTotal, raw, nil))
		}
		total = amount
	}
	return result.Ok(&Order{
		Aggregate:  entity.RestoreAggregate(base),
		customerID: customerID,
		total:      total,
	})
}

func (o *Order) CustomerID() uuid.UUID { return o.customerID }
func (o *Order) Total() float64        { return o.total }

// UpdateTotal 校验并修改金额，刷新更新时间
func (o *Order) UpdateTotal(total any) result.Result[result.Void] {
	v := validation.New()
	v.Field(total, FieldTotal).Required().Currency()
	if r := v.Validate(); r.IsFailure() {
		return result.Propagate[result.Void](r)
	}

	amount, _ := validation.AsFloat64(total)
	o.total = amount
	o.Touch()
	return result.OkVoid()
}

// ToMap 序列化
func (o *Order) ToMap() map[string]any {
	data := o.EntityMap()
	data[FieldCustomerID] = o.customerID.String()
	data[FieldTotal] = o.total
	return data
}
