package ordering

import (
	"reflect"
	"time"

	"ordering/domain/customer"
	"ordering/domain/order"
)

// CreateOrderInput 创建订单输入，字段保留原始类型交由领域校验
type CreateOrderInput struct {
	CustomerID any `json:"customer_id"`
	Total      any `json:"total"`
}

// CreateOrderInputFromMap 缺失或为零值的键视为未提供（nil）
func CreateOrderInputFromMap(data map[string]any) CreateOrderInput {
	return CreateOrderInput{
		CustomerID: present(data, order.FieldCustomerID),
		Total:      present(data, order.FieldTotal),
	}
}

// UpdateOrderTotalInput 修改订单金额输入
type UpdateOrderTotalInput struct {
	ID    string `json:"id"`
	Total any    `json:"total"`
}

// CreateCustomerInput 创建客户输入
type CreateCustomerInput struct {
	Name  any `json:"name"`
	Email any `json:"email"`
}

// CreateCustomerInputFromMap 缺失或为零值的键视为未提供（nil）
func CreateCustomerInputFromMap(data map[string]any) CreateCustomerInput {
	return CreateCustomerInput{
		Name:  present(data, customer.FieldName),
		Email: present(data, customer.FieldEmail),
	}
}

// UpdateCustomerInput 修改客户输入，nil 字段不修改
type UpdateCustomerInput struct {
	ID    string  `json:"id"`
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// UpdateCustomerInputFromMap 只接受字符串值；非字符串视为未提供
func UpdateCustomerInputFromMap(id string, data map[string]any) UpdateCustomerInput {
	in := UpdateCustomerInput{ID: id}
	if v, ok := data[customer.FieldName].(string); ok {
		in.Name = &v
	}
	if v, ok := data[customer.FieldEmail].(string); ok {
		in.Email = &v
	}
	return in
}

// OrderOutput 订单输出
type OrderOutput struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customer_id"`
	Total      float64    `json:"total"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at"`
}

// NewOrderOutput 由订单构造输出
func NewOrderOutput(o *order.Order) OrderOutput {
	return OrderOutput{
		ID:         o.GetID().String(),
		CustomerID: o.CustomerID().String(),
		Total:      o.Total(),
		CreatedAt:  o.GetCreatedAt(),
		UpdatedAt:  o.GetUpdatedAt(),
		DeletedAt:  o.GetDeletedAt(),
	}
}

// CustomerOutput 客户输出
type CustomerOutput struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

// NewCustomerOutput 由客户构造输出
func NewCustomerOutput(c *customer.Customer) CustomerOutput {
	return CustomerOutput{
		ID:        c.GetID().String(),
		Name:      c.Name(),
		Email:     c.Email(),
		CreatedAt: c.GetCreatedAt(),
		UpdatedAt: c.GetUpdatedAt(),
		DeletedAt: c.GetDeletedAt(),
	}
}

// present 返回 data[key]；缺失、nil、零值、空字符串与空集合返回 nil
func present(data map[string]any, key string) any {
	v, ok := data[key]
	if !ok || v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Map, reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil
		}
	default:
		if rv.IsZero() {
			return nil
		}
	}
	return v
}
