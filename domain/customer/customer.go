// Package customer 客户聚合根
package customer

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"ordering/domain/entity"
	"ordering/domain/repository"
	"ordering/result"
	"ordering/validation"
)

// 字段名
const (
	FieldName  = "name"
	FieldEmail = "email"
)

// NameMinLength 名称最小长度
const NameMinLength = 3

// Customer 客户
type Customer struct {
	entity.Aggregate
	name  string
	email string
}

// Repository 客户仓储端口
type Repository = repository.IRepository[*Customer]

// Create 校验并创建客户，成功时附带 CustomerCreatedEvent
func Create(name, email any) result.Result[*Customer] {
	v := validation.New()
	v.Field(name, FieldName).Required().MinLength(NameMinLength)
	v.Field(email, FieldEmail).Required().Email()

	if r := v.Validate(); r.IsFailure() {
		return result.Propagate[*Customer](r)
	}

	c := &Customer{
		Aggregate: entity.NewAggregate(),
		name:      validation.AsString(name),
		email:     validation.AsString(email),
	}
	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return result.Ok(c)
}

// Load 从持久化数据重建客户，不做校验
func Load(id uuid.UUID, name, email string, createdAt, updatedAt time.Time, deletedAt *time.Time) *Customer {
	return &Customer{
		Aggregate: entity.RestoreAggregate(entity.RestoreEntity(id, createdAt, updatedAt, deletedAt)),
		name:      name,
		email:     email,
	}
}

// FromMap 从 ToMap 的输出重建客户
func FromMap(data map[string]any) result.Result[*Customer] {
	base, err := entity.ParseEntity(data)
	if err != nil {
		return result.Fail[*Customer](err)
	}
	name, err := stringField(data, FieldName)
	if err != nil {
		return result.Fail[*Customer](err)
	}
	email, err := stringField(data, FieldEmail)
	if err != nil {
		return result.Fail[*Customer](err)
	}
	return result.Ok(&Customer{
		Aggregate: entity.RestoreAggregate(base),
		name:      name,
		email:     email,
	})
}

func stringField(data map[string]any, field string) (string, error) {
	switch v := data[field].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", entity.NewFieldError(field, v, nil)
	}
}

func (c *Customer) Name() string  { return c.name }
func (c *Customer) Email() string { return c.email }

// Update 只校验并修改提供的字段，nil、空串与纯空白视为未提供。
// 任一字段不合法时不做任何修改；校验通过后总是刷新 UpdatedAt。
func (c *Customer) Update(name, email *string) result.Result[result.Void] {
	name, email = supplied(name), supplied(email)

	v := validation.New()
	if name != nil {
		v.Field(*name, FieldName).MinLength(NameMinLength)
	}
	if email != nil {
		v.Field(*email, FieldEmail).Email()
	}
	if r := v.Validate(); r.IsFailure() {
		return result.Propagate[result.Void](r)
	}

	if name != nil {
		c.name = *name
	}
	if email != nil {
		c.email = *email
	}
	c.Touch()
	return result.OkVoid()
}

func supplied(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}

// ToMap 序列化
func (c *Customer) ToMap() map[string]any {
	data := c.EntityMap()
	data[FieldName] = c.name
	data[FieldEmail] = c.email
	return data
}
